package clean

import (
	"context"
	"errors"
	"os"

	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/command/crank/app"
	"go.scnd.dev/open/crank/command/crank/procedure/cargo"
	"go.scnd.dev/open/crank/command/crank/procedure/site"
	"go.uber.org/zap"
)

const ExitDocs = 1

type Command struct {
	Release bool `help:"Whether to clean release artifacts."`

	All  *AllCommand  `cmd:"" default:"1" help:"Clean all of the project's build artifacts."`
	Bin  *BinCommand  `cmd:"" help:"Clean the binary crate's build artifacts."`
	Lib  *LibCommand  `cmd:"" help:"Clean the library crate's build artifacts."`
	Docs *DocsCommand `cmd:"" help:"Clean the built documentation."`
}

type AllCommand struct{}

type BinCommand struct{}

type LibCommand struct{}

type DocsCommand struct{}

func (r *AllCommand) Run(app *app.App, parent *Command) error {
	config := app.Crank.Config()
	if err := Crate(app.Context, app.Crank, *config.Crates.Lib, parent.Release); err != nil {
		return err
	}
	if err := Crate(app.Context, app.Crank, *config.Crates.Bin, parent.Release); err != nil {
		return err
	}
	if err := Docs(app.Context, app.Crank); err != nil {
		return err
	}

	app.Done("All cleaned.")
	return nil
}

func (r *BinCommand) Run(app *app.App, parent *Command) error {
	return Crate(app.Context, app.Crank, *app.Crank.Config().Crates.Bin, parent.Release)
}

func (r *LibCommand) Run(app *app.App, parent *Command) error {
	return Crate(app.Context, app.Crank, *app.Crank.Config().Crates.Lib, parent.Release)
}

func (r *DocsCommand) Run(app *app.App) error {
	return Docs(app.Context, app.Crank)
}

func Crate(ctx context.Context, app crank.Crank, crate string, release bool) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	if err := cargo.Run(ctx, app, "clean", crate, cargo.Flags(release, false)...); err != nil {
		return s.Error("unable to clean crate", err)
	}
	return nil
}

// Docs removes the site output directory. Failing to remove it is only
// reported.
func Docs(ctx context.Context, app crank.Crank) error {
	s, _ := crank.With(ctx)
	defer s.End()

	config, err := site.ReadConfig(app.Directory())
	if errors.Is(err, site.ErrConfigNotFound) {
		return s.Fatal(ExitDocs, "is it the project's root directory?", err)
	}
	if err != nil {
		return s.Error("unable to read mkdocs config", err)
	}

	output := config.OutputDir()
	info, err := os.Stat(output)
	if err != nil || !info.IsDir() {
		return nil
	}
	if err := os.RemoveAll(output); err != nil {
		s.Logger().Warn("error while cleaning docs output dir", zap.String("path", output), zap.Error(err))
	}

	return nil
}
