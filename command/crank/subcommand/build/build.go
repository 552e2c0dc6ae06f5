package build

import (
	"context"
	"errors"

	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/command/crank/app"
	"go.scnd.dev/open/crank/command/crank/procedure/apidoc"
	"go.scnd.dev/open/crank/command/crank/procedure/cargo"
	"go.scnd.dev/open/crank/command/crank/procedure/site"
	"go.scnd.dev/open/crank/command/crank/procedure/usage"
	"go.uber.org/zap"
)

const ExitDocs = 1

type Command struct {
	Release bool `help:"Whether to build artifacts in release mode."`

	All  *AllCommand  `cmd:"" default:"1" help:"Build the project."`
	Bin  *BinCommand  `cmd:"" help:"Build the binary crate."`
	Lib  *LibCommand  `cmd:"" help:"Build the library crate."`
	Docs *DocsCommand `cmd:"" help:"Build the project documentation."`
}

type AllCommand struct{}

type BinCommand struct{}

type LibCommand struct{}

type DocsCommand struct{}

func (r *AllCommand) Run(app *app.App, parent *Command) error {
	// * the binary crate depends on the library, which gets rebuilt with it
	if err := Bin(app.Context, app.Crank, parent.Release); err != nil {
		return err
	}
	if _, err := Docs(app.Context, app.Crank, parent.Release); err != nil {
		return err
	}

	app.Done("Build finished.")
	return nil
}

func (r *BinCommand) Run(app *app.App, parent *Command) error {
	return Bin(app.Context, app.Crank, parent.Release)
}

func (r *LibCommand) Run(app *app.App, parent *Command) error {
	return Lib(app.Context, app.Crank, parent.Release)
}

func (r *DocsCommand) Run(app *app.App, parent *Command) error {
	_, err := Docs(app.Context, app.Crank, parent.Release)
	return err
}

// Bin builds the binary crate and refreshes the usage section of the README.
func Bin(ctx context.Context, app crank.Crank, release bool) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	if err := cargo.Ensure(ctx, app); err != nil {
		return err
	}
	if err := cargo.Run(ctx, app, "build", *app.Config().Crates.Bin, cargo.Flags(release, app.Verbose())...); err != nil {
		return s.Error("unable to build binary crate", err)
	}
	if err := usage.Inline(ctx, app); err != nil {
		return s.Error("unable to update readme", err)
	}

	return nil
}

func Lib(ctx context.Context, app crank.Crank, release bool) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	if err := cargo.Ensure(ctx, app); err != nil {
		return err
	}
	if err := cargo.Run(ctx, app, "build", *app.Config().Crates.Lib, cargo.Flags(release, app.Verbose())...); err != nil {
		return s.Error("unable to build library crate", err)
	}

	return nil
}

// Docs regenerates the API page, builds the site and cleans its output. It
// returns the mkdocs configuration of the built site.
func Docs(ctx context.Context, app crank.Crank, release bool) (*site.Config, error) {
	s, ctx := crank.With(ctx)
	defer s.End()

	// * locate the site
	config, err := site.ReadConfig(app.Directory())
	if errors.Is(err, site.ErrConfigNotFound) {
		return nil, s.Fatal(ExitDocs, "is it the project's root directory?", err)
	}
	if err != nil {
		return nil, s.Error("unable to read mkdocs config", err)
	}

	// * describe the api into its page
	if _, err := apidoc.Write(ctx, app); err != nil {
		return nil, err
	}

	// * build the docs in output format
	args := []string{"--strict"}
	if release {
		args = append(args, "--clean")
	}
	if app.Verbose() {
		args = append(args, "--verbose")
	}
	result, err := app.Mkdocs().Run(ctx, "build", args)
	if err != nil {
		return nil, s.Fatal(ExitDocs, "unable to run mkdocs", err)
	}
	if !result.Ok() {
		return nil, s.Fatal(ExitDocs, "mkdocs build failed, aborting", result.Err())
	}

	// * purge html comments carried over from markdown
	pages, err := site.ScrubAll(config.OutputDir())
	if err != nil {
		return nil, s.Error("unable to scrub html comments", err)
	}
	s.Logger().Debug("scrubbed pages", zap.Int("count", len(pages)))

	// * drop files mkdocs copies verbatim
	if release {
		removed, err := site.Ignore(config.SourceDir(), config.OutputDir())
		if err != nil {
			return nil, s.Error("unable to remove ignored files", err)
		}
		for _, path := range removed {
			s.Logger().Info("removed ignored file", zap.String("path", path))
		}
	}

	return config, nil
}
