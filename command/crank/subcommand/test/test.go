package test

import (
	"context"

	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/command/crank/app"
	"go.scnd.dev/open/crank/command/crank/procedure/cargo"
)

type Command struct {
	All *AllCommand `cmd:"" default:"1" help:"Execute the project's tests."`
	Bin *BinCommand `cmd:"" help:"Execute the binary crate's tests."`
	Lib *LibCommand `cmd:"" help:"Execute the library crate's tests."`
}

type AllCommand struct{}

type BinCommand struct{}

type LibCommand struct{}

func (r *AllCommand) Run(app *app.App) error {
	return All(app.Context, app.Crank)
}

func (r *BinCommand) Run(app *app.App) error {
	return Crate(app.Context, app.Crank, *app.Crank.Config().Crates.Bin)
}

func (r *LibCommand) Run(app *app.App) error {
	return Crate(app.Context, app.Crank, *app.Crank.Config().Crates.Lib)
}

// All tests the library crate, then the binary crate.
func All(ctx context.Context, app crank.Crank) error {
	if err := Crate(ctx, app, *app.Config().Crates.Lib); err != nil {
		return err
	}
	return Crate(ctx, app, *app.Config().Crates.Bin)
}

func Crate(ctx context.Context, app crank.Crank, crate string) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	if err := cargo.Run(ctx, app, "test", crate, "--no-fail-fast"); err != nil {
		return s.Error("tests failed", err)
	}
	return nil
}
