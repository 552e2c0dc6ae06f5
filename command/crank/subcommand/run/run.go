package run

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"time"

	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/command/crank/app"
	"go.scnd.dev/open/crank/command/crank/procedure/browser"
	"go.scnd.dev/open/crank/command/crank/subcommand/build"
	"go.scnd.dev/open/crank/compat/common"
)

type Command struct {
	Bin  *BinCommand  `cmd:"" default:"withargs" help:"Run the binary crate."`
	Docs *DocsCommand `cmd:"" help:"Preview the docs in the default web browser."`
}

type BinCommand struct {
	Args []string `arg:"" optional:"" passthrough:"" help:"Arguments forwarded to the binary."`
}

type DocsCommand struct {
	Serve bool `help:"Serve the site over http instead of opening the files."`
	Port  int  `help:"Port of the preview server." default:"8000"`
}

func (r *BinCommand) Run(app *app.App) error {
	return Bin(app.Context, app.Crank, r.Args)
}

func (r *DocsCommand) Run(app *app.App) error {
	return Docs(app.Context, app.Crank, r.Serve, r.Port)
}

// Bin replaces the current process with cargo running the binary crate.
func Bin(ctx context.Context, app crank.Crank, args []string) error {
	s, _ := crank.With(ctx)
	defer s.End()

	if err := app.Cargo().Exec("run", args, *app.Config().Crates.Bin); err != nil {
		return s.Fatal(127, "unable to run binary crate", err)
	}
	return nil
}

// FileURL returns the file URL of the site index.
func FileURL(outputDir string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(outputDir, "index.html"))}).String()
}

// Docs builds the docs and opens them in the browser, either straight from
// the output directory or through a local server.
func Docs(ctx context.Context, app crank.Crank, serve bool, port int) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	config, err := build.Docs(ctx, app, false)
	if err != nil {
		return err
	}

	if !serve {
		opener := browser.New(0, s.Logger())
		opener.Schedule(ctx, FileURL(config.OutputDir()))
		opener.Wait()
		return nil
	}

	return Serve(ctx, app, config.OutputDir(), port)
}

// Serve previews the site until ctx is cancelled. The browser opens once the
// server had time to start, unless it failed first.
func Serve(ctx context.Context, app crank.Crank, outputDir string, port int) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return s.Error("unable to listen", err)
	}

	delay := time.Second
	if d := app.Config().Browser.Delay; d != nil {
		delay = *d
	}
	opener := browser.New(delay, s.Logger())
	defer opener.Wait()

	target := fmt.Sprintf("http://%s/", listener.Addr().String())
	opener.Schedule(ctx, target)

	if err := common.Serve(ctx, common.Fiber(outputDir), listener, s.Logger()); err != nil {
		opener.Fail()
		return s.Error("preview server failed", err)
	}

	return nil
}
