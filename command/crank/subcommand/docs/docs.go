package docs

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/command/crank/app"
	"go.scnd.dev/open/crank/command/crank/procedure/apidoc"
	"go.scnd.dev/open/crank/command/crank/procedure/watch"
	"go.scnd.dev/open/crank/utility/code"
	"go.scnd.dev/open/crank/utility/render"
	"go.uber.org/zap"
)

const PreviewWidth = 100

type Command struct {
	Api   *ApiCommand   `cmd:"" help:"Regenerate the API reference page from the library sources."`
	Serve *ServeCommand `cmd:"" help:"Serve the documentation with live reload while watching the API sources."`
}

type ApiCommand struct {
	Check bool `help:"Fail when the API page is out of date instead of writing it."`
	Print bool `help:"Render the generated API reference to the terminal."`
}

type ServeCommand struct {
	Port   int  `help:"Port of the development server." default:"8000"`
	Reload bool `help:"Reload the browser on changes." default:"true" negatable:""`
}

func (r *ApiCommand) Run(app *app.App) error {
	return Api(app.Context, app.Crank, r.Check, r.Print)
}

func (r *ServeCommand) Run(app *app.App) error {
	return Serve(app.Context, app.Crank, r.Port, r.Reload)
}

// Api regenerates or checks the API page, optionally previewing it.
func Api(ctx context.Context, app crank.Crank, check bool, preview bool) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	var page *apidoc.Page
	var err error
	if check {
		err = apidoc.Check(ctx, app)
		if err == nil && preview {
			page, err = apidoc.Generate(ctx, app)
		}
	} else {
		page, err = apidoc.Write(ctx, app)
	}
	if err != nil {
		return err
	}

	if preview {
		output, err := render.Terminal(page.Markdown(), PreviewWidth)
		if err != nil {
			return s.Error("unable to render api preview", err)
		}
		_, _ = fmt.Fprint(app.Stdout(), output)
	}

	return nil
}

// ServeArgs builds the mkdocs serve arguments.
func ServeArgs(port int, reload bool, verbose bool) []string {
	args := []string{"--dev-addr", "127.0.0.1:" + strconv.Itoa(port)}
	if reload {
		args = append(args, "--livereload")
	} else {
		args = append(args, "--no-livereload")
	}
	if verbose {
		args = append(args, "--verbose")
	}
	return args
}

// Serve runs the mkdocs development server, regenerating the API page
// whenever the library sources change, until ctx is cancelled.
func Serve(ctx context.Context, app crank.Crank, port int, reload bool) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	if _, err := apidoc.Write(ctx, app); err != nil {
		return err
	}

	// * watch api sources
	regenerate := func(ctx context.Context, paths []string) {
		s.Logger().Info("api sources changed", zap.Strings("paths", paths))
		if _, err := apidoc.Write(ctx, app); err != nil {
			s.Logger().Warn("unable to regenerate api docs", zap.Error(err))
		}
	}
	roots := make([]string, 0)
	for _, root := range watch.Roots(apidoc.Absolute(app.Directory(), app.Config().Api.Sources)) {
		if _, err := os.Stat(root); err != nil {
			s.Logger().Warn("api source directory missing", zap.String("path", root))
			continue
		}
		roots = append(roots, root)
	}
	watcher, err := watch.New(s.Logger(), code.SourceExtension, regenerate, roots...)
	if err != nil {
		return s.Error("unable to watch api sources", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	var group sync.WaitGroup
	group.Add(1)
	go func() {
		defer group.Done()
		_ = watcher.Run(ctx)
	}()
	defer func() {
		cancel()
		group.Wait()
	}()

	// * serve until interrupted
	result, err := app.Mkdocs().Run(ctx, "serve", ServeArgs(port, reload, app.Verbose()))
	if err != nil {
		return s.Fatal(1, "unable to run mkdocs", err)
	}
	if ctx.Err() != nil {
		return nil
	}
	if err := result.Err(); err != nil {
		return s.Error("mkdocs serve failed", err)
	}

	return nil
}
