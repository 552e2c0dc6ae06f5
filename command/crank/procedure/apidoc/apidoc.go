// Package apidoc regenerates the API reference page from the doc comments
// of the library crate.
package apidoc

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/utility/code"
	"go.scnd.dev/open/crank/utility/render"
	"go.scnd.dev/open/crank/utility/splice"
	"go.uber.org/zap"
)

const ExitStale = 1

var ErrStale = errors.New("api documentation is out of date")

// Page is the spliced API page and the blocks generated for it.
type Page struct {
	*splice.Edit
	Blocks []string
}

// Markdown is the generated region alone.
func (r *Page) Markdown() string {
	return strings.Join(r.Blocks, "\n")
}

// Parser selects the scraper implementation by name.
func Parser(name string, logger *zap.Logger) code.Parser {
	if name == "syntax" {
		return &code.SyntaxParser{Logger: logger}
	}
	return &code.LexicalParser{Logger: logger}
}

// Absolute resolves paths against root unless already absolute.
func Absolute(root string, paths []string) []string {
	result := make([]string, len(paths))
	for i, path := range paths {
		if filepath.IsAbs(path) {
			result[i] = path
		} else {
			result[i] = filepath.Join(root, path)
		}
	}
	return result
}

// Generate scrapes the API sources and splices the rendered Markdown into the
// target page in memory.
func Generate(ctx context.Context, app crank.Crank) (*Page, error) {
	s, ctx := crank.With(ctx)
	defer s.End()

	config := app.Config().Api
	root := app.Directory()
	logger := app.Logger()

	// * scrape sources
	scraper := code.NewScraper(Parser(*config.Parser, logger), logger, Absolute(root, config.Exclude)...)
	renderer, err := render.New()
	if err != nil {
		return nil, s.Error("unable to prepare renderer", err)
	}
	blocks, err := renderer.Lines(scraper.Describe(ctx, Absolute(root, config.Sources)...))
	if err != nil {
		return nil, s.Error("unable to describe api", err)
	}

	// * splice into page
	edit, err := splice.Prepare(filepath.Join(root, *config.Target), blocks, splice.Markers{
		Begin: *config.Begin,
		End:   *config.End,
	})
	if errors.Is(err, splice.ErrMarkerNotFound) || errors.Is(err, splice.ErrEmptyRegion) {
		return nil, s.Invalid("unable to insert api docs", err)
	}
	if err != nil {
		return nil, s.Error("unable to read api page", err)
	}

	return &Page{
		Edit:   edit,
		Blocks: blocks,
	}, nil
}

// Write regenerates the API page in place.
func Write(ctx context.Context, app crank.Crank) (*Page, error) {
	s, ctx := crank.With(ctx)
	defer s.End()

	page, err := Generate(ctx, app)
	if err != nil {
		return nil, err
	}
	if !page.Changed() {
		s.Logger().Debug("api page up to date", zap.String("path", page.Path))
		return page, nil
	}

	if err := page.Apply(); err != nil {
		return nil, s.Error("unable to write api page", err)
	}

	s.Logger().Info("api page updated", zap.String("path", page.Path))
	return page, nil
}

// Check fails when the API page differs from what would be generated, after
// printing the difference.
func Check(ctx context.Context, app crank.Crank) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	page, err := Generate(ctx, app)
	if err != nil {
		return err
	}
	if !page.Changed() {
		return nil
	}

	relative, err := filepath.Rel(app.Directory(), page.Path)
	if err != nil {
		relative = page.Path
	}
	_, _ = fmt.Fprint(app.Stderr(), splice.Diff(relative, page.Before, page.After))

	return s.Fatal(ExitStale, "api docs need regeneration", ErrStale)
}
