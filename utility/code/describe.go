package code

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// Scraper turns source files matched by glob patterns into modules.
type Scraper struct {
	Parser  Parser
	Exclude []string
	Logger  *zap.Logger
}

func NewScraper(parser Parser, logger *zap.Logger, exclude ...string) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{
		Parser:  parser,
		Exclude: exclude,
		Logger:  logger,
	}
}

// Describe yields one module per matched file, in match order. A mod.rs
// stands for its whole directory: its siblings become submodules and are
// not yielded on their own. A file matched by several patterns is yielded
// once. Globs are expanded per pattern when iteration reaches it, files are
// parsed as they are yielded.
func (r *Scraper) Describe(ctx context.Context, patterns ...string) iter.Seq2[*Module, error] {
	return func(yield func(*Module, error) bool) {
		// * directories represented by an aggregator file
		aggregated := make(map[string]bool)
		seen := make(map[string]bool)

		for _, pattern := range patterns {
			paths, err := r.match(pattern)
			if err != nil {
				yield(nil, err)
				return
			}

			for _, path := range paths {
				if filepath.Base(path) == AggregatorFile {
					aggregated[filepath.Dir(path)] = true
				}
			}

			for _, path := range paths {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return
				}

				if seen[path] {
					continue
				}
				seen[path] = true

				var module *Module
				if filepath.Base(path) == AggregatorFile {
					module, err = r.ParseAggregator(path)
				} else if aggregated[filepath.Dir(path)] {
					continue
				} else {
					module, err = r.ParseFile(path)
				}

				if !yield(module, err) || err != nil {
					return
				}
			}
		}
	}
}

// Collect drains Describe into a slice.
func (r *Scraper) Collect(ctx context.Context, patterns ...string) ([]*Module, error) {
	modules := make([]*Module, 0)
	for module, err := range r.Describe(ctx, patterns...) {
		if err != nil {
			return nil, err
		}
		modules = append(modules, module)
	}
	return modules, nil
}

func (r *Scraper) match(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid source pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		r.Logger.Debug("source pattern matched nothing", zap.String("pattern", pattern))
	}

	paths := make([]string, 0, len(matches))
	for _, match := range matches {
		if r.excluded(match) {
			continue
		}
		paths = append(paths, filepath.Clean(match))
	}
	slices.Sort(paths)

	return paths, nil
}

func (r *Scraper) excluded(path string) bool {
	for _, pattern := range r.Exclude {
		ok, err := doublestar.PathMatch(filepath.Clean(pattern), filepath.Clean(path))
		if err == nil && ok {
			return true
		}
	}
	return false
}

func (r *Scraper) ParseFile(path string) (*Module, error) {
	r.Logger.Info("analyzing module", zap.String("path", path))

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read module %s: %w", path, err)
	}

	module, err := r.Parser.Parse(path, content)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("analyzed module",
		zap.String("module", module.Name),
		zap.Int("functions", len(module.Functions)),
	)
	return module, nil
}

// ParseAggregator parses a mod.rs together with the sibling files of its
// directory as submodules.
func (r *Scraper) ParseAggregator(path string) (*Module, error) {
	module, err := r.ParseFile(path)
	if err != nil {
		return nil, err
	}

	directory := filepath.Dir(path)
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("unable to list module directory %s: %w", directory, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == AggregatorFile || !strings.HasSuffix(name, SourceExtension) {
			continue
		}
		sibling := filepath.Join(directory, name)
		if r.excluded(sibling) {
			continue
		}
		submodule, err := r.ParseFile(sibling)
		if err != nil {
			return nil, err
		}
		module.Submodules = append(module.Submodules, submodule)
	}

	r.Logger.Info("aggregated module",
		zap.String("module", module.Name),
		zap.Int("submodules", len(module.Submodules)),
	)
	return module, nil
}
