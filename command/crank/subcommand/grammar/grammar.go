package grammar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/command/crank/app"
	"go.scnd.dev/open/crank/utility/code"
)

// RuleMarker separates a grammar rule's name from its definition.
const RuleMarker = "::=="

type Command struct{}

func (r *Command) Run(app *app.App) error {
	return Print(app.Context, app.Crank, app.Crank.Stdout())
}

// Rules extracts the grammar rules documented in the comments of content.
func Rules(content io.Reader) ([]string, error) {
	var rules []string
	scanner := bufio.NewScanner(content)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, RuleMarker) {
			continue
		}
		rules = append(rules, code.CommentText(line))
	}
	return rules, scanner.Err()
}

// Print writes the grammar rules of every syntax source file to output.
func Print(ctx context.Context, app crank.Crank, output io.Writer) error {
	s, _ := crank.With(ctx)
	defer s.End()

	dir := filepath.Join(app.Directory(), *app.Config().Grammar.Dir)
	paths, err := filepath.Glob(filepath.Join(dir, "*"+code.SourceExtension))
	if err != nil {
		return s.Error("invalid grammar directory", err)
	}
	slices.Sort(paths)

	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return s.Error("unable to read syntax source", err)
		}
		rules, err := Rules(file)
		_ = file.Close()
		if err != nil {
			return s.Error("unable to read syntax source", err)
		}

		for _, rule := range rules {
			if _, err := fmt.Fprintln(output, rule); err != nil {
				return s.Error("unable to print grammar", err)
			}
		}
	}

	return nil
}
