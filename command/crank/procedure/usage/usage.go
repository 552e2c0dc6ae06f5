// Package usage inlines the usage banner of the binary crate into the README.
package usage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/utility/process"
	"go.uber.org/zap"
)

const ExitHeadingMissing = 2

var ErrHeadingNotFound = errors.New("usage heading not found")

// Region locates the usage section of trimmed README lines: the first heading
// containing heading, and the first heading after it.
func Region(lines []string, heading string) (int, int, error) {
	begin, end := -1, -1
	for i, line := range lines {
		if !strings.HasPrefix(line, "#") {
			continue
		}
		if begin < 0 {
			if strings.Contains(line, heading) {
				begin = i
			}
			continue
		}
		end = i
		break
	}

	if begin < 0 || end < 0 {
		return 0, 0, fmt.Errorf("%w: begin line %d, end line %d", ErrHeadingNotFound, begin+1, end+1)
	}
	return begin, end, nil
}

// Splice replaces the body of the usage section with usage.
func Splice(content string, usage string, heading string) (string, error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	begin, end, err := Region(lines, heading)
	if err != nil {
		return "", err
	}

	return strings.Join([]string{
		strings.TrimSpace(strings.Join(lines[:begin+1], "\n")),
		"",
		strings.TrimSpace(usage),
		"",
		strings.TrimSpace(strings.Join(lines[end:], "\n")),
	}, "\n"), nil
}

// Inline runs the freshly built binary without arguments and pastes its
// output into the README.
func Inline(ctx context.Context, app crank.Crank) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	config := app.Config()

	// * obtain usage from the binary
	result, err := app.Cargo().Run(ctx, "run", nil, process.Target(*config.Crates.Bin), process.Hide())
	if err != nil {
		return s.Error("unable to run compiled binary", err)
	}
	if !result.Ok() {
		s.Logger().Error("compiled binary returned an error",
			zap.Int("code", result.Code),
			zap.String("stderr", result.Stderr),
		)
		return s.Error("compiled binary failed", result.Err())
	}

	// * splice into readme
	path := filepath.Join(app.Directory(), *config.Readme.Path)
	info, err := os.Stat(path)
	if err != nil {
		return s.Error("unable to read readme", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return s.Error("unable to read readme", err)
	}

	spliced, err := Splice(string(content), result.Stdout, *config.Readme.Heading)
	if errors.Is(err, ErrHeadingNotFound) {
		return s.Fatal(ExitHeadingMissing, "usage begin or end marker not found in readme", err)
	}
	if err != nil {
		return s.Error("unable to splice usage", err)
	}

	if err := os.WriteFile(path, []byte(spliced), info.Mode().Perm()); err != nil {
		return s.Error("unable to write readme", err)
	}

	s.Logger().Debug("usage inlined", zap.String("path", path))
	return nil
}
