// Package splice replaces the region between two marker lines of a text file.
package splice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

var (
	ErrMarkerNotFound = errors.New("marker not found")
	ErrEmptyRegion    = errors.New("begin and end markers share a line")
)

type Markers struct {
	Begin string
	End   string
}

// Region returns the indices of the begin and end marker lines.
func Region(lines []string, markers Markers) (int, int, error) {
	begin := -1
	for i, line := range lines {
		if strings.Contains(line, markers.Begin) {
			begin = i
			break
		}
	}
	if begin < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMarkerNotFound, markers.Begin)
	}

	// * the end marker may sit on the begin line itself
	end := -1
	for i := begin; i < len(lines); i++ {
		if strings.Contains(lines[i], markers.End) {
			end = i
			break
		}
	}
	if end < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMarkerNotFound, markers.End)
	}
	if end == begin {
		return 0, 0, fmt.Errorf("%w: line %d", ErrEmptyRegion, begin+1)
	}

	return begin, end, nil
}

// Lines keeps everything up to and including the begin marker line, then the
// blocks, then everything from the end marker line onward.
func Lines(lines []string, blocks []string, markers Markers) ([]string, error) {
	begin, end, err := Region(lines, markers)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(lines)+len(blocks))
	result = append(result, lines[:begin+1]...)
	result = append(result, blocks...)
	result = append(result, lines[end:]...)
	return result, nil
}

// Normalise converts line endings to "\n" and drops the trailing line
// terminator, the form Content produces.
func Normalise(content string) string {
	return strings.TrimSuffix(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

// Content splices a whole text. Line endings are normalised to "\n" and a
// trailing line terminator is not kept.
func Content(content string, blocks []string, markers Markers) (string, error) {
	lines := strings.Split(Normalise(content), "\n")

	result, err := Lines(lines, blocks, markers)
	if err != nil {
		return "", err
	}

	return strings.Join(result, "\n"), nil
}

// Edit is a spliced file not yet written back. Before is the current content
// in normalised form, so it compares equal to After when nothing changed.
type Edit struct {
	Path   string
	Before string
	After  string
	mode   fs.FileMode
}

func (r *Edit) Changed() bool {
	return r.Before != r.After
}

// Prepare splices path in memory.
func Prepare(path string, blocks []string, markers Markers) (*Edit, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	after, err := Content(string(content), blocks, markers)
	if err != nil {
		return nil, fmt.Errorf("unable to splice %s: %w", path, err)
	}

	return &Edit{
		Path:   path,
		Before: Normalise(string(content)),
		After:  after,
		mode:   info.Mode().Perm(),
	}, nil
}

// Apply replaces the file through a temporary sibling and a rename, keeping
// its permissions. An unchanged edit writes nothing.
func (r *Edit) Apply() error {
	if !r.Changed() {
		return nil
	}

	temp, err := os.CreateTemp(filepath.Dir(r.Path), "."+filepath.Base(r.Path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(temp.Name())
	}()

	if _, err := temp.WriteString(r.After); err != nil {
		_ = temp.Close()
		return err
	}
	if err := temp.Chmod(r.mode); err != nil {
		_ = temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	return os.Rename(temp.Name(), r.Path)
}

// Diff renders a unified diff between two versions of path.
func Diff(path string, before string, after string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path + " (generated)",
		Context:  3,
	}
	text, _ := difflib.GetUnifiedDiffString(diff)
	return text
}
