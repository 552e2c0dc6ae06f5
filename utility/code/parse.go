package code

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Parser extracts the public functions of a single source file.
type Parser interface {
	Parse(path string, content []byte) (*Module, error)
}

const (
	DeclarationPrefix = "pub fn"
	CommentPrefix     = "///"
	AggregatorFile    = "mod.rs"
	SourceExtension   = ".rs"
)

var declarationRegex = regexp.MustCompile(`^pub\s+fn\s+(\w+)\(`)

// Declaration inspects a trimmed source line. declared reports a line that
// starts a public function; name is empty when such a line does not match the
// supported declaration form, as for generic functions.
func Declaration(line string) (name string, declared bool) {
	if !strings.HasPrefix(line, DeclarationPrefix) {
		return "", false
	}

	match := declarationRegex.FindStringSubmatch(line)
	if match == nil {
		return "", true
	}
	return match[1], true
}

func ModuleName(path string) string {
	base := filepath.Base(path)
	if base == AggregatorFile {
		return filepath.Base(filepath.Dir(path))
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func SplitLines(content []byte) []string {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	return strings.Split(text, "\n")
}

// CommentText strips the comment markers off a doc-comment line.
func CommentText(line string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "/"))
}
