package code

import (
	"slices"
	"strings"

	"go.uber.org/zap"
)

// LexicalParser finds declarations by line prefix and walks back over the
// doc-comment lines directly above each of them.
type LexicalParser struct {
	Logger *zap.Logger
}

func (r *LexicalParser) Parse(path string, content []byte) (*Module, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	lines := SplitLines(content)
	functions := make([]*Function, 0)

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		name, declared := Declaration(trimmed)
		if !declared {
			continue
		}

		// * extract function name
		if name == "" {
			logger.Warn("spurious function definition line",
				zap.String("path", path),
				zap.Int("line", i+1),
				zap.String("text", trimmed),
			)
			continue
		}

		function := &Function{
			Name:        name,
			Description: Docstring(lines, i),
			Arguments:   []*Argument{},
			Returns:     nil,
		}
		logger.Debug("found function", zap.String("path", path), zap.String("name", function.Name))
		functions = append(functions, function)
	}

	return &Module{
		Path:       path,
		Name:       ModuleName(path),
		Submodules: []*Module{},
		Functions:  functions,
	}, nil
}

// Docstring collects the contiguous doc-comment lines above lines[index].
func Docstring(lines []string, index int) string {
	collected := make([]string, 0)
	for j := index - 1; j >= 0; j-- {
		line := strings.TrimSpace(lines[j])
		if !strings.HasPrefix(line, CommentPrefix) {
			break
		}
		collected = append(collected, CommentText(line))
	}

	// * blank comment lines become paragraph breaks once joined
	slices.Reverse(collected)
	return strings.Join(collected, "\n")
}
