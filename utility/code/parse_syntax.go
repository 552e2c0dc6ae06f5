package code

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
	"go.uber.org/zap"
)

// SyntaxParser finds public functions through the tree-sitter Rust grammar.
type SyntaxParser struct {
	Logger *zap.Logger
}

func (r *SyntaxParser) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *SyntaxParser) Parse(path string, content []byte) (*Module, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	defer tree.Close()

	functions := make([]*Function, 0)
	r.walk(tree.RootNode(), path, content, &functions)

	return &Module{
		Path:       path,
		Name:       ModuleName(path),
		Submodules: []*Module{},
		Functions:  functions,
	}, nil
}

func (r *SyntaxParser) walk(node *sitter.Node, path string, content []byte, functions *[]*Function) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_item":
			// * accept the same declarations as the lexical parser
			line := headLine(child, content)
			name, declared := Declaration(line)
			if !declared {
				continue
			}
			if name == "" {
				r.logger().Warn("spurious function definition line",
					zap.String("path", path),
					zap.Int("line", int(child.StartPoint().Row)+1),
					zap.String("text", line),
				)
				continue
			}
			function := &Function{
				Name:        name,
				Description: syntaxDocstring(child, content),
				Arguments:   []*Argument{},
				Returns:     nil,
			}
			r.logger().Debug("found function", zap.String("path", path), zap.String("name", function.Name))
			*functions = append(*functions, function)
		default:
			r.walk(child, path, content, functions)
		}
	}
}

// headLine returns the first source line of node, trimmed.
func headLine(node *sitter.Node, content []byte) string {
	head, _, _ := bytes.Cut(content[node.StartByte():], []byte("\n"))
	return strings.TrimSpace(string(head))
}

func syntaxDocstring(node *sitter.Node, content []byte) string {
	collected := make([]string, 0)
	row := node.StartPoint().Row
	for prev := node.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		if prev.Type() != "line_comment" || prev.StartPoint().Row+1 != row {
			break
		}
		text := strings.TrimSpace(prev.Content(content))
		if !strings.HasPrefix(text, CommentPrefix) {
			break
		}
		collected = append(collected, CommentText(text))
		row = prev.StartPoint().Row
	}

	slices.Reverse(collected)
	return strings.Join(collected, "\n")
}
