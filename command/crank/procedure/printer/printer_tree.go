// Package printer renders the command tree of the task runner.
package printer

import (
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ddddddO/gtree"
)

// Label describes a task node, marking the task a group runs by default.
func Label(node *kong.Node) string {
	label := node.Name
	if node.Tag != nil && node.Tag.Default != "" {
		label += " (default)"
	}
	if node.Help != "" {
		label += ": " + strings.TrimSuffix(node.Help, ".")
	}
	return label
}

// PrintTree writes every visible task below node.
func PrintTree(w io.Writer, node *kong.Node) error {
	root := gtree.NewRoot(node.Name)
	add(root, node)
	return gtree.OutputFromRoot(w, root)
}

func add(parent *gtree.Node, node *kong.Node) {
	for _, child := range node.Children {
		if child.Hidden || child.Type != kong.CommandNode {
			continue
		}
		add(parent.Add(Label(child)), child)
	}
}
