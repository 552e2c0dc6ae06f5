// Package render turns scraped API modules into Markdown.
package render

import (
	_ "embed"
	"fmt"
	"iter"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"
	"go.scnd.dev/open/crank/utility/code"
	"go.scnd.dev/open/crank/utility/form"
)

//go:embed template/module.md
var moduleTemplate string

const (
	// BaseDepth is the heading level of top level modules. The API page owns
	// the single level one heading.
	BaseDepth = 2
	MaxDepth  = 6
)

type Section struct {
	Depth  int
	Module *code.Module
}

type Renderer struct {
	template *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("module").Funcs(template.FuncMap{
		"heading": heading,
		"title":   form.ToTitleCase,
		"inc": func(depth int) int {
			return depth + 1
		},
	}).Parse(moduleTemplate)
	if err != nil {
		return nil, fmt.Errorf("unable to parse module template: %w", err)
	}

	return &Renderer{
		template: tmpl,
	}, nil
}

func heading(depth int) string {
	return strings.Repeat("#", min(depth, MaxDepth))
}

// Sections flattens module and its submodules in document order.
func Sections(module *code.Module, depth int) []*Section {
	sections := []*Section{{Depth: depth, Module: module}}
	for _, submodule := range module.Submodules {
		sections = append(sections, Sections(submodule, depth+1)...)
	}
	return sections
}

// Module renders a module with its submodules as Markdown blocks, one per section.
func (r *Renderer) Module(module *code.Module) ([]string, error) {
	var blocks []string
	for _, section := range Sections(module, BaseDepth) {
		var builder strings.Builder
		if err := r.template.Execute(&builder, section); err != nil {
			return nil, fmt.Errorf("unable to render module %s: %w", section.Module.Name, err)
		}
		blocks = append(blocks, strings.TrimSpace(builder.String()))
	}
	return blocks, nil
}

// Lines renders every module of the sequence into lines ready for splicing.
// Sections are separated by a blank line and the region is padded by one
// blank line on each side.
func (r *Renderer) Lines(modules iter.Seq2[*code.Module, error]) ([]string, error) {
	var blocks []string
	for module, err := range modules {
		if err != nil {
			return nil, err
		}
		rendered, err := r.Module(module)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, rendered...)
	}

	lines := []string{""}
	for _, block := range blocks {
		lines = append(lines, strings.Split(block, "\n")...)
		lines = append(lines, "")
	}
	return lines, nil
}

// Terminal renders Markdown for display in a terminal of the given width.
func Terminal(markdown string, width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("unable to create terminal renderer: %w", err)
	}

	return renderer.Render(markdown)
}
