package crank

import (
	"context"
	"io"

	"go.scnd.dev/open/crank/package/span"
	"go.scnd.dev/open/crank/utility/process"
	"go.uber.org/zap"
)

const (
	Name = "crank"
)

// Crank is the project the tasks operate on: its configuration, root
// directory and the external tools driven by the tasks.
type Crank interface {
	Config() *Config
	Directory() string
	Verbose() bool
	Logger() *zap.Logger
	Stdout() io.Writer
	Stderr() io.Writer
	Cargo() *process.Tool
	Rustc() *process.Tool
	Mkdocs() *process.Tool
	Shell(command string) (*process.Tool, []string, error)
}

// With opens a span for the calling task or procedure.
func With(ctx context.Context) (*span.Span, context.Context) {
	return span.With(ctx, 1)
}
