package core

import (
	"io"
	"os"
	"path/filepath"

	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/utility/process"
	"go.uber.org/zap"
)

type Instance struct {
	config    *crank.Config
	directory string
	verbose   bool
	logger    *zap.Logger
	stdout    io.Writer
	stderr    io.Writer
	cargo     *process.Tool
	rustc     *process.Tool
	mkdocs    *process.Tool
}

func New(config *crank.Config, option *Option) (_ crank.Crank, err error) {
	i := &Instance{
		config:    config,
		directory: option.Directory,
		verbose:   option.Verbose,
		logger:    option.Logger,
		stdout:    option.Stdout,
		stderr:    option.Stderr,
	}

	// * fill defaults
	if i.directory == "" {
		i.directory = "."
	}
	i.directory, err = filepath.Abs(i.directory)
	if err != nil {
		return nil, err
	}
	if i.logger == nil {
		i.logger = zap.NewNop()
	}
	if i.stdout == nil {
		i.stdout = os.Stdout
	}
	if i.stderr == nil {
		i.stderr = os.Stderr
	}

	// * construct tools
	i.cargo = i.tool("cargo")
	i.cargo.Selector = func(target string) []string {
		return []string{"--manifest-path", config.Manifest(target)}
	}
	i.rustc = i.tool("rustc")
	i.mkdocs = i.tool("mkdocs")

	return i, nil
}

func (r *Instance) tool(binary string) *process.Tool {
	return &process.Tool{
		Binary:   binary,
		Selector: nil,
		Dir:      r.directory,
		Stdout:   r.stdout,
		Stderr:   r.stderr,
		Logger:   r.logger.With(zap.String("tool", binary)),
	}
}

func (r *Instance) Config() *crank.Config {
	return r.config
}

func (r *Instance) Directory() string {
	return r.directory
}

func (r *Instance) Verbose() bool {
	return r.verbose
}

func (r *Instance) Logger() *zap.Logger {
	return r.logger
}

func (r *Instance) Stdout() io.Writer {
	return r.stdout
}

func (r *Instance) Stderr() io.Writer {
	return r.stderr
}

func (r *Instance) Cargo() *process.Tool {
	return r.cargo
}

func (r *Instance) Rustc() *process.Tool {
	return r.rustc
}

func (r *Instance) Mkdocs() *process.Tool {
	return r.mkdocs
}

// Shell turns a configured command line into a tool and its arguments.
func (r *Instance) Shell(command string) (*process.Tool, []string, error) {
	argv, err := process.Split(command)
	if err != nil {
		return nil, nil, err
	}

	return r.tool(argv[0]), argv[1:], nil
}
