// Package process invokes an external tool either as a child process or by
// replacing the current process image with it.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/anmitsu/go-shlex"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

var ErrNotFound = errors.New("executable not found")

// Tool is an external command line program with subcommands, like cargo.
type Tool struct {
	Binary   string
	Selector func(target string) []string
	Dir      string
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *zap.Logger
}

type Result struct {
	Argv   []string
	Code   int
	Stdout string
	Stderr string
}

func (r *Result) Ok() bool {
	return r.Code == 0
}

// Err converts a failed result into an *ExitError, nil otherwise.
func (r *Result) Err() error {
	if r.Ok() {
		return nil
	}
	return &ExitError{Result: r}
}

type ExitError struct {
	Result *Result
}

func (r *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", Quote(r.Result.Argv), r.Result.Code)
}

func (r *ExitError) ExitCode() int {
	return r.Result.Code
}

type options struct {
	target string
	hide   bool
}

type Option func(*options)

// Target selects the named build target through the tool's selector.
func Target(name string) Option {
	return func(o *options) {
		o.target = name
	}
}

// Hide captures output without echoing it to the terminal.
func Hide() Option {
	return func(o *options) {
		o.hide = true
	}
}

// Argv builds the argument vector following the binary name.
func (r *Tool) Argv(subcommand string, args []string, target string) []string {
	argv := make([]string, 0, len(args)+3)
	if subcommand != "" {
		argv = append(argv, subcommand)
	}
	if target != "" && r.Selector != nil {
		argv = append(argv, r.Selector(target)...)
	}
	return append(argv, args...)
}

func (r *Tool) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Tool) lookPath() (string, error) {
	path, err := exec.LookPath(r.Binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, r.Binary)
	}
	return path, nil
}

// Run executes the tool and waits for it. A non-zero exit is reported in the
// result, not as an error.
func (r *Tool) Run(ctx context.Context, subcommand string, args []string, opts ...Option) (*Result, error) {
	o := new(options)
	for _, opt := range opts {
		opt(o)
	}

	path, err := r.lookPath()
	if err != nil {
		return nil, err
	}

	argv := r.Argv(subcommand, args, o.target)
	full := append([]string{r.Binary}, argv...)
	r.logger().Debug("running command", zap.String("command", Quote(full)))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, argv...)
	cmd.Dir = r.Dir
	if o.hide {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = io.MultiWriter(r.stdout(), &stdout)
		cmd.Stderr = io.MultiWriter(r.stderr(), &stderr)
	}

	result := &Result{
		Argv: full,
	}

	err = cmd.Run()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.Code = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to run %s: %w", r.Binary, err)
	}

	return result, nil
}

func (r *Tool) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *Tool) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

var execve = unix.Exec

// Exec replaces the current process with the tool. It only returns on failure.
func (r *Tool) Exec(subcommand string, args []string, target string) error {
	path, err := r.lookPath()
	if err != nil {
		return err
	}

	if r.Dir != "" {
		if err := os.Chdir(r.Dir); err != nil {
			return fmt.Errorf("unable to enter %s: %w", r.Dir, err)
		}
	}

	argv := append([]string{r.Binary}, r.Argv(subcommand, args, target)...)
	r.logger().Debug("replacing process", zap.String("command", Quote(argv)))
	_ = r.logger().Sync()

	if err := execve(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("unable to exec %s: %w", r.Binary, err)
	}

	return nil
}

// Quote renders argv as a shell command line.
func Quote(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = quote(arg)
	}
	return strings.Join(quoted, " ")
}

func quote(arg string) string {
	if arg == "" {
		return "''"
	}
	safe := strings.IndexFunc(arg, func(c rune) bool {
		return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || strings.ContainsRune("@%+=:,./-_", c))
	}) < 0
	if safe {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
}

// Split parses a configured command line into argv.
func Split(command string) ([]string, error) {
	argv, err := shlex.Split(command, true)
	if err != nil {
		return nil, fmt.Errorf("unable to parse command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return argv, nil
}
