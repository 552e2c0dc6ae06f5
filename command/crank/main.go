package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/command/crank/app"
	"go.scnd.dev/open/crank/command/crank/subcommand/build"
	"go.scnd.dev/open/crank/command/crank/subcommand/clean"
	"go.scnd.dev/open/crank/command/crank/subcommand/docs"
	"go.scnd.dev/open/crank/command/crank/subcommand/grammar"
	"go.scnd.dev/open/crank/command/crank/subcommand/lint"
	"go.scnd.dev/open/crank/command/crank/subcommand/release"
	"go.scnd.dev/open/crank/command/crank/subcommand/run"
	"go.scnd.dev/open/crank/command/crank/subcommand/test"
	"go.scnd.dev/open/crank/command/crank/subcommand/tree"
	"go.scnd.dev/open/crank/compat/common"
	"go.scnd.dev/open/crank/core"
	"go.scnd.dev/open/crank/package/span"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ExitNotRoot = 1

var ErrNotRoot = errors.New("tasks can only be invoked from the project's root directory")

type Command struct {
	Verbose   bool   `help:"Enable verbose output." short:"v"`
	Directory string `help:"Project root directory." short:"C" type:"existingdir" default:"."`

	Default      *test.AllCommand `cmd:"" default:"1" hidden:"" help:"Execute the project's tests."`
	Run          *run.Command     `cmd:"" help:"Run the binary crate or preview the docs."`
	Build        *build.Command   `cmd:"" help:"Build the crates and the documentation."`
	Test         *test.Command    `cmd:"" help:"Execute the tests of the crates."`
	Clean        *clean.Command   `cmd:"" help:"Clean the build artifacts."`
	Release      *release.Command `cmd:"" help:"Create release packages."`
	Lint         *lint.Command    `cmd:"" help:"Lint the task runner."`
	PrintGrammar *grammar.Command `cmd:"" name:"print-grammar" help:"Print the language's grammar rules."`
	Docs         *docs.Command    `cmd:"" help:"Work on the documentation sources."`
	Tasks        *tree.Command    `cmd:"" help:"List the available tasks."`
}

func main() {
	command := new(Command)
	k := kong.Parse(
		command,
		kong.Name(crank.Name),
		kong.Description("Project tasks of the rush shell"),
		kong.UsageOnError(),
	)

	logger := Logger(command.Verbose)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = span.NewContext(ctx, logger)

	err := Run(ctx, k, command, logger)
	stop()
	_ = logger.Sync()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(span.ExitCode(err))
	}
}

// Logger builds the console logger. Verbose mode lowers the level to debug.
func Logger(verbose bool) *zap.Logger {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.Sampling = nil
	config.DisableStacktrace = true
	config.DisableCaller = !verbose
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// Run enters the project directory, loads its configuration and runs the
// selected task.
func Run(ctx context.Context, k *kong.Context, command *Command, logger *zap.Logger) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	// * enter project root
	directory, err := filepath.Abs(command.Directory)
	if err != nil {
		return s.Fatal(ExitNotRoot, "invalid project directory", err)
	}
	if err := os.Chdir(directory); err != nil {
		return s.Fatal(ExitNotRoot, "unable to enter project directory", err)
	}
	if err := Root(directory); err != nil {
		return s.Fatal(ExitNotRoot, "not a project root", err)
	}

	// * load configuration
	config, err := common.Config(directory)
	if err != nil {
		return s.Fatal(ExitNotRoot, "unable to load configuration", err)
	}

	instance, err := core.New(config, &core.Option{
		Directory: directory,
		Verbose:   command.Verbose,
		Logger:    logger,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	})
	if err != nil {
		return s.Error("unable to initialize", err)
	}

	return k.Run(&app.App{
		Context: ctx,
		Crank:   instance,
	})
}

// Root checks the project root marker, a .gitignore next to the crates.
func Root(directory string) error {
	info, err := os.Stat(filepath.Join(directory, ".gitignore"))
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotRoot, directory)
	}
	return nil
}
