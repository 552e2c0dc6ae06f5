// Package cargo drives the Rust toolchain on behalf of the tasks.
package cargo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/utility/process"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

const (
	ExitCompilerMissing  = 127
	ExitCompilerOutdated = 1
)

var ErrVersionFormat = errors.New("unrecognised compiler version output")

// Flags maps the build switches onto cargo flags.
func Flags(release bool, verbose bool) []string {
	flags := make([]string, 0, 2)
	if release {
		flags = append(flags, "--release")
	}
	if verbose {
		flags = append(flags, "--verbose")
	}
	return flags
}

// Version extracts the semantic version out of `rustc --version` output, as
// in "rustc 1.75.0 (82e1608df 2023-12-21)".
func Version(output string) (string, error) {
	fields := strings.Fields(output)
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: %q", ErrVersionFormat, output)
	}

	version := "v" + fields[1]
	if !semver.IsValid(version) {
		return "", fmt.Errorf("%w: %q", ErrVersionFormat, output)
	}

	return version, nil
}

// AtLeast reports whether version satisfies the minimum. Pre-release
// versions of the minimum itself do not qualify.
func AtLeast(version string, minimum string) bool {
	if !strings.HasPrefix(minimum, "v") {
		minimum = "v" + minimum
	}
	return semver.Compare(version, minimum) >= 0
}

// Ensure terminates the run unless the Rust compiler is recent enough.
func Ensure(ctx context.Context, app crank.Crank) error {
	s, ctx := crank.With(ctx)
	defer s.End()

	result, err := app.Rustc().Run(ctx, "", []string{"--version"}, process.Hide())
	if errors.Is(err, process.ErrNotFound) {
		return s.Fatal(ExitCompilerMissing, "rust compiler not found, aborting build", err)
	}
	if err != nil {
		return s.Fatal(ExitCompilerMissing, "unable to run rust compiler", err)
	}
	if !result.Ok() {
		return s.Fatal(ExitCompilerMissing, "rust compiler not found, aborting build", result.Err())
	}

	version, err := Version(result.Stdout)
	if err != nil {
		return s.Fatal(ExitCompilerOutdated, "unable to determine rust compiler version", err)
	}

	minimum := *app.Config().Compiler.MinVersion
	if !AtLeast(version, minimum) {
		return s.Fatal(ExitCompilerOutdated, fmt.Sprintf("build requires at least rust %s, found %s", minimum, strings.TrimPrefix(version, "v")), nil)
	}

	s.Logger().Debug("rust compiler found", zap.String("version", version))
	return nil
}

// Run runs a cargo subcommand against crate and fails with cargo's own exit
// status.
func Run(ctx context.Context, app crank.Crank, subcommand string, crate string, args ...string) error {
	s, ctx := crank.With(ctx)
	defer s.End()
	s.Variable("crate", crate)
	s.Logger().Debug("running cargo", zap.String("subcommand", subcommand))

	result, err := app.Cargo().Run(ctx, subcommand, args, process.Target(crate))
	if err != nil {
		return s.Fatal(ExitCompilerMissing, "unable to run cargo", err)
	}
	if err := result.Err(); err != nil {
		return s.Error(fmt.Sprintf("cargo %s failed for %s", subcommand, crate), err)
	}

	return nil
}
