package cargo

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bsthun/gut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/core"
	"go.scnd.dev/open/crank/package/span"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func fakeTool(t *testing.T, dir string, name string, script string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+script), 0755))
}

func project(t *testing.T, tools map[string]string) crank.Crank {
	t.Helper()
	bin := t.TempDir()
	for name, script := range tools {
		fakeTool(t, bin, name, script)
	}
	t.Setenv("PATH", bin)

	var buffer bytes.Buffer
	instance, err := core.New(crank.Default(), &core.Option{Directory: t.TempDir(), Stdout: &buffer, Stderr: &buffer})
	require.NoError(t, err)
	return instance
}

func TestFlags(t *testing.T) {
	assert.Empty(t, Flags(false, false))
	assert.Equal(t, []string{"--release"}, Flags(true, false))
	assert.Equal(t, []string{"--release", "--verbose"}, Flags(true, true))
	assert.Equal(t, []string{"--verbose"}, Flags(false, true))
}

func TestVersion(t *testing.T) {
	version, err := Version("rustc 1.75.0 (82e1608df 2023-12-21)\n")
	require.NoError(t, err)
	assert.Equal(t, "v1.75.0", version)

	version, err = Version("rustc 1.80.0-nightly (abc 2024-05-01)")
	require.NoError(t, err)
	assert.Equal(t, "v1.80.0-nightly", version)

	_, err = Version("rustc")
	assert.ErrorIs(t, err, ErrVersionFormat)

	_, err = Version("rustc unknown")
	assert.ErrorIs(t, err, ErrVersionFormat)
}

func TestAtLeast(t *testing.T) {
	assert.True(t, AtLeast("v1.10.0", "1.10.0"))
	assert.True(t, AtLeast("v1.75.0", "1.10.0"))
	assert.True(t, AtLeast("v2.0.0", "v1.10.0"))
	assert.False(t, AtLeast("v1.9.9", "1.10.0"))
	assert.False(t, AtLeast("v1.10.0-beta", "1.10.0"))
}

func TestEnsure(t *testing.T) {
	app := project(t, map[string]string{"rustc": `echo "rustc 1.75.0 (82e1608df 2023-12-21)"`})
	assert.NoError(t, Ensure(context.Background(), app))
}

func TestEnsureMissingCompiler(t *testing.T) {
	app := project(t, nil)
	err := Ensure(context.Background(), app)
	require.Error(t, err)
	assert.Equal(t, ExitCompilerMissing, span.ExitCode(err))
}

func TestEnsureFailingCompiler(t *testing.T) {
	app := project(t, map[string]string{"rustc": `exit 1`})
	err := Ensure(context.Background(), app)
	require.Error(t, err)
	assert.Equal(t, ExitCompilerMissing, span.ExitCode(err))
}

func TestEnsureOutdatedCompiler(t *testing.T) {
	app := project(t, map[string]string{"rustc": `echo "rustc 1.9.0 (e4e8b6668 2016-05-18)"`})
	err := Ensure(context.Background(), app)
	require.Error(t, err)
	assert.Equal(t, ExitCompilerOutdated, span.ExitCode(err))
	assert.Contains(t, err.Error(), "found 1.9.0")
}

func TestEnsureConfiguredMinimum(t *testing.T) {
	app := project(t, map[string]string{"rustc": `echo "rustc 1.75.0 (82e1608df 2023-12-21)"`})
	app.Config().Compiler.MinVersion = gut.Ptr("1.80.0")
	err := Ensure(context.Background(), app)
	assert.Equal(t, ExitCompilerOutdated, span.ExitCode(err))
}

func TestRunPropagatesExitStatus(t *testing.T) {
	app := project(t, map[string]string{"cargo": `echo "$*" > "$(pwd)/argv"; exit 101`})
	err := Run(context.Background(), app, "test", "librush", "--no-fail-fast")
	require.Error(t, err)
	assert.Equal(t, 101, span.ExitCode(err))

	argv, err := os.ReadFile(filepath.Join(app.Directory(), "argv"))
	require.NoError(t, err)
	assert.Equal(t, "test --manifest-path crates/librush/Cargo.toml --no-fail-fast\n", string(argv))
}

func TestRunSuccess(t *testing.T) {
	app := project(t, map[string]string{"cargo": `exit 0`})
	recorded, logs := observer.New(zap.DebugLevel)
	ctx := span.NewContext(context.Background(), zap.New(recorded))
	assert.NoError(t, Run(ctx, app, "build", "rush"))

	entries := logs.FilterMessage("running cargo").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "rush", entries[0].ContextMap()["crate"])
	assert.Equal(t, "build", entries[0].ContextMap()["subcommand"])
}
