package docs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.scnd.dev/open/crank"
	"go.scnd.dev/open/crank/command/crank/procedure/apidoc"
	"go.scnd.dev/open/crank/core"
	"go.scnd.dev/open/crank/package/span"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func write(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func project(t *testing.T, mkdocs string) (crank.Crank, *bytes.Buffer) {
	t.Helper()
	bin := t.TempDir()
	write(t, filepath.Join(bin, "mkdocs"), "#!/bin/sh\n"+mkdocs)
	require.NoError(t, os.Chmod(filepath.Join(bin, "mkdocs"), 0755))
	t.Setenv("PATH", bin)

	root := t.TempDir()
	write(t, filepath.Join(root, "crates", "librush", "src", "eval", "api", "base.rs"), "/// Does a thing.\npub fn foo() {}\n")
	write(t, filepath.Join(root, "docs", "api.md"), "# API\n<!-- BEGIN API -->\n<!-- END API -->")

	var output bytes.Buffer
	instance, err := core.New(crank.Default(), &core.Option{Directory: root, Stdout: &output, Stderr: &output})
	require.NoError(t, err)
	return instance, &output
}

func apiPage(t *testing.T, app crank.Crank) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(app.Directory(), "docs", "api.md"))
	require.NoError(t, err)
	return string(content)
}

func TestApiWrite(t *testing.T) {
	app, _ := project(t, "")
	require.NoError(t, Api(context.Background(), app, false, false))
	assert.Contains(t, apiPage(t, app), "## Base\n\n### `foo`\n\nDoes a thing.")
}

func TestApiCheck(t *testing.T) {
	app, output := project(t, "")
	before := apiPage(t, app)

	err := Api(context.Background(), app, true, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, apidoc.ErrStale)
	assert.Equal(t, apidoc.ExitStale, span.ExitCode(err))
	assert.Contains(t, output.String(), "+## Base")
	assert.Equal(t, before, apiPage(t, app))

	require.NoError(t, Api(context.Background(), app, false, false))
	require.NoError(t, Api(context.Background(), app, true, false))
}

func TestApiPrint(t *testing.T) {
	app, output := project(t, "")
	require.NoError(t, Api(context.Background(), app, false, true))
	assert.Contains(t, output.String(), "Does a thing.")
}

func TestServeArgs(t *testing.T) {
	assert.Equal(t, []string{"--dev-addr", "127.0.0.1:8000", "--livereload"}, ServeArgs(8000, true, false))
	assert.Equal(t, []string{"--dev-addr", "127.0.0.1:9000", "--no-livereload", "--verbose"}, ServeArgs(9000, false, true))
}

func TestServe(t *testing.T) {
	app, _ := project(t, `echo "mkdocs $*" > "$(pwd)/calls"`)
	require.NoError(t, Serve(context.Background(), app, 8123, true))

	calls, err := os.ReadFile(filepath.Join(app.Directory(), "calls"))
	require.NoError(t, err)
	assert.Equal(t, "mkdocs serve --dev-addr 127.0.0.1:8123 --livereload\n", string(calls))
	assert.Contains(t, apiPage(t, app), "### `foo`")
}

func TestServeFailure(t *testing.T) {
	app, _ := project(t, `exit 3`)
	err := Serve(context.Background(), app, 8000, false)
	require.Error(t, err)
	assert.Equal(t, 3, span.ExitCode(err))
}
