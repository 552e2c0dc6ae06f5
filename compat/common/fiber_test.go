package common

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.scnd.dev/open/crank/package/span"
	"go.uber.org/zap"
)

func site(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "api"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>rush</h1>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "api", "index.html"), []byte("<h1>api</h1>"), 0644))
	return root
}

func body(t *testing.T, response *http.Response) string {
	t.Helper()
	defer response.Body.Close()
	content, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	return string(content)
}

func TestFiberServesSite(t *testing.T) {
	app := Fiber(site(t))

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "<h1>rush</h1>", body(t, response))

	response, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "<h1>api</h1>", body(t, response))

	response, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing.html", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestFiberError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: FiberError})
	app.Get("/fiber", func(c fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/span", func(c fiber.Ctx) error {
		s, _ := span.With(context.Background(), 0)
		return s.Error("unable to render", errors.New("boom"))
	})
	app.Get("/plain", func(c fiber.Ctx) error {
		return errors.New("boom")
	})

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/fiber", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, response.StatusCode)
	assert.Equal(t, "short and stout", body(t, response))

	response, err = app.Test(httptest.NewRequest(http.MethodGet, "/span", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	assert.Equal(t, "unable to render: boom", body(t, response))

	response, err = app.Test(httptest.NewRequest(http.MethodGet, "/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, "unknown server error: boom", body(t, response))
}

func TestServeStopsOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, Fiber(site(t)), listener, zap.NewNop())
	}()

	address := "http://" + listener.Addr().String() + "/"
	assert.Eventually(t, func() bool {
		response, err := http.Get(address)
		if err != nil {
			return false
		}
		defer response.Body.Close()
		return response.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
