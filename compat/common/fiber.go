package common

import (
	"context"
	"errors"
	"net"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
	"go.scnd.dev/open/crank/package/span"
	"go.uber.org/zap"
)

// Fiber serves the built site under root.
func Fiber(root string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:  FiberError,
		StrictRouting: true,
	})

	app.Get("/*", static.New(root, static.Config{
		IndexNames: []string{"index.html"},
		Browse:     false,
	}))

	return app
}

// Serve runs app on listener until ctx is cancelled.
func Serve(ctx context.Context, app *fiber.App, listener net.Listener, logger *zap.Logger) error {
	errs := make(chan error, 1)
	go func() {
		errs <- app.Listener(listener, fiber.ListenConfig{
			DisableStartupMessage: true,
		})
	}()

	logger.Info("serving documentation", zap.String("address", listener.Addr().String()))

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	// * drain the listener goroutine
	shutdown := app.Shutdown()
	_ = listener.Close()
	if err := <-errs; err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return shutdown
}

func FiberError(c fiber.Ctx, err error) error {
	// * case of `*fiber.Error`
	var fiberError *fiber.Error
	if errors.As(err, &fiberError) {
		return c.Status(fiberError.Code).SendString(fiberError.Message)
	}

	// * case of `*span.Error`
	var spanError *span.Error
	if errors.As(err, &spanError) {
		return c.Status(fiber.StatusInternalServerError).SendString(spanError.Error())
	}

	return c.Status(fiber.StatusInternalServerError).SendString("unknown server error: " + err.Error())
}
