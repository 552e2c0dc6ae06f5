// Package browser opens the built documentation in the desktop browser.
package browser

import (
	"context"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Opener opens a target after a delay unless the task failed meanwhile.
type Opener struct {
	Delay  time.Duration
	Logger *zap.Logger
	Open   func(ctx context.Context, target string) error
	failed atomic.Bool
	group  sync.WaitGroup
}

func New(delay time.Duration, logger *zap.Logger) *Opener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Opener{
		Delay:  delay,
		Logger: logger,
		Open:   Open,
	}
}

// Schedule opens target once the delay elapsed. Cancelling ctx abandons it.
func (r *Opener) Schedule(ctx context.Context, target string) {
	r.group.Add(1)
	go func() {
		defer r.group.Done()

		timer := time.NewTimer(r.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if r.failed.Load() {
			r.Logger.Debug("skipping browser, task failed", zap.String("target", target))
			return
		}

		if err := r.Open(ctx, target); err != nil {
			r.Logger.Warn("unable to open browser", zap.String("target", target), zap.Error(err))
		}
	}()
}

// Fail prevents pending targets from being opened.
func (r *Opener) Fail() {
	r.failed.Store(true)
}

// Wait blocks until every scheduled target was handled.
func (r *Opener) Wait() {
	r.group.Wait()
}

// Command returns the platform command opening target in a browser.
func Command(target string) []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open", target}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", target}
	default:
		return []string{"xdg-open", target}
	}
}

func Open(ctx context.Context, target string) error {
	argv := Command(target)
	return exec.CommandContext(ctx, argv[0], argv[1:]...).Run()
}
