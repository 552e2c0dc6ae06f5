package span

import (
	"context"

	"go.uber.org/zap"
)

type ContextKey struct {
	Name string
}

var (
	ContextKeyLogger = ContextKey{
		Name: "crank.logger",
	}
	ContextKeySpan = ContextKey{
		Name: "crank.span",
	}
)

func NewContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, logger)
}

func Logger(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(ContextKeyLogger).(*zap.Logger)
	if !ok || logger == nil {
		return zap.NewNop()
	}

	return logger
}

func FromContext(ctx context.Context) *Span {
	s, ok := ctx.Value(ContextKeySpan).(*Span)
	if !ok {
		return nil
	}

	return s
}
