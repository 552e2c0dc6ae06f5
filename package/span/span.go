package span

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Span struct {
	Name      *string        `json:"name,omitempty"`
	Parent    *Span          `json:"-"`
	Trace     *Caller        `json:"trace,omitempty"`
	Variables map[string]any `json:"variables,omitempty"`
	Started   *time.Time     `json:"started,omitempty"`
	Ended     *time.Time     `json:"ended,omitempty"`
	logger    *zap.Logger
}

// With opens a span named after the calling function, nested under the span
// already carried by ctx if any.
func With(ctx context.Context, skip int) (*Span, context.Context) {
	trace := NewCaller(skip + 1)
	name := trace.String()
	parent := FromContext(ctx)
	if parent != nil {
		name = fmt.Sprintf("%s/%s", *parent.Name, *trace.Name)
	}

	now := time.Now()
	s := &Span{
		Name:      &name,
		Parent:    parent,
		Trace:     trace,
		Variables: make(map[string]any),
		Started:   &now,
		Ended:     nil,
		logger:    Logger(ctx),
	}

	return s, context.WithValue(ctx, ContextKeySpan, s)
}

func (r *Span) Variable(key string, value any) {
	r.Variables[key] = value
}

func (r *Span) Logger() *zap.Logger {
	fields := make([]zap.Field, 0, len(r.Variables)+1)
	fields = append(fields, zap.String("span", *r.Name))
	for key, value := range r.Variables {
		fields = append(fields, zap.Any(key, value))
	}
	return r.logger.With(fields...)
}

func (r *Span) End() {
	end := time.Now()
	r.Ended = &end
	r.logger.Debug("span ended",
		zap.String("span", *r.Name),
		zap.Duration("elapsed", end.Sub(*r.Started)),
	)
}

// Error wraps err with message as an operation failure of this span.
func (r *Span) Error(message string, err error) error {
	return NewError(r, DimensionTypeOperation, message, err)
}

func (r *Span) Invalid(message string, err error) error {
	return NewError(r, DimensionTypeValidation, message, err)
}

// Fatal marks a missing prerequisite. The code becomes the process exit status.
func (r *Span) Fatal(code int, message string, err error) error {
	e := NewError(r, DimensionTypeFatal, message, err)
	e.Code = &code
	return e
}
