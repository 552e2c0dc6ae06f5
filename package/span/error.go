package span

import (
	"errors"
	"strings"
)

type Error struct {
	Items []*ErrorItem `json:"items,omitempty"`
	Code  *int         `json:"code,omitempty"`
}

type ErrorItem struct {
	Span      *Span         `json:"span,omitempty"`
	Dimension DimensionType `json:"dimension,omitempty"`
	Trace     *Caller       `json:"trace,omitempty"`
	Message   *string       `json:"message,omitempty"`
	Error     error         `json:"error,omitempty"`
}

func (r *Error) Error() string {
	parts := make([]string, 0, len(r.Items)+1)
	for i := len(r.Items) - 1; i >= 0; i-- {
		if r.Items[i].Message != nil && *r.Items[i].Message != "" {
			parts = append(parts, *r.Items[i].Message)
		}
	}
	if cause := r.Unwrap(); cause != nil {
		parts = append(parts, cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (r *Error) Unwrap() error {
	return r.Items[0].Error
}

// Dimension reports the kind of the innermost failure.
func (r *Error) Dimension() DimensionType {
	return r.Items[0].Dimension
}

func NewError(span *Span, dimension DimensionType, message string, err error) *Error {
	trace := NewCaller(2)

	var e *Error
	if err != nil && errors.As(err, &e) {
		e.Items = append(e.Items, &ErrorItem{
			Span:      span,
			Dimension: dimension,
			Trace:     trace,
			Message:   &message,
			Error:     nil,
		})
		return e
	}

	return &Error{
		Items: []*ErrorItem{
			{
				Span:      span,
				Dimension: dimension,
				Trace:     trace,
				Message:   &message,
				Error:     err,
			},
		},
	}
}

type exitCoder interface {
	ExitCode() int
}

// ExitCode maps an error returned by a task to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var e *Error
	if errors.As(err, &e) && e.Code != nil {
		return *e.Code
	}

	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}

	return 1
}

func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Dimension() == DimensionTypeValidation
}
