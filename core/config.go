package core

import (
	"io"

	"go.uber.org/zap"
)

type Option struct {
	Directory string
	Verbose   bool
	Logger    *zap.Logger
	Stdout    io.Writer
	Stderr    io.Writer
}
