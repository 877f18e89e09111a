// Package execcontext carries the per-invocation context and output
// streams of a CLI command.
package execcontext

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RunContext is threaded through command implementations instead of
// reaching for os.Stdout directly.
type RunContext struct {
	Context context.Context
	StdOut  io.Writer
	StdErr  io.Writer
}

// New returns a RunContext, defaulting nil fields to the process streams.
func New(ctx context.Context, stdout, stderr io.Writer) RunContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return RunContext{Context: ctx, StdOut: stdout, StdErr: stderr}
}

func (rc RunContext) Write(p []byte) (n int, err error) {
	return rc.StdOut.Write(p)
}

func (rc RunContext) Printf(format string, v ...any) {
	fmt.Fprintf(rc.StdOut, format, v...)
}

// Logger returns the logger attached to the context, or the global one when
// none is attached.
func (rc RunContext) Logger() *zerolog.Logger {
	if l := zerolog.Ctx(rc.Context); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
