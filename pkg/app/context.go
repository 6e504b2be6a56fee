package app

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Context holds application-wide configuration and state
type Context struct {
	context.Context

	// Output preferences
	OutputFormat string
	Verbose      int
	Quiet        bool

	// Fs is where images are written and read
	Fs afero.Fs

	// Stdout receives command results; diagnostics go through Logger
	Stdout io.Writer

	Logger *logrus.Logger
}

// NewContext creates a new application context on the OS file system
func NewContext() *Context {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)

	return &Context{
		Context: context.Background(),
		Fs:      afero.NewOsFs(),
		Stdout:  os.Stdout,
		Logger:  logger,
	}
}

// SetVerbosity maps the repeat count of -v onto the log level
func (c *Context) SetVerbosity(verbose int) {
	c.Verbose = verbose
	switch {
	case c.Quiet:
		c.Logger.SetLevel(logrus.ErrorLevel)
	case verbose >= 2:
		c.Logger.SetLevel(logrus.TraceLevel)
	case verbose == 1:
		c.Logger.SetLevel(logrus.DebugLevel)
	default:
		c.Logger.SetLevel(logrus.InfoLevel)
	}
}

// WithCancel creates a cancellable context
func (c *Context) WithCancel() (*Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(c.Context)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// Log returns a logger entry tagged with the command name
func (c *Context) Log(command string) *logrus.Entry {
	return c.Logger.WithField("command", command)
}
