package testutil

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger returns a logrus logger that discards output.
func Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
