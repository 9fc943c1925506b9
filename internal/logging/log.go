// Package logging provides the process-wide leveled logger.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var defaultLog *logrus.Logger

// The report is written to stdout with a fixed shape; log lines go to
// stderr so the two never interleave.
func init() {
	defaultLog = logrus.New()
	defaultLog.SetOutput(os.Stderr)
	defaultLog.SetLevel(logrus.InfoLevel)
	defaultLog.SetFormatter(&logrus.TextFormatter{
		DisableColors:   false,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
}

// SetDebug switches the default logger to DEBUG level.
func SetDebug() {
	defaultLog.SetLevel(logrus.DebugLevel)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	defaultLog.Debugf(format, args...)
}

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) {
	defaultLog.Infof(format, args...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...interface{}) {
	defaultLog.Warnf(format, args...)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	defaultLog.Errorf(format, args...)
}
