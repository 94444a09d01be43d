// Package logging provides the daemon's shared logger. Grounded on the
// teacher's nsinit/main.go, which configures a package-level logrus logger
// from CLI flags ("--debug", "--log-file") before running any command.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger configured the way nsinit configures the
// package-level logger: text output, optional debug level, optional
// redirection to a log file.
func New(debug bool, logFile string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		log.SetOutput(f)
	}
	return log, nil
}

// ForContainer returns a logger pre-tagged with a container name field.
func ForContainer(log logrus.FieldLogger, container string) *logrus.Entry {
	return log.WithField("container", container)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
