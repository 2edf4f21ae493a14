package logging

import (
	"github.com/pion/logging"
)

var loggerFactory logging.LoggerFactory = logging.NewDefaultLoggerFactory()

func NewLogger(scope string) logging.LeveledLogger {
	return loggerFactory.NewLogger(scope)
}

// SetLoggerFactory replaces the factory used by NewLogger. It only affects
// loggers created after the call.
func SetLoggerFactory(f logging.LoggerFactory) {
	loggerFactory = f
}
