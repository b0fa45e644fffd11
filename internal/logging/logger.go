package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the application logger type.
type Logger = *logrus.Logger

// Fields is structured logging fields.
type Fields = logrus.Fields

// New creates a configured logger instance. Level comes from LOG_LEVEL;
// anything unrecognized means info.
func New() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(levelFromEnv())
	return logger
}

func levelFromEnv() logrus.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug", "DEBUG":
		return logrus.DebugLevel
	case "warn", "WARN", "warning":
		return logrus.WarnLevel
	case "error", "ERROR":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
