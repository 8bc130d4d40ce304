package logger

import "github.com/sirupsen/logrus"

// NewLogger falls back to debug when level is empty or unknown.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.DebugLevel
	}
	log.SetLevel(lvl)
	return log
}
