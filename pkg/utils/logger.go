package utils

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func InitLogger(level logrus.Level, isJSON bool) {
	// set log level
	logrus.SetLevel(level)

	// set log output: stdout by default
	logrus.SetOutput(os.Stdout)

	// set formatter: support JSON format or custom text format
	if isJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			ForceColors:     true,
		})
	}
}

// AddFileSink mirrors the launcher's own diagnostics into a rotating
// file. Child process stdio is not captured.
func AddFileSink(path string) {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MiB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	logrus.SetOutput(io.MultiWriter(os.Stdout, rotator))
}
