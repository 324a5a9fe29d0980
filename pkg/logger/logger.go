package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type MainLogHook struct{}

func (h *MainLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "Main: " + entry.Message
	return nil
}

func (h *MainLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

var output io.Writer = os.Stdout

// SetFile duplicates every logger created afterwards into a rotated file.
func SetFile(path string) {
	if path == "" {
		output = os.Stdout
		return
	}

	output = io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     14,
		Compress:   true,
	})
}

func NewLogger(level string, hook logrus.Hook) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(output)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.DebugLevel
	}
	l.SetLevel(lvl)

	if hook != nil {
		l.AddHook(hook)
	}

	return logrus.NewEntry(l)
}
