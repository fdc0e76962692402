package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
}

// FileLogger returns a JSON logger writing to stdout and a rotating file.
// An empty path logs to stdout only.
func FileLogger(level logrus.Level, opts FileOptions) (io.Closer, *logrus.Logger, error) {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{})

	if opts.Path == "" {
		logger.SetOutput(os.Stdout)
		return io.NopCloser(nil), logger, nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, nil, err
	}
	rotating := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   true,
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, rotating))
	return rotating, logger, nil
}

// ConsoleLogger is used by CLI commands that should not touch log files.
func ConsoleLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(os.Stderr)
	return logger
}
