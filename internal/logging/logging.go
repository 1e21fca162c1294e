// Package logging configures the logrus logger shared by all components.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options select where log lines go.
type Options struct {
	Level string
	// File receives log output when set. Terminal front-ends that own the
	// screen pass their log file here.
	File string
	// Out is used when File is empty. Defaults to os.Stderr.
	Out io.Writer
}

// Setup builds a logger from opts. The returned closer releases the log file
// and is safe to call when no file was opened.
func Setup(opts Options) (*logrus.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   opts.File != "",
	})

	var closer io.Closer = nopCloser{}
	switch {
	case strings.TrimSpace(opts.File) != "":
		path := strings.TrimSpace(opts.File)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		log.SetOutput(f)
		closer = f
	case opts.Out != nil:
		log.SetOutput(opts.Out)
	default:
		log.SetOutput(os.Stderr)
	}
	return log, closer, nil
}

// ParseLevel maps a config level name to a logrus level. Empty means info.
func ParseLevel(name string) (logrus.Level, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(trimmed)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("parse log level: %w", err)
	}
	return level, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
