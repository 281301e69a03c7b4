package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelOff disables logging entirely
const LevelOff = "off"

// DefaultFile returns the log file location under the XDG state dir
func DefaultFile() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "navi", "navi.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "navi.log")
	}
	return filepath.Join(home, ".local", "state", "navi", "navi.log")
}

// New creates a JSON file logger. The terminal belongs to the UI, so
// nothing is written to stdout or stderr. An empty file means DefaultFile.
func New(level, file string) (*zap.Logger, error) {
	if strings.EqualFold(level, LevelOff) {
		return zap.NewNop(), nil
	}

	lvl, err := parseLogLevel(level)
	if err != nil {
		return nil, err
	}

	if file == "" {
		file = DefaultFile()
	}
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return nil, errors.Wrap(err, "create log dir")
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{file}
	cfg.ErrorOutputPaths = []string{file}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "open log %s", file)
	}
	return logger.Named("navi"), nil
}

// parseLogLevel converts a config level string to a zap level
func parseLogLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel, nil
	case "", "info":
		return zap.InfoLevel, nil
	case "warn":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, errors.Errorf("unknown log level: %s", level)
	}
}
