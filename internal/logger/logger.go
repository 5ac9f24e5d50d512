// Package logger builds the process logger. Output goes to a timestamped file
// so it never interleaves with the interactive terminal.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const filePattern = "glnotes-*.log"

// New returns a JSON logger writing to a new file in dir at the given level,
// keeping at most keep log files. The returned func closes the file.
func New(dir, level string, keep int) (*zap.Logger, func() error, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	f, err := openFile(dir, time.Now(), keep)
	if err != nil {
		return nil, nil, err
	}
	return zap.New(zapcore.NewCore(encoder(), zapcore.AddSync(f), lvl), zap.AddCaller()), f.Close, nil
}

func encoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func openFile(dir string, now time.Time, keep int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	name := filepath.Join(dir, fmt.Sprintf("glnotes-%s.log", now.Format("2006-01-02T15-04-05.000")))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}
	if err := prune(dir, keep); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to cleanup old logs: %v\n", err)
	}
	return f, nil
}

// prune removes the oldest log files beyond keep.
func prune(dir string, keep int) error {
	files, err := filepath.Glob(filepath.Join(dir, filePattern))
	if err != nil {
		return err
	}
	if keep < 1 || len(files) <= keep {
		return nil
	}
	// names embed the timestamp, so lexical order is chronological
	sort.Strings(files)
	for _, p := range files[:len(files)-keep] {
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}
