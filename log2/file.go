package log2

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultFileMaxBackups = 10
	DefaultFileMaxSizeMB  = 100
)

type FileOptions struct {
	Path       string
	MaxBackups int
	MaxSizeMB  int
}

// NewRotating writes into size-rotated file, creates parent directory.
// Returned closer must be called on shutdown.
func NewRotating(opt FileOptions, level Level) (*Log, func() error, error) {
	if opt.Path == "" {
		return nil, nil, errors.NotValidf("log file path empty")
	}
	if opt.MaxBackups == 0 {
		opt.MaxBackups = DefaultFileMaxBackups
	}
	if opt.MaxSizeMB == 0 {
		opt.MaxSizeMB = DefaultFileMaxSizeMB
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, nil, errors.Annotatef(err, "log dir path=%s", opt.Path)
	}
	w := &lumberjack.Logger{
		Filename:   opt.Path,
		MaxBackups: opt.MaxBackups,
		MaxSize:    opt.MaxSizeMB,
	}
	l := NewWriter(w, level)
	l.SetFlags(LFileFlags)
	return l, w.Close, nil
}
