package config

import (
	"io"
	"os"
	"time"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the node logger. When a log file is configured the output
// is teed into a size-rotated file.
func NewLogger(cfg LogConfig) (log.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		out    io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)
	if cfg.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotated)
		closer = rotated
	}

	opts := []log.Option{
		log.LevelOption(level),
		log.TimeFormatOption(time.RFC3339),
	}
	if cfg.Format == "json" {
		opts = append(opts, log.OutputJSONOption())
	} else if cfg.File != "" {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(out, opts...), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
