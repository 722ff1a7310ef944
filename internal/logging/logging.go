// Package logging builds the process-wide zap logger.
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.Mutex
	logger *zap.Logger
)

// Options selects the logger built by Init.
type Options struct {
	// File, when set, receives JSON logs rotated by size in addition to stderr.
	File  string
	Debug bool
}

// Init replaces the process logger. The ENCODEKIT_LOG_FILE environment
// variable is used when opts.File is empty.
func Init(opts Options) *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		_ = logger.Sync()
	}
	logger = build(opts)
	return logger
}

// Logger returns the process logger, building a default one on first use.
func Logger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = build(Options{})
	}
	return logger
}

func build(opts Options) *zap.Logger {
	file := opts.File
	if file == "" {
		file = os.Getenv("ENCODEKIT_LOG_FILE")
	}
	lvl := zapcore.InfoLevel
	consoleCfg := zap.NewProductionEncoderConfig()
	if opts.Debug {
		lvl = zapcore.DebugLevel
		consoleCfg = zap.NewDevelopmentEncoderConfig()
	}
	consoleCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	console := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), lvl)
	if file == "" {
		return zap.New(console)
	}
	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28,
	}
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(rotating), lvl)
	return zap.New(zapcore.NewTee(console, fileCore))
}
