// Package logging provides named, file-backed zap loggers with rotation.
//
// Every component of this library accepts an optional *zap.Logger. When the
// caller does not supply one, packages fall back to logging.New, which writes
// a shared debug.log (info and above) and error.log (error and above) into a
// configurable log folder.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config contains logging configuration.
type Config struct {
	// LogFolder is the directory receiving debug.log and error.log.
	LogFolder string `yaml:"log_folder" json:"log_folder"`

	// Level is the minimum level written to debug.log.
	Level string `yaml:"level" json:"level"`

	// Rotation settings.
	MaxSizeMB  int  `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" json:"max_age_days"`
	Compress   bool `yaml:"compress" json:"compress"`

	// Development tees console-encoded output to stdout.
	Development bool `yaml:"development" json:"development"`

	// Encoding selects the file encoder: json or console.
	Encoding string `yaml:"encoding" json:"encoding"`
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		LogFolder:  "_logs",
		Level:      "debug",
		MaxSizeMB:  100,
		MaxBackups: 30,
		MaxAgeDays: 30,
		Compress:   true,
		Encoding:   "console",
	}
}

// Factory provides centralized logger creation with per-name caching.
type Factory struct {
	config    *Config
	loggers   map[string]*zap.Logger
	loggersMu sync.RWMutex
}

// NewFactory creates a new logger factory. The log folder is created on
// demand.
func NewFactory(config *Config) (*Factory, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := os.MkdirAll(config.LogFolder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &Factory{
		config:  config,
		loggers: make(map[string]*zap.Logger),
	}, nil
}

// Get returns a logger for the specified name, creating and caching it on
// first use. A trailing ".log" suffix is stripped from the name.
func (f *Factory) Get(name string) *zap.Logger {
	name = strings.TrimSuffix(name, ".log")

	f.loggersMu.RLock()
	if logger, exists := f.loggers[name]; exists {
		f.loggersMu.RUnlock()
		return logger
	}
	f.loggersMu.RUnlock()

	f.loggersMu.Lock()
	defer f.loggersMu.Unlock()

	// Double-check after acquiring write lock
	if logger, exists := f.loggers[name]; exists {
		return logger
	}

	logger := buildLogger(f.config).Named(name)
	f.loggers[name] = logger
	return logger
}

// Sync flushes all cached loggers.
func (f *Factory) Sync() error {
	f.loggersMu.RLock()
	defer f.loggersMu.RUnlock()

	var firstErr error
	for _, logger := range f.loggers {
		if err := logger.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var (
	defaultFactory   *Factory
	defaultFactoryMu sync.Mutex
)

// Option customises the default factory used by New.
type Option func(*Config)

// WithLogFolder overrides the folder logs are written to.
func WithLogFolder(folder string) Option {
	return func(c *Config) { c.LogFolder = folder }
}

// WithLevel overrides the minimum level written to debug.log.
func WithLevel(level string) Option {
	return func(c *Config) { c.Level = level }
}

// WithDevelopment enables console output to stdout.
func WithDevelopment() Option {
	return func(c *Config) { c.Development = true }
}

// New returns a named logger from the shared default factory. Repeated calls
// with the same name return the same logger. Options only take effect on the
// call that creates the factory.
func New(name string, opts ...Option) *zap.Logger {
	defaultFactoryMu.Lock()
	if defaultFactory == nil {
		config := DefaultConfig()
		for _, opt := range opts {
			opt(config)
		}
		factory, err := NewFactory(config)
		if err != nil {
			// Fall back to a stderr-only logger rather than failing the caller.
			defaultFactoryMu.Unlock()
			logger, _ := zap.NewProduction()
			return logger.Named(name)
		}
		defaultFactory = factory
	}
	factory := defaultFactory
	defaultFactoryMu.Unlock()

	return factory.Get(name)
}

// buildLogger assembles the zap core stack for a config: a rotated debug.log
// core, a rotated error.log core and optionally a stdout console core.
func buildLogger(config *Config) *zap.Logger {
	encoderConfig := buildEncoderConfig(config)

	var encoder zapcore.Encoder
	if config.Encoding == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		level = zapcore.DebugLevel
	}

	debugWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(config.LogFolder, "debug.log"),
		MaxSize:    config.MaxSizeMB,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAgeDays,
		Compress:   config.Compress,
	})
	errorWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(config.LogFolder, "error.log"),
		MaxSize:    config.MaxSizeMB,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAgeDays,
		Compress:   config.Compress,
	})

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, debugWriter, level),
		zapcore.NewCore(encoder, errorWriter, zapcore.ErrorLevel),
	}

	if config.Development {
		consoleEncoder := zapcore.NewConsoleEncoder(buildEncoderConfig(config))
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level))
	}

	options := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if config.Development {
		options = append(options, zap.Development())
	}

	return zap.New(zapcore.NewTee(cores...), options...)
}

// buildEncoderConfig builds the encoder configuration.
func buildEncoderConfig(config *Config) zapcore.EncoderConfig {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if config.Development {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return encoderConfig
}

// LogIf logs only if err is not nil.
func LogIf(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if err != nil {
		logger.Error(msg, append(fields, zap.Error(err))...)
	}
}

// WithComponent adds component context to a logger.
func WithComponent(logger *zap.Logger, component string) *zap.Logger {
	return logger.With(zap.String("component", component))
}
