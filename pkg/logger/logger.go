// Package logger builds the zap loggers used across the service.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures NewWithOptions.
type Options struct {
	// Service is attached to every entry as the "service" field.
	Service string

	// Level is one of debug, info, warn, error or silent. Defaults to info.
	Level string

	// Format is json or text (console encoder). Defaults to json.
	Format string

	// Output receives the log entries. Defaults to stderr.
	Output io.Writer
}

// New creates a production JSON logger at info level.
func New(service string) *zap.SugaredLogger {
	log, err := NewWithOptions(Options{Service: service})
	if err != nil {
		// Defaults always parse.
		panic(err)
	}
	return log
}

// NewWithOptions creates a logger from opts, rejecting unknown levels and formats.
func NewWithOptions(opts Options) (*zap.SugaredLogger, error) {
	if strings.EqualFold(opts.Level, "silent") {
		return zap.NewNop().Sugar(), nil
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", "json":
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	case "text", "console":
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), level)
	log := zap.New(core, zap.AddCaller())
	if opts.Service != "" {
		log = log.With(zap.String("service", opts.Service))
	}

	return log.Sugar(), nil
}

// Nop returns a logger that discards everything, for components built without one.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
