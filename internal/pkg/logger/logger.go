// Package logger provides the shop ledger's logging built on top of Uber's Zap
// library. It creates and configures the service-wide logger instance and
// supplies HTTP middleware that records every API request.
package logger

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"
)

// Logger wraps the zap.Logger to provide additional logging functionality.
type Logger struct {
	*zap.Logger
}

// newLogger initializes a Logger with Zap's production configuration.
// In case of an error during creation, it logs the error using the standard log package.
func newLogger() *Logger {
	zl, err := zap.NewProduction()
	if err != nil {
		log.Println(err)
	}
	return &Logger{Logger: zl}
}

// CreateLogger creates and configures a Logger with the specified log level.
// It parses the provided level, applies it to the production configuration, and builds a new Zap logger.
func CreateLogger(level string) (customLog *Logger, err error) {
	logger := newLogger()
	defer logger.Sync()

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return logger, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	zl, err := cfg.Build()
	if err != nil {
		return logger, err
	}

	logger.Logger = zl
	return logger, nil
}

// WithLogging returns HTTP middleware that logs incoming API requests.
// It wraps the provided handler and records the method, URI, status code,
// duration, and response size of every call through the Zap logger.
func (logger *Logger) WithLogging() func(h http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("served",
					zap.String("method", r.Method),
					zap.String("uri", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Duration("duration", time.Since(start)),
					zap.Int("size", ww.BytesWritten()))
			}()
			h.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
