// Package logger wires the process-wide structured logger.
package logger

import (
	"os"

	"go.uber.org/zap"
)

var globalLogger *zap.Logger

// Init builds the global logger. Format follows GO_ENV (production uses the
// JSON production config, anything else the human-readable development one);
// level comes from logLevel, defaulting to "info".
func Init(logLevel string) error {
	env := os.Getenv("GO_ENV")
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	switch logLevel {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	built, err := config.Build()
	if err != nil {
		return err
	}
	globalLogger = built
	return nil
}

// Get returns the global logger, falling back to a development logger if
// Init was never called (tests, tools).
func Get() *zap.Logger {
	if globalLogger == nil {
		globalLogger, _ = zap.NewDevelopment()
	}
	return globalLogger
}

// Sync flushes any buffered log entries.
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// WithContext returns a logger carrying the given fields. Used to attach
// per-request identifiers explicitly rather than through thread-locals.
func WithContext(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

// WithRequestContext attaches HTTP request fields (§9: per-request logger
// context must be carried explicitly, not via globals).
func WithRequestContext(requestID, method, path, userID string) *zap.Logger {
	fields := make([]zap.Field, 0, 4)
	if requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if method != "" {
		fields = append(fields, zap.String("method", method))
	}
	if path != "" {
		fields = append(fields, zap.String("path", path))
	}
	if userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	return Get().With(fields...)
}

// WithGameContext attaches gameroom/game identifiers.
func WithGameContext(gameroomID, gameID string) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if gameroomID != "" {
		fields = append(fields, zap.String("gameroom_id", gameroomID))
	}
	if gameID != "" {
		fields = append(fields, zap.String("game_id", gameID))
	}
	return Get().With(fields...)
}

// WithConnectionContext attaches events-process connection identifiers.
func WithConnectionContext(connectionID, userID string) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if connectionID != "" {
		fields = append(fields, zap.String("connection_id", connectionID))
	}
	if userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	return Get().With(fields...)
}
