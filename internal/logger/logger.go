package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(env string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	return cfg.Build()
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// EvaluationFields returns the structured fields that identify one candidate evaluation.
// The token is truncated; it doubles as a bearer credential for the wizard.
func EvaluationFields(companyID, token string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if companyID != "" {
		fields = append(fields, zap.String("company_id", companyID))
	}
	if token != "" {
		if len(token) > 8 {
			token = token[:8]
		}
		fields = append(fields, zap.String("token_prefix", token))
	}
	return fields
}
