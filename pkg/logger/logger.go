package logger

import (
	"go.uber.org/zap"
)

// New builds the production JSON logger used across the service. The result
// is injected explicitly; there is no package-level logger.
func New() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}
