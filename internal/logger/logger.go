package logger

import (
	"sourcevia/internal/config"

	"go.uber.org/zap"
)

// NewLogger builds the process logger: JSON in production, console
// elsewhere. Durable audit records go through the audit feature, not here.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.EncoderConfig.FunctionKey = "func"

	return zapConfig.Build(zap.AddCaller())
}
