package core

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger: JSON in the normal case, a console
// logger at debug level when debugLogs is set.
func NewLogger(cfg Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.DebugLogs {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("env", cfg.Env)), nil
}
