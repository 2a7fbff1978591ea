package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the server logger. Mode is "prod" (JSON, info and up) or
// "dev" (console, debug and up).
func New(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch mode {
	case "", "prod":
		cfg = zap.NewProductionConfig()
	case "dev":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log mode %q", mode)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Sugar(), nil
}
