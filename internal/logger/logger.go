package logger

import (
	"context"

	"go-docflow/internal/config"
	"go-docflow/internal/database"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLogger builds the application logger, teeing console output into the logs collection
func NewLogger(lc fx.Lifecycle, cfg *config.Config, mongodb *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Caller function names are stored with every DB log line
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	dbWriter := NewDBLogWriter(mongodb)
	finalCore := NewDBCore(baseLogger.Core(), dbWriter)
	log := zap.New(finalCore, zap.AddCaller()).With(zap.String("app", cfg.AppId))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = log.Sync()
			dbWriter.Close()
			return nil
		},
	})

	return log, nil
}
