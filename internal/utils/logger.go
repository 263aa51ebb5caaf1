package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "collabnote"

// InitLogger replaces the global zap logger. "dev" gets coloured console
// output at debug level; any other env gets sampled JSON at info level.
// Every entry carries the service name and env.
func InitLogger(env string) {
	cfg := loggerConfig(env)
	cfg.InitialFields = map[string]interface{}{
		"service": serviceName,
		"env":     env,
	}

	logger, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	zap.ReplaceGlobals(logger)
}

func loggerConfig(env string) zap.Config {
	if env == "dev" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	return cfg
}
