package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "fuelease"

var log *zap.Logger

// Init builds the global logger. Production gets JSON on stdout, everything
// else a colored console encoder at debug level.
func Init(env string) {
	var cfg zap.Config

	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	built, err := cfg.Build(
		zap.AddCaller(),
		zap.Fields(zap.String("service", serviceName), zap.String("env", env)),
	)
	if err != nil {
		panic(err)
	}
	log = built
}

// L returns the global logger, initializing it from APP_ENV on first use.
func L() *zap.Logger {
	if log == nil {
		Init(os.Getenv("APP_ENV"))
	}
	return log
}

// Replace swaps the global logger and returns a func restoring the previous one.
func Replace(l *zap.Logger) func() {
	prev := log
	log = l
	return func() { log = prev }
}

func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
