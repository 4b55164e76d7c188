package logging

import (
	"go.uber.org/zap"
)

// Init builds the process-wide sugared logger. Debug mode switches to the
// development config with full verbosity; otherwise console output at Info.
func Init(debug bool) *zap.SugaredLogger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

// Nop returns a no-op logger for tests and default wiring.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
