package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared logger instance. Call Init before use.
var Log *zap.Logger

func Init() {
	if Log != nil {
		return
	}
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	var err error
	Log, err = config.Build()
	if err != nil {
		Log = zap.NewNop()
	}
}
