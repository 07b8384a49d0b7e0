package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Production uses JSON with ISO8601 timestamps,
// everything else the colored development console. A non-nil shipper (the
// CloudWatch Logs writer) receives a JSON copy of every entry.
func New(env string, shipper io.Writer) (*zap.Logger, error) {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if shipper == nil {
		log, err := config.Build()
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
		return log, nil
	}

	level := zap.NewAtomicLevelAt(config.Level.Level())

	var consoleEncoder zapcore.Encoder
	if config.Encoding == "json" {
		consoleEncoder = zapcore.NewJSONEncoder(config.EncoderConfig)
	} else {
		consoleEncoder = zapcore.NewConsoleEncoder(config.EncoderConfig)
	}
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)

	// colors make no sense in shipped JSON
	shippedConfig := config.EncoderConfig
	shippedConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	shippedCore := zapcore.NewCore(zapcore.NewJSONEncoder(shippedConfig), zapcore.AddSync(shipper), level)

	return zap.New(zapcore.NewTee(consoleCore, shippedCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
