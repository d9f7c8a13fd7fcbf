package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/GlebRadaev/ledger/internal/config"
)

const timeLayout = "15:04:05 02-01-2006"

func encoderConfig(format string) (zapcore.EncoderConfig, error) {
	ec := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	switch format {
	case "console":
		ec.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "json":
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeLevel = zapcore.LowercaseLevelEncoder
	default:
		return ec, fmt.Errorf("unsupported log format: %s", format)
	}
	return ec, nil
}

// InitLogger replaces the global zap logger. Packages log through zap.L().
func InitLogger(conf *config.Config) error {
	lvl, err := zapcore.ParseLevel(conf.LogLvl)
	if err != nil {
		return fmt.Errorf("unsupported log lvl: %s", conf.LogLvl)
	}
	ec, err := encoderConfig(conf.LogFormat)
	if err != nil {
		return err
	}

	c := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         conf.LogFormat,
		EncoderConfig:    ec,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		return fmt.Errorf("unable to create zap logger, error: %w", err)
	}

	zap.ReplaceGlobals(logger.Named("ledger"))

	return nil
}
