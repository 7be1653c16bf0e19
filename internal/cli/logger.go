package cli

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger returns a JSON logger writing to a rotated file when path is
// set, a console logger on stderr when console is set, and a no-op logger
// otherwise. The viewer owns the terminal, so it never logs to the console.
func newLogger(path string, console bool) (*zap.Logger, error) {
	if path != "" {
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename: path,
			MaxSize:  100,
			MaxAge:   30,
		})
		core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			w, zap.DebugLevel)
		return zap.New(core), nil
	}
	if !console {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	l, err := cfg.Build()
	return l, errors.Wrap(err, "building logger")
}
