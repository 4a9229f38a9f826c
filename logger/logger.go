package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls the output level and encoding of the process logger.
type Config struct {
	Level    string
	Encoding string
}

// New builds a zap.Logger using the provided configuration.
func New(cfg Config) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		// fall back to info level if parsing fails
		level = zapcore.InfoLevel
	}

	var encoder zapcore.Encoder
	switch cfg.Encoding {
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	default:
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.AddSync(zapcore.Lock(os.Stdout)),
		level,
	)

	return zap.New(core, zap.AddCaller()), nil
}

// Adapter exposes a zap logger through the printf-style interface the
// service packages consume.
type Adapter struct {
	sugar *zap.SugaredLogger
}

// NewAdapter wraps base for use wherever an auth.Logger is expected.
func NewAdapter(base *zap.Logger) *Adapter {
	if base == nil {
		base = zap.NewNop()
	}
	return &Adapter{sugar: base.Sugar()}
}

func (a *Adapter) Debug(format string, args ...any) { a.sugar.Debugf(format, args...) }
func (a *Adapter) Info(format string, args ...any)  { a.sugar.Infof(format, args...) }
func (a *Adapter) Warn(format string, args ...any)  { a.sugar.Warnf(format, args...) }
func (a *Adapter) Error(format string, args ...any) { a.sugar.Errorf(format, args...) }
