package logger

import (
	"go.uber.org/zap"
)

// Log is the shared application logger. Init must be called once at startup;
// until then Log is a no-op logger so packages can log unconditionally.
var Log = zap.NewNop()

// Init builds the global logger. Development mode uses the human-readable
// console encoder, everything else the production JSON encoder.
func Init(env string) error {
	var (
		l   *zap.Logger
		err error
	)
	if env == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}
