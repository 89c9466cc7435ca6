// Package logging builds the zap logger shared by the CLI and the engine.
package logging

import (
	"go.uber.org/zap"
)

// New returns a sugared logger. Verbose selects the development config at
// debug level; otherwise a console-encoded production config at warn level,
// so scan output stays clean unless something needs attention.
func New(verbose bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Nop returns a logger that discards everything, for tests and for callers
// that have not set up logging.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
