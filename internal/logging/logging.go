// Package logging provides application-wide logger construction.
package logging

import (
	"go.uber.org/zap"
)

// Init builds the application logger. Debug switches to the development
// config with human-readable output and debug-level logging.
func Init(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
