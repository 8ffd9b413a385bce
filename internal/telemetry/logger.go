// Package telemetry builds the process-wide zap logger.
package telemetry

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger returns a production logger, or a development logger when
// APP_ENV is "development".
func NewLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
