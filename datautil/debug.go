package datautil

import (
	"fmt"

	"go.uber.org/zap"
)

// DebugPrinter emits debug output only when enabled, either through an
// injected logger or to stdout.
type DebugPrinter struct {
	enabled bool
	logger  *zap.Logger
}

// NewDebugPrinter creates a printer. The logger is optional.
func NewDebugPrinter(enabled bool, logger *zap.Logger) *DebugPrinter {
	return &DebugPrinter{enabled: enabled, logger: logger}
}

// Debug joins the arguments with spaces and emits them when the printer is
// enabled.
func (d *DebugPrinter) Debug(args ...any) {
	if !d.enabled {
		return
	}
	message := ListJoin(args, " ")
	if d.logger != nil {
		d.logger.Info(message)
		return
	}
	fmt.Println(message)
}
