// Package notifier provides the gateway's user-facing alert surface.
package notifier

import (
	"wallet_gateway/internal/app/port"

	"go.uber.org/zap"
)

// ZapNotifier logs alerts at warn level. The dashboard front-end is the
// place where alerts become toasts; the gateway records them.
type ZapNotifier struct {
	logger *zap.Logger
}

// New creates a ZapNotifier.
func New(logger *zap.Logger) *ZapNotifier {
	return &ZapNotifier{logger: logger.Named("Notifier")}
}

// Notify records one user-facing alert.
func (n *ZapNotifier) Notify(message string) {
	n.logger.Warn("User alert", zap.String("message", message))
}

var _ port.Notifier = (*ZapNotifier)(nil)
