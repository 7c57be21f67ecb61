// Package notify decouples the sync engine from any UI toolkit: the engine
// reports transitions, notifiers render them wherever the host wants.
package notify

import (
	"github.com/rs/zerolog"

	"mariiahub/internal/domain"
)

// LogNotifier renders alerts into the structured log. Always wired in as
// the fallback surface.
type LogNotifier struct {
	logger *zerolog.Logger
}

func NewLogNotifier(logger *zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(kind domain.AlertKind, message string, data map[string]interface{}) {
	var ev *zerolog.Event
	switch kind {
	case domain.AlertError:
		ev = n.logger.Error()
	case domain.AlertWarn:
		ev = n.logger.Warn()
	default:
		ev = n.logger.Info()
	}
	ev.Fields(data).Msg(message)
}

// MultiNotifier fans one alert out to several surfaces.
type MultiNotifier struct {
	notifiers []domain.Notifier
}

func NewMultiNotifier(notifiers ...domain.Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

func (n *MultiNotifier) Notify(kind domain.AlertKind, message string, data map[string]interface{}) {
	for _, notifier := range n.notifiers {
		notifier.Notify(kind, message, data)
	}
}
