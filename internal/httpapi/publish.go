package httpapi

import (
	"github.com/tom-bartk/tuicub-server/internal/dto"
	"github.com/tom-bartk/tuicub-server/internal/event"
	"github.com/tom-bartk/tuicub-server/internal/logger"
	"go.uber.org/zap"
)

// publish sends evs to the bus after the handler's mutation has already
// committed. Failures are logged, never surfaced to the caller — the
// request already succeeded (§7).
func (d *Deps) publish(evs []event.Event) {
	if len(evs) == 0 {
		return
	}
	if err := d.Bus.Send(evs, dto.ToEventData); err != nil {
		logger.Get().Warn("event_publish_failed", zap.Error(err))
	}
}
