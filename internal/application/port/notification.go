package port

import (
	"context"

	"github.com/univance/kpi-workflow/internal/domain/entity"
)

// NotificationSink receives one event per executed transition. The workflow
// engine fires these without waiting for delivery; a sink error never rolls
// back the transition that produced it.
type NotificationSink interface {
	Notify(ctx context.Context, n *entity.Notification) error
}
