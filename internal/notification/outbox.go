// Package notification records transition events for downstream delivery.
// Delivery mechanics (mail, chat, push) live outside this system; the outbox
// keeps a durable record of every event handed to the sink.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/univance/kpi-workflow/internal/application/dispatcher"
	"github.com/univance/kpi-workflow/internal/application/port"
	"github.com/univance/kpi-workflow/internal/domain/entity"
	"github.com/univance/kpi-workflow/internal/domain/event"
)

// Outbox persists transition events and hands them to a sink
type Outbox struct {
	repo   port.NotificationRepository
	sink   port.NotificationSink
	logger *zap.Logger
}

// NewOutbox creates a new notification outbox
func NewOutbox(repo port.NotificationRepository, sink port.NotificationSink, logger *zap.Logger) *Outbox {
	return &Outbox{
		repo:   repo,
		sink:   sink,
		logger: logger,
	}
}

// Register subscribes the outbox to transition events on the dispatcher
func (o *Outbox) Register(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.TypeStatusChanged, "notification-outbox", o.HandleStatusChanged)
}

// HandleStatusChanged records the transition event and attempts delivery.
// A sink failure marks the record failed but is never propagated to the
// transition that produced the event.
func (o *Outbox) HandleStatusChanged(ctx context.Context, evt *event.Event) error {
	n := &entity.Notification{
		ID:        uuid.NewString(),
		RequestID: evt.RequestID,
		Action:    evt.GetPayloadString("action"),
		ToState:   evt.GetPayloadString("to_state"),
		ActorID:   evt.GetPayloadString("actor_id"),
		Status:    entity.NotificationPending,
		CreatedAt: time.Now(),
	}

	if err := o.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("record notification: %w", err)
	}

	if o.sink != nil {
		if err := o.sink.Notify(ctx, n); err != nil {
			o.logger.Error("Notification delivery failed",
				zap.String("notification_id", n.ID),
				zap.String("request_id", n.RequestID),
				zap.Error(err))
			if uerr := o.repo.UpdateStatus(ctx, n.ID, entity.NotificationFailed, err.Error()); uerr != nil {
				o.logger.Error("Failed to mark notification failed", zap.String("notification_id", n.ID), zap.Error(uerr))
			}
			return nil
		}
	}

	if err := o.repo.MarkSent(ctx, n.ID); err != nil {
		o.logger.Error("Failed to mark notification sent", zap.String("notification_id", n.ID), zap.Error(err))
	}

	o.logger.Info("Transition notification recorded",
		zap.String("request_id", n.RequestID),
		zap.String("action", n.Action),
		zap.String("to_state", n.ToState))

	return nil
}

// LogSink is the default sink: it writes the event to the log. Real delivery
// integrations implement port.NotificationSink and replace it.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink that logs each notification
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Notify logs the notification
func (s *LogSink) Notify(_ context.Context, n *entity.Notification) error {
	s.logger.Info("Notification",
		zap.String("request_id", n.RequestID),
		zap.String("action", n.Action),
		zap.String("to_state", n.ToState),
		zap.String("actor_id", n.ActorID))
	return nil
}

var _ port.NotificationSink = (*LogSink)(nil)
