package search

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hello-birthday/internal/application"
)

// Acknowledger is the part of amqp.Delivery the worker needs.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// HandleMessage indexes one queued event. Undecodable messages are dropped;
// indexing failures are requeued.
func (x *EventIndexer) HandleMessage(ctx context.Context, body []byte, msg Acknowledger, logger *logrus.Logger) {
	var e application.Event
	if err := json.Unmarshal(body, &e); err != nil || e.ID == "" {
		logger.WithError(err).Warn("bad event message")
		_ = msg.Nack(false, false)
		return
	}
	if err := x.IndexEvent(ctx, e); err != nil {
		logger.WithError(err).WithField("event_id", e.ID).Error("index event failed")
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
	logger.WithField("event_id", e.ID).Debug("event indexed")
}
