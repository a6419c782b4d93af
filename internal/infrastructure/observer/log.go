package observer

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hello-birthday/internal/application"
)

// Log writes one entry per outcome. Client errors log at warn, store
// failures at error.
type Log struct {
	Logger *logrus.Logger
}

func NewLog(logger *logrus.Logger) *Log { return &Log{Logger: logger} }

func (l *Log) Observe(e application.Event) {
	entry := l.Logger.WithFields(logrus.Fields{
		"operation": e.Operation,
		"outcome":   e.Outcome,
		"username":  e.Username,
	})
	if e.DaysUntil != nil {
		entry = entry.WithField("days_until", *e.DaysUntil)
	}
	switch e.Outcome {
	case application.OutcomeOK, application.OutcomeCreated, application.OutcomeUpdated:
		entry.Info("request handled")
	case string(application.StoreError):
		entry.Error("request failed")
	default:
		entry.Warn("request rejected")
	}
}
