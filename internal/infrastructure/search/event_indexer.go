package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/hello-birthday/internal/application"
)

// EventIndexer stores outcome events as Elasticsearch documents keyed by
// event id, so redelivered messages overwrite instead of duplicating.
type EventIndexer struct {
	ES      *elasticsearch.Client
	Index   string
	Timeout time.Duration
}

func NewEventIndexer(es *elasticsearch.Client, index string) *EventIndexer {
	return &EventIndexer{ES: es, Index: index, Timeout: 3 * time.Second}
}

func (x *EventIndexer) IndexEvent(ctx context.Context, e application.Event) error {
	if e.ID == "" {
		return fmt.Errorf("event without id")
	}
	doc := map[string]any{
		"operation": e.Operation,
		"outcome":   e.Outcome,
		"username":  e.Username,
		"at":        e.At.UTC().Format(time.RFC3339Nano),
	}
	if e.DaysUntil != nil {
		doc["days_until"] = *e.DaysUntil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{Index: x.Index, DocumentID: e.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("index event %s: %w", e.ID, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index event %s: %s", e.ID, res.Status())
	}
	return nil
}
