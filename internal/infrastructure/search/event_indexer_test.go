package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/hello-birthday/internal/application"
)

type roundTripper func(*http.Request) (*http.Response, error)

func (f roundTripper) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newClient(t *testing.T, status int, seen *[]*http.Request, bodies *[]string) *elasticsearch.Client {
	t.Helper()
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: roundTripper(func(r *http.Request) (*http.Response, error) {
			*seen = append(*seen, r)
			if r.Body != nil {
				b, _ := io.ReadAll(r.Body)
				*bodies = append(*bodies, string(b))
			}
			h := http.Header{}
			h.Set("X-Elastic-Product", "Elasticsearch")
			h.Set("Content-Type", "application/json")
			return &http.Response{
				StatusCode: status,
				Header:     h,
				Body:       io.NopCloser(strings.NewReader(`{"result":"created"}`)),
			}, nil
		}),
	})
	require.NoError(t, err)
	return es
}

func TestIndexEvent(t *testing.T) {
	var seen []*http.Request
	var bodies []string
	x := NewEventIndexer(newClient(t, http.StatusCreated, &seen, &bodies), "greeter-events")
	days := 12

	err := x.IndexEvent(context.Background(), application.Event{
		ID:        "evt-1",
		Operation: application.OpGreet,
		Outcome:   application.OutcomeOK,
		Username:  "john",
		DaysUntil: &days,
		At:        time.Date(2024, time.June, 15, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, http.MethodPut, seen[0].Method)
	assert.Equal(t, "/greeter-events/_doc/evt-1", seen[0].URL.Path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(bodies[0]), &doc))
	assert.Equal(t, "get", doc["operation"])
	assert.Equal(t, "john", doc["username"])
	assert.EqualValues(t, 12, doc["days_until"])
	assert.Equal(t, "2024-06-15T08:00:00Z", doc["at"])
}

func TestIndexEventErrorStatus(t *testing.T) {
	var seen []*http.Request
	var bodies []string
	x := NewEventIndexer(newClient(t, http.StatusBadRequest, &seen, &bodies), "greeter-events")

	err := x.IndexEvent(context.Background(), application.Event{ID: "evt-2", Operation: application.OpSave, Outcome: application.OutcomeCreated})
	assert.ErrorContains(t, err, "evt-2")
}

func TestIndexEventRequiresID(t *testing.T) {
	x := NewEventIndexer(nil, "greeter-events")
	assert.Error(t, x.IndexEvent(context.Background(), application.Event{}))
}
