package observer

import (
	"context"
	"expvar"
	"strconv"
	"sync"
	"time"

	"github.com/oksasatya/hello-birthday/internal/application"
)

// Metrics counts outcomes in expvar maps served on /debug/vars.
type Metrics struct {
	Operations *expvar.Map // "<operation>.<outcome>" -> count
	Birthdays  *expvar.Map // days until birthday -> count
	Durations  *expvar.Map // "<METHOD> <route>" -> {count, sum_seconds}

	mu sync.Mutex
}

func NewMetrics() *Metrics {
	return &Metrics{
		Operations: new(expvar.Map).Init(),
		Birthdays:  new(expvar.Map).Init(),
		Durations:  new(expvar.Map).Init(),
	}
}

func (m *Metrics) Observe(e application.Event) {
	m.Operations.Add(string(e.Operation)+"."+e.Outcome, 1)
	if e.DaysUntil != nil {
		m.Birthdays.Add(strconv.Itoa(*e.DaysUntil), 1)
	}
}

// ObserveDuration adds one request of method on endpoint to the latency
// aggregate.
func (m *Metrics) ObserveDuration(method, endpoint string, d time.Duration) {
	key := method + " " + endpoint
	agg, ok := m.Durations.Get(key).(*expvar.Map)
	if !ok {
		m.mu.Lock()
		if agg, ok = m.Durations.Get(key).(*expvar.Map); !ok {
			agg = new(expvar.Map).Init()
			m.Durations.Set(key, agg)
		}
		m.mu.Unlock()
	}
	agg.Add("count", 1)
	agg.AddFloat("sum_seconds", d.Seconds())
}

// CountFunc returns the number of stored users.
type CountFunc func(ctx context.Context) (int64, error)

// Publish exposes the maps, app info and, when count is set, an
// active_users_total gauge. Names already published are left alone.
func (m *Metrics) Publish(appName, version string, count CountFunc) {
	publish("user_operations_total", m.Operations)
	publish("birthday_calculations_total", m.Birthdays)
	publish("request_duration_seconds", m.Durations)
	info := new(expvar.Map).Init()
	info.Set("app", stringVar(appName))
	info.Set("version", stringVar(version))
	publish("app_info", info)
	if count != nil {
		publish("active_users_total", expvar.Func(func() any {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			n, err := count(ctx)
			if err != nil {
				return -1
			}
			return n
		}))
	}
}

func stringVar(s string) *expvar.String {
	v := new(expvar.String)
	v.Set(s)
	return v
}

func publish(name string, v expvar.Var) {
	if expvar.Get(name) == nil {
		expvar.Publish(name, v)
	}
}
