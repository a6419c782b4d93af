package observer

import "github.com/oksasatya/hello-birthday/internal/application"

// Fanout notifies each observer in order.
type Fanout []application.Observer

func (f Fanout) Observe(e application.Event) {
	for _, o := range f {
		o.Observe(e)
	}
}
