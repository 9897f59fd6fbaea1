package events

import (
	"context"
	"fmt"

	"github.com/nerrad567/ecobuild-core/internal/infrastructure/logging"
)

// Publisher delivers events to one destination.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, ev Event) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Multi fans an event out to every registered sink.
type Multi struct {
	sinks  []namedSink
	logger *logging.Logger
}

type namedSink struct {
	name string
	pub  Publisher
}

// NewMulti creates an empty fan-out. Sinks are added with Add.
func NewMulti(logger *logging.Logger) *Multi {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Multi{logger: logger.With("component", "events")}
}

// Add registers a sink under name, which is only used in log entries.
// A nil publisher is ignored so optional sinks can be passed unconditionally.
func (m *Multi) Add(name string, p Publisher) {
	if p == nil {
		return
	}
	m.sinks = append(m.sinks, namedSink{name: name, pub: p})
}

// Len returns the number of registered sinks.
func (m *Multi) Len() int {
	return len(m.sinks)
}

// Publish delivers ev to every sink in registration order. Sink failures are
// logged and do not stop delivery; Publish itself never fails.
func (m *Multi) Publish(ctx context.Context, ev Event) error {
	for _, s := range m.sinks {
		if err := deliver(ctx, s.pub, ev); err != nil {
			m.logger.Warn("event sink failed",
				"sink", s.name,
				"type", string(ev.Type),
				"building_id", ev.BuildingID,
				"error", err,
			)
		}
	}
	return nil
}

// deliver shields the fan-out from a panicking sink.
func deliver(ctx context.Context, p Publisher, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panic: %v", r)
		}
	}()
	return p.Publish(ctx, ev)
}
