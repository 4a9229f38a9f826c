package metrics

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/placora/backend/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector turns auth activity events into Prometheus counters. It
// satisfies auth.ActivitySink, so it drops into the lifecycle manager and
// the guard without extra plumbing.
type Collector struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
}

var _ auth.ActivitySink = (*Collector)(nil)

// NewCollector creates a collector with its own registry
func NewCollector() *Collector {
	return NewCollectorWithRegistry(prometheus.NewRegistry())
}

// NewCollectorWithRegistry registers the auth metrics on reg
func NewCollectorWithRegistry(reg *prometheus.Registry) *Collector {
	c := &Collector{
		registry: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "placora_auth_events_total",
			Help: "Auth lifecycle events by type",
		}, []string{"event"}),
	}

	reg.MustRegister(c.events)

	return c
}

// Record implements auth.ActivitySink
func (c *Collector) Record(ctx context.Context, event auth.ActivityEvent) error {
	c.events.WithLabelValues(string(event.EventType)).Inc()
	return nil
}

// Handler exposes the registry as a fiber handler for GET /metrics
func (c *Collector) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
}
