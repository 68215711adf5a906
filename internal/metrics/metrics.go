// Package metrics exports dungeon activity as Prometheus metrics, fed from
// the domain event bus.
package metrics

import (
	"context"
	"net/http"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// ResultOK is the result label of an accepted command
const ResultOK = "ok"

// Config holds the dependencies for the recorder
type Config struct {
	EventBus events.EventBus
	// Registry defaults to a fresh registry
	Registry *prometheus.Registry
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.EventBus == nil {
		return errors.InvalidArgument("event bus is required")
	}
	return nil
}

// Recorder counts dungeon events
type Recorder struct {
	registry *prometheus.Registry
	bus      events.EventBus
	subs     []string

	SessionsCreated prometheus.Counter
	Commands        *prometheus.CounterVec
	Victories       prometheus.Counter
	Defeats         prometheus.Counter
	ActiveSessions  prometheus.Gauge
}

// NewRecorder registers the dungeon metrics and subscribes to the bus
func NewRecorder(cfg *Config) (*Recorder, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	r := &Recorder{
		registry: registry,
		bus:      cfg.EventBus,
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dungeon_sessions_created_total",
			Help: "Total dungeons created",
		}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dungeon_commands_total",
			Help: "Commands submitted by kind and result",
		}, []string{"kind", "result"}),
		Victories: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dungeon_victories_total",
			Help: "Dungeons won",
		}),
		Defeats: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dungeon_defeats_total",
			Help: "Dungeons lost",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dungeon_active_sessions",
			Help: "Dungeons held by this process",
		}),
	}

	for _, c := range []prometheus.Collector{r.SessionsCreated, r.Commands, r.Victories, r.Defeats, r.ActiveSessions} {
		if err := registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register metric")
		}
	}

	for _, typ := range []string{
		dungeon.EventCreated,
		dungeon.EventLoaded,
		dungeon.EventTurnResolved,
		dungeon.EventCommandRejected,
		dungeon.EventDeleted,
	} {
		r.subs = append(r.subs, r.bus.SubscribeFunc(typ, 0, r.handle))
	}

	return r, nil
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Close stops listening to the bus
func (r *Recorder) Close() {
	for _, id := range r.subs {
		_ = r.bus.Unsubscribe(id)
	}
	r.subs = nil
}

func (r *Recorder) handle(_ context.Context, e events.Event) error {
	ev, ok := e.Source().(*dungeon.Event)
	if !ok {
		return nil
	}

	switch ev.Type {
	case dungeon.EventCreated:
		r.SessionsCreated.Inc()
		r.ActiveSessions.Inc()
	case dungeon.EventLoaded:
		r.ActiveSessions.Inc()
	case dungeon.EventDeleted:
		r.ActiveSessions.Dec()
	case dungeon.EventCommandRejected:
		r.Commands.WithLabelValues(commandKind(ev), ev.Reason).Inc()
	case dungeon.EventTurnResolved:
		r.Commands.WithLabelValues(commandKind(ev), ResultOK).Inc()
		if ev.Log == nil {
			return nil
		}
		switch ev.Log.Terminal {
		case dungeon.TerminalVictory:
			// opening the treasure also reports victory
			if ev.Command == nil || ev.Command.Kind != dungeon.CommandOpenTreasure {
				r.Victories.Inc()
			}
		case dungeon.TerminalDefeated:
			r.Defeats.Inc()
		}
	}
	return nil
}

func commandKind(ev *dungeon.Event) string {
	if ev.Command == nil {
		return "unknown"
	}
	return string(ev.Command.Kind)
}
