// Package metrics exposes taunt counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Metrics struct {
	registry   *prometheus.Registry
	sent       prometheus.Counter
	selections *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taunts_sent_total",
			Help: "Taunt challenges posted.",
		}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taunt_selections_total",
			Help: "Dropdown selections by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.sent, m.selections)
	return m
}

func (m *Metrics) TauntSent() { m.sent.Inc() }

func (m *Metrics) Selection(outcome string) {
	m.selections.WithLabelValues(outcome).Inc()
}

// TrackActiveMenus reports the value of count as the active menu gauge.
func (m *Metrics) TrackActiveMenus(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "taunt_active_menus",
		Help: "Taunt menus still waiting for an answer.",
	}, func() float64 { return float64(count()) }))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("Metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
