// Package metrics counts browse engine events in Prometheus form and can
// serve them over HTTP.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"pokedex-cli/internal/browse"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const namespace = "pokedex"

// Recorder is a browse.Reporter backed by Prometheus collectors on its own
// registry.
type Recorder struct {
	Registry *prometheus.Registry

	Fetches   *prometheus.CounterVec
	Stale     prometheus.Counter
	Mutations *prometheus.CounterVec
	Items     prometheus.Gauge
	Total     prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_fetches_total",
			Help:      "Settled list fetch cycles by result.",
		}, []string{"result"}),
		Stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_total",
			Help:      "List responses discarded because newer parameters superseded them.",
		}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capture_toggles_total",
			Help:      "Settled capture toggles by result.",
		}, []string{"result"}),
		Items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "list_items",
			Help:      "Items currently loaded.",
		}),
		Total: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "list_total",
			Help:      "Total matches reported by the service.",
		}),
	}
	r.Registry.MustRegister(r.Fetches, r.Stale, r.Mutations, r.Items, r.Total)
	return r
}

func (r *Recorder) Report(ev browse.Event) {
	switch ev.Kind {
	case browse.EventFetchSucceeded:
		r.Fetches.WithLabelValues("ok").Inc()
		r.Items.Set(float64(ev.Items))
		r.Total.Set(float64(ev.Total))
	case browse.EventFetchFailed:
		r.Fetches.WithLabelValues("error").Inc()
	case browse.EventStaleDiscarded:
		r.Stale.Inc()
	case browse.EventMutationConfirmed:
		r.Mutations.WithLabelValues("confirmed").Inc()
	case browse.EventMutationFailed:
		r.Mutations.WithLabelValues("rolled_back").Inc()
	case browse.EventMutationSuperseded:
		r.Mutations.WithLabelValues("superseded").Inc()
	}
}

// Handler serves the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{Registry: r.Registry})
}

// Serve exposes /metrics on addr until ctx is done. The listener is bound
// before Serve returns, so a bad address fails fast.
func (r *Recorder) Serve(ctx context.Context, addr string, log zerolog.Logger) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", ln.Addr().String()).Msg("metrics server stopped")
		}
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")
	return ln.Addr(), nil
}
