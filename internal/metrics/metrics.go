package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github/chapool/intent-wallet/internal/config"
)

const namespace = "intent_wallet"

// Service owns the process metrics registry and the round trip collectors.
type Service struct {
	Registry *prometheus.Registry

	intents     *prometheus.CounterVec
	callbacks   *prometheus.CounterVec
	roundTrip   prometheus.Histogram
	transitions *prometheus.CounterVec
}

func New(_ config.Server) (*Service, error) {
	s := &Service{
		Registry: prometheus.NewRegistry(),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Intents that reached a terminal state, by outcome.",
		}, []string{"outcome"}),
		callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callbacks_total",
			Help:      "Signer callbacks received, by event and how they were handled.",
		}, []string{"event", "result"}),
		roundTrip: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "signer_roundtrip_seconds",
			Help:      "Time between handing a request to the signer and its callback.",
			Buckets:   []float64{1, 2, 5, 10, 30, 60, 120, 300, 600},
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Intent state machine transitions.",
		}, []string{"from", "to"}),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.intents,
		s.callbacks,
		s.roundTrip,
		s.transitions,
	} {
		if err := s.Registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register collector")
		}
	}

	return s, nil
}

func (s *Service) IntentFinished(outcome string) {
	s.intents.WithLabelValues(outcome).Inc()
}

func (s *Service) CallbackHandled(event string, result string) {
	s.callbacks.WithLabelValues(event, result).Inc()
}

func (s *Service) ObserveRoundTrip(d time.Duration) {
	s.roundTrip.Observe(d.Seconds())
}

func (s *Service) StateTransition(from string, to string) {
	s.transitions.WithLabelValues(from, to).Inc()
}
