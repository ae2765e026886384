package federated

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records server rounds. A nil *Metrics records nothing.
type Metrics struct {
	rounds        *prometheus.CounterVec
	evaluations   *prometheus.CounterVec
	roundDuration *prometheus.HistogramVec
	fits          *prometheus.CounterVec
}

// NewMetrics creates the server metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		rounds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fedpower",
			Subsystem: "server",
			Name:      "rounds_total",
			Help:      "Aggregation rounds answered by every client",
		}, []string{"variance"}),
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fedpower",
			Subsystem: "server",
			Name:      "client_evaluations_total",
			Help:      "Lambda values evaluated, summed over clients",
		}, []string{"variance"}),
		roundDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fedpower",
			Subsystem: "server",
			Name:      "round_duration_seconds",
			Help:      "Wall time of one aggregation round",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"variance"}),
		fits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fedpower",
			Subsystem: "server",
			Name:      "fits_total",
			Help:      "Completed fits by optimizer and variance mode",
		}, []string{"method", "variance"}),
	}
}

func (m *Metrics) observeRound(mode VarianceMode, clients, lambdas int, d time.Duration) {
	if m == nil {
		return
	}
	label := mode.String()
	m.rounds.WithLabelValues(label).Inc()
	m.evaluations.WithLabelValues(label).Add(float64(clients * lambdas))
	m.roundDuration.WithLabelValues(label).Observe(d.Seconds())
}

func (m *Metrics) observeFit(method string, mode VarianceMode) {
	if m == nil {
		return
	}
	m.fits.WithLabelValues(method, mode.String()).Inc()
}
