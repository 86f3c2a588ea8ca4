package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts pipeline outcomes. Registered against a caller-supplied
// registry so tests can use an isolated one.
type Metrics struct {
	documents    *prometheus.CounterVec
	duration     prometheus.Histogram
	transactions prometheus.Counter
	namesFound   *prometheus.CounterVec
}

// NewMetrics registers the pipeline collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		documents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transmatch",
			Name:      "documents_total",
			Help:      "Processed statements by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "transmatch",
			Name:      "document_seconds",
			Help:      "Wall time spent per statement.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		transactions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "transmatch",
			Name:      "transactions_total",
			Help:      "Transaction rows parsed.",
		}),
		namesFound: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transmatch",
			Name:      "counterparty_names_total",
			Help:      "Counterparty name resolution outcomes.",
		}, []string{"resolved"}),
	}
}

func (m *Metrics) observeResult(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(outcome).Inc()
	m.duration.Observe(seconds)
}

func (m *Metrics) observeTransactions(total, named int) {
	if m == nil {
		return
	}
	m.transactions.Add(float64(total))
	m.namesFound.WithLabelValues("yes").Add(float64(named))
	m.namesFound.WithLabelValues("no").Add(float64(total - named))
}
