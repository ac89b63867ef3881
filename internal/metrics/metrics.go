package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	SyncRuns          *prometheus.CounterVec
	SyncItems         *prometheus.CounterVec
	ProviderFallbacks prometheus.Counter
	LedgerRecords     prometheus.Counter
	InvoiceDeliveries *prometheus.CounterVec
	Claims            *prometheus.CounterVec
}

// New registers the service collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SyncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reelpay_sync_runs_total",
			Help: "Reel refresh runs by final state.",
		}, []string{"state"}),
		SyncItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reelpay_sync_items_total",
			Help: "Content items processed by refresh runs, by outcome.",
		}, []string{"outcome"}),
		ProviderFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reelpay_stats_provider_fallbacks_total",
			Help: "Provider failures answered with fabricated metrics.",
		}),
		LedgerRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reelpay_referral_earnings_created_total",
			Help: "Referral earning rows appended by settlement.",
		}),
		InvoiceDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reelpay_invoice_deliveries_total",
			Help: "Invoice emails by result.",
		}, []string{"result"}),
		Claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reelpay_referral_claims_total",
			Help: "Referral claim transitions by status.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.SyncRuns,
		m.SyncItems,
		m.ProviderFallbacks,
		m.LedgerRecords,
		m.InvoiceDeliveries,
		m.Claims,
	)
	return m
}

// NewNop returns collectors bound to a private registry, for tests and tools.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
