package remit

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PromMetrics struct {
	RemittancesCreated   *prometheus.CounterVec
	RemittancesCompleted *prometheus.CounterVec
	RemittancesDeleted   prometheus.Counter
	CustodyBalance       *prometheus.GaugeVec
	ProtocolFeesCharged  *prometheus.CounterVec
}

func InitPromMetrics(port int16) *PromMetrics {
	reg := prometheus.NewRegistry()

	// labels
	var (
		routeLabels   = []string{"route"}
		custodyLabels = []string{"token", "symbol"}
		feeLabels     = []string{"token"}
	)

	m := &PromMetrics{
		RemittancesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remitx_remittances_created_total",
			Help: "Remittances created, by route (local or cross_chain)",
		}, routeLabels),
		RemittancesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remitx_remittances_completed_total",
			Help: "Remittances settled to the recipient, by route",
		}, routeLabels),
		RemittancesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remitx_remittances_deleted_total",
			Help: "Remittances canceled and refunded",
		}),
		CustodyBalance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "remitx_custody_balance",
			Help: "The current custody balance per token",
		}, custodyLabels),
		ProtocolFeesCharged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remitx_protocol_fees_charged_total",
			Help: "Protocol fees retained, in source token units",
		}, feeLabels),
	}

	reg.MustRegister(m.RemittancesCreated)
	reg.MustRegister(m.RemittancesCompleted)
	reg.MustRegister(m.RemittancesDeleted)
	reg.MustRegister(m.CustodyBalance)
	reg.MustRegister(m.ProtocolFeesCharged)

	// Expose /metrics HTTP endpoint
	go func() {
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), nil))
	}()

	return m
}

const (
	routeLocal      = "local"
	routeCrossChain = "cross_chain"
)

func (m *PromMetrics) IncCreated(crossChain bool) {
	if m == nil {
		return
	}
	m.RemittancesCreated.WithLabelValues(route(crossChain)).Inc()
}

func (m *PromMetrics) IncCompleted(crossChain bool) {
	if m == nil {
		return
	}
	m.RemittancesCompleted.WithLabelValues(route(crossChain)).Inc()
}

func (m *PromMetrics) IncDeleted() {
	if m == nil {
		return
	}
	m.RemittancesDeleted.Inc()
}

func (m *PromMetrics) SetCustodyBalance(token, symbol string, balance float64) {
	if m == nil {
		return
	}
	m.CustodyBalance.WithLabelValues(token, symbol).Set(balance)
}

func (m *PromMetrics) AddFeesCharged(token string, amount float64) {
	if m == nil {
		return
	}
	m.ProtocolFeesCharged.WithLabelValues(token).Add(amount)
}

func route(crossChain bool) string {
	if crossChain {
		return routeCrossChain
	}
	return routeLocal
}
