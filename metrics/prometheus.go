package metrics

import (
	"math/big"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openalpha/supercluster/app"
	superclustertypes "github.com/openalpha/supercluster/x/supercluster/types"
)

const namespace = "supercluster"

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all vault metrics
type Collector struct {
	// Vault metrics
	ManagedValue *prometheus.GaugeVec
	LiveValue    *prometheus.GaugeVec
	TotalShares  *prometheus.GaugeVec
	IdleBalance  *prometheus.GaugeVec
	PilotValue   *prometheus.GaugeVec

	// Flow metrics
	DepositsTotal    *prometheus.CounterVec
	DepositValue     *prometheus.CounterVec
	WithdrawalsTotal *prometheus.CounterVec
	WithdrawValue    *prometheus.CounterVec
	RebasesTotal     *prometheus.CounterVec

	// Queue metrics
	QueueBalance    *prometheus.GaugeVec
	QueueReserved   *prometheus.GaugeVec
	PendingRequests *prometheus.GaugeVec

	// State engine metrics
	EventsTotal      *prometheus.CounterVec
	OperationsTotal  *prometheus.CounterVec
	OperationLatency *prometheus.HistogramVec
	BlockHeight      prometheus.Gauge

	// WebSocket metrics
	WSConnectionsActive *prometheus.GaugeVec
	WSMessagesTotal     *prometheus.CounterVec

	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	RateLimitHits     *prometheus.CounterVec
}

// GetCollector returns the singleton collector on the default registry
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = NewCollector(prometheus.DefaultRegisterer)
	})
	return collector
}

// NewCollector creates a collector registered with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{}

	gauge := func(subsystem, name, help string, labels ...string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
		}, labels)
	}
	counter := func(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
		}, labels)
	}

	c.ManagedValue = gauge("vault", "managed_value", "Total managed value recorded by the ledger")
	c.LiveValue = gauge("vault", "live_value", "Idle balance plus the value reported by registered pilots")
	c.TotalShares = gauge("vault", "total_shares", "Total ledger shares outstanding")
	c.IdleBalance = gauge("vault", "idle_balance", "Base asset held by the orchestrator and not deployed")
	c.PilotValue = gauge("vault", "pilot_value", "Value reported by each registered pilot", "pilot")

	c.DepositsTotal = counter("flows", "deposits_total", "Number of deposits", "pilot")
	c.DepositValue = counter("flows", "deposit_value", "Base asset deposited", "pilot")
	c.WithdrawalsTotal = counter("flows", "withdrawals_total", "Number of vault withdrawals")
	c.WithdrawValue = counter("flows", "withdraw_value", "Value moved into the withdrawal queue")
	c.RebasesTotal = counter("flows", "rebases_total", "Number of managed value updates")

	c.QueueBalance = gauge("queue", "balance", "Base asset held by the withdrawal queue")
	c.QueueReserved = gauge("queue", "reserved", "Queue funds reserved for finalized requests")
	c.PendingRequests = gauge("queue", "pending_requests", "Requests not yet finalized")

	c.EventsTotal = counter("state", "events_total", "Committed events by type", "type")
	c.OperationsTotal = counter("state", "operations_total", "State operations by outcome", "operation", "result")
	c.OperationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "state",
			Name:      "operation_latency_ms",
			Help:      "State operation latency in milliseconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		},
		[]string{"operation"},
	)
	c.BlockHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "state",
		Name:      "height",
		Help:      "Last committed height",
	})

	c.WSConnectionsActive = gauge("ws", "connections_active", "Active WebSocket connections")
	c.WSMessagesTotal = counter("ws", "messages_total", "WebSocket messages sent", "channel")

	c.APIRequestsTotal = counter("api", "requests_total", "API requests", "method", "path", "status")
	c.APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_latency_ms",
			Help:      "API request latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"method", "path"},
	)
	c.RateLimitHits = counter("api", "rate_limit_hits", "Requests rejected by the rate limiter", "path")

	c.registerAll(reg)
	return c
}

// registerAll registers all metrics with reg
func (c *Collector) registerAll(reg prometheus.Registerer) {
	reg.MustRegister(
		c.ManagedValue,
		c.LiveValue,
		c.TotalShares,
		c.IdleBalance,
		c.PilotValue,
		c.DepositsTotal,
		c.DepositValue,
		c.WithdrawalsTotal,
		c.WithdrawValue,
		c.RebasesTotal,
		c.QueueBalance,
		c.QueueReserved,
		c.PendingRequests,
		c.EventsTotal,
		c.OperationsTotal,
		c.OperationLatency,
		c.BlockHeight,
		c.WSConnectionsActive,
		c.WSMessagesTotal,
		c.APIRequestsTotal,
		c.APIRequestLatency,
		c.RateLimitHits,
	)
}

// ============ Recording Helpers ============

// OnEvents counts committed events and folds flow amounts into counters
func (c *Collector) OnEvents(events []app.Event) {
	for _, ev := range events {
		c.EventsTotal.WithLabelValues(ev.Type).Inc()
		c.BlockHeight.Set(float64(ev.Height))

		switch ev.Type {
		case "supercluster_deposit":
			pilot := ev.Attributes["pilot"]
			c.DepositsTotal.WithLabelValues(pilot).Inc()
			c.DepositValue.WithLabelValues(pilot).Add(parseFloat(ev.Attributes["amount"]))
		case "supercluster_withdraw":
			c.WithdrawalsTotal.WithLabelValues().Inc()
			c.WithdrawValue.WithLabelValues().Add(parseFloat(ev.Attributes["delivered"]))
		case "stoken_rebase":
			c.RebasesTotal.WithLabelValues().Inc()
			c.ManagedValue.WithLabelValues().Set(parseFloat(ev.Attributes["new_value"]))
		}
	}
}

// RecordVaultState updates the vault gauges
func (c *Collector) RecordVaultState(st *superclustertypes.VaultState) {
	c.ManagedValue.WithLabelValues().Set(toFloat(st.TotalManagedValue))
	c.LiveValue.WithLabelValues().Set(toFloat(st.LiveValue))
	c.TotalShares.WithLabelValues().Set(toFloat(st.TotalShares))
	c.IdleBalance.WithLabelValues().Set(toFloat(st.Idle))
	for _, p := range st.Pilots {
		c.PilotValue.WithLabelValues(p.PilotID).Set(toFloat(p.Value))
	}
}

// RecordQueue updates the withdrawal queue gauges
func (c *Collector) RecordQueue(balance, reserved math.Int, pending int) {
	c.QueueBalance.WithLabelValues().Set(toFloat(balance))
	c.QueueReserved.WithLabelValues().Set(toFloat(reserved))
	c.PendingRequests.WithLabelValues().Set(float64(pending))
}

// RecordOperation records one state operation and its latency
func (c *Collector) RecordOperation(operation string, err error, latencyMs float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.OperationsTotal.WithLabelValues(operation, result).Inc()
	c.OperationLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordAPIRequest records an API request
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
}

// RecordRateLimitHit records a rejected request
func (c *Collector) RecordRateLimitHit(path string) {
	c.RateLimitHits.WithLabelValues(path).Inc()
}

// RecordWSConnection records WebSocket connection changes
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.WithLabelValues().Add(float64(delta))
}

// RecordWSMessage records a WebSocket message
func (c *Collector) RecordWSMessage(channel string) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
}

func toFloat(i math.Int) float64 {
	if i.IsNil() {
		return 0
	}
	f, _ := new(big.Float).SetInt(i.BigInt()).Float64()
	return f
}

func parseFloat(s string) float64 {
	i, ok := math.NewIntFromString(s)
	if !ok {
		return 0
	}
	return toFloat(i)
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler for the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor returns a handler serving the metrics in g
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
