// Package observability provides Prometheus metrics and OpenTelemetry tracing
// for the ABCI connection engine.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// CONNECTION METRICS
// =============================================================================

var (
	ConnectionsOpenedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abci_connections_opened_total",
			Help: "Total ABCI connections accepted",
		},
		[]string{"kind"}, // kind: none, info, mempool, consensus, state_sync
	)

	ConnectionsClosedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abci_connections_closed_total",
			Help: "Total ABCI connections closed",
		},
		[]string{"kind", "reason"}, // reason: eof, framing_error, unknown_method, handler_failure, write_error, server_stop, error
	)

	ConnectionsOpen = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "abci_connections_open",
			Help: "ABCI connections currently open",
		},
		[]string{"kind"},
	)
)

// =============================================================================
// HANDLER METRICS
// =============================================================================

var (
	HandlerInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abci_handler_invocations_total",
			Help: "Total handler method invocations",
		},
		[]string{"method", "status"}, // status: ok, error (a recovered panic counts as error)
	)

	HandlerDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "abci_handler_duration_seconds",
			Help:    "Handler method invocation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method"},
	)

	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "abci_queue_depth",
			Help: "Items awaiting execution or drain in a connection's ordered processor",
		},
		[]string{"kind"},
	)
)

// =============================================================================
// BLOCK LIFECYCLE METRICS
// =============================================================================

var (
	BlocksCommittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abci_blocks_committed_total",
			Help: "Total blocks committed by the extended application",
		},
		[]string{},
	)

	TxsDeliveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abci_txs_delivered_total",
			Help: "Total deliver_tx calls processed, by result code class",
		},
		[]string{"accepted"}, // accepted: true, false
	)
)
