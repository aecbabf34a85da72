package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "registry_"

	resultSuccess = "success"
	resultError   = "error"

	// Frame outcomes at the protocol layer.
	FrameDispatched      = "dispatched"
	FrameMalformed       = "malformed"
	FramePayloadMismatch = "payload_mismatch"
	FrameIgnored         = "ignored"
)

var (
	registerOnce sync.Once

	connectionsActive prometheus.Gauge
	connectionsTotal  prometheus.Counter

	framesTotal      *prometheus.CounterVec
	operationsTotal  *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec

	storeOpsTotal  *prometheus.CounterVec
	storeOpLatency *prometheus.HistogramVec
	exportsTotal   *prometheus.CounterVec
)

// Init registers the protocol and store metrics.
func Init() {
	registerOnce.Do(func() {
		connectionsActive = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "connections_active",
				Help: "Currently open command connections",
			},
		)
		connectionsTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "connections_total",
				Help: "Total accepted command connections",
			},
		)
		framesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "frames_total",
				Help: "Total inbound frames by decode outcome",
			},
			[]string{"outcome"},
		)
		operationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "operations_total",
				Help: "Total dispatched operations",
			},
			[]string{"operation"},
		)
		operationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "operation_latency_seconds",
				Help:    "Operation handling latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		)
		storeOpsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "store_ops_total",
				Help: "Total store gateway calls by result",
			},
			[]string{"op", "result"},
		)
		storeOpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "store_op_latency_seconds",
				Help:    "Store gateway call latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		)
		exportsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "exports_total",
				Help: "Total admin export downloads by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			connectionsActive,
			connectionsTotal,
			framesTotal,
			operationsTotal,
			operationLatency,
			storeOpsTotal,
			storeOpLatency,
			exportsTotal,
		)
	})
}

// ConnectionOpened records an accepted connection.
func ConnectionOpened() {
	if connectionsActive == nil {
		return
	}
	connectionsActive.Inc()
	connectionsTotal.Inc()
}

// ConnectionClosed records a finished connection.
func ConnectionClosed() {
	if connectionsActive == nil {
		return
	}
	connectionsActive.Dec()
}

// FrameOutcome counts one inbound frame by decode outcome.
func FrameOutcome(outcome string) {
	if framesTotal == nil {
		return
	}
	framesTotal.WithLabelValues(outcome).Inc()
}

// ObserveOperation records one dispatched operation and its latency.
func ObserveOperation(operation string, seconds float64) {
	if operationsTotal == nil {
		return
	}
	operationsTotal.WithLabelValues(operation).Inc()
	operationLatency.WithLabelValues(operation).Observe(seconds)
}

// ObserveStoreOp records one store gateway call.
func ObserveStoreOp(op string, ok bool, seconds float64) {
	if storeOpsTotal == nil {
		return
	}
	result := resultSuccess
	if !ok {
		result = resultError
	}
	storeOpsTotal.WithLabelValues(op, result).Inc()
	storeOpLatency.WithLabelValues(op).Observe(seconds)
}

// ExportResult records one admin export download.
func ExportResult(format string, ok bool) {
	if exportsTotal == nil {
		return
	}
	result := resultSuccess
	if !ok {
		result = resultError
	}
	exportsTotal.WithLabelValues(format, result).Inc()
}
