// Package metrics records prometheus metrics for encode, decode and store
// operations.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ssargent/bytevec/pkg/bytevec"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Error kinds reported on the errors counter.
const (
	KindBadSize      = "bad_size"
	KindOverflow     = "overflow"
	KindStringDecode = "string_decode"
	KindOther        = "other"
)

// Metrics holds all Prometheus metrics for codec and store operations
type Metrics struct {
	codecOperationsTotal   *prometheus.CounterVec
	codecOperationDuration *prometheus.HistogramVec
	codecBytes             *prometheus.HistogramVec
	codecErrorsTotal       *prometheus.CounterVec

	storeOperationsTotal   *prometheus.CounterVec
	storeOperationDuration *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with reg. A nil reg
// uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		codecOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bytevec_codec_operations_total",
				Help: "Total number of encode and decode operations",
			},
			[]string{"operation", "status"},
		),

		codecOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bytevec_codec_operation_duration_seconds",
				Help:    "Encode and decode duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		codecBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bytevec_codec_bytes",
				Help:    "Size of encoded buffers produced or consumed",
				Buckets: prometheus.ExponentialBuckets(16, 4, 10),
			},
			[]string{"operation"},
		),

		codecErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bytevec_codec_errors_total",
				Help: "Total number of codec failures by error kind",
			},
			[]string{"operation", "kind"},
		),

		storeOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bytevec_store_operations_total",
				Help: "Total number of store operations",
			},
			[]string{"operation", "status"},
		),

		storeOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bytevec_store_operation_duration_seconds",
				Help:    "Store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// ErrorKind classifies err for the errors counter.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, bytevec.ErrBadSize):
		return KindBadSize
	case errors.Is(err, bytevec.ErrOverflow):
		return KindOverflow
	case errors.Is(err, bytevec.ErrStringDecode):
		return KindStringDecode
	}
	return KindOther
}

// RecordCodecOperation records an encode or decode of size bytes
func (m *Metrics) RecordCodecOperation(operation string, size int, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := statusSuccess
	if err != nil {
		status = statusError
		m.codecErrorsTotal.WithLabelValues(operation, ErrorKind(err)).Inc()
	} else {
		m.codecBytes.WithLabelValues(operation).Observe(float64(size))
	}

	m.codecOperationsTotal.WithLabelValues(operation, status).Inc()
	m.codecOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordStoreOperation records a store operation
func (m *Metrics) RecordStoreOperation(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := statusSuccess
	if err != nil {
		status = statusError
	}

	m.storeOperationsTotal.WithLabelValues(operation, status).Inc()
	m.storeOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
