// Package metrics exports upload metrics to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UploadObserver records upload latency, outcome and volume.
type UploadObserver struct {
	duration *prometheus.HistogramVec
	uploads  *prometheus.CounterVec
	bytes    prometheus.Counter
}

// NewUploadObserver registers the upload metrics with reg. A nil reg uses
// the default registerer. Registering twice reuses the existing collectors.
func NewUploadObserver(namespace string, reg prometheus.Registerer) (*UploadObserver, error) {
	if namespace == "" {
		namespace = "uploads"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &UploadObserver{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "write_duration_seconds",
			Help:      "Time spent streaming uploads to object storage.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writes_total",
			Help:      "Upload write attempts by outcome.",
		}, []string{"outcome"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stored_bytes_total",
			Help:      "Bytes successfully stored.",
		}),
	}

	var err error
	if o.duration, err = register(reg, o.duration); err != nil {
		return nil, fmt.Errorf("register upload histogram: %w", err)
	}
	if o.uploads, err = register(reg, o.uploads); err != nil {
		return nil, fmt.Errorf("register upload counter: %w", err)
	}
	if o.bytes, err = register(reg, o.bytes); err != nil {
		return nil, fmt.Errorf("register stored bytes counter: %w", err)
	}
	return o, nil
}

// RecordUpload tracks one write attempt.
func (o *UploadObserver) RecordUpload(duration time.Duration, sizeBytes int64, err error) {
	if o == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	o.duration.WithLabelValues(outcome).Observe(duration.Seconds())
	o.uploads.WithLabelValues(outcome).Inc()
	if err == nil && sizeBytes > 0 {
		o.bytes.Add(float64(sizeBytes))
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
