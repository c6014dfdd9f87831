// Package prommetrics exports filter build, save and load metrics to
// Prometheus.
//
//	c := prommetrics.New("myapp")
//	if err := c.Register(prometheus.DefaultRegisterer); err != nil {
//	    return err
//	}
//	f, err := filter.New(keys, codec.String(), filter.WithMetrics(c))
package prommetrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/bernoulli"
)

// Collector implements bernoulli.MetricsCollector with Prometheus metrics.
type Collector struct {
	latency *prometheus.HistogramVec
	ops     *prometheus.CounterVec
	keys    prometheus.Counter
	bytes   *prometheus.CounterVec
}

var _ bernoulli.MetricsCollector = (*Collector)(nil)

// New creates a Collector. namespace prefixes every metric name and may be empty.
func New(namespace string) *Collector {
	return &Collector{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "bernoulli",
			Name:      "operation_duration_seconds",
			Help:      "Latency of filter builds, saves and loads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bernoulli",
			Name:      "operations_total",
			Help:      "Filter builds, saves and loads.",
		}, []string{"op", "status"}),
		keys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bernoulli",
			Name:      "build_keys_total",
			Help:      "Distinct keys of successfully built filters.",
		}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bernoulli",
			Name:      "bytes_total",
			Help:      "Bytes written by saves and read by loads.",
		}, []string{"op"}),
	}
}

// Register registers all metrics with r.
func (c *Collector) Register(r prometheus.Registerer) error {
	var errs []error
	for _, m := range c.collectors() {
		if err := r.Register(m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MustRegister registers all metrics with r and panics on failure.
func (c *Collector) MustRegister(r prometheus.Registerer) {
	r.MustRegister(c.collectors()...)
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{c.latency, c.ops, c.keys, c.bytes}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.latency.WithLabelValues(op, s).Observe(d.Seconds())
	c.ops.WithLabelValues(op, s).Inc()
}

// RecordBuild implements bernoulli.MetricsCollector.
func (c *Collector) RecordBuild(keys int, d time.Duration, err error) {
	c.observe("build", d, err)
	if err == nil {
		c.keys.Add(float64(keys))
	}
}

// RecordSave implements bernoulli.MetricsCollector.
func (c *Collector) RecordSave(size int, d time.Duration, err error) {
	c.observe("save", d, err)
	if err == nil {
		c.bytes.WithLabelValues("save").Add(float64(size))
	}
}

// RecordLoad implements bernoulli.MetricsCollector.
func (c *Collector) RecordLoad(size int, d time.Duration, err error) {
	c.observe("load", d, err)
	if err == nil {
		c.bytes.WithLabelValues("load").Add(float64(size))
	}
}
