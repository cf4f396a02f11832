package diskio

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mediumOperationsStartedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "diskio",
			Subsystem: "medium",
			Name:      "operations_started_total",
			Help:      "Total number of operations started on media.",
		},
		[]string{"name", "operation"})
	mediumOperationsDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "diskio",
			Subsystem: "medium",
			Name:      "operations_duration_seconds",
			Help:      "Amount of time spent per operation on media, in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		},
		[]string{"name", "operation", "result"})
)

func init() {
	prometheus.MustRegister(mediumOperationsStartedTotal)
	prometheus.MustRegister(mediumOperationsDurationSeconds)
}

type mediumOperationMetrics struct {
	started prometheus.Counter
	success prometheus.Observer
	failure prometheus.Observer
}

func newMediumOperationMetrics(name, operation string) mediumOperationMetrics {
	return mediumOperationMetrics{
		started: mediumOperationsStartedTotal.WithLabelValues(name, operation),
		success: mediumOperationsDurationSeconds.WithLabelValues(name, operation, "Success"),
		failure: mediumOperationsDurationSeconds.WithLabelValues(name, operation, "Failure"),
	}
}

func (m *mediumOperationMetrics) observe(timeStart time.Time, err error) {
	d := time.Now().Sub(timeStart).Seconds()
	if err != nil {
		m.failure.Observe(d)
	} else {
		m.success.Observe(d)
	}
}

type metricsMedium struct {
	medium Medium
	init   mediumOperationMetrics
	read   mediumOperationMetrics
	write  mediumOperationMetrics
}

// NewMetricsMedium creates a decorator for Medium that exposes the
// number and duration of initialization and transfer requests as
// Prometheus metrics.
func NewMetricsMedium(medium Medium, name string) Medium {
	return &metricsMedium{
		medium: medium,
		init:   newMediumOperationMetrics(name, "Init"),
		read:   newMediumOperationMetrics(name, "ReadBlocks"),
		write:  newMediumOperationMetrics(name, "WriteBlocks"),
	}
}

func (m *metricsMedium) Init() error {
	m.init.started.Inc()
	timeStart := time.Now()
	err := m.medium.Init()
	m.init.observe(timeStart, err)
	return err
}

func (m *metricsMedium) ReadBlocks(start uint64, buf []byte, count uint32) error {
	m.read.started.Inc()
	timeStart := time.Now()
	err := m.medium.ReadBlocks(start, buf, count)
	m.read.observe(timeStart, err)
	return err
}

func (m *metricsMedium) WriteBlocks(start uint64, buf []byte, count uint32) error {
	m.write.started.Inc()
	timeStart := time.Now()
	err := m.medium.WriteBlocks(start, buf, count)
	m.write.observe(timeStart, err)
	return err
}

func (m *metricsMedium) MaxSector() uint64 {
	return m.medium.MaxSector()
}

func (m *metricsMedium) SectorSize() uint32 {
	return m.medium.SectorSize()
}
