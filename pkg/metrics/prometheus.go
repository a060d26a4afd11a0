// Package metrics provides Prometheus metrics for the arena match selector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default bucket layouts.
var (
	defaultDurationBuckets  = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50}
	defaultAmbiguityBuckets = []float64{1, 2, 5, 10, 20, 50, 100, 200}
	defaultVotesBuckets     = []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000}
)

// Manager owns every collector exported by the arena.
type Manager struct {
	namespace       string
	subsystem       string
	durationBuckets []float64
	constLabels     prometheus.Labels
	registry        prometheus.Registerer

	selections        *prometheus.CounterVec
	selectionErrors   *prometheus.CounterVec
	selectionDuration prometheus.Histogram
	ambiguity         prometheus.Histogram
	studentVotes      prometheus.Histogram

	itemsLoaded    prometheus.Gauge
	recordsSkipped *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "cuju",
		subsystem:       "arena",
		durationBuckets: defaultDurationBuckets,
		constLabels:     prometheus.Labels{},
		registry:        prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.selections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "selections_total",
		Help:        "Total number of matches selected, by strategy",
		ConstLabels: m.constLabels,
	}, []string{"strategy"})

	m.selectionErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "selection_errors_total",
		Help:        "Total number of failed selections, by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.selectionDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "selection_duration_milliseconds",
		Help:        "Time spent computing one selection",
		Buckets:     m.durationBuckets,
		ConstLabels: m.constLabels,
	})

	m.ambiguity = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ambiguity",
		Help:        "Interval overlap of pairs picked by the cluster-buster strategy",
		Buckets:     defaultAmbiguityBuckets,
		ConstLabels: m.constLabels,
	})

	m.studentVotes = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "student_votes",
		Help:        "Vote count of students picked by the student-teacher strategy",
		Buckets:     defaultVotesBuckets,
		ConstLabels: m.constLabels,
	})

	m.itemsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "items_loaded",
		Help:        "Number of valid items in the current working set",
		ConstLabels: m.constLabels,
	})

	m.recordsSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_skipped_total",
		Help:        "Source records rejected during loading, by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})
}

// RecordSelection counts a selection and its duration.
func (m *Manager) RecordSelection(strategy string, durationMs float64) {
	m.selections.WithLabelValues(strategy).Inc()
	m.selectionDuration.Observe(durationMs)
}

// RecordSelectionError counts a failed selection.
func (m *Manager) RecordSelectionError(reason string) {
	m.selectionErrors.WithLabelValues(reason).Inc()
}

// RecordAmbiguity observes the overlap of a cluster-buster pick.
func (m *Manager) RecordAmbiguity(overlap float64) {
	m.ambiguity.Observe(overlap)
}

// RecordStudentVotes observes the vote count of a student-teacher pick.
func (m *Manager) RecordStudentVotes(votes int) {
	m.studentVotes.Observe(float64(votes))
}

// UpdateItemsLoaded sets the working set size.
func (m *Manager) UpdateItemsLoaded(n int) {
	m.itemsLoaded.Set(float64(n))
}

// RecordRecordSkipped counts a rejected source record.
func (m *Manager) RecordRecordSkipped(reason string) {
	m.recordsSkipped.WithLabelValues(reason).Inc()
}

// Package-level helpers delegate to the global manager.

// RecordSelection counts a selection on the global manager.
func RecordSelection(strategy string, durationMs float64) {
	globalManager.RecordSelection(strategy, durationMs)
}

// RecordSelectionError counts a failed selection on the global manager.
func RecordSelectionError(reason string) { globalManager.RecordSelectionError(reason) }

// RecordAmbiguity observes a cluster-buster overlap on the global manager.
func RecordAmbiguity(overlap float64) { globalManager.RecordAmbiguity(overlap) }

// RecordStudentVotes observes a student vote count on the global manager.
func RecordStudentVotes(votes int) { globalManager.RecordStudentVotes(votes) }

// UpdateItemsLoaded sets the working set size on the global manager.
func UpdateItemsLoaded(n int) { globalManager.UpdateItemsLoaded(n) }

// RecordRecordSkipped counts a rejected record on the global manager.
func RecordRecordSkipped(reason string) { globalManager.RecordRecordSkipped(reason) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current state of g to path in the text
// exposition format, suitable for the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrExport)
	}
	if g == nil {
		g = customRegistry
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}
