package fhirmodel

import (
	"sync/atomic"
	"time"

	"github.com/gofhir/fhirmodel/pkg/issue"
)

// Metrics tracks checker performance using lock-free atomic counters.
// All methods are safe for concurrent use.
type Metrics struct {
	checksTotal atomic.Uint64
	checksValid atomic.Uint64

	// nanoseconds
	checkTimeTotal atomic.Uint64
	checkTimeMin   atomic.Uint64
	checkTimeMax   atomic.Uint64

	referencesResolved atomic.Uint64

	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64
	infosTotal    atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.checkTimeMin.Store(^uint64(0))
	return m
}

// RecordCheck records a completed check and its issues.
func (m *Metrics) RecordCheck(duration time.Duration, r *issue.Result) {
	m.checksTotal.Add(1)
	if !r.HasErrors() {
		m.checksValid.Add(1)
	}
	for _, is := range r.Issues {
		m.RecordIssue(is.Severity)
	}
	if r.Stats != nil {
		m.referencesResolved.Add(uint64(r.Stats.ReferencesResolved)) //nolint:gosec // counts are never negative
	}

	ns := uint64(duration.Nanoseconds()) //nolint:gosec // durations are never negative
	m.checkTimeTotal.Add(ns)
	for {
		old := m.checkTimeMin.Load()
		if ns >= old || m.checkTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.checkTimeMax.Load()
		if ns <= old || m.checkTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordIssue records an issue based on severity.
func (m *Metrics) RecordIssue(severity issue.Severity) {
	switch severity {
	case issue.SeverityError, issue.SeverityFatal:
		m.errorsTotal.Add(1)
	case issue.SeverityWarning:
		m.warningsTotal.Add(1)
	case issue.SeverityInformation:
		m.infosTotal.Add(1)
	}
}

// ChecksTotal returns the number of checks performed.
func (m *Metrics) ChecksTotal() uint64 { return m.checksTotal.Load() }

// ChecksValid returns the number of checks without errors.
func (m *Metrics) ChecksValid() uint64 { return m.checksValid.Load() }

// ValidRate returns the share of checks without errors (0.0 to 1.0).
func (m *Metrics) ValidRate() float64 {
	total := m.checksTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.checksValid.Load()) / float64(total)
}

// AverageCheckTime returns the average check duration.
func (m *Metrics) AverageCheckTime() time.Duration {
	total := m.checksTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.checkTimeTotal.Load() / total) //nolint:gosec // nanoseconds within int64 range
}

// MinCheckTime returns the shortest check duration.
func (m *Metrics) MinCheckTime() time.Duration {
	v := m.checkTimeMin.Load()
	if v == ^uint64(0) {
		return 0
	}
	return time.Duration(v) //nolint:gosec // nanoseconds within int64 range
}

// MaxCheckTime returns the longest check duration.
func (m *Metrics) MaxCheckTime() time.Duration {
	return time.Duration(m.checkTimeMax.Load()) //nolint:gosec // nanoseconds within int64 range
}

// ReferencesResolved returns the number of references looked up.
func (m *Metrics) ReferencesResolved() uint64 { return m.referencesResolved.Load() }

// ErrorsTotal returns the total error issues found.
func (m *Metrics) ErrorsTotal() uint64 { return m.errorsTotal.Load() }

// WarningsTotal returns the total warning issues found.
func (m *Metrics) WarningsTotal() uint64 { return m.warningsTotal.Load() }

// InfosTotal returns the total informational issues found.
func (m *Metrics) InfosTotal() uint64 { return m.infosTotal.Load() }

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	ChecksTotal uint64  `json:"checks_total"`
	ChecksValid uint64  `json:"checks_valid"`
	ValidRate   float64 `json:"valid_rate"`

	AvgCheckTimeNs uint64 `json:"avg_check_time_ns"`
	MinCheckTimeNs uint64 `json:"min_check_time_ns"`
	MaxCheckTimeNs uint64 `json:"max_check_time_ns"`

	ReferencesResolved uint64 `json:"references_resolved"`

	ErrorsTotal   uint64 `json:"errors_total"`
	WarningsTotal uint64 `json:"warnings_total"`
	InfosTotal    uint64 `json:"infos_total"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Timestamp:          time.Now(),
		ChecksTotal:        m.checksTotal.Load(),
		ChecksValid:        m.checksValid.Load(),
		ValidRate:          m.ValidRate(),
		AvgCheckTimeNs:     uint64(m.AverageCheckTime()), //nolint:gosec // durations are never negative
		MinCheckTimeNs:     uint64(m.MinCheckTime()),     //nolint:gosec // durations are never negative
		MaxCheckTimeNs:     m.checkTimeMax.Load(),
		ReferencesResolved: m.referencesResolved.Load(),
		ErrorsTotal:        m.errorsTotal.Load(),
		WarningsTotal:      m.warningsTotal.Load(),
		InfosTotal:         m.infosTotal.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.checksTotal.Store(0)
	m.checksValid.Store(0)
	m.checkTimeTotal.Store(0)
	m.checkTimeMin.Store(^uint64(0))
	m.checkTimeMax.Store(0)
	m.referencesResolved.Store(0)
	m.errorsTotal.Store(0)
	m.warningsTotal.Store(0)
	m.infosTotal.Store(0)
}
