package fhirmodel

import (
	"sync"
	"testing"
	"time"

	"github.com/gofhir/fhirmodel/pkg/issue"
)

func resultWith(severities ...issue.Severity) *issue.Result {
	r := issue.NewResult()
	for _, s := range severities {
		r.AddIssue(issue.Issue{Severity: s, Code: issue.CodeProcessing})
	}
	return r
}

func TestMetricsRecordCheck(t *testing.T) {
	m := NewMetrics()
	if m.ValidRate() != 0 || m.MinCheckTime() != 0 || m.AverageCheckTime() != 0 {
		t.Error("fresh metrics are not zero")
	}

	m.RecordCheck(10*time.Millisecond, resultWith(issue.SeverityWarning))
	m.RecordCheck(30*time.Millisecond, resultWith(issue.SeverityError, issue.SeverityInformation))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"ChecksTotal", m.ChecksTotal(), uint64(2)},
		{"ChecksValid", m.ChecksValid(), uint64(1)},
		{"ValidRate", m.ValidRate(), 0.5},
		{"ErrorsTotal", m.ErrorsTotal(), uint64(1)},
		{"WarningsTotal", m.WarningsTotal(), uint64(1)},
		{"InfosTotal", m.InfosTotal(), uint64(1)},
		{"MinCheckTime", m.MinCheckTime(), 10 * time.Millisecond},
		{"MaxCheckTime", m.MaxCheckTime(), 30 * time.Millisecond},
		{"AverageCheckTime", m.AverageCheckTime(), 20 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v; want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestMetricsReferences(t *testing.T) {
	m := NewMetrics()
	r := resultWith()
	r.Stats = &issue.Stats{ReferencesResolved: 3}
	m.RecordCheck(time.Millisecond, r)
	if got := m.ReferencesResolved(); got != 3 {
		t.Errorf("ReferencesResolved() = %d; want 3", got)
	}
}

func TestMetricsSnapshotAndReset(t *testing.T) {
	m := NewMetrics()
	m.RecordCheck(5*time.Millisecond, resultWith(issue.SeverityFatal))

	s := m.Snapshot()
	if s.ChecksTotal != 1 || s.ErrorsTotal != 1 || s.MinCheckTimeNs != uint64(5*time.Millisecond) {
		t.Errorf("Snapshot() = %+v", s)
	}

	m.Reset()
	if m.ChecksTotal() != 0 || m.ErrorsTotal() != 0 || m.MinCheckTime() != 0 || m.MaxCheckTime() != 0 {
		t.Errorf("after Reset: %+v", m.Snapshot())
	}
}

func TestMetricsConcurrent(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordCheck(time.Duration(i+1)*time.Microsecond, resultWith(issue.SeverityWarning))
		}()
	}
	wg.Wait()

	if m.ChecksTotal() != 50 || m.WarningsTotal() != 50 {
		t.Errorf("ChecksTotal = %d, WarningsTotal = %d; want 50, 50", m.ChecksTotal(), m.WarningsTotal())
	}
	if m.MinCheckTime() != time.Microsecond || m.MaxCheckTime() != 50*time.Microsecond {
		t.Errorf("min/max = %v/%v", m.MinCheckTime(), m.MaxCheckTime())
	}
}
