package pledge

import (
	"sync"
	"testing"
	"time"
)

// validValues is the donation form filled in correctly.
func validValues() Values {
	return Values{
		FirstName:          "Ana",
		SecondName:         "Silva",
		Over18:             true,
		DonationsAmount:    Num(50),
		TermsAndConditions: true,
		Donations: []Donation{
			NewDonation("Red Cross", 60),
			NewDonation("WWF", 40),
		},
	}
}

// waitFor polls a condition until it returns true or the timeout is reached.
func waitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

// recordingMetrics captures metrics callbacks.
type recordingMetrics struct {
	NoOpMetricsProvider

	mu          sync.Mutex
	edits       []string
	transitions []string
	failures    []string
	successes   int
	lastValid   bool
}

func (m *recordingMetrics) OnEdit(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, kind)
}

func (m *recordingMetrics) OnValidation(valid bool, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastValid = valid
}

func (m *recordingMetrics) OnStateChange(from, to SubmitState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, from.String()+"->"+to.String())
}

func (m *recordingMetrics) OnSubmitSuccess(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.successes++
}

func (m *recordingMetrics) OnSubmitFailure(stage string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, stage)
}

func (m *recordingMetrics) editCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.edits {
		if e == kind {
			n++
		}
	}
	return n
}
