package observability

import (
	"strconv"
	"sync"
	"time"
)

// Intake outcome labels recorded by the webhook flow.
const (
	IntakeOutcomeEmptyMessage   = "empty_message"
	IntakeOutcomeUnknownSender  = "unknown_sender"
	IntakeOutcomeFollowUp       = "followup_short_circuit"
	IntakeOutcomeTriaged        = "triaged"
	IntakeOutcomeTriageFallback = "triage_fallback"
	IntakeOutcomeNotified       = "landlord_notified"
	IntakeOutcomeNotifySkipped  = "notify_skipped"
	IntakeOutcomeError          = "error"
	IntakeOutcomeDuplicate      = "duplicate_delivery"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	intakeCount  map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		intakeCount:  make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordIntake increments the counter for one intake outcome.
func (m *Metrics) RecordIntake(outcome string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intakeCount[outcome]++
}

// IntakeCount returns the current counter for an intake outcome.
func (m *Metrics) IntakeCount(outcome string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.intakeCount[outcome]
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
