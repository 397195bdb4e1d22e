package signal

import (
	"sync"
	"time"
)

// Mock implements Sink for testing.
// Trigger behaviour can be customized via TriggerFunc.
type Mock struct {
	// TriggerFunc is called when Trigger is invoked.
	// If nil, Trigger succeeds.
	TriggerFunc func() error

	mu    sync.Mutex
	calls []time.Time
}

// NewMock creates a mock sink that records trigger times.
func NewMock() *Mock {
	return &Mock{}
}

// Trigger implements Sink.
func (m *Mock) Trigger() error {
	m.mu.Lock()
	m.calls = append(m.calls, time.Now())
	m.mu.Unlock()
	if m.TriggerFunc != nil {
		return m.TriggerFunc()
	}
	return nil
}

// Close implements Sink.
func (m *Mock) Close() error { return nil }

// TriggerCount returns how many times Trigger was invoked.
func (m *Mock) TriggerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Triggers returns a copy of the recorded trigger times.
func (m *Mock) Triggers() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Time, len(m.calls))
	copy(out, m.calls)
	return out
}
