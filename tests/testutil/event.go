package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
	"github.com/stretchr/testify/require"
)

// RecordingEventHandler keeps every event it receives
type RecordingEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewRecordingEventHandler subscribes to eventTypes; none means all events
func NewRecordingEventHandler(eventTypes ...string) *RecordingEventHandler {
	return &RecordingEventHandler{eventTypes: eventTypes}
}

// EventTypes returns the event types this handler subscribes to
func (h *RecordingEventHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle records the event and returns the configured error
func (h *RecordingEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// FailWith makes later Handle calls return err
func (h *RecordingEventHandler) FailWith(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// Events returns a copy of the recorded events
func (h *RecordingEventHandler) Events() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

// WaitForEvents blocks until n events were recorded or timeout elapses
func (h *RecordingEventHandler) WaitForEvents(t *testing.T, n int, timeout time.Duration) []shared.DomainEvent {
	t.Helper()

	require.Eventually(t, func() bool {
		return len(h.Events()) >= n
	}, timeout, 10*time.Millisecond, "expected %d events", n)
	return h.Events()
}
