package memory

import (
	"context"
	"sync"

	"repeater-test-service/internal/app"
)

// Mailer records messages instead of delivering them. Used by tests and by
// the CLI's dry-run mode; FailWith simulates the collaborator rejecting a
// delivery.
type Mailer struct {
	mu       sync.Mutex
	sent     []app.Message
	FailWith error
}

func NewMailer() *Mailer {
	return &Mailer{}
}

func (m *Mailer) Send(_ context.Context, msg app.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a snapshot of delivered messages.
func (m *Mailer) Sent() []app.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]app.Message(nil), m.sent...)
}
