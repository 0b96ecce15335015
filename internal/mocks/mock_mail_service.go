package mocks

import (
	"sync"

	"github.com/xenithra/authcore/domain"
)

// SentMail records one delivered message.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// MockMailService implements domain.MailService interface for testing. It
// records every message so tests can assert on delivery.
type MockMailService struct {
	SendFunc func(to, subject, body string) error

	mu   sync.Mutex
	sent []SentMail
}

// NewMockMailService creates a new MockMailService with default behaviors
func NewMockMailService() *MockMailService {
	return &MockMailService{}
}

func (m *MockMailService) Send(to, subject, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(to, subject, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *MockMailService) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// Compile-time interface compliance verification
var _ domain.MailService = (*MockMailService)(nil)
