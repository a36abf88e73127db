package testkit

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/shashiranjanraj/catalogue/pkg/mail"
)

// MailSender is a testify-backed mail.Sender that records every message.
//
//	sender := testkit.NewMailSender()
//	notifier := services.NewNotifier(sender, pool, "sales@example.com")
//	...
//	require.Eventually(t, func() bool { return sender.Sent() == 1 }, time.Second, 10*time.Millisecond)
type MailSender struct {
	mock.Mock

	mu       sync.Mutex
	messages []*mail.Message
}

// NewMailSender accepts every message.
func NewMailSender() *MailSender { return newMailSender(nil) }

// FailingMailSender records every message and fails each Send with err.
func FailingMailSender(err error) *MailSender { return newMailSender(err) }

func newMailSender(err error) *MailSender {
	s := &MailSender{}
	s.On("Send", mock.Anything, mock.Anything).Return(err).Maybe()
	return s
}

func (s *MailSender) Send(ctx context.Context, m *mail.Message) error {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
	return s.Called(ctx, m).Error(0)
}

// Sent reports how many messages were handed to Send.
func (s *MailSender) Sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Messages returns a copy of every message handed to Send.
func (s *MailSender) Messages() []*mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*mail.Message, len(s.messages))
	copy(out, s.messages)
	return out
}
