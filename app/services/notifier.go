package services

import (
	"context"
	"html/template"
	"time"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/pkg/event"
	"github.com/shashiranjanraj/catalogue/pkg/logger"
	"github.com/shashiranjanraj/catalogue/pkg/mail"
	"github.com/shashiranjanraj/catalogue/pkg/metrics"
	"github.com/shashiranjanraj/catalogue/pkg/workerpool"
)

const sendTimeout = 30 * time.Second

var inboxTemplate = template.Must(template.New("inbox").Parse(`<h2>{{.Heading}}</h2>
<p><strong>Name:</strong> {{.Name}}<br>
<strong>Email:</strong> {{.Email}}{{if .Phone}}<br>
<strong>Phone:</strong> {{.Phone}}{{end}}{{if .Extra}}<br>
<strong>{{.ExtraLabel}}:</strong> {{.Extra}}{{end}}</p>
<p>{{.Message}}</p>
`))

type inboxMail struct {
	Heading    string
	Name       string
	Email      string
	Phone      string
	ExtraLabel string
	Extra      string
	Message    string
}

// Notifier mails staff about new enquiries and contact messages. Mails are
// sent on a worker pool; delivery failures are logged and never reach the
// submitter.
type Notifier struct {
	to     []string
	sender mail.Sender
	pool   *workerpool.Pool
}

func NewNotifier(sender mail.Sender, pool *workerpool.Pool, to ...string) *Notifier {
	return &Notifier{to: to, sender: sender, pool: pool}
}

// Handle is an event.Handler for event.InboxReceived.
func (n *Notifier) Handle(ctx context.Context, e event.Event) {
	if len(n.to) == 0 {
		return
	}
	msg, ok := n.message(e)
	if !ok {
		return
	}

	detached := context.WithoutCancel(ctx)
	err := n.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(detached, sendTimeout)
		defer cancel()
		if err := n.sender.Send(ctx, msg); err != nil {
			metrics.NotificationsSent.WithLabelValues(e.Entity, "failed").Inc()
			logger.ErrorContext(ctx, "inbox notification failed", "kind", e.Entity, "id", e.ID, "error", err)
			return
		}
		metrics.NotificationsSent.WithLabelValues(e.Entity, "sent").Inc()
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues(e.Entity, "dropped").Inc()
		logger.WarnContext(ctx, "inbox notification dropped", "kind", e.Entity, "id", e.ID, "error", err)
	}
}

func (n *Notifier) message(e event.Event) (*mail.Message, bool) {
	var data inboxMail
	switch v := e.Payload.(type) {
	case *models.Enquiry:
		data = inboxMail{
			Heading: "New product enquiry", Name: v.Name, Email: v.Email,
			Phone: deref(v.Phone), ExtraLabel: "Company", Extra: deref(v.Company), Message: v.Message,
		}
	case *models.Contact:
		data = inboxMail{
			Heading: "New contact message", Name: v.Name, Email: v.Email,
			Phone: deref(v.Phone), ExtraLabel: "Subject", Extra: deref(v.Subject), Message: v.Message,
		}
	default:
		return nil, false
	}
	msg := mail.To(n.to...).
		WithSubject(data.Heading + " from " + data.Name).
		WithReplyTo(data.Email).
		Template(inboxTemplate, data)
	return msg, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
