package mail

import (
	"context"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHeaders(t *testing.T) {
	cfg := SMTP{From: "noreply@example.com", FromName: "Catalogue"}
	raw := string(To("sales@example.com", "ops@example.com").
		WithSubject("New enquiry").
		WithReplyTo("buyer@example.com").
		Text("hello").
		build(cfg))

	assert.Contains(t, raw, "From: Catalogue <noreply@example.com>\r\n")
	assert.Contains(t, raw, "To: sales@example.com, ops@example.com\r\n")
	assert.Contains(t, raw, "Reply-To: buyer@example.com\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain")
	assert.Contains(t, raw, "\r\n\r\nhello")
}

func TestTemplateEscapesAndFlagsHTML(t *testing.T) {
	tmpl := template.Must(template.New("enquiry").Parse(`<p>{{.}}</p>`))
	m := To("sales@example.com").Template(tmpl, "<script>")
	require.NoError(t, m.Err())
	assert.True(t, m.HTML)
	assert.Equal(t, "<p>&lt;script&gt;</p>", m.Body)
}

func TestRenderFailureIsReportedBySend(t *testing.T) {
	tmpl := template.Must(template.New("broken").Parse(`{{.Missing.Field}}`))
	m := To("sales@example.com").Template(tmpl, struct{}{})
	require.Error(t, m.Err())

	assert.Error(t, LogSender{}.Send(context.Background(), m))
	assert.Error(t, NewSMTP(SMTP{Host: "localhost", Port: 2525}).Send(context.Background(), m))
}

func TestSMTPRequiresRecipients(t *testing.T) {
	err := NewSMTP(SMTP{Host: "localhost", Port: 2525}).Send(context.Background(), To())
	assert.ErrorIs(t, err, ErrNoRecipients)
}
