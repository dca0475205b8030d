// Package mailer delivers messages with an attachment through the
// SendGrid v3 mail/send API.
package mailer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sentinel kinds for mailer errors.
var (
	ErrNotConfigured = errors.New("email service is not configured")
	ErrSendFailed    = errors.New("failed to send the export email")
)

// Defaults.
const (
	DefaultHost     = "https://api.sendgrid.com"
	DefaultFrom     = "noreply@floot.app"
	DefaultFromName = "Player Development App"
	defaultTimeout  = 30 * time.Second
	maxErrorBody    = 4 << 10
	sendEndpoint    = "/v3/mail/send"
)

// XLSXContentType is the MIME type of xlsx attachments.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Attachment is a file sent with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is one plain-text email.
type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment *Attachment
}

// Sender posts messages to SendGrid. A single attempt is made per message.
type Sender struct {
	apiKey   string
	host     string
	from     string
	fromName string
	client   *rest.Client
}

// Option configures a Sender.
type Option func(*Sender)

// WithHost overrides the SendGrid API host.
func WithHost(host string) Option {
	return func(s *Sender) {
		if host != "" {
			s.host = strings.TrimRight(host, "/")
		}
	}
}

// WithFrom sets the sender address and display name.
func WithFrom(email, name string) Option {
	return func(s *Sender) {
		if email != "" {
			s.from = email
		}
		if name != "" {
			s.fromName = name
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) {
		if c != nil {
			s.client = &rest.Client{HTTPClient: c}
		}
	}
}

// New builds a Sender. An empty apiKey is allowed; Send then fails with ErrNotConfigured.
func New(apiKey string, opts ...Option) *Sender {
	s := &Sender{
		apiKey:   apiKey,
		host:     DefaultHost,
		from:     DefaultFrom,
		fromName: DefaultFromName,
		client:   &rest.Client{HTTPClient: &http.Client{Timeout: defaultTimeout}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether an API key is set.
func (s *Sender) Configured() bool { return s.apiKey != "" }

func (s *Sender) build(m Message) *mail.SGMailV3 {
	email := mail.NewV3MailInit(
		mail.NewEmail(s.fromName, s.from),
		m.Subject,
		mail.NewEmail("", m.To),
		mail.NewContent("text/plain", m.Body),
	)
	if m.Attachment != nil {
		ct := m.Attachment.ContentType
		if ct == "" {
			ct = XLSXContentType
		}
		a := mail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(m.Attachment.Content))
		a.SetType(ct)
		a.SetFilename(m.Attachment.Filename)
		a.SetDisposition("attachment")
		email.AddAttachment(a)
	}
	return email
}

// Send delivers m. Any non-2xx response is reported as ErrSendFailed.
func (s *Sender) Send(ctx context.Context, m Message) error {
	if s.apiKey == "" {
		return ErrNotConfigured
	}

	req := sendgrid.GetRequest(s.apiKey, sendEndpoint, s.host)
	req.Method = rest.Post
	req.Body = mail.GetRequestBody(s.build(m))

	resp, err := s.client.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := strings.TrimSpace(resp.Body)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return fmt.Errorf("%w: status %d: %s", ErrSendFailed, resp.StatusCode, body)
	}
	return nil
}
