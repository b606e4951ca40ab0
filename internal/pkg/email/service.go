package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/rs/zerolog/log"
)

// Template names
const (
	TemplateWelcome          = "welcome"
	TemplateBookingConfirmed = "booking_confirmed"
	TemplateBookingCancelled = "booking_cancelled"
	TemplatePaymentRejected  = "payment_rejected"
)

// Sender is what the rest of the app depends on
type Sender interface {
	Queue(to, toName, templateName, subject string, data interface{})
}

type sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Service renders templates and sends them from a background queue
type Service struct {
	client    sender
	base      *template.Template
	templates map[string]*template.Template
	queue     chan *queuedEmail
	wg        sync.WaitGroup
}

type queuedEmail struct {
	To           string
	ToName       string
	Subject      string
	TemplateName string
	Data         interface{}
}

// NewService creates email service. With an empty API key mail is
// rendered and logged but not sent.
func NewService(config SendGridConfig) *Service {
	var client sender = logSender{}
	if config.APIKey != "" {
		client = NewSendGridClient(config)
	} else {
		log.Warn().Msg("SENDGRID_API_KEY not set, emails will only be logged")
	}
	return newService(client)
}

func newService(client sender) *Service {
	s := &Service{
		client:    client,
		base:      template.Must(template.New("base").Parse(BaseTemplate)),
		templates: make(map[string]*template.Template),
		queue:     make(chan *queuedEmail, 100),
	}
	for name, content := range map[string]string{
		TemplateWelcome:          WelcomeTemplate,
		TemplateBookingConfirmed: BookingConfirmedTemplate,
		TemplateBookingCancelled: BookingCancelledTemplate,
		TemplatePaymentRejected:  PaymentRejectedTemplate,
	} {
		s.templates[name] = template.Must(template.New(name).Parse(content))
	}

	s.wg.Add(1)
	go s.worker()
	return s
}

func (s *Service) worker() {
	defer s.wg.Done()
	for email := range s.queue {
		if err := s.send(context.Background(), email); err != nil {
			log.Error().Err(err).
				Str("to", email.To).
				Str("template", email.TemplateName).
				Msg("Failed to send email")
		}
	}
}

// Render produces the full HTML body for a template
func (s *Service) Render(templateName string, data interface{}) (string, error) {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var content bytes.Buffer
	if err := tmpl.Execute(&content, data); err != nil {
		return "", err
	}

	var html bytes.Buffer
	if err := s.base.Execute(&html, map[string]interface{}{
		"Content": template.HTML(content.String()),
	}); err != nil {
		return "", err
	}
	return html.String(), nil
}

func (s *Service) send(ctx context.Context, email *queuedEmail) error {
	html, err := s.Render(email.TemplateName, email.Data)
	if err != nil {
		return err
	}
	return s.client.Send(ctx, &Message{
		To:          email.To,
		ToName:      email.ToName,
		Subject:     email.Subject,
		HTMLContent: html,
	})
}

// Queue adds an email to the async send queue, dropping it when full
func (s *Service) Queue(to, toName, templateName, subject string, data interface{}) {
	select {
	case s.queue <- &queuedEmail{To: to, ToName: toName, Subject: subject, TemplateName: templateName, Data: data}:
	default:
		log.Warn().Str("to", to).Str("template", templateName).Msg("Email queue full, dropping email")
	}
}

// Close drains the queue and stops the worker
func (s *Service) Close() {
	close(s.queue)
	s.wg.Wait()
}

type logSender struct{}

func (logSender) Send(_ context.Context, msg *Message) error {
	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("Email (not sent, no API key)")
	return nil
}
