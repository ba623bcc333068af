package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// EventPublishedEmailData holds data for the "event published" email.
type EventPublishedEmailData struct {
	Email      string
	EventTitle string
	EventID    string
	ShareLink  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendEventPublished(ctx context.Context, data *EventPublishedEmailData) error
}
