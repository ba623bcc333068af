package services

import (
	"context"
	"fmt"
	"log/slog"

	"infinitebz/internal/domain"
)

const eventPublishedTemplate = "event_published"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendEventPublished sends the "event published" email with the event's share link.
func (s *emailService) SendEventPublished(ctx context.Context, data *domain.EventPublishedEmailData) error {
	if data == nil {
		return fmt.Errorf("event published email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render(eventPublishedTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", eventPublishedTemplate, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send event published email: %w", err)
	}
	s.logger.InfoContext(ctx, "event published email sent", "to", data.Email, "event_id", data.EventID)
	return nil
}
