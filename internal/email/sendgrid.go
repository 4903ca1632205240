// internal/email/sendgrid.go
package email

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendWithSendgrid delivers the rendered message through the Sendgrid
// API. The sender defaults to the configured Sendgrid From address when
// the caller leaves it blank.
func (s *Service) sendWithSendgrid(data EmailData, htmlContent, textContent string) error {
	if data.From == "" {
		data.From = s.config.Sendgrid.From
	}
	if data.From == "" {
		return fmt.Errorf("no sender address configured for Sendgrid delivery")
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(data.FromName, data.From),
		data.Subject,
		mail.NewEmail("", data.To),
		textContent,
		htmlContent,
	)

	response, err := s.sendgridClient.Send(message)
	if err != nil {
		return fmt.Errorf("sending email via Sendgrid: %w", err)
	}

	if response.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sending email via Sendgrid: status %d: %s", response.StatusCode, response.Body)
	}

	return nil
}
