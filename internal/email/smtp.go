// internal/email/smtp.go
package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/smtp"

	"github.com/google/uuid"
)

// sendWithSMTP delivers the rendered message over plain SMTP. The sender
// defaults to the configured SMTP From address when the caller leaves it
// blank.
func (s *Service) sendWithSMTP(data EmailData, htmlContent, textContent string) error {
	cfg, ok := s.config.SMTP[string(ProviderSMTP)]
	if !ok {
		return fmt.Errorf("no SMTP configuration for provider %q", ProviderSMTP)
	}

	if data.From == "" {
		data.From = cfg.From
	}
	if data.From == "" {
		return fmt.Errorf("no sender address configured for SMTP delivery")
	}

	msg := buildMultipartMessage(data, htmlContent, textContent)

	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	if err := smtp.SendMail(addr, auth, data.From, []string{data.To}, msg); err != nil {
		return fmt.Errorf("sending email via SMTP: %w", err)
	}

	return nil
}

// buildMultipartMessage assembles a multipart/alternative MIME message
// carrying the plaintext part first, then the HTML part, both base64
// encoded.
func buildMultipartMessage(data EmailData, htmlContent, textContent string) []byte {
	boundary := "alt-" + uuid.NewString()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", data.FromName, data.From)
	fmt.Fprintf(&buf, "To: %s\r\n", data.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", data.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	writePart := func(contentType, body string) {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: %s; charset=utf-8\r\n", contentType)
		buf.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		buf.WriteString(base64.StdEncoding.EncodeToString([]byte(body)))
		buf.WriteString("\r\n")
	}

	writePart("text/plain", textContent)
	writePart("text/html", htmlContent)
	fmt.Fprintf(&buf, "--%s--", boundary)

	return buf.Bytes()
}
