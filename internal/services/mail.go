package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Mailer delivers transactional email.
type Mailer interface {
	SendInvitation(to, projectName, inviterName, joinURL string) error
}

const resendEndpoint = "https://api.resend.com/emails"

// ResendMailer sends email through the Resend HTTP API.
type ResendMailer struct {
	apiKey string
	from   string
	client *http.Client
	logger *zap.Logger
}

// NewResendMailer creates a ResendMailer. from is the sender address,
// e.g. "Construction Finance <noreply@example.com>".
func NewResendMailer(apiKey, from string, logger *zap.Logger) *ResendMailer {
	return &ResendMailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// SendInvitation emails a project invitation with the join link.
func (m *ResendMailer) SendInvitation(to, projectName, inviterName, joinURL string) error {
	subject := fmt.Sprintf("You've been invited to join %s", projectName)
	html := fmt.Sprintf(`<p>Hi,</p>
<p>%s has invited you to collaborate on the project <strong>%s</strong>.</p>
<p><a href="%s">Accept invitation</a></p>
<p>This invitation expires in 7 days.</p>`, inviterName, projectName, joinURL)
	text := fmt.Sprintf("%s has invited you to collaborate on the project %s.\n\nAccept the invitation: %s\n\nThis invitation expires in 7 days.\n", inviterName, projectName, joinURL)

	body, err := json.Marshal(resendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		m.logger.Error("email delivery rejected",
			zap.String("to", to),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("email delivery failed with status %d", resp.StatusCode)
	}

	m.logger.Info("invitation email sent", zap.String("to", to))
	return nil
}
