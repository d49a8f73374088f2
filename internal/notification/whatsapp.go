package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WhatsAppSender posts studio-side alerts to a webhook bridge (n8n or
// similar) that forwards them to the studio's WhatsApp number.
type WhatsAppSender struct {
	httpClient *http.Client
	webhookURL string
	token      string
	toNumber   string
}

func NewWhatsAppSender(webhookURL, token, toNumber string) *WhatsAppSender {
	return &WhatsAppSender{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
		token:      token,
		toNumber:   toNumber,
	}
}

// Enabled reports whether a webhook is configured; the notifier skips the
// channel otherwise.
func (s *WhatsAppSender) Enabled() bool {
	return s != nil && s.webhookURL != ""
}

func (s *WhatsAppSender) Send(ctx context.Context, text string) error {
	if !s.Enabled() {
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"to":   s.toNumber,
		"text": text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp webhook returned status %d", resp.StatusCode)
	}
	return nil
}
