package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/logger"
)

// WebhookSender posts notifications as JSON to a configured URL.
type WebhookSender struct {
	url    string
	client *http.Client
}

// NewWebhookSender creates a WebhookSender for the given URL.
func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *WebhookSender) Send(n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	resp, err := s.client.Post(s.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// LogSender writes notifications to the application log. Used when no
// webhook URL is configured.
type LogSender struct{}

func (LogSender) Send(n Notification) error {
	logger.Get().Infow("notification", "kind", n.Kind, "title", n.Title, "body", n.Body)
	return nil
}
