package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/notify"
)

const defaultWebhookTimeout = 10 * time.Second

// WebhookSender POSTs each reminder as a JSON document to a configured
// endpoint. Any non-2xx response counts as a failed send.
type WebhookSender struct {
	url    string
	client *http.Client
}

func NewWebhookSender(url string, timeout time.Duration) *WebhookSender {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	return &WebhookSender{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type webhookPayload struct {
	TenantID       string  `json:"tenant_id"`
	Category       string  `json:"category"`
	RecordID       string  `json:"record_id"`
	Title          string  `json:"title"`
	Tier           string  `json:"tier"`
	DueAt          string  `json:"due_at"`
	HoursRemaining float64 `json:"hours_remaining,omitempty"`
}

func (s *WebhookSender) Send(ctx context.Context, n notify.Notification) error {
	payload := webhookPayload{
		TenantID:       n.TenantID,
		Category:       string(n.Category),
		RecordID:       n.RecordID.String(),
		Title:          n.Title,
		Tier:           string(n.Tier),
		DueAt:          n.DueAt.Format(time.RFC3339),
		HoursRemaining: n.HoursRemaining,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
