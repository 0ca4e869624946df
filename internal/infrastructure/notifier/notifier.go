package notifier

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// WebhookAlerter posts escalations to an operator webhook (Slack-style
// incoming hook or similar). An empty URL disables it.
type WebhookAlerter struct {
	url    string
	client *http.Client
}

func NewWebhookAlerter(url string) *WebhookAlerter {
	return &WebhookAlerter{url: url, client: &http.Client{Timeout: 5 * time.Second}}
}

func (a *WebhookAlerter) DisputeEscalated(dispute *domain.Dispute, message string) {
	if a.url == "" {
		return
	}
	payload := AlertPayload{
		DisputeID:   dispute.ID,
		HubName:     dispute.HubName,
		AnomalyType: string(dispute.AnomalyType),
		Severity:    string(dispute.Severity),
		Status:      string(dispute.Status),
		Message:     message,
		RaisedAt:    time.Now().UTC(),
	}
	if dispute.OrderID != nil {
		payload.OrderID = *dispute.OrderID
	}
	go a.send(payload)
}

func (a *WebhookAlerter) send(payload AlertPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal admin alert", "dispute_id", payload.DisputeID, "error", err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, a.url, bytes.NewBuffer(body))
	if err != nil {
		slog.Error("failed to create admin alert request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Error("admin alert failed", "dispute_id", payload.DisputeID, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		slog.Info("admin alert sent", "dispute_id", payload.DisputeID, "order_id", payload.OrderID)
	} else {
		slog.Warn("admin alert rejected", "dispute_id", payload.DisputeID, "status", resp.StatusCode)
	}
}
