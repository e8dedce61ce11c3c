package tuteliq

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// WebhookEvent names a server-side event a webhook can subscribe to.
type WebhookEvent string

const (
	WebhookEventAlert          WebhookEvent = "alert"
	WebhookEventAnalysisDone   WebhookEvent = "analysis.completed"
	WebhookEventExportReady    WebhookEvent = "gdpr.export.ready"
	WebhookEventDeletionDone   WebhookEvent = "gdpr.deletion.completed"
	WebhookEventUsageThreshold WebhookEvent = "usage.threshold"
)

// WebhookRequest is the request type for the CreateWebhook and UpdateWebhook
// methods.
type WebhookRequest struct {
	Tracking
	// URL receives event deliveries. Must be HTTPS; called with POST.
	URL string `json:"url"`
	// Events selects which events are delivered.
	Events []WebhookEvent `json:"events"`
	// Secret signs deliveries (HMAC-SHA256 over the body, sent in the
	// X-Tuteliq-Signature header). Optional but strongly recommended.
	Secret string `json:"secret,omitempty"`
	// Active pauses delivery when false.
	Active bool `json:"active"`
}

// Webhook is a registered event subscription.
type Webhook struct {
	Tracking
	ID        string         `json:"id"`
	URL       string         `json:"url"`
	Events    []WebhookEvent `json:"events"`
	Active    bool           `json:"active"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// WebhookFilter narrows a webhook listing. The zero value lists everything.
type WebhookFilter struct {
	// Event keeps only webhooks subscribed to this event.
	Event WebhookEvent
	// ActiveOnly keeps only webhooks that are currently delivering.
	ActiveOnly bool
}

// WebhookList is the response type for the ListWebhooks method.
type WebhookList struct {
	Webhooks []Webhook `json:"webhooks"`
}

// WebhookTestResult reports the outcome of a test delivery.
type WebhookTestResult struct {
	// Delivered is true when the endpoint acknowledged the test event.
	Delivered bool `json:"delivered"`
	// StatusCode is the HTTP status the endpoint returned.
	StatusCode int `json:"statusCode"`
	// LatencyMs is the round-trip time of the delivery in milliseconds.
	LatencyMs int `json:"latencyMs"`
}

// CreateWebhook registers a new event subscription.
func (c *Client) CreateWebhook(ctx context.Context, req *WebhookRequest) (*Webhook, error) {
	var out Webhook
	if err := c.call(ctx, http.MethodPost, "webhooks", nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}
	return &out, nil
}

// GetWebhook retrieves a webhook by its ID.
func (c *Client) GetWebhook(ctx context.Context, webhookID string) (*Webhook, error) {
	var out Webhook
	if err := c.call(ctx, http.MethodGet, "webhooks/"+url.PathEscape(webhookID), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get webhook: %w", err)
	}
	return &out, nil
}

// ListWebhooks lists registered webhooks, optionally filtered.
func (c *Client) ListWebhooks(ctx context.Context, filter *WebhookFilter) (*WebhookList, error) {
	values := url.Values{}
	if filter != nil {
		if filter.Event != "" {
			values.Set("event", string(filter.Event))
		}
		if filter.ActiveOnly {
			values.Set("active", "true")
		}
	}

	var out WebhookList
	if err := c.call(ctx, http.MethodGet, "webhooks", values, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	return &out, nil
}

// UpdateWebhook replaces the configuration of an existing webhook.
func (c *Client) UpdateWebhook(ctx context.Context, webhookID string, req *WebhookRequest) (*Webhook, error) {
	var out Webhook
	if err := c.call(ctx, http.MethodPut, "webhooks/"+url.PathEscape(webhookID), nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to update webhook: %w", err)
	}
	return &out, nil
}

// DeleteWebhook removes a webhook. Deliveries stop immediately.
func (c *Client) DeleteWebhook(ctx context.Context, webhookID string) error {
	if err := c.call(ctx, http.MethodDelete, "webhooks/"+url.PathEscape(webhookID), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}

// TestWebhook sends a synthetic event to the webhook's endpoint and reports
// whether it was acknowledged.
func (c *Client) TestWebhook(ctx context.Context, webhookID string) (*WebhookTestResult, error) {
	var out WebhookTestResult
	if err := c.call(ctx, http.MethodPost, "webhooks/"+url.PathEscape(webhookID)+"/test", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to test webhook: %w", err)
	}
	return &out, nil
}
