package tuteliq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient spins up a stub API server and a client pointed at it with
// retries disabled, so error-path tests stay fast.
func newTestClient(t *testing.T, handler http.HandlerFunc, options ...option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts := append([]option{
		WithAPIKey("test-key"),
		WithBaseURL(server.URL),
		WithDisableRetry(),
	}, options...)

	client, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		options []option
		wantErr error
	}{
		{
			name:    "missing API key",
			options: []option{},
			wantErr: ErrAPIKeyRequired,
		},
		{
			name: "with API key",
			options: []option{
				WithAPIKey("test-key"),
			},
		},
		{
			name: "with custom base URL",
			options: []option{
				WithAPIKey("test-key"),
				WithBaseURL("https://staging.tuteliq.ai/v1"),
			},
		},
		{
			name: "with invalid base URL",
			options: []option{
				WithAPIKey("test-key"),
				WithBaseURL("not a url"),
			},
			wantErr: ErrInvalidBaseURL,
		},
		{
			name: "with custom timeout",
			options: []option{
				WithAPIKey("test-key"),
				WithTimeout(60 * time.Second),
			},
		},
		{
			name: "with custom retry config",
			options: []option{
				WithAPIKey("test-key"),
				WithRetryConfig(RetryConfig{
					MaxRetries:          10,
					InitialInterval:     1 * time.Second,
					MaxInterval:         60 * time.Second,
					Multiplier:          3.0,
					RandomizationFactor: 0.5,
				}),
			},
		},
		{
			name: "with retry disabled",
			options: []option{
				WithAPIKey("test-key"),
				WithDisableRetry(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.options...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, client)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, client)
				assert.NotNil(t, client.api)
				client.Close()
			}
		})
	}
}

func TestClient_DetectBullying(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/detect/bullying", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req BullyingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "you are worthless", req.Text)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"isBullying":    true,
			"severity":      "high",
			"bullyingTypes": []string{"insult"},
			"confidence":    0.97,
		})
	})

	result, err := client.DetectBullying(context.Background(), &BullyingRequest{Text: "you are worthless"})
	require.NoError(t, err)
	assert.True(t, result.IsBullying)
	assert.Equal(t, SeverityHigh, result.Severity)
	assert.Equal(t, []string{"insult"}, result.BullyingTypes)
	assert.InDelta(t, 0.97, result.Confidence, 1e-9)
}

func TestClient_DetectGrooming(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/detect/grooming", r.URL.Path)

		var req GroomingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, RoleAdult, req.Messages[0].Role)
		assert.Equal(t, 12, req.ChildAge)
		assert.True(t, req.IncludeBreakdown)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"riskLevel": "high",
			"riskScore": 0.88,
			"messageBreakdown": []map[string]any{
				{"index": 0, "riskScore": 0.9, "patterns": []string{"flattery"}},
				{"index": 1, "riskScore": 0.1},
			},
		})
	})

	req := NewGroomingRequestBuilder().
		AddMessage(RoleAdult, "you seem so mature for your age").
		AddMessage(RoleChild, "thanks i guess").
		ChildAge(12).
		IncludeBreakdown(true).
		Build()

	result, err := client.DetectGrooming(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, RiskLevelHigh, result.RiskLevel)
	assert.InDelta(t, 0.88, result.RiskScore, 1e-9)
	require.Len(t, result.MessageBreakdown, 2)
	assert.Equal(t, []string{"flattery"}, result.MessageBreakdown[0].Patterns)
}

func TestClient_TrackingRoundTrip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The stub echoes tracking fields back the way the API does.
		var req UnsafeContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"externalId": req.ExternalID,
			"metadata":   req.Metadata,
			"isUnsafe":   false,
			"categories": []string{},
		})
	})

	tracking := Tracking{
		ExternalID: "msg-4711",
		Metadata:   map[string]string{"user_id": "user-456", "room": "homework-help"},
	}

	result, err := client.DetectUnsafeContent(context.Background(), &UnsafeContentRequest{
		Tracking: tracking,
		Text:     "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, tracking.ExternalID, result.ExternalID)
	assert.Equal(t, tracking.Metadata, result.Metadata)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       any
		header     http.Header
		wantKind   ErrorKind
		wantDetail string
	}{
		{
			name:     "authentication failure",
			status:   http.StatusUnauthorized,
			body:     map[string]any{"error": map[string]any{"code": "invalid_api_key", "message": "invalid API key"}},
			wantKind: KindAuthentication,
		},
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			body:     map[string]any{"error": map[string]any{"code": "rate_limited", "message": "quota exceeded"}},
			header:   http.Header{"Retry-After": []string{"7"}},
			wantKind: KindRateLimit,
		},
		{
			name:   "validation failure",
			status: http.StatusUnprocessableEntity,
			body: map[string]any{"error": map[string]any{
				"code":    "invalid_request",
				"message": "childAge is required",
				"details": map[string]string{"childAge": "must be between 1 and 17"},
			}},
			wantKind:   KindValidation,
			wantDetail: "must be between 1 and 17",
		},
		{
			name:     "not found",
			status:   http.StatusNotFound,
			body:     map[string]any{"error": map[string]any{"code": "not_found", "message": "no such webhook"}},
			wantKind: KindNotFound,
		},
		{
			name:     "server failure",
			status:   http.StatusInternalServerError,
			body:     map[string]any{"error": map[string]any{"code": "internal", "message": "something broke"}},
			wantKind: KindServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				for key, values := range tt.header {
					for _, value := range values {
						w.Header().Add(key, value)
					}
				}
				writeJSON(t, w, tt.status, tt.body)
			})

			_, err := client.Analyze(context.Background(), &AnalysisRequest{Text: "hello"})
			require.Error(t, err)

			assert.Equal(t, tt.wantKind, KindOf(err))

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.NotEmpty(t, apiErr.RequestID)

			if tt.wantKind == KindRateLimit {
				assert.Equal(t, 7*time.Second, apiErr.RetryAfter)
			}
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, apiErr.Details["childAge"])
			}
		})
	}
}

func TestClient_Webhooks(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/webhooks", r.URL.Path)

			var req WebhookRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "https://example.com/hook", req.URL)
			assert.Contains(t, req.Events, WebhookEventAlert)

			writeJSON(t, w, http.StatusCreated, map[string]any{
				"id":     "wh-123",
				"url":    req.URL,
				"events": req.Events,
				"active": true,
			})
		})

		webhook, err := client.CreateWebhook(context.Background(), &WebhookRequest{
			URL:    "https://example.com/hook",
			Events: []WebhookEvent{WebhookEventAlert},
			Active: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "wh-123", webhook.ID)
		assert.True(t, webhook.Active)
	})

	t.Run("list with filter", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/webhooks", r.URL.Path)
			assert.Equal(t, "alert", r.URL.Query().Get("event"))
			assert.Equal(t, "true", r.URL.Query().Get("active"))

			writeJSON(t, w, http.StatusOK, map[string]any{
				"webhooks": []map[string]any{{"id": "wh-123", "active": true}},
			})
		})

		list, err := client.ListWebhooks(context.Background(), &WebhookFilter{
			Event:      WebhookEventAlert,
			ActiveOnly: true,
		})
		require.NoError(t, err)
		require.Len(t, list.Webhooks, 1)
		assert.Equal(t, "wh-123", list.Webhooks[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/webhooks/wh-123", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})

		assert.NoError(t, client.DeleteWebhook(context.Background(), "wh-123"))
	})
}

func TestClient_AuditLogPagination(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gdpr/audit-logs", r.URL.Path)

		switch r.URL.Query().Get("pageToken") {
		case "":
			assert.Equal(t, "user-1", r.URL.Query().Get("userId"))
			writeJSON(t, w, http.StatusOK, map[string]any{
				"entries":       []map[string]any{{"id": "log-1", "userId": "user-1", "action": "export"}},
				"nextPageToken": "page-2",
			})
		case "page-2":
			writeJSON(t, w, http.StatusOK, map[string]any{
				"entries": []map[string]any{{"id": "log-2", "userId": "user-1", "action": "delete"}},
			})
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
		}
	})

	page, err := client.ListAuditLogs(context.Background(), &AuditLogQuery{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "log-1", page.Entries[0].ID)

	next, err := page.NextPage(context.Background(), client)
	require.NoError(t, err)
	require.Len(t, next.Entries, 1)
	assert.Equal(t, "log-2", next.Entries[0].ID)
	assert.Empty(t, next.NextPageToken)
}

func TestClient_GetUsage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/usage", r.URL.Path)
		assert.Equal(t, "month", r.URL.Query().Get("period"))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"requests":       1280,
			"byOperation":    map[string]int{"detect/bullying": 900, "analyze": 380},
			"remainingQuota": 8720,
		})
	})

	usage, err := client.GetUsage(context.Background(), &UsageQuery{Period: UsagePeriodMonth})
	require.NoError(t, err)
	assert.Equal(t, 1280, usage.Requests)
	assert.Equal(t, 900, usage.ByOperation["detect/bullying"])
	assert.Equal(t, 8720, usage.RemainingQuota)
}

func TestClient_AnalyzeImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze/image", r.URL.Path)

		var wire struct {
			Content struct {
				URL  string `json:"url"`
				Data string `json:"data"`
			} `json:"content"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&wire))
		assert.Equal(t, "https://example.com/image.jpg", wire.Content.URL)
		assert.Empty(t, wire.Content.Data)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"riskLevel":  "none",
			"riskScore":  0.02,
			"categories": []string{},
		})
	})

	result, err := client.AnalyzeImage(context.Background(), &MediaRequest{
		Content: NewMediaURLContent("https://example.com/image.jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, RiskLevelNone, result.RiskLevel)
}
