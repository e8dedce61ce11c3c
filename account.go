package tuteliq

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// PricingTier is one plan offered by the API.
type PricingTier struct {
	Name string `json:"name"`
	// MonthlyPriceCents is the plan price in cents.
	MonthlyPriceCents int `json:"monthlyPriceCents"`
	// IncludedRequests is the monthly request allowance.
	IncludedRequests int `json:"includedRequests"`
	// OverageCentsPer1K is the price per thousand requests past the allowance.
	OverageCentsPer1K int `json:"overageCentsPer1k"`
}

// Pricing is the response type for the GetPricing method.
type Pricing struct {
	Currency string        `json:"currency"`
	Tiers    []PricingTier `json:"tiers"`
}

// GetPricing retrieves the current plan catalog. Takes no input.
func (c *Client) GetPricing(ctx context.Context) (*Pricing, error) {
	var out Pricing
	if err := c.call(ctx, http.MethodGet, "pricing", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get pricing: %w", err)
	}
	return &out, nil
}

// UsagePeriod selects the aggregation window for usage statistics.
type UsagePeriod string

const (
	UsagePeriodDay   UsagePeriod = "day"
	UsagePeriodWeek  UsagePeriod = "week"
	UsagePeriodMonth UsagePeriod = "month"
)

// UsageQuery filters the usage report. A nil or zero query reports the
// current month.
type UsageQuery struct {
	Period UsagePeriod
	// From bounds the report window. Zero means the start of the period.
	From time.Time
}

// UsageStats is the response type for the GetUsage method.
type UsageStats struct {
	// Requests is the total API calls in the window.
	Requests int `json:"requests"`
	// ByOperation breaks the total down per endpoint.
	ByOperation map[string]int `json:"byOperation"`
	// RemainingQuota is how many requests the plan still allows this period.
	RemainingQuota int `json:"remainingQuota"`
	// PeriodStart and PeriodEnd bound the reported window.
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
}

// GetUsage retrieves usage statistics for the account.
func (c *Client) GetUsage(ctx context.Context, query *UsageQuery) (*UsageStats, error) {
	values := url.Values{}
	if query != nil {
		if query.Period != "" {
			values.Set("period", string(query.Period))
		}
		if !query.From.IsZero() {
			values.Set("from", query.From.Format(time.RFC3339))
		}
	}

	var out UsageStats
	if err := c.call(ctx, http.MethodGet, "usage", values, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get usage: %w", err)
	}
	return &out, nil
}
