package tuteliq

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ConsentStatus is the state of a user's data-processing consent.
type ConsentStatus string

const (
	ConsentGranted    ConsentStatus = "granted"
	ConsentRevoked    ConsentStatus = "revoked"
	ConsentUnrecorded ConsentStatus = "unrecorded"
)

// ExportRequest is the request type for the ExportUserData method.
type ExportRequest struct {
	Tracking
	// UserID is the subject whose data is exported.
	UserID string `json:"userId"`
}

// ExportResult references a prepared data export.
type ExportResult struct {
	Tracking
	// ExportID identifies the export job.
	ExportID string `json:"exportId"`
	// DownloadURL is a time-limited link to the export archive.
	DownloadURL string `json:"downloadUrl"`
	// ExpiresAt is when the download link stops working.
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportUserData prepares a GDPR data export for a user and returns a
// time-limited download link.
func (c *Client) ExportUserData(ctx context.Context, req *ExportRequest) (*ExportResult, error) {
	var out ExportResult
	if err := c.call(ctx, http.MethodPost, "gdpr/export", nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to export user data: %w", err)
	}
	return &out, nil
}

// DeleteUserDataRequest is the request type for the DeleteUserData method.
type DeleteUserDataRequest struct {
	Tracking
	UserID string `json:"userId"`
	// Reason is recorded in the audit log alongside the deletion.
	Reason string `json:"reason,omitempty"`
}

// DeleteUserDataResult confirms a deletion request.
type DeleteUserDataResult struct {
	Tracking
	// DeletionID identifies the deletion job.
	DeletionID string `json:"deletionId"`
	// CompletedAt is when the data was purged. Zero while the job is pending.
	CompletedAt time.Time `json:"completedAt"`
}

// DeleteUserData erases all stored data for a user (right to erasure).
func (c *Client) DeleteUserData(ctx context.Context, req *DeleteUserDataRequest) (*DeleteUserDataResult, error) {
	var out DeleteUserDataResult
	if err := c.call(ctx, http.MethodPost, "gdpr/delete", nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to delete user data: %w", err)
	}
	return &out, nil
}

// ConsentRequest is the request type for the RecordConsent method.
type ConsentRequest struct {
	Tracking
	UserID string        `json:"userId"`
	Status ConsentStatus `json:"status"`
	// GuardianID identifies the consenting guardian for users under the age
	// of digital consent.
	GuardianID string `json:"guardianId,omitempty"`
}

// ConsentRecord is the stored consent state for a user.
type ConsentRecord struct {
	Tracking
	UserID     string        `json:"userId"`
	Status     ConsentStatus `json:"status"`
	GuardianID string        `json:"guardianId,omitempty"`
	RecordedAt time.Time     `json:"recordedAt"`
}

// RecordConsent stores a consent decision for a user.
func (c *Client) RecordConsent(ctx context.Context, req *ConsentRequest) (*ConsentRecord, error) {
	var out ConsentRecord
	if err := c.call(ctx, http.MethodPost, "gdpr/consent", nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to record consent: %w", err)
	}
	return &out, nil
}

// GetConsent retrieves the current consent record for a user.
func (c *Client) GetConsent(ctx context.Context, userID string) (*ConsentRecord, error) {
	var out ConsentRecord
	if err := c.call(ctx, http.MethodGet, "gdpr/consent/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get consent: %w", err)
	}
	return &out, nil
}

// AuditLogEntry is one record of data access or processing.
type AuditLogEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurredAt"`
}

// AuditLogQuery filters the audit log listing. The zero value lists
// everything, newest first.
type AuditLogQuery struct {
	UserID    string
	Since     time.Time
	PageSize  int
	PageToken string
}

// AuditLogPage is one page of audit log entries.
type AuditLogPage struct {
	Entries       []AuditLogEntry `json:"entries"`
	NextPageToken string          `json:"nextPageToken"`
}

// ListAuditLogs lists data-processing audit records, newest first.
func (c *Client) ListAuditLogs(ctx context.Context, query *AuditLogQuery) (*AuditLogPage, error) {
	values := url.Values{}
	if query != nil {
		if query.UserID != "" {
			values.Set("userId", query.UserID)
		}
		if !query.Since.IsZero() {
			values.Set("since", query.Since.Format(time.RFC3339))
		}
		if query.PageSize > 0 {
			values.Set("pageSize", strconv.Itoa(query.PageSize))
		}
		if query.PageToken != "" {
			values.Set("pageToken", query.PageToken)
		}
	}

	var out AuditLogPage
	if err := c.call(ctx, http.MethodGet, "gdpr/audit-logs", values, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return &out, nil
}

// NextPage is a helper method that can be used to get the next page of
// results from the current response. You'll need to provide the current
// client for this method to use.
func (p *AuditLogPage) NextPage(ctx context.Context, c *Client) (*AuditLogPage, error) {
	return c.ListAuditLogs(ctx, &AuditLogQuery{PageToken: p.NextPageToken})
}

// BreachRequest is the request type for the ReportBreach method.
type BreachRequest struct {
	Tracking
	// Description is what happened.
	Description string `json:"description"`
	// AffectedUserIDs lists the impacted subjects, when known.
	AffectedUserIDs []string `json:"affectedUserIds,omitempty"`
	// OccurredAt is when the breach happened or was discovered.
	OccurredAt time.Time `json:"occurredAt"`
}

// BreachResult acknowledges a breach report.
type BreachResult struct {
	Tracking
	// BreachID identifies the report in later correspondence.
	BreachID string `json:"breachId"`
	// ReportedAt is when the report was received.
	ReportedAt time.Time `json:"reportedAt"`
}

// ReportBreach files a data-breach notification.
func (c *Client) ReportBreach(ctx context.Context, req *BreachRequest) (*BreachResult, error) {
	var out BreachResult
	if err := c.call(ctx, http.MethodPost, "gdpr/breach", nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to report breach: %w", err)
	}
	return &out, nil
}

// ComplianceStatus summarizes the account's GDPR posture.
type ComplianceStatus struct {
	// Compliant is true when no outstanding obligations exist.
	Compliant bool `json:"compliant"`
	// OpenRequests counts pending export and deletion jobs.
	OpenRequests int `json:"openRequests"`
	// LastReviewedAt is when compliance was last assessed.
	LastReviewedAt time.Time `json:"lastReviewedAt"`
}

// GetComplianceStatus retrieves the account-level GDPR compliance summary.
func (c *Client) GetComplianceStatus(ctx context.Context) (*ComplianceStatus, error) {
	var out ComplianceStatus
	if err := c.call(ctx, http.MethodGet, "gdpr/status", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get compliance status: %w", err)
	}
	return &out, nil
}
