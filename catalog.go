package tuteliq

import "context"

// This file is the operation catalog: one adapter constructor per remote
// capability, each a pure instantiation of Operation bound to a Session and
// one Client method. None of these add behavior beyond the adapter contract.
//
// Every constructor resolves the Client through the Session at execute time,
// so an operation created before Initialize simply fails with
// ErrSessionMissing (deterministically, without a network call) until the
// session is ready.

// bind adapts one single-argument Client method to the adapter contract.
func bind[In, Out any](s *Session, call func(*Client, context.Context, In) (*Out, error)) *Operation[In, Out] {
	return NewOperation(func(ctx context.Context, in In) (*Out, error) {
		client, ok := s.Lookup()
		if !ok {
			return nil, ErrSessionMissing
		}
		return call(client, ctx, in)
	})
}

// bind0 adapts a zero-argument Client method. Execute takes struct{}{}.
func bind0[Out any](s *Session, call func(*Client, context.Context) (*Out, error)) *Operation[struct{}, Out] {
	return NewOperation(func(ctx context.Context, _ struct{}) (*Out, error) {
		client, ok := s.Lookup()
		if !ok {
			return nil, ErrSessionMissing
		}
		return call(client, ctx)
	})
}

// Moderation

// NewDetectBullyingOperation returns an adapter over Client.DetectBullying.
func NewDetectBullyingOperation(s *Session) *Operation[*BullyingRequest, BullyingResult] {
	return bind(s, (*Client).DetectBullying)
}

// NewDetectGroomingOperation returns an adapter over Client.DetectGrooming.
func NewDetectGroomingOperation(s *Session) *Operation[*GroomingRequest, GroomingResult] {
	return bind(s, (*Client).DetectGrooming)
}

// NewDetectUnsafeContentOperation returns an adapter over Client.DetectUnsafeContent.
func NewDetectUnsafeContentOperation(s *Session) *Operation[*UnsafeContentRequest, UnsafeContentResult] {
	return bind(s, (*Client).DetectUnsafeContent)
}

// NewAnalyzeOperation returns an adapter over Client.Analyze.
func NewAnalyzeOperation(s *Session) *Operation[*AnalysisRequest, AnalysisResult] {
	return bind(s, (*Client).Analyze)
}

// NewAnalyzeEmotionOperation returns an adapter over Client.AnalyzeEmotion.
func NewAnalyzeEmotionOperation(s *Session) *Operation[*EmotionRequest, EmotionResult] {
	return bind(s, (*Client).AnalyzeEmotion)
}

// NewGenerateActionPlanOperation returns an adapter over Client.GenerateActionPlan.
func NewGenerateActionPlanOperation(s *Session) *Operation[*ActionPlanRequest, ActionPlanResult] {
	return bind(s, (*Client).GenerateActionPlan)
}

// NewGenerateReportOperation returns an adapter over Client.GenerateReport.
func NewGenerateReportOperation(s *Session) *Operation[*ReportRequest, ReportResult] {
	return bind(s, (*Client).GenerateReport)
}

// GDPR

// NewExportUserDataOperation returns an adapter over Client.ExportUserData.
func NewExportUserDataOperation(s *Session) *Operation[*ExportRequest, ExportResult] {
	return bind(s, (*Client).ExportUserData)
}

// NewDeleteUserDataOperation returns an adapter over Client.DeleteUserData.
func NewDeleteUserDataOperation(s *Session) *Operation[*DeleteUserDataRequest, DeleteUserDataResult] {
	return bind(s, (*Client).DeleteUserData)
}

// NewRecordConsentOperation returns an adapter over Client.RecordConsent.
func NewRecordConsentOperation(s *Session) *Operation[*ConsentRequest, ConsentRecord] {
	return bind(s, (*Client).RecordConsent)
}

// NewGetConsentOperation returns an adapter over Client.GetConsent. The input
// is the user ID.
func NewGetConsentOperation(s *Session) *Operation[string, ConsentRecord] {
	return bind(s, (*Client).GetConsent)
}

// NewListAuditLogsOperation returns an adapter over Client.ListAuditLogs. A
// nil query lists everything.
func NewListAuditLogsOperation(s *Session) *Operation[*AuditLogQuery, AuditLogPage] {
	return bind(s, (*Client).ListAuditLogs)
}

// NewReportBreachOperation returns an adapter over Client.ReportBreach.
func NewReportBreachOperation(s *Session) *Operation[*BreachRequest, BreachResult] {
	return bind(s, (*Client).ReportBreach)
}

// NewGetComplianceStatusOperation returns an adapter over Client.GetComplianceStatus.
func NewGetComplianceStatusOperation(s *Session) *Operation[struct{}, ComplianceStatus] {
	return bind0(s, (*Client).GetComplianceStatus)
}

// Webhooks

// NewCreateWebhookOperation returns an adapter over Client.CreateWebhook.
func NewCreateWebhookOperation(s *Session) *Operation[*WebhookRequest, Webhook] {
	return bind(s, (*Client).CreateWebhook)
}

// NewGetWebhookOperation returns an adapter over Client.GetWebhook. The input
// is the webhook ID.
func NewGetWebhookOperation(s *Session) *Operation[string, Webhook] {
	return bind(s, (*Client).GetWebhook)
}

// NewListWebhooksOperation returns an adapter over Client.ListWebhooks. A nil
// filter lists everything.
func NewListWebhooksOperation(s *Session) *Operation[*WebhookFilter, WebhookList] {
	return bind(s, (*Client).ListWebhooks)
}

// UpdateWebhookInput pairs the webhook ID with its replacement configuration,
// since the adapter contract takes a single input value.
type UpdateWebhookInput struct {
	WebhookID string
	Request   *WebhookRequest
}

// NewUpdateWebhookOperation returns an adapter over Client.UpdateWebhook.
func NewUpdateWebhookOperation(s *Session) *Operation[UpdateWebhookInput, Webhook] {
	return NewOperation(func(ctx context.Context, in UpdateWebhookInput) (*Webhook, error) {
		client, ok := s.Lookup()
		if !ok {
			return nil, ErrSessionMissing
		}
		return client.UpdateWebhook(ctx, in.WebhookID, in.Request)
	})
}

// NewDeleteWebhookOperation returns an adapter over Client.DeleteWebhook. The
// input is the webhook ID; the result carries no data.
func NewDeleteWebhookOperation(s *Session) *Operation[string, struct{}] {
	return NewOperation(func(ctx context.Context, webhookID string) (*struct{}, error) {
		client, ok := s.Lookup()
		if !ok {
			return nil, ErrSessionMissing
		}
		if err := client.DeleteWebhook(ctx, webhookID); err != nil {
			return nil, err
		}
		return &struct{}{}, nil
	})
}

// NewTestWebhookOperation returns an adapter over Client.TestWebhook. The
// input is the webhook ID.
func NewTestWebhookOperation(s *Session) *Operation[string, WebhookTestResult] {
	return bind(s, (*Client).TestWebhook)
}

// Account

// NewGetPricingOperation returns an adapter over Client.GetPricing.
func NewGetPricingOperation(s *Session) *Operation[struct{}, Pricing] {
	return bind0(s, (*Client).GetPricing)
}

// NewGetUsageOperation returns an adapter over Client.GetUsage. A nil query
// reports the current month.
func NewGetUsageOperation(s *Session) *Operation[*UsageQuery, UsageStats] {
	return bind(s, (*Client).GetUsage)
}

// Media

// NewAnalyzeImageOperation returns an adapter over Client.AnalyzeImage.
func NewAnalyzeImageOperation(s *Session) *Operation[*MediaRequest, MediaResult] {
	return bind(s, (*Client).AnalyzeImage)
}

// NewAnalyzeAudioOperation returns an adapter over Client.AnalyzeAudio.
func NewAnalyzeAudioOperation(s *Session) *Operation[*MediaRequest, MediaResult] {
	return bind(s, (*Client).AnalyzeAudio)
}

// NewAnalyzeVideoOperation returns an adapter over Client.AnalyzeVideo.
func NewAnalyzeVideoOperation(s *Session) *Operation[*MediaRequest, MediaResult] {
	return bind(s, (*Client).AnalyzeVideo)
}
