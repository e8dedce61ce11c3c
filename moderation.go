package tuteliq

import (
	"context"
	"fmt"
	"net/http"
)

// BullyingRequest is the request type for the DetectBullying method.
type BullyingRequest struct {
	Tracking
	// Text is the content to analyze.
	Text string `json:"text"`
}

// BullyingResult is the outcome of a bullying detection.
type BullyingResult struct {
	Tracking
	// IsBullying is true when the text contains bullying.
	IsBullying bool `json:"isBullying"`
	// Severity grades the detection. Only meaningful when IsBullying is true.
	Severity Severity `json:"severity"`
	// BullyingTypes lists the detected categories (e.g. "insult", "threat",
	// "exclusion").
	BullyingTypes []string `json:"bullyingTypes"`
	// Confidence is the model's confidence in the detection, 0.0 to 1.0.
	Confidence float64 `json:"confidence"`
}

// DetectBullying analyzes a piece of text for bullying.
func (c *Client) DetectBullying(ctx context.Context, req *BullyingRequest) (*BullyingResult, error) {
	var out BullyingResult
	if err := c.call(ctx, http.MethodPost, "detect/bullying", nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to detect bullying: %w", err)
	}
	return &out, nil
}

// GroomingRequest is the request type for the DetectGrooming method. Messages
// must be ordered oldest first.
type GroomingRequest struct {
	Tracking
	Messages []Message `json:"messages"`
	// ChildAge is the age of the child in the conversation. The model weighs
	// age-inappropriate patterns against it.
	ChildAge int `json:"childAge"`
	// IncludeBreakdown requests a per-message risk annotation in the result.
	IncludeBreakdown bool `json:"includeBreakdown,omitempty"`
}

// MessageRisk annotates a single conversation message with its contribution
// to the overall grooming risk.
type MessageRisk struct {
	Index     int      `json:"index"`
	RiskScore float64  `json:"riskScore"`
	Patterns  []string `json:"patterns,omitempty"`
}

// GroomingResult is the outcome of a grooming detection.
type GroomingResult struct {
	Tracking
	RiskLevel RiskLevel `json:"riskLevel"`
	// RiskScore is the overall grooming risk, 0.0 to 1.0.
	RiskScore float64 `json:"riskScore"`
	// MessageBreakdown is present only when the request asked for it.
	MessageBreakdown []MessageRisk `json:"messageBreakdown,omitempty"`
}

// DetectGrooming analyzes an ordered conversation between a child and another
// party for grooming patterns.
func (c *Client) DetectGrooming(ctx context.Context, req *GroomingRequest) (*GroomingResult, error) {
	var out GroomingResult
	if err := c.call(ctx, http.MethodPost, "detect/grooming", nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to detect grooming: %w", err)
	}
	return &out, nil
}

// UnsafeContentRequest is the request type for the DetectUnsafeContent method.
type UnsafeContentRequest struct {
	Tracking
	Text string `json:"text"`
}

// UnsafeContentResult is the outcome of an unsafe-content detection.
type UnsafeContentResult struct {
	Tracking
	IsUnsafe bool `json:"isUnsafe"`
	// Categories lists what made the content unsafe (e.g. "self_harm",
	// "violence", "sexual").
	Categories []string `json:"categories"`
	Confidence float64  `json:"confidence"`
}

// DetectUnsafeContent analyzes a piece of text for content that is unsafe for
// children.
func (c *Client) DetectUnsafeContent(ctx context.Context, req *UnsafeContentRequest) (*UnsafeContentResult, error) {
	var out UnsafeContentResult
	if err := c.call(ctx, http.MethodPost, "detect/unsafe-content", nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to detect unsafe content: %w", err)
	}
	return &out, nil
}

// AnalysisRequest is the request type for the Analyze method.
type AnalysisRequest struct {
	Tracking
	Text string `json:"text"`
}

// AnalysisResult is the composite outcome across all detectors.
type AnalysisResult struct {
	Tracking
	RiskLevel RiskLevel `json:"riskLevel"`
	RiskScore float64   `json:"riskScore"`
	// Summary is a human-readable description of what was found.
	Summary string `json:"summary"`
}

// Analyze runs the composite analysis: every detector at once, folded into a
// single risk level, score, and summary.
func (c *Client) Analyze(ctx context.Context, req *AnalysisRequest) (*AnalysisResult, error) {
	var out AnalysisResult
	if err := c.call(ctx, http.MethodPost, "analyze", nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to analyze content: %w", err)
	}
	return &out, nil
}

// EmotionRequest is the request type for the AnalyzeEmotion method.
type EmotionRequest struct {
	Tracking
	Text string `json:"text"`
}

// EmotionScore is one detected emotion with its weight.
type EmotionScore struct {
	Emotion string  `json:"emotion"`
	Score   float64 `json:"score"`
}

// EmotionResult is the outcome of an emotion analysis.
type EmotionResult struct {
	Tracking
	// DominantEmotions is ordered strongest first.
	DominantEmotions []EmotionScore `json:"dominantEmotions"`
	Trend            EmotionTrend   `json:"trend"`
}

// AnalyzeEmotion analyzes the emotional content of a piece of text.
func (c *Client) AnalyzeEmotion(ctx context.Context, req *EmotionRequest) (*EmotionResult, error) {
	var out EmotionResult
	if err := c.call(ctx, http.MethodPost, "analyze/emotion", nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to analyze emotion: %w", err)
	}
	return &out, nil
}

// ActionPlanRequest is the request type for the GenerateActionPlan method.
type ActionPlanRequest struct {
	Tracking
	// Situation describes what happened, in the caller's words.
	Situation string `json:"situation"`
	// Audience is who the plan is written for.
	Audience Audience `json:"audience"`
	Severity Severity `json:"severity"`
}

// ActionPlanStep is one step of a generated plan, ordered by Order.
type ActionPlanStep struct {
	Order       int    `json:"order"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ActionPlanResult is the outcome of an action-plan generation.
type ActionPlanResult struct {
	Tracking
	Steps []ActionPlanStep `json:"steps"`
}

// GenerateActionPlan generates an ordered list of steps for handling a
// situation, phrased for the given audience.
func (c *Client) GenerateActionPlan(ctx context.Context, req *ActionPlanRequest) (*ActionPlanResult, error) {
	var out ActionPlanResult
	if err := c.call(ctx, http.MethodPost, "action-plan", nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to generate action plan: %w", err)
	}
	return &out, nil
}

// ReportRequest is the request type for the GenerateReport method. Messages
// must be ordered oldest first.
type ReportRequest struct {
	Tracking
	Messages []ReportMessage `json:"messages"`
	ChildAge int             `json:"childAge"`
}

// ReportResult is a generated incident report.
type ReportResult struct {
	Tracking
	// Summary is the narrative incident description.
	Summary string `json:"summary"`
	// RiskLevel is the overall risk assessed across the conversation.
	RiskLevel RiskLevel `json:"riskLevel"`
	// KeyFindings lists the notable observations backing the summary.
	KeyFindings []string `json:"keyFindings"`
	// Recommendations suggest follow-up actions.
	Recommendations []string `json:"recommendations"`
}

// GenerateReport generates an incident report from a sender-tagged
// conversation, suitable for sharing with a school or guardian.
func (c *Client) GenerateReport(ctx context.Context, req *ReportRequest) (*ReportResult, error) {
	var out ReportResult
	if err := c.call(ctx, http.MethodPost, "report", nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}
	return &out, nil
}
