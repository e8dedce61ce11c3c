package tuteliq

import (
	"encoding/base64"
	"os"
)

// Tracking carries optional caller-supplied correlation data. Both fields are
// opaque to the SDK and the API: they are echoed back verbatim on the result,
// never inspected or transformed.
type Tracking struct {
	// ExternalID is a caller-chosen correlation string.
	ExternalID string `json:"externalId,omitempty"`
	// Metadata is a caller-chosen key-value mapping.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Severity grades how serious a detection or incident is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// RiskLevel grades the overall risk of analyzed content.
type RiskLevel string

const (
	RiskLevelNone     RiskLevel = "none"
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	return string(r)
}

// Role tags who wrote a message in a grooming-detection conversation.
type Role string

const (
	RoleChild   Role = "child"
	RoleAdult   Role = "adult"
	RoleUnknown Role = "unknown"
)

// Sender tags who wrote a message in an incident-report conversation.
type Sender string

const (
	SenderChild   Sender = "child"
	SenderContact Sender = "contact"
)

// Audience is who an action plan is written for.
type Audience string

const (
	AudienceParent    Audience = "parent"
	AudienceTeacher   Audience = "teacher"
	AudienceModerator Audience = "moderator"
)

// EmotionTrend describes the direction of the emotional signal over the
// analyzed text.
type EmotionTrend string

const (
	EmotionTrendImproving EmotionTrend = "improving"
	EmotionTrendStable    EmotionTrend = "stable"
	EmotionTrendDeclining EmotionTrend = "declining"
)

// Message is one entry of a role-tagged conversation, ordered oldest first.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ReportMessage is one entry of a sender-tagged conversation for incident
// report generation, ordered oldest first.
type ReportMessage struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// MediaContenter is an interface that represents a media input to send to the
// analysis endpoints.
type MediaContenter interface {
	toMediaContent() (*mediaContent, error)
}

// mediaContent is the wire shape of a media input: exactly one of URL or Data
// (base64) is set.
type mediaContent struct {
	URL  string `json:"url,omitempty"`
	Data string `json:"data,omitempty"`
}

// NewMediaURLContent can be used to reference media by URL.
func NewMediaURLContent(mediaURL string) MediaContenter {
	return &mediaURLContent{mediaURL: mediaURL}
}

type mediaURLContent struct {
	mediaURL string
}

func (m *mediaURLContent) toMediaContent() (*mediaContent, error) {
	return &mediaContent{URL: m.mediaURL}, nil
}

// NewMediaContent can be used to send raw media bytes.
func NewMediaContent(data []byte) MediaContenter {
	return &mediaBytesContent{data: data}
}

type mediaBytesContent struct {
	data []byte
}

func (m *mediaBytesContent) toMediaContent() (*mediaContent, error) {
	return &mediaContent{Data: base64.StdEncoding.EncodeToString(m.data)}, nil
}

// NewMediaFileContent can be used to send a media file available on the local
// file system.
func NewMediaFileContent(mediaFile string) MediaContenter {
	return &mediaFileContent{mediaFile: mediaFile}
}

type mediaFileContent struct {
	mediaFile string
}

func (m *mediaFileContent) toMediaContent() (*mediaContent, error) {
	data, err := os.ReadFile(m.mediaFile)
	if err != nil {
		return nil, err
	}
	return &mediaContent{Data: base64.StdEncoding.EncodeToString(data)}, nil
}

// GroomingRequestBuilder simplifies the construction of a GroomingRequest.
// First, create the builder with `NewGroomingRequestBuilder()`.
// Then, add messages and set the child's age.
// Finally, call `Build()` to create the request.
//
// Example:
//
//	req := NewGroomingRequestBuilder().
//		AddMessage(tuteliq.RoleAdult, "you seem mature for your age").
//		AddMessage(tuteliq.RoleChild, "thanks i guess").
//		ChildAge(12).
//		Build()
type GroomingRequestBuilder struct {
	messages  []Message
	childAge  int
	breakdown bool
	tracking  Tracking
}

// NewGroomingRequestBuilder creates a new GroomingRequestBuilder.
func NewGroomingRequestBuilder() *GroomingRequestBuilder {
	return &GroomingRequestBuilder{
		messages: make([]Message, 0, 10),
	}
}

// AddMessage appends a role-tagged message to the conversation.
func (b *GroomingRequestBuilder) AddMessage(role Role, text string) *GroomingRequestBuilder {
	b.messages = append(b.messages, Message{Role: role, Text: text})
	return b
}

// ChildAge sets the age of the child in the conversation.
func (b *GroomingRequestBuilder) ChildAge(age int) *GroomingRequestBuilder {
	b.childAge = age
	return b
}

// IncludeBreakdown requests a per-message risk breakdown in the result.
func (b *GroomingRequestBuilder) IncludeBreakdown(include bool) *GroomingRequestBuilder {
	b.breakdown = include
	return b
}

// ExternalID sets the caller correlation ID for the request.
func (b *GroomingRequestBuilder) ExternalID(externalID string) *GroomingRequestBuilder {
	b.tracking.ExternalID = externalID
	return b
}

// AddMetadata adds one tracking metadata entry. Repeated keys override.
func (b *GroomingRequestBuilder) AddMetadata(key, value string) *GroomingRequestBuilder {
	if b.tracking.Metadata == nil {
		b.tracking.Metadata = make(map[string]string)
	}
	b.tracking.Metadata[key] = value
	return b
}

// Build creates a new GroomingRequest from the builder.
func (b *GroomingRequestBuilder) Build() *GroomingRequest {
	return &GroomingRequest{
		Tracking:         b.tracking,
		Messages:         b.messages,
		ChildAge:         b.childAge,
		IncludeBreakdown: b.breakdown,
	}
}
