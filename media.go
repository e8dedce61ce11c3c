package tuteliq

import (
	"context"
	"fmt"
	"net/http"
)

// MediaRequest is the request type for the media analysis methods. Content is
// built with one of the media content constructors (NewMediaURLContent,
// NewMediaContent, NewMediaFileContent).
type MediaRequest struct {
	Tracking
	Content MediaContenter
}

// mediaWireRequest is the encoded form of a MediaRequest.
type mediaWireRequest struct {
	Tracking
	Content *mediaContent `json:"content"`
}

// MediaResult is the outcome of analyzing an image, audio clip, or video.
type MediaResult struct {
	Tracking
	RiskLevel RiskLevel `json:"riskLevel"`
	RiskScore float64   `json:"riskScore"`
	// Categories lists what was detected in the media.
	Categories []string `json:"categories"`
	// Transcript is the recognized speech for audio and video inputs.
	Transcript string `json:"transcript,omitempty"`
}

func (c *Client) analyzeMedia(ctx context.Context, path string, req *MediaRequest) (*MediaResult, error) {
	content, err := req.Content.toMediaContent()
	if err != nil {
		return nil, fmt.Errorf("failed to prepare content: %w", err)
	}

	wire := &mediaWireRequest{Tracking: req.Tracking, Content: content}

	var out MediaResult
	if err := c.call(ctx, http.MethodPost, path, nil, wire, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeImage analyzes an image for unsafe content.
func (c *Client) AnalyzeImage(ctx context.Context, req *MediaRequest) (*MediaResult, error) {
	out, err := c.analyzeMedia(ctx, "analyze/image", req)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze image: %w", err)
	}
	return out, nil
}

// AnalyzeAudio analyzes an audio clip: speech is transcribed and the
// transcript run through the text detectors.
func (c *Client) AnalyzeAudio(ctx context.Context, req *MediaRequest) (*MediaResult, error) {
	out, err := c.analyzeMedia(ctx, "analyze/audio", req)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze audio: %w", err)
	}
	return out, nil
}

// AnalyzeVideo analyzes a video: frames are sampled for visual detection and
// the audio track is transcribed.
func (c *Client) AnalyzeVideo(ctx context.Context, req *MediaRequest) (*MediaResult, error) {
	out, err := c.analyzeMedia(ctx, "analyze/video", req)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze video: %w", err)
	}
	return out, nil
}
