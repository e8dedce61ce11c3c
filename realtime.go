package tuteliq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// VoiceConfig tunes a real-time voice monitoring session.
type VoiceConfig struct {
	// ChildAge weighs age-inappropriate patterns, as in DetectGrooming.
	ChildAge int `json:"childAge,omitempty"`
	// Language is a BCP 47 tag for transcription. Empty means auto-detect.
	Language string `json:"language,omitempty"`
	// AlertThreshold is the minimum risk score (0.0 to 1.0) that triggers
	// OnAlert. Zero means the server default.
	AlertThreshold float64 `json:"alertThreshold,omitempty"`
}

// VoiceSessionInfo describes an established voice session.
type VoiceSessionInfo struct {
	SessionID string `json:"sessionId"`
}

// Transcription is one recognized speech fragment.
type Transcription struct {
	Text string `json:"text"`
	// Speaker is the diarized source of the fragment, when known.
	Speaker Role `json:"speaker"`
	// Final is false for interim fragments that may still be revised.
	Final bool `json:"final"`
	// OffsetMs is the fragment's position from the start of the stream.
	OffsetMs int `json:"offsetMs"`
}

// VoiceAlert is raised when the live transcript crosses the alert threshold.
type VoiceAlert struct {
	Category string   `json:"category"`
	Severity Severity `json:"severity"`
	// Excerpt is the transcript fragment that triggered the alert.
	Excerpt string `json:"excerpt"`
	// RiskScore is the score that crossed the threshold.
	RiskScore float64 `json:"riskScore"`
}

// VoiceSummary is delivered once when the session ends.
type VoiceSummary struct {
	SessionID  string       `json:"sessionId"`
	RiskLevel  RiskLevel    `json:"riskLevel"`
	Transcript string       `json:"transcript"`
	Alerts     []VoiceAlert `json:"alerts"`
}

// VoiceHandlers receives server-pushed events. Nil handlers are skipped.
// Handlers run on the session's single reader goroutine, so a slow handler
// delays subsequent events; hand off to your own goroutine if you need to do
// real work.
type VoiceHandlers struct {
	OnReady          func(VoiceSessionInfo)
	OnTranscription  func(Transcription)
	OnAlert          func(VoiceAlert)
	OnSessionSummary func(VoiceSummary)
	OnConfigUpdated  func(VoiceConfig)
	OnError          func(error)
}

// voiceEvent is the wire envelope for server-pushed events.
type voiceEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// VoiceSession is a push-based interface over a persistent connection,
// distinct from the request/response catalog. Create one with
// Client.NewVoiceSession, call Start, feed it audio with SendAudio, and
// Stop when the conversation ends (the summary arrives before the
// connection closes).
type VoiceSession struct {
	client   *Client
	config   VoiceConfig
	handlers VoiceHandlers

	mu      sync.Mutex
	conn    *websocket.Conn
	started bool
	stopped bool
	done    chan struct{}
}

// NewVoiceSession prepares a real-time voice monitoring session. Nothing is
// transmitted until Start.
func (c *Client) NewVoiceSession(config VoiceConfig, handlers VoiceHandlers) *VoiceSession {
	return &VoiceSession{
		client:   c,
		config:   config,
		handlers: handlers,
	}
}

// Start dials the streaming endpoint and begins dispatching events. It
// returns once the connection is established; OnReady fires when the server
// acknowledges the session.
func (v *VoiceSession) Start(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.started {
		return fmt.Errorf("voice session already started")
	}

	wsURL := *v.client.api.BaseURL()
	switch wsURL.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	case "http":
		wsURL.Scheme = "ws"
	}
	wsURL = *wsURL.JoinPath("realtime/voice")

	header := http.Header{}
	header.Set("Authorization", "Bearer "+v.client.api.APIKey())

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), header)
	if err != nil {
		if resp != nil {
			return &Error{
				Kind:       kindForStatus(resp.StatusCode),
				Message:    "voice session handshake rejected",
				StatusCode: resp.StatusCode,
				cause:      err,
			}
		}
		return normalizeError(err)
	}

	if err := conn.WriteJSON(struct {
		Type   string      `json:"type"`
		Config VoiceConfig `json:"config"`
	}{Type: "start", Config: v.config}); err != nil {
		conn.Close()
		return normalizeError(err)
	}

	v.conn = conn
	v.started = true
	v.done = make(chan struct{})
	go v.readLoop(conn, v.done)
	return nil
}

// SendAudio transmits one chunk of PCM audio. Chunks are processed in send
// order.
func (v *VoiceSession) SendAudio(chunk []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.conn == nil {
		return fmt.Errorf("voice session not started")
	}
	return v.conn.WriteMessage(websocket.BinaryMessage, chunk)
}

// UpdateConfig applies new settings mid-session. The server confirms via
// OnConfigUpdated.
func (v *VoiceSession) UpdateConfig(config VoiceConfig) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.conn == nil {
		return fmt.Errorf("voice session not started")
	}
	return v.conn.WriteJSON(struct {
		Type   string      `json:"type"`
		Config VoiceConfig `json:"config"`
	}{Type: "configure", Config: config})
}

// Stop ends the session and waits for the reader to drain remaining events,
// including the session summary. Stop is idempotent.
func (v *VoiceSession) Stop() error {
	v.mu.Lock()
	if v.conn == nil || v.stopped {
		v.mu.Unlock()
		return nil
	}
	v.stopped = true
	conn := v.conn
	done := v.done
	v.mu.Unlock()

	// A clean close lets the server flush the summary before the read loop
	// sees the close frame.
	_ = conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	<-done
	return conn.Close()
}

// readLoop pumps server events to the handlers until the connection closes.
func (v *VoiceSession) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			v.mu.Lock()
			stopped := v.stopped
			v.mu.Unlock()
			if !stopped && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				v.emitError(normalizeError(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var event voiceEvent
		if err := json.Unmarshal(data, &event); err != nil {
			v.emitError(wrapRaw(fmt.Errorf("malformed event: %w", err)))
			continue
		}
		v.dispatch(event)
	}
}

func (v *VoiceSession) dispatch(event voiceEvent) {
	switch event.Type {
	case "ready":
		if v.handlers.OnReady != nil {
			var info VoiceSessionInfo
			if json.Unmarshal(event.Payload, &info) == nil {
				v.handlers.OnReady(info)
			}
		}
	case "transcription":
		if v.handlers.OnTranscription != nil {
			var t Transcription
			if json.Unmarshal(event.Payload, &t) == nil {
				v.handlers.OnTranscription(t)
			}
		}
	case "alert":
		if v.handlers.OnAlert != nil {
			var alert VoiceAlert
			if json.Unmarshal(event.Payload, &alert) == nil {
				v.handlers.OnAlert(alert)
			}
		}
	case "session_summary":
		if v.handlers.OnSessionSummary != nil {
			var summary VoiceSummary
			if json.Unmarshal(event.Payload, &summary) == nil {
				v.handlers.OnSessionSummary(summary)
			}
		}
	case "config_updated":
		if v.handlers.OnConfigUpdated != nil {
			var config VoiceConfig
			if json.Unmarshal(event.Payload, &config) == nil {
				v.handlers.OnConfigUpdated(config)
			}
		}
	case "error":
		var payload struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(event.Payload, &payload) == nil {
			v.emitError(&Error{
				Kind:       kindForStatus(payload.Code),
				Message:    payload.Message,
				StatusCode: payload.Code,
			})
		}
	}
}

func (v *VoiceSession) emitError(err error) {
	if v.handlers.OnError != nil {
		v.handlers.OnError(err)
	}
}
