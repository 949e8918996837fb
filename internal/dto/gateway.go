package dto

// RealtimeTokenResponse carries an ephemeral client secret for the realtime
// voice API. The server-side API key never leaves the backend.
type RealtimeTokenResponse struct {
	ClientSecret string `json:"client_secret"`
	ExpiresAt    int64  `json:"expires_at"`
	Model        string `json:"model"`
	Agent        string `json:"agent"`
	Instructions string `json:"instructions"`
}

type CreateRealtimeSessionRequest struct {
	Agent  string `json:"agent,omitempty" example:"study"`
	DeckID string `json:"deck_id,omitempty"`
}

// AgentResponse summarizes one agent persona and the tools it may call.
type AgentResponse struct {
	Name  string   `json:"name"`
	Tools []string `json:"tools"`
}

// ToolCallRequest is one agent tool invocation relayed through the backend.
type ToolCallRequest struct {
	SessionID string         `json:"session_id"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

type ToolCallResponse struct {
	Result any `json:"result"`
}

type StartShareRequest struct {
	Source string `json:"source" validate:"required" enums:"screen,camera"`
}

// FrameResponse is one retained frame from a session's share.
type FrameResponse struct {
	Timestamp int64  `json:"timestamp"`
	SourceTag string `json:"source_tag"`
	DataURI   string `json:"data_uri"`
}

type ShareStatsResponse struct {
	Active        bool    `json:"active"`
	Source        string  `json:"source,omitempty"`
	FramesSent    int64   `json:"frames_sent"`
	FramesSkipped int64   `json:"frames_skipped"`
	LastChanged   bool    `json:"last_changed"`
	SavingsRatio  float64 `json:"savings_ratio"`
}
