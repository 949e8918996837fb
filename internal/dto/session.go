package dto

type StartStudySessionRequest struct {
	DeckID string `json:"deck_id" validate:"required"`
	Agent  string `json:"agent,omitempty" example:"study"`
}

type StudySessionResponse struct {
	ID           string `json:"id"`
	DeckID       string `json:"deck_id"`
	Agent        string `json:"agent"`
	Status       string `json:"status"`
	StartedAt    string `json:"started_at"`
	LastActiveAt string `json:"last_active_at"`
}

type StudyMetricsResponse struct {
	SessionID     string `json:"session_id"`
	CardsShown    int64  `json:"cards_shown"`
	CardsRated    int64  `json:"cards_rated"`
	FramesSent    int64  `json:"frames_sent"`
	FramesSkipped int64  `json:"frames_skipped"`
}
