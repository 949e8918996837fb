package session

import "time"

type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
	StatusError  Status = "error"
)

// StudySession is one voice conversation over a deck. PreviousCardID is the
// per-session repeat guard: the next-card pick excludes it so the learner
// never hears the same card twice in a row.
type StudySession struct {
	ID             string    `json:"id"`
	DeckID         string    `json:"deck_id"`
	Agent          string    `json:"agent"`
	Status         Status    `json:"status"`
	PreviousCardID string    `json:"previous_card_id,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	LastActiveAt   time.Time `json:"last_active_at"`
}

func (s *StudySession) RedisKey() string {
	return "study:" + s.ID
}

// Metric field names for the per-session counters hash.
const (
	MetricCardsShown    = "cards_shown"
	MetricCardsRated    = "cards_rated"
	MetricFramesSent    = "frames_sent"
	MetricFramesSkipped = "frames_skipped"
)

type Metrics struct {
	SessionID     string `json:"session_id"`
	CardsShown    int64  `json:"cards_shown"`
	CardsRated    int64  `json:"cards_rated"`
	FramesSent    int64  `json:"frames_sent"`
	FramesSkipped int64  `json:"frames_skipped"`
}

func MetricsRedisKey(sessionID string) string {
	return "study:" + sessionID + ":metrics"
}
