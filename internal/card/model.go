package card

import (
	"time"

	"github.com/voxcards/backend/internal/shared"
)

type Deck struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description,omitempty"`

	Tags shared.StringSlice `gorm:"type:json" json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Card struct {
	ID     string `gorm:"primaryKey" json:"id"`
	DeckID string `gorm:"not null;index" json:"deck_id"`

	Front string `gorm:"not null" json:"front"`
	Back  string `gorm:"not null" json:"back"`

	Reviews         int64         `gorm:"default:0" json:"reviews"`
	Lapses          int64         `gorm:"default:0" json:"lapses"`
	IntervalMinutes int64         `gorm:"default:0" json:"interval_minutes"`
	LastRating      shared.Rating `json:"last_rating,omitempty"`
	LastReviewedAt  *time.Time    `json:"last_reviewed_at,omitempty"`
	DueAt           time.Time     `gorm:"index" json:"due_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Scheduling buckets. Deliberately coarse; the voice agents reshuffle cards
// within a session anyway, so this only has to order cards across sessions.
const (
	againInterval = time.Minute
	hardFloor     = 10 * time.Minute
	goodFloor     = 24 * time.Hour
	easyFloor     = 48 * time.Hour
)

// ApplyRating folds a review into the card's schedule.
func (c *Card) ApplyRating(r shared.Rating, now time.Time) {
	c.Reviews++
	c.LastRating = r
	c.LastReviewedAt = &now

	interval := time.Duration(c.IntervalMinutes) * time.Minute
	switch r {
	case shared.RatingAgain:
		c.Lapses++
		interval = againInterval
	case shared.RatingHard:
		interval = maxDuration(interval*6/5, hardFloor)
	case shared.RatingGood:
		interval = maxDuration(interval*5/2, goodFloor)
	case shared.RatingEasy:
		interval = maxDuration(interval*7/2, easyFloor)
	}

	c.IntervalMinutes = int64(interval / time.Minute)
	c.DueAt = now.Add(interval)
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
