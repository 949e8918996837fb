package card

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/voxcards/backend/internal/shared"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Deck{}, &Card{})
}

func (s *Store) CreateDeck(ctx context.Context, d *Deck) error {
	if d.ID == "" {
		d.ID = shared.NewID("deck_")
	}
	return s.db.WithContext(ctx).Create(d).Error
}

func (s *Store) GetDeck(ctx context.Context, id string) (*Deck, error) {
	var d Deck
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	return &d, err
}

func (s *Store) ListDecks(ctx context.Context) ([]*Deck, error) {
	var decks []*Deck
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&decks).Error
	return decks, err
}

func (s *Store) UpdateDeck(ctx context.Context, d *Deck) error {
	return s.db.WithContext(ctx).Save(d).Error
}

func (s *Store) DeleteDeck(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Card{}, "deck_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&Deck{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (s *Store) CountCards(ctx context.Context, deckID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Card{}).Where("deck_id = ?", deckID).Count(&n).Error
	return n, err
}

func (s *Store) CreateCard(ctx context.Context, c *Card) error {
	if c.ID == "" {
		c.ID = shared.NewID("card_")
	}
	if c.DueAt.IsZero() {
		c.DueAt = time.Now()
	}
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) GetCard(ctx context.Context, id string) (*Card, error) {
	var c Card
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	return &c, err
}

func (s *Store) ListCards(ctx context.Context, deckID string) ([]*Card, error) {
	var cards []*Card
	err := s.db.WithContext(ctx).Where("deck_id = ?", deckID).Order("created_at ASC").Find(&cards).Error
	return cards, err
}

func (s *Store) UpdateCard(ctx context.Context, c *Card) error {
	return s.db.WithContext(ctx).Save(c).Error
}

func (s *Store) DeleteCard(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&Card{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (s *Store) ListDue(ctx context.Context, deckID string, now time.Time, limit int) ([]*Card, error) {
	var cards []*Card
	err := s.db.WithContext(ctx).
		Where("deck_id = ? AND due_at <= ?", deckID, now).
		Order("due_at ASC").
		Limit(limit).
		Find(&cards).Error
	return cards, err
}

// NextCard returns the most overdue card in the deck, avoiding the
// immediately previous card so the learner never sees the same card twice in
// a row. The exclusion is per-session state supplied by the caller; when the
// deck has only that one card it is returned anyway.
func (s *Store) NextCard(ctx context.Context, deckID, excludeID string) (*Card, error) {
	var c Card
	q := s.db.WithContext(ctx).Where("deck_id = ?", deckID)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Order("due_at ASC").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if excludeID != "" {
			return s.NextCard(ctx, deckID, "")
		}
		return nil, shared.ErrNotFound
	}
	return &c, err
}

// RecordReview applies a rating to the card and persists the new schedule.
func (s *Store) RecordReview(ctx context.Context, cardID string, rating shared.Rating) (*Card, error) {
	c, err := s.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	c.ApplyRating(rating, time.Now())
	if err := s.UpdateCard(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
