package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/voxcards/backend/internal/agents"
	"github.com/voxcards/backend/internal/card"
	"github.com/voxcards/backend/internal/dto"
	"github.com/voxcards/backend/internal/frames"
	"github.com/voxcards/backend/internal/session"
	"github.com/voxcards/backend/internal/shared"
)

// Dispatcher relays agent tool calls to the stores. It is the server half of
// the tool manifest declared in the agents package.
type Dispatcher struct {
	cards    *card.Store
	frames   *frames.Store
	sessions *session.Store
	registry *agents.Registry
	logger   *slog.Logger
}

func NewDispatcher(
	cards *card.Store,
	framesStore *frames.Store,
	sessions *session.Store,
	registry *agents.Registry,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		cards:    cards,
		frames:   framesStore,
		sessions: sessions,
		registry: registry,
		logger:   logger.With("component", "tool-dispatcher"),
	}
}

// ErrInvalidArguments marks a tool call whose arguments fail validation.
var ErrInvalidArguments = errors.New("invalid tool arguments")

// ErrUnknownTool marks a tool name with no dispatch arm.
type ErrUnknownTool struct {
	Name string
}

func (e ErrUnknownTool) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

func (d *Dispatcher) Dispatch(ctx context.Context, name string, req dto.ToolCallRequest) (any, error) {
	switch name {
	case agents.ToolListDecks:
		return d.listDecks(ctx)
	case agents.ToolGetNextCard:
		return d.getNextCard(ctx, req)
	case agents.ToolRateCard:
		return d.rateCard(ctx, req)
	case agents.ToolPeekScreen:
		return d.peekScreen(ctx, req)
	case agents.ToolSwitchAgent:
		return d.switchAgent(ctx, req)
	default:
		return nil, ErrUnknownTool{Name: name}
	}
}

func (d *Dispatcher) listDecks(ctx context.Context) (any, error) {
	decks, err := d.cards.ListDecks(ctx)
	if err != nil {
		return nil, err
	}

	type deckSummary struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CardCount int64  `json:"card_count"`
	}

	out := make([]deckSummary, 0, len(decks))
	for _, deck := range decks {
		count, err := d.cards.CountCards(ctx, deck.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, deckSummary{ID: deck.ID, Name: deck.Name, CardCount: count})
	}
	return out, nil
}

func (d *Dispatcher) getNextCard(ctx context.Context, req dto.ToolCallRequest) (any, error) {
	sess, err := d.sessions.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	deckID := stringArg(req.Arguments, "deck_id")
	if deckID == "" {
		deckID = sess.DeckID
	}

	c, err := d.cards.NextCard(ctx, deckID, sess.PreviousCardID)
	if err != nil {
		return nil, err
	}

	if err := d.sessions.SetPreviousCard(ctx, sess.ID, c.ID); err != nil {
		d.logger.Error("failed to record previous card", "error", err, "session_id", sess.ID)
	}
	if err := d.sessions.IncrementMetric(ctx, sess.ID, session.MetricCardsShown, 1); err != nil {
		d.logger.Error("failed to bump cards_shown", "error", err, "session_id", sess.ID)
	}

	return c, nil
}

func (d *Dispatcher) rateCard(ctx context.Context, req dto.ToolCallRequest) (any, error) {
	cardID := stringArg(req.Arguments, "card_id")
	rating := shared.Rating(stringArg(req.Arguments, "rating"))
	if cardID == "" || !rating.Valid() {
		return nil, fmt.Errorf("rate_card needs card_id and a valid rating: %w", ErrInvalidArguments)
	}

	c, err := d.cards.RecordReview(ctx, cardID, rating)
	if err != nil {
		return nil, err
	}

	if req.SessionID != "" {
		if err := d.sessions.IncrementMetric(ctx, req.SessionID, session.MetricCardsRated, 1); err != nil {
			d.logger.Error("failed to bump cards_rated", "error", err, "session_id", req.SessionID)
		}
	}

	return c, nil
}

func (d *Dispatcher) peekScreen(ctx context.Context, req dto.ToolCallRequest) (any, error) {
	if req.SessionID == "" {
		return nil, fmt.Errorf("peek_screen needs a session_id: %w", ErrInvalidArguments)
	}

	rec, err := d.frames.GetLatest(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return map[string]any{"available": false}, nil
	}
	return map[string]any{
		"available":  true,
		"source_tag": rec.SourceTag,
		"timestamp":  rec.Timestamp,
		"data_uri":   rec.DataURI,
	}, nil
}

func (d *Dispatcher) switchAgent(ctx context.Context, req dto.ToolCallRequest) (any, error) {
	name := stringArg(req.Arguments, "agent")
	a, err := d.registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidArguments)
	}

	sess, err := d.sessions.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	pctx := agents.PromptContext{}
	if deck, err := d.cards.GetDeck(ctx, sess.DeckID); err == nil {
		pctx.DeckName = deck.Name
		pctx.CardCount, _ = d.cards.CountCards(ctx, deck.ID)
	}

	instructions, err := a.Render(pctx)
	if err != nil {
		return nil, err
	}

	sess.Agent = a.Name
	if err := d.sessions.Update(ctx, sess); err != nil {
		return nil, err
	}

	return map[string]any{
		"agent":        a.Name,
		"instructions": instructions,
		"tools":        a.Tools,
	}, nil
}

func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	v, _ := args[key].(string)
	return v
}
