package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/voxcards/backend/internal/agents"
	"github.com/voxcards/backend/internal/card"
	"github.com/voxcards/backend/internal/dto"
	"github.com/voxcards/backend/internal/frames"
	"github.com/voxcards/backend/internal/session"
)

type testEnv struct {
	dispatcher *Dispatcher
	cards      *card.Store
	frames     *frames.Store
	sessions   *session.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	cardStore := card.NewStore(db)
	if err := cardStore.Migrate(); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	framesStore := frames.NewStore(redisClient, time.Minute)
	sessionStore := session.NewStore(redisClient)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{
		dispatcher: NewDispatcher(cardStore, framesStore, sessionStore, agents.NewRegistry(), logger),
		cards:      cardStore,
		frames:     framesStore,
		sessions:   sessionStore,
	}
}

func (e *testEnv) seedDeck(t *testing.T, cards int) *card.Deck {
	t.Helper()
	ctx := context.Background()

	d := &card.Deck{Name: "Spanish"}
	if err := e.cards.CreateDeck(ctx, d); err != nil {
		t.Fatalf("CreateDeck: %v", err)
	}
	for i := 0; i < cards; i++ {
		c := &card.Card{DeckID: d.ID, Front: "hola", Back: "hello"}
		if err := e.cards.CreateCard(ctx, c); err != nil {
			t.Fatalf("CreateCard: %v", err)
		}
	}
	return d
}

func (e *testEnv) startSession(t *testing.T, deckID string) *session.StudySession {
	t.Helper()
	sess := &session.StudySession{DeckID: deckID, Agent: "study"}
	if err := e.sessions.Create(context.Background(), sess); err != nil {
		t.Fatalf("Create session: %v", err)
	}
	return sess
}

func TestDispatcher_UnknownTool(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.dispatcher.Dispatch(context.Background(), "explode", dto.ToolCallRequest{})
	var unknown ErrUnknownTool
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want ErrUnknownTool", err)
	}
	if unknown.Name != "explode" {
		t.Errorf("Name = %q", unknown.Name)
	}
}

func TestDispatcher_ListDecks(t *testing.T) {
	env := newTestEnv(t)
	env.seedDeck(t, 3)

	result, err := env.dispatcher.Dispatch(context.Background(), agents.ToolListDecks, dto.ToolCallRequest{})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var decks []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CardCount int64  `json:"card_count"`
	}
	if err := json.Unmarshal(data, &decks); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(decks) != 1 || decks[0].Name != "Spanish" || decks[0].CardCount != 3 {
		t.Errorf("decks = %+v", decks)
	}
}

func TestDispatcher_GetNextCard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	deck := env.seedDeck(t, 2)
	sess := env.startSession(t, deck.ID)

	result, err := env.dispatcher.Dispatch(ctx, agents.ToolGetNextCard, dto.ToolCallRequest{SessionID: sess.ID})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	first, ok := result.(*card.Card)
	if !ok {
		t.Fatalf("unexpected result type %T", result)
	}

	updated, err := env.sessions.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get session: %v", err)
	}
	if updated.PreviousCardID != first.ID {
		t.Errorf("PreviousCardID = %q, want %q", updated.PreviousCardID, first.ID)
	}

	result, err = env.dispatcher.Dispatch(ctx, agents.ToolGetNextCard, dto.ToolCallRequest{SessionID: sess.ID})
	if err != nil {
		t.Fatalf("second Dispatch: %v", err)
	}
	second := result.(*card.Card)
	if second.ID == first.ID {
		t.Error("same card served twice in a row")
	}

	metrics, err := env.sessions.GetMetrics(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetMetrics: %v", err)
	}
	if metrics.CardsShown != 2 {
		t.Errorf("CardsShown = %d, want 2", metrics.CardsShown)
	}
}

func TestDispatcher_GetNextCard_SingleCardDeck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	deck := env.seedDeck(t, 1)
	sess := env.startSession(t, deck.ID)

	for i := 0; i < 2; i++ {
		if _, err := env.dispatcher.Dispatch(ctx, agents.ToolGetNextCard, dto.ToolCallRequest{SessionID: sess.ID}); err != nil {
			t.Fatalf("Dispatch %d: %v", i, err)
		}
	}
}

func TestDispatcher_RateCard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	deck := env.seedDeck(t, 1)
	sess := env.startSession(t, deck.ID)

	cards, err := env.cards.ListCards(ctx, deck.ID)
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}

	result, err := env.dispatcher.Dispatch(ctx, agents.ToolRateCard, dto.ToolCallRequest{
		SessionID: sess.ID,
		Arguments: map[string]any{"card_id": cards[0].ID, "rating": "good"},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	rated := result.(*card.Card)
	if rated.Reviews != 1 {
		t.Errorf("Reviews = %d, want 1", rated.Reviews)
	}
	if rated.LastRating != "good" {
		t.Errorf("LastRating = %q", rated.LastRating)
	}

	metrics, err := env.sessions.GetMetrics(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetMetrics: %v", err)
	}
	if metrics.CardsRated != 1 {
		t.Errorf("CardsRated = %d, want 1", metrics.CardsRated)
	}
}

func TestDispatcher_RateCard_InvalidRating(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.dispatcher.Dispatch(context.Background(), agents.ToolRateCard, dto.ToolCallRequest{
		Arguments: map[string]any{"card_id": "card_1", "rating": "amazing"},
	})
	if !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("error = %v, want ErrInvalidArguments", err)
	}
}

func TestDispatcher_PeekScreen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	deck := env.seedDeck(t, 0)
	sess := env.startSession(t, deck.ID)

	result, err := env.dispatcher.Dispatch(ctx, agents.ToolPeekScreen, dto.ToolCallRequest{SessionID: sess.ID})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result.(map[string]any)["available"] != false {
		t.Errorf("result = %v, want unavailable", result)
	}

	rec := &frames.Record{
		SessionID: sess.ID,
		Timestamp: time.Now().UnixMilli(),
		SourceTag: "screen",
		DataURI:   "data:image/jpeg;base64,/9j/AAAA",
	}
	if err := env.frames.StoreFrame(ctx, rec); err != nil {
		t.Fatalf("StoreFrame: %v", err)
	}

	result, err = env.dispatcher.Dispatch(ctx, agents.ToolPeekScreen, dto.ToolCallRequest{SessionID: sess.ID})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	out := result.(map[string]any)
	if out["available"] != true || out["source_tag"] != "screen" {
		t.Errorf("result = %v", out)
	}
	if out["data_uri"] != rec.DataURI {
		t.Errorf("data_uri = %v", out["data_uri"])
	}
}

func TestDispatcher_SwitchAgent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	deck := env.seedDeck(t, 2)
	sess := env.startSession(t, deck.ID)

	result, err := env.dispatcher.Dispatch(ctx, agents.ToolSwitchAgent, dto.ToolCallRequest{
		SessionID: sess.ID,
		Arguments: map[string]any{"agent": "learn"},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	out := result.(map[string]any)
	if out["agent"] != "learn" {
		t.Errorf("agent = %v", out["agent"])
	}
	if out["instructions"] == "" {
		t.Error("instructions should not be empty")
	}

	updated, err := env.sessions.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get session: %v", err)
	}
	if updated.Agent != "learn" {
		t.Errorf("Agent = %q, want learn", updated.Agent)
	}
}

func TestDispatcher_SwitchAgent_Unknown(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.dispatcher.Dispatch(context.Background(), agents.ToolSwitchAgent, dto.ToolCallRequest{
		Arguments: map[string]any{"agent": "wizard"},
	})
	if !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("error = %v, want ErrInvalidArguments", err)
	}
}
