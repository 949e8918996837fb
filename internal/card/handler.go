package card

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/voxcards/backend/internal/dto"
	"github.com/voxcards/backend/internal/shared"
)

type Handler struct {
	store  *Store
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/decks", h.ListDecks)
	g.POST("/decks", h.CreateDeck)
	g.GET("/decks/:id", h.GetDeck)
	g.PATCH("/decks/:id", h.UpdateDeck)
	g.DELETE("/decks/:id", h.DeleteDeck)
	g.GET("/decks/:id/cards", h.ListCards)

	g.POST("/cards", h.CreateCard)
	g.GET("/cards/:id", h.GetCard)
	g.PATCH("/cards/:id", h.UpdateCard)
	g.DELETE("/cards/:id", h.DeleteCard)
	g.POST("/cards/:id/rate", h.RateCard)
}

func (h *Handler) deckToResponse(c echo.Context, d *Deck) dto.DeckResponse {
	count, err := h.store.CountCards(c.Request().Context(), d.ID)
	if err != nil {
		h.logger.Error("failed to count cards", "error", err, "deck_id", d.ID)
	}
	return dto.DeckResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Tags:        d.Tags,
		CardCount:   count,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
}

// ListDecks godoc
// @Summary      List decks
// @Tags         decks
// @Produce      json
// @Success      200  {array}  dto.DeckResponse
// @Router       /decks [get]
func (h *Handler) ListDecks(c echo.Context) error {
	decks, err := h.store.ListDecks(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to list decks", "error", err)
		return shared.InternalError("list_failed", "failed to list decks")
	}

	resp := make([]dto.DeckResponse, 0, len(decks))
	for _, d := range decks {
		resp = append(resp, h.deckToResponse(c, d))
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateDeck godoc
// @Summary      Create a deck
// @Tags         decks
// @Accept       json
// @Produce      json
// @Param        request  body  dto.CreateDeckRequest  true  "Deck"
// @Success      201  {object}  dto.DeckResponse
// @Failure      400  {object}  shared.APIError
// @Router       /decks [post]
func (h *Handler) CreateDeck(c echo.Context) error {
	var req dto.CreateDeckRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_body", "invalid request body")
	}
	if req.Name == "" {
		return shared.BadRequest("missing_name", "deck name is required")
	}

	d := &Deck{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if err := h.store.CreateDeck(c.Request().Context(), d); err != nil {
		h.logger.Error("failed to create deck", "error", err)
		return shared.InternalError("create_failed", "failed to create deck")
	}
	return c.JSON(http.StatusCreated, h.deckToResponse(c, d))
}

// GetDeck godoc
// @Summary      Get a deck
// @Tags         decks
// @Produce      json
// @Param        id  path  string  true  "Deck ID"
// @Success      200  {object}  dto.DeckResponse
// @Failure      404  {object}  shared.APIError
// @Router       /decks/{id} [get]
func (h *Handler) GetDeck(c echo.Context) error {
	d, err := h.store.GetDeck(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("deck_not_found", "deck not found")
		}
		return shared.InternalError("get_failed", "failed to get deck")
	}
	return c.JSON(http.StatusOK, h.deckToResponse(c, d))
}

// UpdateDeck godoc
// @Summary      Update a deck
// @Tags         decks
// @Accept       json
// @Produce      json
// @Param        id       path  string                 true  "Deck ID"
// @Param        request  body  dto.UpdateDeckRequest  true  "Changes"
// @Success      200  {object}  dto.DeckResponse
// @Failure      404  {object}  shared.APIError
// @Router       /decks/{id} [patch]
func (h *Handler) UpdateDeck(c echo.Context) error {
	d, err := h.store.GetDeck(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("deck_not_found", "deck not found")
		}
		return shared.InternalError("get_failed", "failed to get deck")
	}

	var req dto.UpdateDeckRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_body", "invalid request body")
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Tags != nil {
		d.Tags = req.Tags
	}

	if err := h.store.UpdateDeck(c.Request().Context(), d); err != nil {
		h.logger.Error("failed to update deck", "error", err, "deck_id", d.ID)
		return shared.InternalError("update_failed", "failed to update deck")
	}
	return c.JSON(http.StatusOK, h.deckToResponse(c, d))
}

// DeleteDeck godoc
// @Summary      Delete a deck and its cards
// @Tags         decks
// @Param        id  path  string  true  "Deck ID"
// @Success      204
// @Failure      404  {object}  shared.APIError
// @Router       /decks/{id} [delete]
func (h *Handler) DeleteDeck(c echo.Context) error {
	err := h.store.DeleteDeck(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("deck_not_found", "deck not found")
		}
		h.logger.Error("failed to delete deck", "error", err)
		return shared.InternalError("delete_failed", "failed to delete deck")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCards godoc
// @Summary      List cards in a deck
// @Tags         cards
// @Produce      json
// @Param        id  path  string  true  "Deck ID"
// @Success      200  {array}  Card
// @Router       /decks/{id}/cards [get]
func (h *Handler) ListCards(c echo.Context) error {
	cards, err := h.store.ListCards(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("failed to list cards", "error", err)
		return shared.InternalError("list_failed", "failed to list cards")
	}
	return c.JSON(http.StatusOK, cards)
}

// CreateCard godoc
// @Summary      Create a card
// @Tags         cards
// @Accept       json
// @Produce      json
// @Param        request  body  dto.CreateCardRequest  true  "Card"
// @Success      201  {object}  Card
// @Failure      400  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Router       /cards [post]
func (h *Handler) CreateCard(c echo.Context) error {
	var req dto.CreateCardRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_body", "invalid request body")
	}
	if req.DeckID == "" || req.Front == "" || req.Back == "" {
		return shared.BadRequest("missing_fields", "deck_id, front and back are required")
	}

	if _, err := h.store.GetDeck(c.Request().Context(), req.DeckID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("deck_not_found", "deck not found")
		}
		return shared.InternalError("get_failed", "failed to get deck")
	}

	card := &Card{
		DeckID: req.DeckID,
		Front:  req.Front,
		Back:   req.Back,
	}
	if err := h.store.CreateCard(c.Request().Context(), card); err != nil {
		h.logger.Error("failed to create card", "error", err)
		return shared.InternalError("create_failed", "failed to create card")
	}
	return c.JSON(http.StatusCreated, card)
}

// GetCard godoc
// @Summary      Get a card
// @Tags         cards
// @Produce      json
// @Param        id  path  string  true  "Card ID"
// @Success      200  {object}  Card
// @Failure      404  {object}  shared.APIError
// @Router       /cards/{id} [get]
func (h *Handler) GetCard(c echo.Context) error {
	card, err := h.store.GetCard(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("card_not_found", "card not found")
		}
		return shared.InternalError("get_failed", "failed to get card")
	}
	return c.JSON(http.StatusOK, card)
}

// UpdateCard godoc
// @Summary      Update a card
// @Tags         cards
// @Accept       json
// @Produce      json
// @Param        id       path  string                 true  "Card ID"
// @Param        request  body  dto.UpdateCardRequest  true  "Changes"
// @Success      200  {object}  Card
// @Failure      404  {object}  shared.APIError
// @Router       /cards/{id} [patch]
func (h *Handler) UpdateCard(c echo.Context) error {
	card, err := h.store.GetCard(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("card_not_found", "card not found")
		}
		return shared.InternalError("get_failed", "failed to get card")
	}

	var req dto.UpdateCardRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_body", "invalid request body")
	}
	if req.Front != nil {
		card.Front = *req.Front
	}
	if req.Back != nil {
		card.Back = *req.Back
	}

	if err := h.store.UpdateCard(c.Request().Context(), card); err != nil {
		h.logger.Error("failed to update card", "error", err, "card_id", card.ID)
		return shared.InternalError("update_failed", "failed to update card")
	}
	return c.JSON(http.StatusOK, card)
}

// DeleteCard godoc
// @Summary      Delete a card
// @Tags         cards
// @Param        id  path  string  true  "Card ID"
// @Success      204
// @Failure      404  {object}  shared.APIError
// @Router       /cards/{id} [delete]
func (h *Handler) DeleteCard(c echo.Context) error {
	err := h.store.DeleteCard(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("card_not_found", "card not found")
		}
		h.logger.Error("failed to delete card", "error", err)
		return shared.InternalError("delete_failed", "failed to delete card")
	}
	return c.NoContent(http.StatusNoContent)
}

// RateCard godoc
// @Summary      Rate a card
// @Description  Applies the learner's self-assessment and reschedules the card
// @Tags         cards
// @Accept       json
// @Produce      json
// @Param        id       path  string               true  "Card ID"
// @Param        request  body  dto.RateCardRequest  true  "Rating"
// @Success      200  {object}  Card
// @Failure      400  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Router       /cards/{id}/rate [post]
func (h *Handler) RateCard(c echo.Context) error {
	var req dto.RateCardRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_body", "invalid request body")
	}
	rating := shared.Rating(req.Rating)
	if !rating.Valid() {
		return shared.BadRequest("invalid_rating", "rating must be one of again, hard, good, easy")
	}

	card, err := h.store.RecordReview(c.Request().Context(), c.Param("id"), rating)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("card_not_found", "card not found")
		}
		h.logger.Error("failed to record review", "error", err)
		return shared.InternalError("rate_failed", "failed to rate card")
	}
	return c.JSON(http.StatusOK, card)
}
