package session

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/voxcards/backend/internal/card"
	"github.com/voxcards/backend/internal/dto"
	"github.com/voxcards/backend/internal/shared"
)

type Handler struct {
	store     *Store
	cardStore *card.Store
	logger    *slog.Logger
}

func NewHandler(store *Store, cardStore *card.Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:     store,
		cardStore: cardStore,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Start)
	g.GET("/:id", h.Get)
	g.POST("/:id/end", h.End)
	g.GET("/:id/metrics", h.GetMetrics)
}

func toResponse(s *StudySession) dto.StudySessionResponse {
	return dto.StudySessionResponse{
		ID:           s.ID,
		DeckID:       s.DeckID,
		Agent:        s.Agent,
		Status:       string(s.Status),
		StartedAt:    s.StartedAt.Format(time.RFC3339),
		LastActiveAt: s.LastActiveAt.Format(time.RFC3339),
	}
}

// Start godoc
// @Summary      Start a study session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request  body  dto.StartStudySessionRequest  true  "Session"
// @Success      201  {object}  dto.StudySessionResponse
// @Failure      400  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Router       /sessions [post]
func (h *Handler) Start(c echo.Context) error {
	var req dto.StartStudySessionRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_body", "invalid request body")
	}
	if req.DeckID == "" {
		return shared.BadRequest("missing_deck", "deck_id is required")
	}

	if _, err := h.cardStore.GetDeck(c.Request().Context(), req.DeckID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("deck_not_found", "deck not found")
		}
		return shared.InternalError("get_failed", "failed to get deck")
	}

	sess := &StudySession{DeckID: req.DeckID, Agent: req.Agent}
	if err := h.store.Create(c.Request().Context(), sess); err != nil {
		h.logger.Error("failed to create study session", "error", err)
		return shared.InternalError("create_failed", "failed to create session")
	}

	h.logger.Info("study session started", "session_id", sess.ID, "deck_id", sess.DeckID)
	return c.JSON(http.StatusCreated, toResponse(sess))
}

// Get godoc
// @Summary      Get a study session
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  dto.StudySessionResponse
// @Failure      404  {object}  shared.APIError
// @Router       /sessions/{id} [get]
func (h *Handler) Get(c echo.Context) error {
	sess, err := h.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("session_not_found", "session not found")
		}
		return shared.InternalError("get_failed", "failed to get session")
	}
	return c.JSON(http.StatusOK, toResponse(sess))
}

// End godoc
// @Summary      End a study session
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  dto.StudySessionResponse
// @Failure      404  {object}  shared.APIError
// @Router       /sessions/{id}/end [post]
func (h *Handler) End(c echo.Context) error {
	id := c.Param("id")
	if err := h.store.End(c.Request().Context(), id, StatusEnded); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("session_not_found", "session not found")
		}
		h.logger.Error("failed to end session", "error", err, "session_id", id)
		return shared.InternalError("end_failed", "failed to end session")
	}

	sess, err := h.store.Get(c.Request().Context(), id)
	if err != nil {
		return shared.InternalError("get_failed", "failed to get session")
	}
	return c.JSON(http.StatusOK, toResponse(sess))
}

// GetMetrics godoc
// @Summary      Get study session metrics
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  dto.StudyMetricsResponse
// @Failure      404  {object}  shared.APIError
// @Router       /sessions/{id}/metrics [get]
func (h *Handler) GetMetrics(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.store.Get(c.Request().Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("session_not_found", "session not found")
		}
		return shared.InternalError("get_failed", "failed to get session")
	}

	m, err := h.store.GetMetrics(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("failed to get metrics", "error", err, "session_id", id)
		return shared.InternalError("metrics_failed", "failed to get metrics")
	}

	return c.JSON(http.StatusOK, dto.StudyMetricsResponse{
		SessionID:     m.SessionID,
		CardsShown:    m.CardsShown,
		CardsRated:    m.CardsRated,
		FramesSent:    m.FramesSent,
		FramesSkipped: m.FramesSkipped,
	})
}
