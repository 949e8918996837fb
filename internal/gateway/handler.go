package gateway

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/voxcards/backend/internal/agents"
	"github.com/voxcards/backend/internal/card"
	"github.com/voxcards/backend/internal/dto"
	"github.com/voxcards/backend/internal/frames"
	"github.com/voxcards/backend/internal/shared"
)

type Handler struct {
	tokens     *TokenService
	dispatcher *Dispatcher
	shares     *ShareManager
	ws         *WSServer
	registry   *agents.Registry
	cards      *card.Store
	frames     *frames.Store
	logger     *slog.Logger
}

func NewHandler(
	tokens *TokenService,
	dispatcher *Dispatcher,
	shares *ShareManager,
	ws *WSServer,
	registry *agents.Registry,
	cards *card.Store,
	framesStore *frames.Store,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		tokens:     tokens,
		dispatcher: dispatcher,
		shares:     shares,
		ws:         ws,
		registry:   registry,
		cards:      cards,
		frames:     framesStore,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/realtime/sessions", h.CreateRealtimeSession)
	g.GET("/agents", h.ListAgents)
	g.POST("/tools/:name", h.CallTool)
	g.POST("/sessions/:id/share", h.StartShare)
	g.DELETE("/sessions/:id/share", h.StopShare)
	g.GET("/sessions/:id/share/stats", h.ShareStats)
	g.GET("/sessions/:id/frames", h.ListFrames)
	g.GET("/sessions/:id/media", h.ws.HandleMedia)
	g.GET("/sessions/:id/share/stats/ws", h.ws.HandleStats)
}

// CreateRealtimeSession godoc
// @Summary      Mint an ephemeral realtime token
// @Description  Renders the agent's instructions and exchanges the server API key for a short-lived client secret.
// @Tags         realtime
// @Accept       json
// @Produce      json
// @Param        request  body  dto.CreateRealtimeSessionRequest  true  "Session options"
// @Success      201  {object}  dto.RealtimeTokenResponse
// @Failure      400  {object}  shared.APIError
// @Failure      502  {object}  shared.APIError
// @Router       /realtime/sessions [post]
func (h *Handler) CreateRealtimeSession(c echo.Context) error {
	var req dto.CreateRealtimeSessionRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "Invalid request body")
	}

	agent, err := h.registry.Get(req.Agent)
	if err != nil {
		return shared.BadRequest("unknown_agent", err.Error())
	}

	pctx := agents.PromptContext{}
	if req.DeckID != "" {
		deck, err := h.cards.GetDeck(c.Request().Context(), req.DeckID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NotFound("deck_not_found", "Deck not found")
			}
			h.logger.Error("failed to load deck", "error", err, "deck_id", req.DeckID)
			return shared.InternalError("deck_lookup_failed", "Failed to load deck")
		}
		pctx.DeckName = deck.Name
		if pctx.CardCount, err = h.cards.CountCards(c.Request().Context(), deck.ID); err != nil {
			h.logger.Error("failed to count cards", "error", err, "deck_id", deck.ID)
		}
	}

	instructions, err := agent.Render(pctx)
	if err != nil {
		h.logger.Error("failed to render instructions", "error", err, "agent", agent.Name)
		return shared.InternalError("render_failed", "Failed to render agent instructions")
	}

	secret, expiresAt, err := h.tokens.MintClientSecret(c.Request().Context(), instructions)
	if err != nil {
		h.logger.Error("failed to mint client secret", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway,
			shared.NewAPIError("token_mint_failed", "Failed to mint realtime token"))
	}

	return c.JSON(http.StatusCreated, dto.RealtimeTokenResponse{
		ClientSecret: secret,
		ExpiresAt:    expiresAt,
		Model:        h.tokens.Model(),
		Agent:        agent.Name,
		Instructions: instructions,
	})
}

// ListAgents godoc
// @Summary      List agent personas
// @Tags         realtime
// @Produce      json
// @Success      200  {array}  dto.AgentResponse
// @Router       /agents [get]
func (h *Handler) ListAgents(c echo.Context) error {
	names := h.registry.Names()
	out := make([]dto.AgentResponse, 0, len(names))
	for _, name := range names {
		agent, err := h.registry.Get(name)
		if err != nil {
			continue
		}
		out = append(out, dto.AgentResponse{Name: agent.Name, Tools: toolNames(agent.Tools)})
	}
	return c.JSON(http.StatusOK, out)
}

func toolNames(tools []agents.ToolDef) []string {
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	return names
}

// CallTool godoc
// @Summary      Invoke an agent tool
// @Description  Relays a function call from the realtime agent to the backing stores.
// @Tags         realtime
// @Accept       json
// @Produce      json
// @Param        name     path  string               true  "Tool name"
// @Param        request  body  dto.ToolCallRequest  true  "Tool arguments"
// @Success      200  {object}  dto.ToolCallResponse
// @Failure      400  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Router       /tools/{name} [post]
func (h *Handler) CallTool(c echo.Context) error {
	var req dto.ToolCallRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "Invalid request body")
	}

	name := c.Param("name")
	result, err := h.dispatcher.Dispatch(c.Request().Context(), name, req)
	if err != nil {
		var unknown ErrUnknownTool
		switch {
		case errors.As(err, &unknown):
			return shared.NotFound("unknown_tool", unknown.Error())
		case errors.Is(err, ErrInvalidArguments):
			return shared.BadRequest("invalid_arguments", err.Error())
		case errors.Is(err, shared.ErrNotFound):
			return shared.NotFound("not_found", "Referenced resource not found")
		default:
			h.logger.Error("tool call failed", "error", err, "tool", name)
			return shared.InternalError("tool_failed", "Tool call failed")
		}
	}

	return c.JSON(http.StatusOK, dto.ToolCallResponse{Result: result})
}

// StartShare godoc
// @Summary      Start a screen or camera share
// @Tags         shares
// @Accept       json
// @Produce      json
// @Param        id       path  string                true  "Session ID"
// @Param        request  body  dto.StartShareRequest  true  "Share source"
// @Success      201  {object}  dto.ShareStatsResponse
// @Failure      400  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Router       /sessions/{id}/share [post]
func (h *Handler) StartShare(c echo.Context) error {
	var req dto.StartShareRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "Invalid request body")
	}

	kind := shared.SourceKind(req.Source)
	if !kind.Valid() {
		return shared.BadRequest("invalid_source", "Source must be screen or camera")
	}

	sessionID := c.Param("id")
	if err := h.shares.StartShare(c.Request().Context(), sessionID, kind); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("session_not_found", "Study session not found")
		}
		h.logger.Error("failed to start share", "error", err, "session_id", sessionID)
		return shared.BadRequest("share_failed", err.Error())
	}

	st, _ := h.shares.Stats(sessionID)
	return c.JSON(http.StatusCreated, shareStatsResponse(st))
}

// StopShare godoc
// @Summary      Stop a running share
// @Tags         shares
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      204  "share stopped"
// @Router       /sessions/{id}/share [delete]
func (h *Handler) StopShare(c echo.Context) error {
	h.shares.StopShare(c.Request().Context(), c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// ListFrames godoc
// @Summary      Recently sent frames for a session
// @Tags         shares
// @Produce      json
// @Param        id     path   string  true   "Session ID"
// @Param        start  query  int     false  "Start timestamp (unix ms)"
// @Param        end    query  int     false  "End timestamp (unix ms)"
// @Param        limit  query  int     false  "Max frames"
// @Success      200  {array}  dto.FrameResponse
// @Router       /sessions/{id}/frames [get]
func (h *Handler) ListFrames(c echo.Context) error {
	sessionID := c.Param("id")

	start := queryInt(c, "start", 0)
	end := queryInt(c, "end", time.Now().UnixMilli())
	limit := int(queryInt(c, "limit", 20))

	records, err := h.frames.GetRange(c.Request().Context(), sessionID, start, end, limit)
	if err != nil {
		h.logger.Error("failed to list frames", "error", err, "session_id", sessionID)
		return shared.InternalError("frames_failed", "Failed to list frames")
	}

	out := make([]dto.FrameResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, dto.FrameResponse{
			Timestamp: rec.Timestamp,
			SourceTag: rec.SourceTag,
			DataURI:   rec.DataURI,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func queryInt(c echo.Context, name string, fallback int64) int64 {
	v := c.QueryParam(name)
	if v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}

// ShareStats godoc
// @Summary      Sampling stats for a session's share
// @Tags         shares
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  dto.ShareStatsResponse
// @Failure      404  {object}  shared.APIError
// @Router       /sessions/{id}/share/stats [get]
func (h *Handler) ShareStats(c echo.Context) error {
	st, ok := h.shares.Stats(c.Param("id"))
	if !ok {
		return shared.NotFound("share_not_found", "No share running for session")
	}
	return c.JSON(http.StatusOK, shareStatsResponse(st))
}
