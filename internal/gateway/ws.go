package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/voxcards/backend/internal/dto"
	"github.com/voxcards/backend/internal/sampler"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024

	statsPushInterval = time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// mediaEnvelope is one message on the media ingest socket. Payload carries
// an encoded video packet; a "end" message marks the end of the track.
type mediaEnvelope struct {
	Type    string `json:"type"`
	Codec   string `json:"codec,omitempty"`
	Payload []byte `json:"payload,omitempty"`
}

const (
	mediaTypePacket = "packet"
	mediaTypeEnd    = "end"
)

// WSServer carries the two websocket endpoints of a share: media ingest in
// one direction and sampling stats in the other.
type WSServer struct {
	shares *ShareManager
	logger *slog.Logger
}

func NewWSServer(shares *ShareManager, logger *slog.Logger) *WSServer {
	return &WSServer{
		shares: shares,
		logger: logger.With("component", "ws_server"),
	}
}

// HandleMedia upgrades the connection and feeds incoming packets into the
// session's capture pipeline. The session must already have a share running.
func (s *WSServer) HandleMedia(c echo.Context) error {
	sessionID := c.Param("id")
	if _, ok := s.shares.Stats(sessionID); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no share running for session")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return err
	}

	s.readMedia(ws, sessionID)
	return nil
}

func (s *WSServer) readMedia(ws *websocket.Conn, sessionID string) {
	defer func() {
		s.shares.EndMedia(sessionID)
		ws.Close()
	}()

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	logger := s.logger.With("session_id", sessionID)
	for {
		var env mediaEnvelope
		if err := ws.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("read error", "error", err)
			}
			return
		}

		switch env.Type {
		case mediaTypePacket:
			s.shares.HandleMedia(sessionID, env.Payload, env.Codec)
		case mediaTypeEnd:
			return
		default:
			logger.Warn("unknown media message", "type", env.Type)
		}
	}
}

// HandleStats upgrades the connection and pushes sampling stats for the
// session's share once a second until the client disconnects or the share
// stops.
func (s *WSServer) HandleStats(c echo.Context) error {
	sessionID := c.Param("id")

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		ws.SetReadLimit(maxMessageSize)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.writeStats(ws, sessionID, done)
	return nil
}

func (s *WSServer) writeStats(ws *websocket.Conn, sessionID string, done <-chan struct{}) {
	ticker := time.NewTicker(statsPushInterval)
	pinger := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		pinger.Stop()
		ws.Close()
	}()

	for {
		select {
		case <-done:
			return
		case <-pinger.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ticker.C:
			st, ok := s.shares.Stats(sessionID)
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(shareStatsResponse(st)); err != nil {
				return
			}
			if !ok {
				ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "share stopped"))
				return
			}
		}
	}
}

func shareStatsResponse(st sampler.Stats) dto.ShareStatsResponse {
	return dto.ShareStatsResponse{
		Active:        st.Active,
		Source:        st.SourceTag,
		FramesSent:    st.FramesSent,
		FramesSkipped: st.FramesSkipped,
		LastChanged:   st.LastChanged,
		SavingsRatio:  st.SavingsRatio(),
	}
}
