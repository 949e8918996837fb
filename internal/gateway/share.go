package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/voxcards/backend/internal/capture"
	"github.com/voxcards/backend/internal/frames"
	"github.com/voxcards/backend/internal/sampler"
	"github.com/voxcards/backend/internal/session"
	"github.com/voxcards/backend/internal/shared"
)

const statsFlushInterval = 2 * time.Second

// share is one live media capture: the packet-to-frame pipeline plus the
// sampler that decides which frames are worth persisting.
type share struct {
	sessionID string
	kind      shared.SourceKind
	source    *capture.TrackSource
	sampler   *sampler.Sampler
	done      chan struct{}
}

// ShareManager owns at most one screen or camera share per study session.
// Starting a new share for a session tears down the previous one first.
type ShareManager struct {
	cfg      sampler.Config
	frames   *frames.Store
	sessions *session.Store
	logger   *slog.Logger

	mu     sync.Mutex
	shares map[string]*share
}

func NewShareManager(
	cfg sampler.Config,
	framesStore *frames.Store,
	sessions *session.Store,
	logger *slog.Logger,
) *ShareManager {
	return &ShareManager{
		cfg:      cfg,
		frames:   framesStore,
		sessions: sessions,
		logger:   logger.With("component", "share-manager"),
		shares:   make(map[string]*share),
	}
}

// StartShare begins sampling frames for a session. The session must exist
// and be active; any share already running for it is replaced.
func (m *ShareManager) StartShare(ctx context.Context, sessionID string, kind shared.SourceKind) error {
	sess, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Status != session.StatusActive {
		return fmt.Errorf("session %s is not active", sessionID)
	}

	m.stop(sessionID)

	sh := &share{
		sessionID: sessionID,
		kind:      kind,
		source:    capture.NewTrackSource(capture.NewVPXDecoder(), m.logger),
		sampler:   sampler.New(m.cfg, m.logger),
		done:      make(chan struct{}),
	}

	sh.sampler.Start(sh.source, kind.String(), m.sink(sessionID))

	m.mu.Lock()
	m.shares[sessionID] = sh
	m.mu.Unlock()

	go m.flushStats(sh)

	m.logger.Info("share started", "session_id", sessionID, "source", kind.String())
	return nil
}

// StopShare tears down the share for a session. Stopping a session with no
// share is a no-op.
func (m *ShareManager) StopShare(ctx context.Context, sessionID string) {
	if st, ok := m.stop(sessionID); ok {
		m.writeStats(ctx, sessionID, st)
		m.logger.Info("share stopped", "session_id", sessionID,
			"frames_sent", st.FramesSent, "frames_skipped", st.FramesSkipped)
	}
}

// HandleMedia feeds one encoded media packet into the session's capture
// pipeline. Packets for sessions without a share are dropped.
func (m *ShareManager) HandleMedia(sessionID string, payload []byte, mimeType string) {
	m.mu.Lock()
	sh := m.shares[sessionID]
	m.mu.Unlock()

	if sh == nil {
		return
	}
	sh.source.HandleRTPPacket(payload, mimeType)
}

// EndMedia marks the session's media stream as finished. The sampler
// observes the end of stream on its next tick and shuts itself down.
func (m *ShareManager) EndMedia(sessionID string) {
	m.mu.Lock()
	sh := m.shares[sessionID]
	m.mu.Unlock()

	if sh == nil {
		return
	}
	sh.source.End()
}

// Stats reports the sampler counters for a session's share.
func (m *ShareManager) Stats(sessionID string) (sampler.Stats, bool) {
	m.mu.Lock()
	sh := m.shares[sessionID]
	m.mu.Unlock()

	if sh == nil {
		return sampler.Stats{}, false
	}
	return sh.sampler.Stats(), true
}

// ShareCount reports the number of running shares.
func (m *ShareManager) ShareCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.shares)
}

// ListShares snapshots the sampler counters of every running share, keyed
// by session ID.
func (m *ShareManager) ListShares() map[string]sampler.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]sampler.Stats, len(m.shares))
	for id, sh := range m.shares {
		out[id] = sh.sampler.Stats()
	}
	return out
}

// Close stops every running share. Used during server shutdown.
func (m *ShareManager) Close() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.shares))
	for id := range m.shares {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.stop(id)
	}
}

// stop removes a session's share and tears it down, returning the final
// counters read just before the sampler resets them.
func (m *ShareManager) stop(sessionID string) (sampler.Stats, bool) {
	m.mu.Lock()
	sh := m.shares[sessionID]
	delete(m.shares, sessionID)
	m.mu.Unlock()

	if sh == nil {
		return sampler.Stats{}, false
	}
	st := sh.sampler.Stats()
	sh.sampler.Stop()
	sh.source.End()
	close(sh.done)
	return st, true
}

// sink persists each emitted frame. It runs on the sampler's goroutine, so
// the redis write gets its own short deadline instead of blocking ticks.
func (m *ShareManager) sink(sessionID string) sampler.Sink {
	return func(encodedFrame, sourceTag string) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		rec := &frames.Record{
			SessionID: sessionID,
			Timestamp: time.Now().UnixMilli(),
			SourceTag: sourceTag,
			DataURI:   encodedFrame,
		}
		if err := m.frames.StoreFrame(ctx, rec); err != nil {
			m.logger.Error("failed to store frame", "error", err, "session_id", sessionID)
		}
	}
}

func (m *ShareManager) flushStats(sh *share) {
	ticker := time.NewTicker(statsFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sh.done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			m.writeStats(ctx, sh.sessionID, sh.sampler.Stats())
			cancel()
		}
	}
}

func (m *ShareManager) writeStats(ctx context.Context, sessionID string, st sampler.Stats) {
	if err := m.sessions.RecordFrameStats(ctx, sessionID, st.FramesSent, st.FramesSkipped); err != nil {
		m.logger.Error("failed to record frame stats", "error", err, "session_id", sessionID)
	}
}
