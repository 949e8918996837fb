package sampler

import (
	"errors"
	"image"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrNotReady signals that the source has no decodable frame buffered
	// yet. The sampler skips the tick silently.
	ErrNotReady = errors.New("sampler: frame not ready")

	// ErrEnded signals that the upstream track finished. The sampler tears
	// the session down.
	ErrEnded = errors.New("sampler: stream ended")
)

// FrameSource supplies decoded frames from a live media stream. The sampler
// holds a non-owning reference for the session's lifetime; stopping the
// sampler does not stop the upstream capture.
type FrameSource interface {
	// ReadFrame returns the most recent decoded frame. It returns
	// ErrNotReady while no frame is buffered and ErrEnded once the
	// upstream track has finished.
	ReadFrame() (image.Image, error)
}

// Sink receives each transmitted frame as a base64 JPEG data URI together
// with the session's source tag. It is invoked on the sampler's goroutine
// and must not call back into the Sampler.
type Sink func(encodedFrame, sourceTag string)

// Stats is a point-in-time view of a sampling session.
type Stats struct {
	Active        bool   `json:"active"`
	SourceTag     string `json:"source_tag,omitempty"`
	FramesSent    int64  `json:"frames_sent"`
	FramesSkipped int64  `json:"frames_skipped"`
	LastChanged   bool   `json:"last_changed"`
}

// SavingsRatio reports the fraction of evaluated frames that were withheld,
// the bandwidth saved relative to sending every evaluated frame.
func (st Stats) SavingsRatio() float64 {
	evaluated := st.FramesSent + st.FramesSkipped
	if evaluated == 0 {
		return 0
	}
	return float64(st.FramesSkipped) / float64(evaluated)
}

// Sampler watches a live video stream and decides, using pixel-level change
// detection and time-based throttling, which frames are worth forwarding.
// At most one session is active per instance.
type Sampler struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu            sync.Mutex
	active        bool
	sourceTag     string
	source        FrameSource
	sink          Sink
	baseline      *Snapshot
	lastSentAt    time.Time
	framesSent    int64
	framesSkipped int64
	lastChanged   bool
	stop          chan struct{}
}

// New returns a sampler for the given config. Zero-valued config fields fall
// back to defaults.
func New(cfg Config, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{
		cfg:    cfg.withDefaults(),
		logger: logger.With("component", "frame-sampler"),
		now:    time.Now,
	}
}

// Start begins sampling the source. If a session is already active it is
// stopped first. Frames judged worth sending are delivered to sink
// asynchronously relative to the caller, in strict capture order.
func (s *Sampler) Start(source FrameSource, sourceTag string, sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		s.stopLocked()
	}

	s.active = true
	s.source = source
	s.sourceTag = sourceTag
	s.sink = sink
	s.stop = make(chan struct{})

	go s.run(s.stop)

	s.logger.Info("sampling started",
		"source", sourceTag,
		"frame_rate", s.cfg.FrameRate,
		"change_threshold", s.cfg.ChangeThreshold)
}

// Stop cancels the session: the tick loop exits, the capture reference and
// baseline are released, and counters reset to zero. Idempotent; a no-op
// when no session is active. No evaluation fires after Stop returns, even
// one already queued by the timer.
func (s *Sampler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.stopLocked()
}

func (s *Sampler) stopLocked() {
	close(s.stop)
	s.stop = nil
	s.active = false
	s.source = nil
	s.sink = nil
	s.sourceTag = ""
	s.baseline = nil
	s.lastSentAt = time.Time{}
	s.framesSent = 0
	s.framesSkipped = 0
	s.lastChanged = false
	s.logger.Info("sampling stopped")
}

// Stats returns the current session counters.
func (s *Sampler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Active:        s.active,
		SourceTag:     s.sourceTag,
		FramesSent:    s.framesSent,
		FramesSkipped: s.framesSkipped,
		LastChanged:   s.lastChanged,
	}
}

func (s *Sampler) run(stop chan struct{}) {
	ticker := time.NewTicker(s.cfg.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !s.evaluate(stop) {
				return
			}
		}
	}
}

// evaluate runs one tick of the capture loop. The stop channel identifies
// the session the tick belongs to; a tick that raced with Stop (or with a
// restart) is discarded without touching state. Returns false once the loop
// should exit.
func (s *Sampler) evaluate(stop chan struct{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || s.stop != stop {
		return false
	}

	img, err := s.source.ReadFrame()
	if errors.Is(err, ErrEnded) {
		s.stopLocked()
		return false
	}
	if err != nil || img == nil {
		// Transient: nothing buffered this tick.
		return true
	}

	b := img.Bounds()
	tw, th := fitDimensions(b.Dx(), b.Dy(), s.cfg.MaxWidth, s.cfg.MaxHeight)
	snap := newSnapshot(img, tw, th)
	now := s.now()

	if s.baseline == nil {
		// First frame of the session always goes out.
		s.send(snap, now)
		return true
	}

	if now.Sub(s.lastSentAt) < s.cfg.MinFrameInterval {
		// Hard rate floor; bypasses change detection and leaves the
		// change flag untouched.
		s.framesSkipped++
		return true
	}

	fraction := changeFraction(snap, s.baseline)
	changed := fraction >= s.cfg.ChangeThreshold
	s.lastChanged = changed
	if !changed {
		s.framesSkipped++
		return true
	}

	s.send(snap, now)
	return true
}

func (s *Sampler) send(snap *Snapshot, now time.Time) {
	encoded, err := encodeDataURI(snap, s.cfg.Quality)
	if err != nil {
		// Treated like a not-ready tick: no state change, retry on the
		// next wake-up.
		s.logger.Debug("jpeg encode failed", "error", err)
		return
	}

	s.sink(encoded, s.sourceTag)
	s.framesSent++
	s.baseline = snap
	s.lastSentAt = now
	s.lastChanged = true
}
