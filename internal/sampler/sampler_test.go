package sampler

import (
	"image"
	"image/color"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = 255
	}
	return img
}

// halfFrame returns a frame whose left half is a, right half b.
func halfFrame(w, h int, a, b color.RGBA) *image.RGBA {
	img := solidFrame(w, h, a)
	for y := 0; y < h; y++ {
		for x := w / 2; x < w; x++ {
			off := y*img.Stride + x*4
			img.Pix[off] = b.R
			img.Pix[off+1] = b.G
			img.Pix[off+2] = b.B
		}
	}
	return img
}

type stubSource struct {
	mu    sync.Mutex
	img   image.Image
	err   error
	reads int
}

func (s *stubSource) ReadFrame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	return s.img, nil
}

func (s *stubSource) set(img image.Image, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = img
	s.err = err
}

type sinkRecorder struct {
	mu     sync.Mutex
	frames []string
	tags   []string
}

func (r *sinkRecorder) sink(frame, tag string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
	r.tags = append(r.tags, tag)
}

func (r *sinkRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// beginSession wires a session without launching the tick goroutine, so
// tests drive evaluations explicitly and deterministically.
func beginSession(s *Sampler, src FrameSource, tag string, sink Sink) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	s.source = src
	s.sourceTag = tag
	s.sink = sink
	s.stop = make(chan struct{})
	return s.stop
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1700000000, 0)}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.FrameRate != 5 {
		t.Errorf("FrameRate = %d, want 5", cfg.FrameRate)
	}
	if cfg.Quality != 0.6 {
		t.Errorf("Quality = %v, want 0.6", cfg.Quality)
	}
	if cfg.MaxWidth != 1280 || cfg.MaxHeight != 720 {
		t.Errorf("bounds = %dx%d, want 1280x720", cfg.MaxWidth, cfg.MaxHeight)
	}
	if cfg.ChangeThreshold != 0.05 {
		t.Errorf("ChangeThreshold = %v, want 0.05", cfg.ChangeThreshold)
	}
	if cfg.MinFrameInterval != 500*time.Millisecond {
		t.Errorf("MinFrameInterval = %v, want 500ms", cfg.MinFrameInterval)
	}
}

func TestConfig_PartialOverlay(t *testing.T) {
	cfg := Config{FrameRate: 10, ChangeThreshold: 0.2}.withDefaults()
	if cfg.FrameRate != 10 {
		t.Errorf("FrameRate = %d, want 10", cfg.FrameRate)
	}
	if cfg.ChangeThreshold != 0.2 {
		t.Errorf("ChangeThreshold = %v, want 0.2", cfg.ChangeThreshold)
	}
	if cfg.Quality != 0.6 {
		t.Errorf("Quality = %v, want default 0.6", cfg.Quality)
	}
	if cfg.tickInterval() != 100*time.Millisecond {
		t.Errorf("tickInterval = %v, want 100ms", cfg.tickInterval())
	}
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name           string
		w, h           int
		maxW, maxH     int
		wantW, wantH   int
	}{
		{"fits already", 640, 480, 1280, 720, 640, 480},
		{"width constrained", 2560, 1440, 1280, 720, 1280, 720},
		{"height constrained", 1000, 1440, 1280, 720, 500, 720},
		{"both constrained sequentially", 4000, 3000, 1280, 720, 960, 720},
		{"exact bounds", 1280, 720, 1280, 720, 1280, 720},
		{"extreme aspect", 10000, 10, 1280, 720, 1280, 1},
		{"tall extreme aspect", 10, 10000, 1280, 720, 1, 720},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitDimensions(tt.w, tt.h, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("fitDimensions(%d, %d) = %dx%d, want %dx%d",
					tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
			if w > tt.maxW || h > tt.maxH {
				t.Errorf("result %dx%d exceeds bounds %dx%d", w, h, tt.maxW, tt.maxH)
			}
		})
	}
}

func TestFitDimensions_PreservesAspectRatio(t *testing.T) {
	w, h := fitDimensions(1920, 1080, 1280, 720)
	srcRatio := float64(1920) / float64(1080)
	gotRatio := float64(w) / float64(h)
	if diff := srcRatio - gotRatio; diff > 0.01 || diff < -0.01 {
		t.Errorf("aspect ratio drifted: source %v, got %v", srcRatio, gotRatio)
	}
}

func TestChangeFraction_Identical(t *testing.T) {
	a := &Snapshot{img: solidFrame(64, 48, color.RGBA{100, 100, 100, 255})}
	b := &Snapshot{img: solidFrame(64, 48, color.RGBA{100, 100, 100, 255})}
	if got := changeFraction(a, b); got != 0 {
		t.Errorf("changeFraction = %v, want 0", got)
	}
}

func TestChangeFraction_BelowDelta(t *testing.T) {
	// A uniform shift within the channel delta limit must not register.
	a := &Snapshot{img: solidFrame(64, 48, color.RGBA{100, 100, 100, 255})}
	b := &Snapshot{img: solidFrame(64, 48, color.RGBA{115, 110, 95, 255})}
	if got := changeFraction(a, b); got != 0 {
		t.Errorf("changeFraction = %v, want 0 for sub-delta shift", got)
	}
}

func TestChangeFraction_AllPixelsDiffer(t *testing.T) {
	a := &Snapshot{img: solidFrame(64, 48, color.RGBA{0, 0, 0, 255})}
	b := &Snapshot{img: solidFrame(64, 48, color.RGBA{255, 255, 255, 255})}
	if got := changeFraction(a, b); got != 1.0 {
		t.Errorf("changeFraction = %v, want 1.0", got)
	}
}

func TestChangeFraction_SingleChannel(t *testing.T) {
	// One channel past the delta is enough.
	a := &Snapshot{img: solidFrame(64, 48, color.RGBA{100, 100, 100, 255})}
	b := &Snapshot{img: solidFrame(64, 48, color.RGBA{100, 100, 130, 255})}
	if got := changeFraction(a, b); got != 1.0 {
		t.Errorf("changeFraction = %v, want 1.0", got)
	}
}

func TestChangeFraction_DimensionMismatch(t *testing.T) {
	a := &Snapshot{img: solidFrame(64, 48, color.RGBA{0, 0, 0, 255})}
	b := &Snapshot{img: solidFrame(32, 48, color.RGBA{0, 0, 0, 255})}
	if got := changeFraction(a, b); got != 1.0 {
		t.Errorf("changeFraction = %v, want 1.0 on dimension mismatch", got)
	}
}

func TestChangeFraction_HalfChanged(t *testing.T) {
	a := &Snapshot{img: solidFrame(64, 48, color.RGBA{0, 0, 0, 255})}
	b := &Snapshot{img: halfFrame(64, 48, color.RGBA{0, 0, 0, 255}, color.RGBA{255, 255, 255, 255})}
	got := changeFraction(b, a)
	if got < 0.4 || got > 0.6 {
		t.Errorf("changeFraction = %v, want roughly 0.5", got)
	}
}

func TestEncodeDataURI(t *testing.T) {
	snap := &Snapshot{img: solidFrame(32, 32, color.RGBA{200, 50, 50, 255})}
	uri, err := encodeDataURI(snap, 0.6)
	if err != nil {
		t.Fatalf("encodeDataURI: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Errorf("unexpected prefix: %.40s", uri)
	}
	if len(uri) <= len("data:image/jpeg;base64,") {
		t.Error("empty payload")
	}
}

func TestEvaluate_FirstFrameAlwaysSends(t *testing.T) {
	s := New(Config{ChangeThreshold: 0.99}, testLogger())
	s.now = newFakeClock().now
	src := &stubSource{img: solidFrame(64, 48, color.RGBA{10, 10, 10, 255})}
	rec := &sinkRecorder{}
	stop := beginSession(s, src, "screen", rec.sink)

	if !s.evaluate(stop) {
		t.Fatal("evaluate should keep the loop alive")
	}
	if rec.count() != 1 {
		t.Fatalf("sink invocations = %d, want 1", rec.count())
	}
	if rec.tags[0] != "screen" {
		t.Errorf("tag = %q, want screen", rec.tags[0])
	}
	st := s.Stats()
	if st.FramesSent != 1 || st.FramesSkipped != 0 {
		t.Errorf("stats = %+v, want 1 sent / 0 skipped", st)
	}
	if !st.LastChanged {
		t.Error("first send should mark LastChanged")
	}
}

func TestEvaluate_RateFloorSkipsRegardlessOfChange(t *testing.T) {
	clock := newFakeClock()
	s := New(Config{MinFrameInterval: 500 * time.Millisecond}, testLogger())
	s.now = clock.now
	src := &stubSource{img: solidFrame(64, 48, color.RGBA{0, 0, 0, 255})}
	rec := &sinkRecorder{}
	stop := beginSession(s, src, "screen", rec.sink)

	s.evaluate(stop)

	// Completely different frame, but inside the rate floor.
	src.set(solidFrame(64, 48, color.RGBA{255, 255, 255, 255}), nil)
	clock.advance(200 * time.Millisecond)
	s.evaluate(stop)

	st := s.Stats()
	if st.FramesSent != 1 || st.FramesSkipped != 1 {
		t.Fatalf("stats = %+v, want 1 sent / 1 skipped", st)
	}
	if rec.count() != 1 {
		t.Errorf("sink invocations = %d, want 1", rec.count())
	}

	// Past the floor the same change goes through.
	clock.advance(400 * time.Millisecond)
	s.evaluate(stop)
	if got := s.Stats().FramesSent; got != 2 {
		t.Errorf("FramesSent = %d, want 2 after floor elapsed", got)
	}
}

func TestEvaluate_RateFloorLeavesChangeFlag(t *testing.T) {
	clock := newFakeClock()
	s := New(Config{}, testLogger())
	s.now = clock.now
	src := &stubSource{img: solidFrame(64, 48, color.RGBA{0, 0, 0, 255})}
	stop := beginSession(s, src, "camera", func(string, string) {})

	s.evaluate(stop)
	s.mu.Lock()
	s.lastChanged = false
	s.mu.Unlock()

	src.set(solidFrame(64, 48, color.RGBA{255, 255, 255, 255}), nil)
	clock.advance(100 * time.Millisecond)
	s.evaluate(stop)

	if s.Stats().LastChanged {
		t.Error("rate-floor skip must not update the change flag")
	}
}

func TestEvaluate_IdenticalFrameSkipped(t *testing.T) {
	clock := newFakeClock()
	s := New(Config{}, testLogger())
	s.now = clock.now
	src := &stubSource{img: solidFrame(64, 48, color.RGBA{40, 40, 40, 255})}
	rec := &sinkRecorder{}
	stop := beginSession(s, src, "screen", rec.sink)

	s.evaluate(stop)
	clock.advance(600 * time.Millisecond)
	s.evaluate(stop)

	st := s.Stats()
	if st.FramesSent != 1 || st.FramesSkipped != 1 {
		t.Fatalf("stats = %+v, want 1 sent / 1 skipped", st)
	}
	if st.LastChanged {
		t.Error("identical frame should clear LastChanged")
	}
}

func TestEvaluate_NotReadyIsSilent(t *testing.T) {
	s := New(Config{}, testLogger())
	s.now = newFakeClock().now
	src := &stubSource{err: ErrNotReady}
	rec := &sinkRecorder{}
	stop := beginSession(s, src, "screen", rec.sink)

	for i := 0; i < 5; i++ {
		if !s.evaluate(stop) {
			t.Fatal("not-ready tick should keep the loop alive")
		}
	}

	st := s.Stats()
	if st.FramesSent != 0 || st.FramesSkipped != 0 {
		t.Errorf("stats = %+v, want untouched counters", st)
	}
	if rec.count() != 0 {
		t.Errorf("sink invocations = %d, want 0", rec.count())
	}
}

func TestEvaluate_EndedTearsDownSession(t *testing.T) {
	s := New(Config{}, testLogger())
	s.now = newFakeClock().now
	src := &stubSource{err: ErrEnded}
	stop := beginSession(s, src, "screen", func(string, string) {})

	if s.evaluate(stop) {
		t.Fatal("ended source should exit the loop")
	}
	st := s.Stats()
	if st.Active {
		t.Error("session should be inactive after source ended")
	}
}

func TestEvaluate_OutputNeverExceedsBounds(t *testing.T) {
	clock := newFakeClock()
	s := New(Config{MaxWidth: 100, MaxHeight: 50}, testLogger())
	s.now = clock.now
	src := &stubSource{img: solidFrame(640, 480, color.RGBA{1, 2, 3, 255})}
	stop := beginSession(s, src, "screen", func(string, string) {})

	s.evaluate(stop)

	s.mu.Lock()
	base := s.baseline
	s.mu.Unlock()
	if base == nil {
		t.Fatal("baseline not set after send")
	}
	if base.Width() > 100 || base.Height() > 50 {
		t.Errorf("baseline %dx%d exceeds 100x50", base.Width(), base.Height())
	}
}

func TestEvaluate_CounterIdentity(t *testing.T) {
	// After N ready ticks, sent + skipped == N.
	clock := newFakeClock()
	s := New(Config{MinFrameInterval: 300 * time.Millisecond}, testLogger())
	s.now = clock.now
	src := &stubSource{img: solidFrame(64, 48, color.RGBA{0, 0, 0, 255})}
	stop := beginSession(s, src, "screen", func(string, string) {})

	const ticks = 12
	for i := 0; i < ticks; i++ {
		if i == 7 {
			src.set(solidFrame(64, 48, color.RGBA{255, 255, 255, 255}), nil)
		}
		s.evaluate(stop)
		clock.advance(200 * time.Millisecond)
	}

	st := s.Stats()
	if st.FramesSent+st.FramesSkipped != ticks {
		t.Errorf("sent %d + skipped %d != %d ticks", st.FramesSent, st.FramesSkipped, ticks)
	}
}

func TestScenario_TenIdenticalFrames(t *testing.T) {
	// frameRate 5, threshold 0.05, floor 500ms; 10 identical frames over
	// 2s: only the first is sent.
	clock := newFakeClock()
	s := New(Config{FrameRate: 5, ChangeThreshold: 0.05, MinFrameInterval: 500 * time.Millisecond}, testLogger())
	s.now = clock.now
	src := &stubSource{img: solidFrame(128, 72, color.RGBA{30, 30, 30, 255})}
	rec := &sinkRecorder{}
	stop := beginSession(s, src, "screen", rec.sink)

	for i := 0; i < 10; i++ {
		s.evaluate(stop)
		clock.advance(200 * time.Millisecond)
	}

	st := s.Stats()
	if st.FramesSent != 1 {
		t.Errorf("FramesSent = %d, want 1", st.FramesSent)
	}
	if st.FramesSkipped != 9 {
		t.Errorf("FramesSkipped = %d, want 9", st.FramesSkipped)
	}
	if rec.count() != 1 {
		t.Errorf("sink invocations = %d, want 1", rec.count())
	}
}

func TestScenario_ChangeAtFrameSix(t *testing.T) {
	// Same config; frame 6 (at ~1000ms) differs in half its pixels, so
	// evaluations 1 and 6 send and everything else skips.
	clock := newFakeClock()
	s := New(Config{FrameRate: 5, ChangeThreshold: 0.05, MinFrameInterval: 500 * time.Millisecond}, testLogger())
	s.now = clock.now
	base := solidFrame(128, 72, color.RGBA{30, 30, 30, 255})
	changed := halfFrame(128, 72, color.RGBA{30, 30, 30, 255}, color.RGBA{220, 220, 220, 255})
	src := &stubSource{img: base}
	rec := &sinkRecorder{}
	stop := beginSession(s, src, "screen", rec.sink)

	for i := 0; i < 10; i++ {
		if i == 5 {
			src.set(changed, nil)
		}
		s.evaluate(stop)
		clock.advance(200 * time.Millisecond)
	}

	st := s.Stats()
	if st.FramesSent != 2 {
		t.Errorf("FramesSent = %d, want 2", st.FramesSent)
	}
	if st.FramesSkipped != 8 {
		t.Errorf("FramesSkipped = %d, want 8", st.FramesSkipped)
	}
}

func TestStop_PendingTickIsNoop(t *testing.T) {
	s := New(Config{}, testLogger())
	s.now = newFakeClock().now
	src := &stubSource{img: solidFrame(64, 48, color.RGBA{0, 0, 0, 255})}
	rec := &sinkRecorder{}
	stop := beginSession(s, src, "screen", rec.sink)

	s.Stop()

	// A tick already queued by the timer fires after Stop.
	if s.evaluate(stop) {
		t.Error("post-stop tick should exit the loop")
	}
	if rec.count() != 0 {
		t.Errorf("sink invocations = %d, want 0 after stop", rec.count())
	}
	st := s.Stats()
	if st.FramesSent != 0 || st.FramesSkipped != 0 {
		t.Errorf("stats = %+v, want zeroed counters", st)
	}
}

func TestStop_Idempotent(t *testing.T) {
	s := New(Config{}, testLogger())
	s.Stop()
	s.Stop()
	if s.Stats().Active {
		t.Error("sampler should be inactive")
	}
}

func TestStop_ResetsState(t *testing.T) {
	s := New(Config{}, testLogger())
	s.now = newFakeClock().now
	src := &stubSource{img: solidFrame(64, 48, color.RGBA{0, 0, 0, 255})}
	stop := beginSession(s, src, "camera", func(string, string) {})

	s.evaluate(stop)
	s.Stop()

	st := s.Stats()
	if st.Active || st.SourceTag != "" || st.FramesSent != 0 || st.FramesSkipped != 0 {
		t.Errorf("stats after stop = %+v, want zero value", st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baseline != nil {
		t.Error("baseline should be released on stop")
	}
	if s.source != nil {
		t.Error("source reference should be released on stop")
	}
}

func TestStart_ReplacesActiveSession(t *testing.T) {
	s := New(Config{FrameRate: 1}, testLogger())
	src := &stubSource{img: solidFrame(64, 48, color.RGBA{0, 0, 0, 255})}

	s.Start(src, "screen", func(string, string) {})
	first := s.Stats()
	if !first.Active || first.SourceTag != "screen" {
		t.Fatalf("stats = %+v, want active screen session", first)
	}

	s.Start(src, "camera", func(string, string) {})
	second := s.Stats()
	if !second.Active || second.SourceTag != "camera" {
		t.Errorf("stats = %+v, want active camera session", second)
	}
	s.Stop()
}

func TestRun_LoopSendsAndStops(t *testing.T) {
	s := New(Config{FrameRate: 50, MinFrameInterval: time.Millisecond}, testLogger())
	src := &stubSource{img: solidFrame(64, 48, color.RGBA{0, 0, 0, 255})}
	rec := &sinkRecorder{}

	s.Start(src, "screen", rec.sink)
	time.Sleep(150 * time.Millisecond)
	if rec.count() == 0 {
		t.Fatal("expected at least one frame through the loop")
	}
	s.Stop()

	sent := rec.count()
	time.Sleep(100 * time.Millisecond)
	if rec.count() != sent {
		t.Errorf("sink invoked after Stop: %d -> %d", sent, rec.count())
	}
}

func TestStats_SavingsRatio(t *testing.T) {
	tests := []struct {
		name string
		st   Stats
		want float64
	}{
		{"no evaluations", Stats{}, 0},
		{"all sent", Stats{FramesSent: 4}, 0},
		{"all skipped", Stats{FramesSkipped: 5}, 1},
		{"mixed", Stats{FramesSent: 1, FramesSkipped: 9}, 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.st.SavingsRatio(); got != tt.want {
				t.Errorf("SavingsRatio() = %v, want %v", got, tt.want)
			}
		})
	}
}
