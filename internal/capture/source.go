package capture

import (
	"image"
	"log/slog"
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
	"github.com/pion/webrtc/v4/pkg/media/samplebuilder"

	"github.com/voxcards/backend/internal/sampler"
)

// VideoDecoder turns an assembled codec sample into a decoded image.
type VideoDecoder interface {
	Decode(data []byte, mimeType string) (image.Image, error)
	Close() error
}

// TrackSource adapts an RTP video track into a sampler.FrameSource. RTP
// payloads are assembled into full samples, decoded, and the most recent
// decodable frame is held for the sampler to pick up on its own schedule.
// The source reports not-ready until the first frame decodes and ended once
// the upstream track closes.
type TrackSource struct {
	logger  *slog.Logger
	decoder VideoDecoder

	mu            sync.Mutex
	sampleBuilder *samplebuilder.SampleBuilder
	mimeType      string
	latest        image.Image
	ended         bool
}

func NewTrackSource(decoder VideoDecoder, logger *slog.Logger) *TrackSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackSource{
		logger:  logger.With("component", "track-source"),
		decoder: decoder,
	}
}

// HandleRTPPacket feeds one RTP payload from the transport. Packets arriving
// after End are dropped.
func (t *TrackSource) HandleRTPPacket(payload []byte, mimeType string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return
	}

	if t.sampleBuilder == nil || t.mimeType != mimeType {
		t.mimeType = mimeType
		t.sampleBuilder = newSampleBuilder(mimeType, t.logger)
		if t.sampleBuilder == nil {
			return
		}
	}

	t.sampleBuilder.Push(&rtp.Packet{Payload: payload})

	for {
		sample := t.sampleBuilder.Pop()
		if sample == nil {
			break
		}
		img, err := t.decoder.Decode(sample.Data, mimeType)
		if err != nil {
			t.logger.Debug("frame decode failed", "error", err)
			continue
		}
		t.latest = img
	}
}

func newSampleBuilder(mimeType string, logger *slog.Logger) *samplebuilder.SampleBuilder {
	switch mimeType {
	case "video/VP8":
		return samplebuilder.New(64, &codecs.VP8Packet{}, 90000)
	case "video/VP9":
		return samplebuilder.New(64, &codecs.VP9Packet{}, 90000)
	case "video/H264":
		return samplebuilder.New(64, &codecs.H264Packet{}, 90000)
	default:
		logger.Warn("unsupported video codec", "mime_type", mimeType)
		return nil
	}
}

// ReadFrame implements sampler.FrameSource.
func (t *TrackSource) ReadFrame() (image.Image, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return nil, sampler.ErrEnded
	}
	if t.latest == nil {
		return nil, sampler.ErrNotReady
	}
	return t.latest, nil
}

// End marks the upstream track finished. The sampler observes this on its
// next tick and tears its session down.
func (t *TrackSource) End() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ended {
		return
	}
	t.ended = true
	t.latest = nil
	if t.decoder != nil {
		t.decoder.Close()
	}
}
