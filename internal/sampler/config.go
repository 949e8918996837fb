package sampler

import "time"

// Change-estimator tuning. The stride trades accuracy for speed; the delta
// absorbs sensor and encoder noise. Empirical values.
const (
	sampleStride      = 4
	channelDeltaLimit = 20
)

const (
	defaultFrameRate        = 5
	defaultQuality          = 0.6
	defaultMaxWidth         = 1280
	defaultMaxHeight        = 720
	defaultChangeThreshold  = 0.05
	defaultMinFrameInterval = 500 * time.Millisecond
)

// Config controls how aggressively the sampler evaluates and forwards
// frames. The zero value of any field falls back to its default, so callers
// may set only the options they care about.
type Config struct {
	// FrameRate is how many times per second the capture loop wakes to
	// evaluate the stream. It bounds evaluations, not sends.
	FrameRate int

	// Quality is the lossy JPEG quality for transmitted frames, 0.0-1.0.
	Quality float64

	// MaxWidth and MaxHeight bound the output frame. Source frames are
	// downscaled proportionally to fit.
	MaxWidth  int
	MaxHeight int

	// ChangeThreshold is the minimum estimated fraction of changed pixels
	// required to justify a send.
	ChangeThreshold float64

	// MinFrameInterval is a hard floor between two sent frames regardless
	// of change magnitude.
	MinFrameInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.FrameRate <= 0 {
		c.FrameRate = defaultFrameRate
	}
	if c.Quality <= 0 || c.Quality > 1 {
		c.Quality = defaultQuality
	}
	if c.MaxWidth <= 0 {
		c.MaxWidth = defaultMaxWidth
	}
	if c.MaxHeight <= 0 {
		c.MaxHeight = defaultMaxHeight
	}
	if c.ChangeThreshold <= 0 {
		c.ChangeThreshold = defaultChangeThreshold
	}
	if c.MinFrameInterval <= 0 {
		c.MinFrameInterval = defaultMinFrameInterval
	}
	return c
}

func (c Config) tickInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}
