package sampler

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// Snapshot is one downscaled RGBA frame. A snapshot is never mutated after
// creation; the sampler replaces its baseline wholesale on every send.
type Snapshot struct {
	img *image.RGBA
}

func newSnapshot(src image.Image, width, height int) *Snapshot {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return &Snapshot{img: dst}
}

func (s *Snapshot) Width() int  { return s.img.Rect.Dx() }
func (s *Snapshot) Height() int { return s.img.Rect.Dy() }

// fitDimensions scales (w, h) proportionally so that w <= maxW and
// h <= maxH. The width constraint is applied first, then the height
// constraint on the already-scaled dimensions; for extreme aspect ratios the
// order matters, but the result is deterministic.
func fitDimensions(w, h, maxW, maxH int) (int, int) {
	if w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if h > maxH {
		w = w * maxH / h
		h = maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// changeFraction estimates how much of cur differs from base by examining
// every sampleStride-th pixel across the three color channels. A pixel
// counts as different when any channel delta exceeds channelDeltaLimit.
// Mismatched dimensions are treated as maximal change.
func changeFraction(cur, base *Snapshot) float64 {
	if base == nil {
		return 1
	}
	if cur.Width() != base.Width() || cur.Height() != base.Height() {
		return 1
	}

	total := cur.Width() * cur.Height()
	sampled, changed := 0, 0
	for i := 0; i < total; i += sampleStride {
		off := i * 4
		for c := 0; c < 3; c++ {
			d := int(cur.img.Pix[off+c]) - int(base.img.Pix[off+c])
			if d < 0 {
				d = -d
			}
			if d > channelDeltaLimit {
				changed++
				break
			}
		}
		sampled++
	}
	if sampled == 0 {
		return 0
	}
	return float64(changed) / float64(sampled)
}

// encodeDataURI encodes the snapshot as a base64 JPEG data URI at the given
// quality, the shape the realtime API expects for image payloads.
func encodeDataURI(s *Snapshot, quality float64) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, s.img, &jpeg.Options{Quality: int(quality * 100)}); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
