package mock

import (
	"context"
	"fmt"
)

// Downloader is a test double for media.Downloader.
type Downloader struct {
	// Payload is returned by Fetch when FetchFunc is nil.
	Payload []byte

	// FetchFunc is called by Fetch if set.
	FetchFunc func(ctx context.Context, url string) ([]byte, error)

	callCount int
}

// NewDownloader creates a mock downloader returning the given payload.
func NewDownloader(payload []byte) *Downloader {
	return &Downloader{Payload: payload}
}

// Fetch returns the configured payload.
func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	d.callCount++
	if d.FetchFunc != nil {
		return d.FetchFunc(ctx, url)
	}
	return d.Payload, nil
}

// CallCount returns the number of times Fetch was called.
func (d *Downloader) CallCount() int {
	return d.callCount
}

// Transcoder is a test double for media.Transcoder that tags its input so
// tests can assert which operation produced an artifact.
type Transcoder struct {
	// Err, when set, is returned by every operation.
	Err error
}

// NewTranscoder creates a mock transcoder.
func NewTranscoder() *Transcoder {
	return &Transcoder{}
}

// Normalize returns the input prefixed with a marker.
func (t *Transcoder) Normalize(ctx context.Context, video []byte) ([]byte, error) {
	if t.Err != nil {
		return nil, t.Err
	}
	return append([]byte("normalized:"), video...), nil
}

// ExtractAudio returns the input prefixed with a marker.
func (t *Transcoder) ExtractAudio(ctx context.Context, video []byte) ([]byte, error) {
	if t.Err != nil {
		return nil, t.Err
	}
	return append([]byte("audio:"), video...), nil
}

// Thumbnail returns a marker containing the offset.
func (t *Transcoder) Thumbnail(ctx context.Context, video []byte, offset float64) ([]byte, error) {
	if t.Err != nil {
		return nil, t.Err
	}
	return fmt.Appendf(nil, "thumbnail@%.1f", offset), nil
}

// Cutter is a test double for media.Cutter.
type Cutter struct {
	// Err, when set, is returned by Cut.
	Err error

	cuts [][2]float64
}

// NewCutter creates a mock cutter.
func NewCutter() *Cutter {
	return &Cutter{}
}

// Cut returns a marker containing the requested span and records the call.
func (c *Cutter) Cut(ctx context.Context, video []byte, start, end float64) ([]byte, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	c.cuts = append(c.cuts, [2]float64{start, end})
	return fmt.Appendf(nil, "clip@%.1f-%.1f", start, end), nil
}

// Cuts returns the recorded (start, end) spans.
func (c *Cutter) Cuts() [][2]float64 {
	return c.cuts
}
