package media

import "context"

// Downloader fetches a source video into local bytes.
// Implementations wrap yt-dlp, HTTP fetchers or similar tools; the core only
// sees this signature.
type Downloader interface {
	// Fetch downloads the video at the given URL and returns its raw bytes.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Transcoder normalizes video and derives audio and thumbnails.
// Implementations wrap ffmpeg or an equivalent codec toolchain.
type Transcoder interface {
	// Normalize re-encodes raw video bytes into the pipeline's working format.
	Normalize(ctx context.Context, video []byte) ([]byte, error)

	// ExtractAudio produces a mono audio track suitable for transcription.
	ExtractAudio(ctx context.Context, video []byte) ([]byte, error)

	// Thumbnail renders a still image at the given offset in seconds.
	Thumbnail(ctx context.Context, video []byte, offset float64) ([]byte, error)
}

// Cutter extracts a clip from normalized video.
type Cutter interface {
	// Cut returns the video bytes between start and end (seconds).
	Cut(ctx context.Context, video []byte, start, end float64) ([]byte, error)
}
