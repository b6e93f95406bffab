// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package exec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/poiesic/videograph/media"
)

// run executes a command with stdin piped in and returns its stdout. On
// failure the last stderr lines are folded into the error.
func run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, lastLines(stderr.String(), 3))
	}
	return stdout.Bytes(), nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}

// Downloader fetches videos with yt-dlp.
type Downloader struct {
	// Binary is the yt-dlp executable name or path. Defaults to "yt-dlp".
	Binary string
}

var _ media.Downloader = (*Downloader)(nil)

// NewDownloader creates a yt-dlp backed downloader.
func NewDownloader() *Downloader {
	return &Downloader{Binary: "yt-dlp"}
}

// Fetch streams the video at url to stdout and returns the bytes.
func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	return run(ctx, nil, d.Binary, "--quiet", "-o", "-", url)
}

// Transcoder drives ffmpeg over stdin/stdout pipes.
type Transcoder struct {
	// Binary is the ffmpeg executable name or path. Defaults to "ffmpeg".
	Binary string
}

var _ media.Transcoder = (*Transcoder)(nil)
var _ media.Cutter = (*Transcoder)(nil)

// NewTranscoder creates an ffmpeg backed transcoder.
func NewTranscoder() *Transcoder {
	return &Transcoder{Binary: "ffmpeg"}
}

// Normalize re-encodes the video to fragmented H.264 MP4.
func (t *Transcoder) Normalize(ctx context.Context, video []byte) ([]byte, error) {
	return run(ctx, video, t.Binary,
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-c:v", "libx264", "-preset", "veryfast",
		"-c:a", "aac",
		"-movflags", "frag_keyframe+empty_moov",
		"-f", "mp4", "pipe:1")
}

// ExtractAudio produces 16 kHz mono WAV, the format speech models expect.
func (t *Transcoder) ExtractAudio(ctx context.Context, video []byte) ([]byte, error) {
	return run(ctx, video, t.Binary,
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-vn", "-ac", "1", "-ar", "16000",
		"-f", "wav", "pipe:1")
}

// Thumbnail renders one JPEG frame at the given offset in seconds.
func (t *Transcoder) Thumbnail(ctx context.Context, video []byte, offset float64) ([]byte, error) {
	return run(ctx, video, t.Binary,
		"-hide_banner", "-loglevel", "error",
		"-ss", fmt.Sprintf("%.3f", offset),
		"-i", "pipe:0",
		"-frames:v", "1",
		"-f", "image2", "-c:v", "mjpeg", "pipe:1")
}

// Cut extracts the span between start and end without re-encoding.
func (t *Transcoder) Cut(ctx context.Context, video []byte, start, end float64) ([]byte, error) {
	return run(ctx, video, t.Binary,
		"-hide_banner", "-loglevel", "error",
		"-ss", fmt.Sprintf("%.3f", start),
		"-to", fmt.Sprintf("%.3f", end),
		"-i", "pipe:0",
		"-c", "copy",
		"-movflags", "frag_keyframe+empty_moov",
		"-f", "mp4", "pipe:1")
}
