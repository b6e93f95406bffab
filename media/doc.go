// Package media defines the codec and download ports consumed by the video
// and snippet pipeline steps. Concrete adapters (ffmpeg, yt-dlp) live outside
// the core; steps depend only on these interfaces.
package media
