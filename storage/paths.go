package storage

import "path"

// Artifact category folders under videos/{video_id}/.
const (
	CategoryRaw         = "raw"
	CategoryProcessed   = "processed"
	CategoryAudio       = "audio"
	CategoryTranscripts = "transcripts"
	CategoryTopics      = "topics"
	CategoryEmbeddings  = "embeddings"
	CategoryGraph       = "graph"
	CategorySnippets    = "snippets"
	CategoryThumbnails  = "thumbnails"
	CategoryCaptions    = "captions"
	CategoryExports     = "exports"
)

// Path builds the conventional artifact path videos/{video_id}/{category}/{file}.
// Prefixing every object with the video id is what lets independent pipeline
// runs share one store without colliding.
func Path(videoID, category, file string) string {
	return path.Join("videos", videoID, category, file)
}

// Prefix returns the path prefix owned by one video.
func Prefix(videoID string) string {
	return path.Join("videos", videoID) + "/"
}
