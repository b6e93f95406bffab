package steps

import "errors"

var (
	// ErrEmptyTranscript indicates transcription produced no segments.
	ErrEmptyTranscript = errors.New("transcription produced no segments")

	// ErrEmptyGraph indicates a graph artifact with no topics.
	ErrEmptyGraph = errors.New("graph has no topics")
)
