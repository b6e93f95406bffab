// Package segment builds the topic hierarchy from a transcript.
//
// Segmentation is a two pass process. The first pass cuts the transcript
// into level 0 micro-topics at pauses and semantic shifts; the second pass
// greedily merges adjacent topics into higher levels. Titles and summaries
// are filled in afterwards by a pooled summarizer, and importance scores
// rank topics for downstream consumers.
package segment
