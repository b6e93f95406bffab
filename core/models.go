package core

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/go-crypt/x/blake2b"
	"github.com/oklog/ulid/v2"
)

// ID is a unique identifier for domain entities.
// Topic and edge IDs are derived from content; job and graph-version
// identifiers are ULIDs minted at creation time.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces the same ID, which keeps retried step
// executions from minting duplicate topics or edges.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NewULID returns a lexicographically sortable unique identifier string.
// Used for job IDs and graph-version IDs, which must be opaque and unique
// but carry no content semantics.
func NewULID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// TranscriptSegment is one timed span of recognized speech.
// Start and End are seconds from the beginning of the video.
type TranscriptSegment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns the segment length in seconds.
func (s TranscriptSegment) Duration() float64 {
	return s.End - s.Start
}

// Topic is a node in the hierarchical topic graph.
//
// Level 0 topics are micro-segments derived directly from transcript
// boundaries; level k topics (k > 0) are merges of level k-1 topics. Topics
// are never mutated after a graph version is built; edits fork a new
// graph version.
type Topic struct {
	ID         ID        `json:"id"`
	Level      int       `json:"level"`
	Start      float64   `json:"start"`
	End        float64   `json:"end"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Keywords   []string  `json:"keywords,omitempty"`
	ParentIDs  []ID      `json:"parent_ids,omitempty"`
	ChildIDs   []ID      `json:"child_ids,omitempty"`
	SegmentIDs []int     `json:"segment_ids,omitempty"`
	Importance float64   `json:"importance"`
	ClusterID  int       `json:"cluster_id"` // -1 when unassigned
	Embedding  []float32 `json:"embedding,omitempty"`
}

// TopicID derives a content-based topic ID from level, time span and text.
func TopicID(level int, start, end float64, text string) ID {
	return IDFromContent(fmt.Sprintf("topic:%d:%.3f:%.3f:%s", level, start, end, text))
}

// Duration returns the topic span in seconds.
func (t *Topic) Duration() float64 {
	return t.End - t.Start
}

// EdgeType classifies a relation between two topics.
type EdgeType string

const (
	// EdgeSemantic links topics whose embeddings are similar, regardless of level.
	EdgeSemantic EdgeType = "semantic"
	// EdgeHierarchy links a parent topic to one of its children.
	EdgeHierarchy EdgeType = "hierarchy"
	// EdgeSequence links temporally consecutive topics within one level.
	EdgeSequence EdgeType = "sequence"
	// EdgeReference links topics at different levels that share keywords.
	EdgeReference EdgeType = "reference"
)

// Edge is a typed, weighted relation between two topics.
// Weight is in [0,1]; Distance is always 1 - Weight.
type Edge struct {
	ID       ID            `json:"id"`
	Source   ID            `json:"source"`
	Target   ID            `json:"target"`
	Type     EdgeType      `json:"type"`
	Weight   float64       `json:"weight"`
	Distance float64       `json:"distance"`
	Metadata *EdgeMetadata `json:"metadata,omitempty"`
}

// EdgeMetadata carries optional per-edge annotations.
type EdgeMetadata struct {
	SharedKeywords []string `json:"shared_keywords,omitempty"`
}

// NewEdge builds an edge with a content-derived ID and Distance kept
// consistent with Weight.
func NewEdge(source, target ID, edgeType EdgeType, weight float64) Edge {
	return Edge{
		ID:       IDFromContent(fmt.Sprintf("edge:%d:%d:%s", source, target, edgeType)),
		Source:   source,
		Target:   target,
		Type:     edgeType,
		Weight:   weight,
		Distance: 1 - weight,
	}
}

// Graph is a built topic graph: nodes, pruned typed edges and derived metrics.
type Graph struct {
	Version string       `json:"version"`
	VideoID string       `json:"video_id"`
	Topics  []*Topic     `json:"topics"`
	Edges   []Edge       `json:"edges"`
	Metrics GraphMetrics `json:"metrics"`
}

// GraphMetrics holds derived graph statistics, recomputed on every build.
type GraphMetrics struct {
	NodeCount           int         `json:"node_count"`
	EdgeCount           int         `json:"edge_count"`
	Density             float64     `json:"density"`
	NodesPerLevel       map[int]int `json:"nodes_per_level"`
	AvgClustering       float64     `json:"avg_clustering"`
	ConnectedComponents int         `json:"connected_components"`
}

// Snippet describes one clipped segment of the source video.
type Snippet struct {
	TopicID    ID      `json:"topic_id"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Title      string  `json:"title"`
	File       string  `json:"file"`
	Importance float64 `json:"importance"`
}
