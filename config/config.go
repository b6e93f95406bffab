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


package config

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Pipeline holds every behaviorally significant option for a pipeline run.
// A copy is snapshotted into the manifest at job creation and never mutated
// afterwards, so a graph version can always be reproduced.
type Pipeline struct {
	// Segmentation (pass A)

	// PauseThreshold is the silence gap between adjacent transcript segments
	// that forces a micro-segment boundary.
	PauseThreshold Duration `yaml:"pause_threshold"`

	// CoherenceThreshold is the minimum embedding similarity between adjacent
	// transcript segments; below it a micro-segment boundary is placed.
	CoherenceThreshold float64 `yaml:"coherence_threshold"`

	// Segmentation (pass B)

	// TopicLevels is the number of hierarchy levels to build, including level 0.
	TopicLevels int `yaml:"topic_levels"`

	// MergeThreshold is the minimum similarity for absorbing the next topic
	// into the current merge group.
	MergeThreshold float64 `yaml:"merge_threshold"`

	// MergeMaxGap is the maximum temporal gap for absorbing the next topic
	// into the current merge group.
	MergeMaxGap Duration `yaml:"merge_max_gap"`

	// MultiParent allows a topic to be adopted by a second parent, turning
	// the hierarchy from a tree into a DAG.
	MultiParent bool `yaml:"multi_parent"`

	// Enrichment

	// MaxKeywords bounds the per-topic keyword list.
	MaxKeywords int `yaml:"max_keywords"`

	// ImportanceDurationWeight, ImportanceConnectionWeight and
	// ImportanceKeywordWeight weight the normalized components of the topic
	// importance score. They must sum to 1.0.
	ImportanceDurationWeight   float64 `yaml:"importance_duration_weight"`
	ImportanceConnectionWeight float64 `yaml:"importance_connection_weight"`
	ImportanceKeywordWeight    float64 `yaml:"importance_keyword_weight"`

	// SummaryBatchSize is the number of topics summarized per LLM batch.
	SummaryBatchSize int `yaml:"summary_batch_size"`

	// Graph construction

	// SimilarityThreshold is the minimum similarity for a semantic edge candidate.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// SemanticTopK is the number of semantic edges kept per topic at build time.
	SemanticTopK int `yaml:"semantic_top_k"`

	// MaxSemanticEdges caps surviving semantic edges per source node after pruning.
	MaxSemanticEdges int `yaml:"max_semantic_edges"`

	// SequenceWeight is the fixed weight assigned to sequence edges.
	SequenceWeight float64 `yaml:"sequence_weight"`

	// ReferenceMinShared is the minimum shared-keyword count for a reference edge.
	ReferenceMinShared int `yaml:"reference_min_shared"`

	// ClusterThreshold is the minimum centroid similarity for joining a cluster.
	ClusterThreshold float64 `yaml:"cluster_threshold"`

	// ClusterStrategy selects the clustering implementation ("greedy" or "kmeans").
	ClusterStrategy string `yaml:"cluster_strategy"`

	// Snippets

	// SnippetCount is the number of top-importance topics clipped into snippets.
	SnippetCount int `yaml:"snippet_count"`

	// Execution

	// PoolSize is the worker pool size for step-internal parallel work.
	// Zero means runtime.NumCPU() / 2, minimum 1.
	PoolSize int `yaml:"pool_size"`

	// MaxRetries is the per-step execution retry budget.
	MaxRetries int `yaml:"max_retries"`

	// RetryDelay is the base delay for exponential backoff between retries.
	RetryDelay Duration `yaml:"retry_delay"`

	// StepTimeout is the hard per-attempt time budget for a step execution.
	StepTimeout Duration `yaml:"step_timeout"`
}

// Default returns a Pipeline with the documented default thresholds.
func Default() Pipeline {
	return Pipeline{
		PauseThreshold:             Duration(2 * time.Second),
		CoherenceThreshold:         0.7,
		TopicLevels:                3,
		MergeThreshold:             0.85,
		MergeMaxGap:                Duration(5 * time.Second),
		MultiParent:                false,
		MaxKeywords:                20,
		ImportanceDurationWeight:   0.4,
		ImportanceConnectionWeight: 0.4,
		ImportanceKeywordWeight:    0.2,
		SummaryBatchSize:           16,
		SimilarityThreshold:        0.75,
		SemanticTopK:               5,
		MaxSemanticEdges:           10,
		SequenceWeight:             0.8,
		ReferenceMinShared:         2,
		ClusterThreshold:           0.7,
		ClusterStrategy:            "greedy",
		SnippetCount:               5,
		PoolSize:                   0,
		MaxRetries:                 3,
		RetryDelay:                 Duration(1 * time.Second),
		StepTimeout:                Duration(10 * time.Minute),
	}
}

// Validation errors.
var (
	ErrInvalidThreshold = errors.New("config: threshold must be between 0 and 1")
	ErrInvalidWeights   = errors.New("config: importance weights must sum to 1.0")
	ErrInvalidLevels    = errors.New("config: topic_levels must be at least 1")
	ErrInvalidStrategy  = errors.New("config: unknown cluster strategy")
)

// Validate checks that the configuration is complete and internally consistent.
func (p *Pipeline) Validate() error {
	for name, v := range map[string]float64{
		"coherence_threshold":  p.CoherenceThreshold,
		"merge_threshold":      p.MergeThreshold,
		"similarity_threshold": p.SimilarityThreshold,
		"cluster_threshold":    p.ClusterThreshold,
		"sequence_weight":      p.SequenceWeight,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidThreshold, name, v)
		}
	}

	if p.TopicLevels < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidLevels, p.TopicLevels)
	}

	sum := p.ImportanceDurationWeight + p.ImportanceConnectionWeight + p.ImportanceKeywordWeight
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("%w: got %v", ErrInvalidWeights, sum)
	}

	switch p.ClusterStrategy {
	case "greedy", "kmeans":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, p.ClusterStrategy)
	}

	if p.PauseThreshold <= 0 {
		return errors.New("config: pause_threshold must be positive")
	}
	if p.MergeMaxGap <= 0 {
		return errors.New("config: merge_max_gap must be positive")
	}
	if p.MaxKeywords <= 0 {
		return errors.New("config: max_keywords must be positive")
	}
	if p.SemanticTopK <= 0 {
		return errors.New("config: semantic_top_k must be positive")
	}
	if p.MaxSemanticEdges <= 0 {
		return errors.New("config: max_semantic_edges must be positive")
	}
	if p.MaxRetries <= 0 {
		return errors.New("config: max_retries must be positive")
	}
	if p.StepTimeout <= 0 {
		return errors.New("config: step_timeout must be positive")
	}

	return nil
}
