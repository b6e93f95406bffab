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


package graph

import (
	"context"
	"fmt"
	"math"

	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/vec"
)

// Clusterer assigns cluster IDs to level 0 topics. Topics above level 0 and
// topics without embeddings keep ClusterID -1: higher levels already group
// the micro-topics structurally, and their centroid-of-centroid embeddings
// would only blur the level 0 partition.
type Clusterer interface {
	Cluster(ctx context.Context, topics []*core.Topic) error
}

// NewClusterer selects a clusterer by cfg.ClusterStrategy.
func NewClusterer(cfg config.Pipeline) (Clusterer, error) {
	switch cfg.ClusterStrategy {
	case "greedy":
		return &GreedyClusterer{Threshold: cfg.ClusterThreshold}, nil
	case "kmeans":
		return &KMeansClusterer{MaxIterations: 50}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.ClusterStrategy)
	}
}

// GreedyClusterer walks the level 0 topics in order and assigns each to the
// first cluster whose centroid similarity clears Threshold, starting a new
// cluster otherwise. Centroids are recomputed as clusters grow. Single pass,
// order dependent, deterministic.
type GreedyClusterer struct {
	Threshold float64
}

func (g *GreedyClusterer) Cluster(ctx context.Context, topics []*core.Topic) error {
	level0 := embeddableLevel0(topics)
	if len(level0) == 0 {
		return nil
	}

	var centroids [][]float32
	var members [][]*core.Topic

	for _, topic := range level0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		bestCluster := -1
		bestSim := g.Threshold
		for c, centroid := range centroids {
			if sim := vec.Cosine(topic.Embedding, centroid); sim >= bestSim {
				bestCluster = c
				bestSim = sim
			}
		}

		if bestCluster == -1 {
			centroids = append(centroids, topic.Embedding)
			members = append(members, []*core.Topic{topic})
			topic.ClusterID = len(centroids) - 1
			continue
		}

		members[bestCluster] = append(members[bestCluster], topic)
		topic.ClusterID = bestCluster

		embeddings := make([][]float32, len(members[bestCluster]))
		for i, m := range members[bestCluster] {
			embeddings[i] = m.Embedding
		}
		centroids[bestCluster] = vec.Centroid(embeddings)
	}
	return nil
}

// KMeansClusterer partitions level 0 topics into sqrt(n) clusters with
// Lloyd's algorithm. Initial centroids are the topics at evenly spaced
// positions, so runs are deterministic.
type KMeansClusterer struct {
	MaxIterations int
}

func (k *KMeansClusterer) Cluster(ctx context.Context, topics []*core.Topic) error {
	level0 := embeddableLevel0(topics)
	if len(level0) == 0 {
		return nil
	}

	numClusters := int(math.Sqrt(float64(len(level0))))
	if numClusters < 1 {
		numClusters = 1
	}
	if numClusters == 1 {
		for _, t := range level0 {
			t.ClusterID = 0
		}
		return nil
	}

	centroids := make([][]float32, numClusters)
	for c := range centroids {
		centroids[c] = level0[c*len(level0)/numClusters].Embedding
	}

	assignments := make([]int, len(level0))
	maxIter := k.MaxIterations
	if maxIter < 1 {
		maxIter = 50
	}

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		changed := false
		for i, topic := range level0 {
			best := 0
			bestSim := vec.Cosine(topic.Embedding, centroids[0])
			for c := 1; c < numClusters; c++ {
				if sim := vec.Cosine(topic.Embedding, centroids[c]); sim > bestSim {
					best = c
					bestSim = sim
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		for c := 0; c < numClusters; c++ {
			var embeddings [][]float32
			for i, topic := range level0 {
				if assignments[i] == c {
					embeddings = append(embeddings, topic.Embedding)
				}
			}
			if len(embeddings) > 0 {
				centroids[c] = vec.Centroid(embeddings)
			}
		}
	}

	for i, topic := range level0 {
		topic.ClusterID = assignments[i]
	}
	return nil
}

func embeddableLevel0(topics []*core.Topic) []*core.Topic {
	var level0 []*core.Topic
	for _, t := range topics {
		if t.Level == 0 && len(t.Embedding) > 0 {
			level0 = append(level0, t)
		}
	}
	return level0
}
