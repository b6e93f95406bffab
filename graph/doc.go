// Package graph turns a topic hierarchy into a typed-edge graph.
//
// Four edge types connect the topics: semantic edges between similar
// embeddings, hierarchy edges between parents and children, sequence edges
// between temporal neighbors within a level and reference edges between
// keyword-sharing topics across levels. After pruning, level 0 topics are
// clustered and graph-level metrics are derived.
package graph
