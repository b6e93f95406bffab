// Package core defines the domain model for videograph.
//
// The central type is Manifest, the append-only record threaded through every
// pipeline step. Topics and Edges form the hierarchical topic graph built
// from a video's transcript. All types here are plain data with validation
// helpers; behavior lives in the pipeline, segment and graph packages.
package core
