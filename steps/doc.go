// Package steps contains the built-in pipeline steps: acquisition,
// transcription, topic segmentation, graph construction, snippet extraction
// and export. Each step reads its inputs from the manifest's artifact paths
// and hands its outputs back as deltas; RegisterAll wires them into a step
// registry with their metadata.
package steps
