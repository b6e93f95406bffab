// Package badger implements the manifest and graph repositories on BadgerDB.
//
// The manifest repository is an append-only version arena: every successful
// pipeline step appends a new manifest version under a per-job counter, so
// the full history of a run can be replayed. Graph versions are immutable
// records keyed by (video, version); edits fork a new version.
package badger
