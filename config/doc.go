// Package config defines the flat option set for a pipeline run.
//
// A Pipeline value carries every behaviorally significant threshold used by
// segmentation and graph construction. The value is snapshotted into the
// artifact manifest when a job starts and never changed afterwards, which is
// what makes a graph version reproducible.
package config
