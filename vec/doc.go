// Package vec provides the small set of float32 vector operations shared by
// segmentation and graph construction: dot product, cosine similarity,
// normalization and centroid computation.
package vec
