// Package minio implements the ObjectStore port on MinIO and other
// S3-compatible services, including presigned GET URLs for sharing
// artifacts with external consumers.
package minio
