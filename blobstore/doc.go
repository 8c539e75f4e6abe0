// Package blobstore abstracts where graph container files live: local
// disk, memory (tests), or S3-compatible object storage (see the s3 and
// minio subpackages).
//
// The partitioner only ever reads graph files, so the surface is a read
// handle plus an atomic Put for tooling that publishes graphs.
package blobstore
