// Package s3 provides a small client for S3-compatible object storage.
//
// It backs the air-gapped template mirror: manifests for a Rook release are
// uploaded once with [Client.PutObject] and read back by the template
// source with [Client.GetObject]. Missing objects are reported as
// [ErrNotFound].
package s3
