// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so that the
// bucket-backed plugin source and the patch publisher can be tested with the
// testify mock in core/storage/mocks. Both AWS S3 and self-hosted MinIO work.
//
// # Operations
//
//   - BucketExists / MakeBucket: bucket checks; EnsureBucket combines them.
//   - PutObject: uploads a document.
//   - GetObject: retrieves a document as a stream (IsNotFound detects missing keys).
//   - ListObjects: lists objects under a prefix.
//   - RemoveObjects: deletes stale documents in one call.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
package storage
