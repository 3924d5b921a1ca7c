// Package storage uploads patch archives to an S3-compatible object store.
//
// It wraps the MinIO Go client behind a small Client interface so the archiver
// can be tested against core/storage/mocks. Upload is optional: NewClient returns
// ErrDisabled unless storage.enabled is set.
//
// # Operations
//
//   - BucketExists / MakeBucket: EnsureBucket creates the target bucket on demand.
//   - PutObject: uploads an archive.
//   - ListObjects / RemoveObject: list and prune older archives.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err == nil {
//	    err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
//	}
package storage
