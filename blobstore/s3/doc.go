// Package s3 provides an Amazon S3 implementation of the
// blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	store := s3.NewFromConfig(cfg, "my-bucket", "snapshots/")
//
//	if err := collection.SaveToStore(ctx, store, "articles.dai"); err != nil {
//		log.Fatal(err)
//	}
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads with CRC32C integrity validation
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//   - Optional DynamoDB commit log for coordinating concurrent publishers
package s3
