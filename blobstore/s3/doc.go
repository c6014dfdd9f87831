// Package s3 provides an Amazon S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	blobs, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("filters/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	filters := store.New(blobs, codec.String())
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large blobs
//   - CRC32C checksums on upload
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
