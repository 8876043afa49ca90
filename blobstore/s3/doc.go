// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("keypoints/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	frames, err := openpose.NewLoader(store, meta).Load(ctx, "clip42/clip42")
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large snapshots
//   - CRC32C integrity checks on Put
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
