package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/hupe1980/poseseq/blobstore"
	minioblob "github.com/hupe1980/poseseq/blobstore/minio"
	s3blob "github.com/hupe1980/poseseq/blobstore/s3"
	"github.com/hupe1980/poseseq/resource"
)

// openStore builds the blob store selected by the store flag. Remote stores
// are wrapped in a CachingStore unless cache-bytes is 0.
func openStore(ctx context.Context, v *viper.Viper) (blobstore.BlobStore, error) {
	store, remote, err := newStore(ctx, v)
	if err != nil || !remote {
		return store, err
	}
	if capacity := v.GetInt64("cache-bytes"); capacity > 0 {
		return blobstore.NewCachingStore(store, capacity, nil), nil
	}
	return store, nil
}

func newStore(ctx context.Context, v *viper.Viper) (store blobstore.BlobStore, remote bool, err error) {
	switch kind := v.GetString("store"); kind {
	case "local", "":
		return blobstore.NewLocalStore(v.GetString("root")), false, nil

	case "s3":
		bucket := v.GetString("bucket")
		if bucket == "" {
			return nil, false, errors.New("store s3: --bucket is required")
		}
		opts := []s3blob.Option{s3blob.WithPrefix(v.GetString("prefix"))}
		if region := v.GetString("region"); region != "" {
			opts = append(opts, s3blob.WithRegion(region))
		}
		if endpoint := v.GetString("endpoint"); endpoint != "" {
			opts = append(opts, s3blob.WithEndpoint(endpoint))
		}
		store, err = s3blob.New(ctx, bucket, opts...)
		return store, true, err

	case "minio":
		store, err = minioblob.New(minioblob.Config{
			Endpoint:  v.GetString("endpoint"),
			AccessKey: v.GetString("access-key"),
			SecretKey: v.GetString("secret-key"),
			Region:    v.GetString("region"),
			Secure:    v.GetBool("secure"),
			Bucket:    v.GetString("bucket"),
			Prefix:    v.GetString("prefix"),
		})
		return store, true, err

	default:
		return nil, false, fmt.Errorf("unknown store %q (want local, s3 or minio)", kind)
	}
}

func newController(v *viper.Viper) *resource.Controller {
	return resource.NewController(resource.Config{
		MaxConcurrentReads: int64(v.GetInt("read-concurrency")),
		ReadBytesPerSec:    v.GetInt64("read-rate"),
	})
}
