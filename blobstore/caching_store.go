package blobstore

import (
	"context"
	"errors"
	"io"

	"github.com/hupe1980/poseseq/resource"
)

// CachingStore wraps a BlobStore and keeps small blobs, such as reference
// poses, in memory.
type CachingStore struct {
	inner   BlobStore
	cache   *lruCache
	maxBlob int64
}

// NewCachingStore creates a CachingStore holding at most capacity bytes.
// Blobs larger than capacity/4 are never cached. If rc is provided, cached
// bytes count against its memory limit.
func NewCachingStore(inner BlobStore, capacity int64, rc *resource.Controller) *CachingStore {
	return &CachingStore{
		inner:   inner,
		cache:   newLRUCache(capacity, rc),
		maxBlob: capacity / 4,
	}
}

// Open serves cached blobs from memory and caches small blobs on first read.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.cache.get(name); ok {
		return &memoryBlob{data: data}, nil
	}

	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	size := b.Size()
	if size == 0 || size > s.maxBlob {
		return b, nil
	}
	defer b.Close()

	data := make([]byte, size)
	if n, err := b.ReadAt(ctx, data, 0); err != nil && (!errors.Is(err, io.EOF) || n < len(data)) {
		return nil, err
	}
	s.cache.set(name, data)
	return &memoryBlob{data: data}, nil
}

// Create invalidates name and passes through. The cache is invalidated again
// once the new content becomes visible.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.cache.invalidate(name)
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &invalidatingBlob{WritableBlob: w, cache: s.cache, name: name}, nil
}

func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	defer s.cache.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	defer s.cache.invalidate(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hits and misses.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.hits.Load(), s.cache.misses.Load()
}

// Size returns the number of cached bytes.
func (s *CachingStore) Size() int64 {
	return s.cache.bytes()
}

type invalidatingBlob struct {
	WritableBlob
	cache *lruCache
	name  string
}

func (b *invalidatingBlob) Close() error {
	defer b.cache.invalidate(b.name)
	return b.WritableBlob.Close()
}
