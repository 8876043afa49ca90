package blobstore

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/poseseq/resource"
)

// lruCache is a byte-bounded LRU of whole blobs keyed by name.
type lruCache struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[string]*list.Element
	evictList *list.List
	rc        *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	name  string
	value []byte
}

// newLRUCache creates a cache holding at most capacity bytes.
// If rc is provided, cached bytes are reserved from it.
func newLRUCache(capacity int64, rc *resource.Controller) *lruCache {
	return &lruCache{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

func (c *lruCache) get(name string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[name]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry).value, true
	}
	c.misses.Add(1)
	return nil, false
}

func (c *lruCache) set(name string, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[name]; ok {
		c.removeElement(ent)
	}

	size := int64(len(b))
	if size > c.capacity {
		return
	}

	// Evict locally first so memory returns to rc before acquiring it again.
	for c.size+size > c.capacity {
		ent := c.evictList.Back()
		if ent == nil {
			break
		}
		c.removeElement(ent)
	}

	// rc limits are global; when they say no, skip caching.
	if !c.rc.TryAcquireMemory(size) {
		return
	}

	c.items[name] = c.evictList.PushFront(&entry{name: name, value: b})
	c.size += size
}

func (c *lruCache) invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[name]; ok {
		c.removeElement(ent)
	}
}

func (c *lruCache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry)
	delete(c.items, kv.name)
	size := int64(len(kv.value))
	c.size -= size
	c.rc.ReleaseMemory(size)
}

func (c *lruCache) bytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}
