package mapview

import (
	"sync"

	"gioui.org/op/paint"

	"github.com/olablt/worldmap/tiles"
)

// ImageOpCache holds the paint ops of the tiles currently on screen
type ImageOpCache struct {
	cache map[tiles.Key]paint.ImageOp
	mu    sync.RWMutex
}

func NewImageOpCache() *ImageOpCache {
	return &ImageOpCache{
		cache: make(map[tiles.Key]paint.ImageOp),
	}
}

func (c *ImageOpCache) Get(key tiles.Key) (paint.ImageOp, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	op, ok := c.cache[key]
	return op, ok
}

func (c *ImageOpCache) Set(key tiles.Key, op paint.ImageOp) {
	c.mu.Lock()
	c.cache[key] = op
	c.mu.Unlock()
}

func (c *ImageOpCache) Delete(key tiles.Key) {
	c.mu.Lock()
	delete(c.cache, key)
	c.mu.Unlock()
}

func (c *ImageOpCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *ImageOpCache) Clear() {
	c.mu.Lock()
	c.cache = make(map[tiles.Key]paint.ImageOp)
	c.mu.Unlock()
}
