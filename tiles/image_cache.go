package tiles

import (
	"image"
	"sync"
)

// ImageCache holds decoded tile images shared between loader goroutines.
// When max is positive the oldest entries are evicted first.
type ImageCache struct {
	cache map[Key]image.Image
	order []Key
	max   int
	mu    sync.RWMutex
}

func NewImageCache(max int) *ImageCache {
	return &ImageCache{
		cache: make(map[Key]image.Image),
		max:   max,
	}
}

func (c *ImageCache) Get(key Key) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.cache[key]
	return img, ok
}

func (c *ImageCache) Set(key Key, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cache[key]; !ok {
		c.order = append(c.order, key)
	}
	c.cache[key] = img
	for c.max > 0 && len(c.order) > c.max {
		delete(c.cache, c.order[0])
		c.order = c.order[1:]
	}
}

// SetIfAbsent stores img unless key is already cached, and returns the
// cached image.
func (c *ImageCache) SetIfAbsent(key Key, img image.Image) image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.cache[key]; ok {
		return cur
	}
	c.cache[key] = img
	c.order = append(c.order, key)
	for c.max > 0 && len(c.order) > c.max {
		delete(c.cache, c.order[0])
		c.order = c.order[1:]
	}
	return img
}

func (c *ImageCache) Delete(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cache[key]; !ok {
		return
	}
	delete(c.cache, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.cache = make(map[Key]image.Image)
	c.order = nil
	c.mu.Unlock()
}
