package tiles

import (
	"context"
	"image"
)

type TileProvider interface {
	GetTile(ctx context.Context, key Key) (image.Image, error)
}

// TileManager serves tiles from its cache and falls back to the provider
type TileManager struct {
	cache    *ImageCache
	provider TileProvider
	onLoad   func(Key)
}

func NewTileManager(provider TileProvider, cache *ImageCache) *TileManager {
	if cache == nil {
		cache = NewImageCache(0)
	}
	return &TileManager{
		cache:    cache,
		provider: provider,
	}
}

func (tm *TileManager) GetCache() *ImageCache {
	return tm.cache
}

// SetOnLoadCallback registers fn to run after a tile is fetched from the provider
func (tm *TileManager) SetOnLoadCallback(fn func(Key)) {
	tm.onLoad = fn
}

// Cached returns the tile only if it is already in the cache
func (tm *TileManager) Cached(key Key) (image.Image, bool) {
	return tm.cache.Get(key)
}

func (tm *TileManager) GetTile(ctx context.Context, key Key) (image.Image, error) {
	if img, ok := tm.cache.Get(key); ok {
		return img, nil
	}

	img, err := tm.provider.GetTile(ctx, key)
	if err != nil {
		return nil, err
	}
	// A provider may have stored a better tile while this one was loading.
	img = tm.cache.SetIfAbsent(key, img)

	if tm.onLoad != nil {
		tm.onLoad(key)
	}
	return img, nil
}
