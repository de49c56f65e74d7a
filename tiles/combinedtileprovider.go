package tiles

import (
	"context"
	"fmt"
	"image"
	"sync"
)

// CombinedTileProvider answers with the fallback tile while the primary tile
// is loaded in the background, then serves the primary one once it arrives.
type CombinedTileProvider struct {
	primary    TileProvider
	fallback   TileProvider
	loading    map[Key]bool
	loadingMu  sync.RWMutex
	onLoadFunc func(Key, image.Image)
	cache      *ImageCache
	wg         sync.WaitGroup
}

// NewCombinedTileProvider keeps up to cacheSize primary tiles; zero means
// no limit.
func NewCombinedTileProvider(primary, fallback TileProvider, cacheSize int) *CombinedTileProvider {
	return &CombinedTileProvider{
		primary:  primary,
		fallback: fallback,
		loading:  make(map[Key]bool),
		cache:    NewImageCache(cacheSize),
	}
}

// SetOnLoadCallback registers fn to run with each primary tile once it has
// arrived. It runs on the loading goroutine.
func (p *CombinedTileProvider) SetOnLoadCallback(callback func(Key, image.Image)) {
	p.onLoadFunc = callback
}

func (p *CombinedTileProvider) GetTile(ctx context.Context, key Key) (image.Image, error) {
	if img, ok := p.cache.Get(key); ok {
		return img, nil
	}

	fallbackImg, err := p.fallback.GetTile(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fallback provider failed: %w", err)
	}

	p.loadingMu.Lock()
	isLoading := p.loading[key]
	p.loading[key] = true
	p.loadingMu.Unlock()

	if !isLoading {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			defer func() {
				p.loadingMu.Lock()
				delete(p.loading, key)
				p.loadingMu.Unlock()
			}()

			img, err := p.primary.GetTile(context.WithoutCancel(ctx), key)
			if err != nil {
				return
			}
			p.cache.Set(key, img)
			if p.onLoadFunc != nil {
				p.onLoadFunc(key, img)
			}
		}()
	}

	return fallbackImg, nil
}

// Wait blocks until every background load has finished
func (p *CombinedTileProvider) Wait() {
	p.wg.Wait()
}
