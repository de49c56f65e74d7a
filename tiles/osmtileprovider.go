package tiles

import (
	"context"
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"net/http"
)

const DefaultUserAgent = "worldmap/1.0 (+https://www.openstreetmap.org/copyright)"

// OSMTileProvider downloads tiles from the OpenStreetMap tile servers
type OSMTileProvider struct {
	client    *http.Client
	userAgent string
	urlFor    func(Key) string
	log       *slog.Logger
}

func NewOSMTileProvider(client *http.Client, userAgent string, logger *slog.Logger) *OSMTileProvider {
	if client == nil {
		client = &http.Client{}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OSMTileProvider{
		client:    client,
		userAgent: userAgent,
		urlFor:    Key.URL,
		log:       logger,
	}
}

func (p *OSMTileProvider) GetTile(ctx context.Context, key Key) (image.Image, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("tile %v: outside the world", key)
	}
	url := p.urlFor(key)
	p.log.Debug("requesting tile", "key", key.String(), "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("tile %v: %w", key, err)
	}

	// The OSM tile usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "image/png,image/*;q=0.8")
	req.Header.Set("Referer", "https://www.openstreetmap.org/")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tile %v: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tile %v: unexpected status code: %d", key, resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tile %v: decode: %w", key, err)
	}
	return img, nil
}
