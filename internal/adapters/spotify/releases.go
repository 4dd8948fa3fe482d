package spotify

import (
	"context"
	"fmt"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
)

// NewReleases lists recently released albums across the catalog.
func (c *Client) NewReleases(ctx context.Context, limit int) ([]domain.Album, error) {
	var body struct {
		Albums struct {
			Items []wireAlbum `json:"items"`
		} `json:"albums"`
	}
	url := fmt.Sprintf("%s/browse/new-releases?limit=%d", c.baseURL, pageCap(limit))
	if err := c.getJSON(ctx, url, &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: new releases: %w", err)
	}

	albums := make([]domain.Album, 0, len(body.Albums.Items))
	for _, wa := range body.Albums.Items {
		if wa.ID == "" {
			continue
		}
		albums = append(albums, domain.Album{ID: wa.ID, Name: wa.Name})
	}
	if len(albums) > limit && limit > 0 {
		albums = albums[:limit]
	}
	return albums, nil
}

// AlbumTracks lists the tracks on an album. Album-track payloads omit
// popularity and album nesting; the mapper tolerates both.
func (c *Client) AlbumTracks(ctx context.Context, id string) ([]domain.Track, error) {
	var page trackPage
	url := fmt.Sprintf("%s/albums/%s/tracks?limit=%d", c.baseURL, id, pageSize)
	if err := c.getJSON(ctx, url, &page); err != nil {
		return nil, fmt.Errorf("spotify adapter: album tracks %s: %w", id, err)
	}
	return mapTracks(page.Items), nil
}
