package spotify

import (
	"context"
	"fmt"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
)

// Artist fetches one artist's metadata.
func (c *Client) Artist(ctx context.Context, id string) (domain.Artist, error) {
	var wa wireArtist
	if err := c.getJSON(ctx, fmt.Sprintf("%s/artists/%s", c.baseURL, id), &wa); err != nil {
		return domain.Artist{}, fmt.Errorf("spotify adapter: artist %s: %w", id, err)
	}

	artist, ok := mapArtist(wa)
	if !ok {
		return domain.Artist{}, fmt.Errorf("spotify adapter: artist %s: %w", id, domain.ErrNotFound)
	}
	return artist, nil
}

// ArtistTopTracks returns an artist's current top tracks (the catalog caps
// this endpoint at 10).
func (c *Client) ArtistTopTracks(ctx context.Context, id string) ([]domain.Track, error) {
	var body struct {
		Tracks []wireTrack `json:"tracks"`
	}
	url := fmt.Sprintf("%s/artists/%s/top-tracks?market=US", c.baseURL, id)
	if err := c.getJSON(ctx, url, &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: artist top tracks %s: %w", id, err)
	}
	return mapTracks(body.Tracks), nil
}
