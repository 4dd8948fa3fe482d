package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
)

// SearchTracks runs a track search. The query may carry field qualifiers
// (track:, artist:) or be plain text; zero hits return an empty slice.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	searchURL, err := c.searchURL(query, "track", limit)
	if err != nil {
		return nil, err
	}

	var body struct {
		Tracks trackPage `json:"tracks"`
	}
	if err := c.getJSON(ctx, searchURL, &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: track search: %w", err)
	}

	c.log.Debug().Str("query", query).Int("hits", len(body.Tracks.Items)).Msg("track search")
	return mapTracks(body.Tracks.Items), nil
}

// SearchArtists runs an artist search.
func (c *Client) SearchArtists(ctx context.Context, query string, limit int) ([]domain.Artist, error) {
	searchURL, err := c.searchURL(query, "artist", limit)
	if err != nil {
		return nil, err
	}

	var body struct {
		Artists artistPage `json:"artists"`
	}
	if err := c.getJSON(ctx, searchURL, &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: artist search: %w", err)
	}

	artists := make([]domain.Artist, 0, len(body.Artists.Items))
	for _, wa := range body.Artists.Items {
		if a, ok := mapArtist(wa); ok {
			artists = append(artists, a)
		}
	}
	return artists, nil
}

// GenreSeeds lists the catalog's recommendation genre vocabulary.
func (c *Client) GenreSeeds(ctx context.Context) ([]string, error) {
	var body struct {
		Genres []string `json:"genres"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/recommendations/available-genre-seeds", &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: genre seeds: %w", err)
	}
	return body.Genres, nil
}

func (c *Client) searchURL(query, kind string, limit int) (string, error) {
	u, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return "", fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}
	if limit <= 0 || limit > pageSize {
		limit = pageSize
	}

	q := u.Query()
	q.Set("q", query)
	q.Set("type", kind)
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
