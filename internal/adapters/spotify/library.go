package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
	"github.com/PoliTwit1984/playlistai/internal/core/ports"
)

// TopTracks returns the listener's top tracks, following the continuation
// cursor until limit.
func (c *Client) TopTracks(ctx context.Context, limit int) ([]domain.Track, error) {
	var tracks []domain.Track
	next := fmt.Sprintf("%s/me/top/tracks?limit=%d", c.baseURL, pageCap(limit))

	for next != "" && len(tracks) < limit {
		var page trackPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("spotify adapter: top tracks: %w", err)
		}
		tracks = append(tracks, mapTracks(page.Items)...)
		next = page.Next
	}

	return capTracks(tracks, limit), nil
}

// RecentlyPlayed returns the listener's most recent plays, newest first.
// The catalog may repeat a track across plays; callers dedupe.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]domain.Track, error) {
	var tracks []domain.Track
	next := fmt.Sprintf("%s/me/player/recently-played?limit=%d", c.baseURL, pageCap(limit))

	for next != "" && len(tracks) < limit {
		var page playedTrackPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("spotify adapter: recently played: %w", err)
		}
		for _, item := range page.Items {
			if t, ok := mapTrack(item.Track); ok {
				tracks = append(tracks, t)
			}
		}
		next = page.Next
	}

	return capTracks(tracks, limit), nil
}

// SavedTracks returns the listener's library with save timestamps, oldest
// timestamps preserved for wayback selection.
func (c *Client) SavedTracks(ctx context.Context, limit int) ([]ports.SavedTrack, error) {
	var saved []ports.SavedTrack
	next := fmt.Sprintf("%s/me/tracks?limit=%d", c.baseURL, pageCap(limit))

	for next != "" && len(saved) < limit {
		var page savedTrackPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("spotify adapter: saved tracks: %w", err)
		}
		for _, item := range page.Items {
			t, ok := mapTrack(item.Track)
			if !ok {
				continue
			}
			addedAt, _ := time.Parse(time.RFC3339, item.AddedAt)
			saved = append(saved, ports.SavedTrack{Track: t, AddedAt: addedAt})
		}
		next = page.Next
	}

	if len(saved) > limit {
		saved = saved[:limit]
	}
	return saved, nil
}

// TopArtists returns the listener's top artists with their genre lists.
func (c *Client) TopArtists(ctx context.Context, limit int) ([]domain.Artist, error) {
	var artists []domain.Artist
	next := fmt.Sprintf("%s/me/top/artists?limit=%d", c.baseURL, pageCap(limit))

	for next != "" && len(artists) < limit {
		var page artistPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("spotify adapter: top artists: %w", err)
		}
		for _, wa := range page.Items {
			if a, ok := mapArtist(wa); ok {
				artists = append(artists, a)
			}
		}
		next = page.Next
	}

	if len(artists) > limit {
		artists = artists[:limit]
	}
	return artists, nil
}

// CurrentUser returns the authenticated listener's profile.
func (c *Client) CurrentUser(ctx context.Context) (domain.UserProfile, error) {
	var body struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/me", &body); err != nil {
		return domain.UserProfile{}, fmt.Errorf("spotify adapter: current user: %w", err)
	}
	if body.ID == "" {
		return domain.UserProfile{}, fmt.Errorf("spotify adapter: current user: empty profile")
	}
	return domain.UserProfile{ID: body.ID, DisplayName: body.DisplayName}, nil
}

func pageCap(limit int) int {
	if limit > pageSize || limit <= 0 {
		return pageSize
	}
	return limit
}

func capTracks(tracks []domain.Track, limit int) []domain.Track {
	if len(tracks) > limit {
		return tracks[:limit]
	}
	return tracks
}
