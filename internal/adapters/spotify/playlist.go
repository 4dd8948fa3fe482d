package spotify

import (
	"context"
	"fmt"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
)

// maxAddBatch is the catalog's per-call cap for playlist additions.
const maxAddBatch = 100

// Playlists lists the listener's playlists.
func (c *Client) Playlists(ctx context.Context, limit int) ([]domain.PlaylistRef, error) {
	var refs []domain.PlaylistRef
	next := fmt.Sprintf("%s/me/playlists?limit=%d", c.baseURL, pageCap(limit))

	for next != "" && len(refs) < limit {
		var page playlistPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("spotify adapter: playlists: %w", err)
		}
		for _, wp := range page.Items {
			if wp.ID == "" {
				continue
			}
			refs = append(refs, domain.PlaylistRef{
				ID:         wp.ID,
				Name:       wp.Name,
				TrackTotal: wp.Tracks.Total,
			})
		}
		next = page.Next
	}

	if len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

// PlaylistTrackIDs returns the track IDs inside one playlist.
func (c *Client) PlaylistTrackIDs(ctx context.Context, playlistID string) ([]string, error) {
	var ids []string
	next := fmt.Sprintf("%s/playlists/%s/tracks?fields=items(track(id)),next&limit=%d", c.baseURL, playlistID, pageSize)

	for next != "" {
		var page playedTrackPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("spotify adapter: playlist tracks %s: %w", playlistID, err)
		}
		for _, item := range page.Items {
			if item.Track.ID != "" {
				ids = append(ids, item.Track.ID)
			}
		}
		next = page.Next
	}

	return ids, nil
}

// CreatePlaylist creates a private playlist for the user.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name, description string) (domain.PlaylistRef, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      false,
	}

	var wp wirePlaylist
	url := fmt.Sprintf("%s/users/%s/playlists", c.baseURL, userID)
	if err := c.postJSON(ctx, url, body, &wp); err != nil {
		return domain.PlaylistRef{}, fmt.Errorf("spotify adapter: create playlist: %w", err)
	}
	if wp.ID == "" {
		return domain.PlaylistRef{}, fmt.Errorf("spotify adapter: create playlist: empty reply")
	}

	c.log.Info().Str("playlist", wp.ID).Str("name", name).Msg("created playlist")
	return domain.PlaylistRef{ID: wp.ID, Name: wp.Name}, nil
}

// AddPlaylistTracks appends tracks to a playlist; callers chunk to at most
// maxAddBatch IDs per call.
func (c *Client) AddPlaylistTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}
	if len(trackIDs) > maxAddBatch {
		return fmt.Errorf("spotify adapter: add batch of %d exceeds %d", len(trackIDs), maxAddBatch)
	}

	uris := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		uris[i] = "spotify:track:" + id
	}

	url := fmt.Sprintf("%s/playlists/%s/tracks", c.baseURL, playlistID)
	if err := c.postJSON(ctx, url, map[string]any{"uris": uris}, nil); err != nil {
		return fmt.Errorf("spotify adapter: add playlist tracks: %w", err)
	}
	return nil
}
