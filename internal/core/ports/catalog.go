package ports

import (
	"context"
	"time"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
)

// SavedTrack is a library track together with the moment it was saved.
type SavedTrack struct {
	Track   domain.Track
	AddedAt time.Time
}

// CatalogProvider is the driven port for the streaming-platform catalog.
// Every method blocks until the catalog answers or a terminal error occurs;
// rate limiting and transient failures are absorbed by the adapter's retry
// gateway, so errors surfacing here are either not-retryable or exhausted.
type CatalogProvider interface {
	// SearchTracks runs a qualified or free-text track search. A query with
	// no hits returns an empty slice, not an error.
	SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error)

	// SearchArtists runs an artist search, optionally qualified (e.g. by year).
	SearchArtists(ctx context.Context, query string, limit int) ([]domain.Artist, error)

	// TopTracks returns the listener's long-term top tracks, following
	// pagination until limit.
	TopTracks(ctx context.Context, limit int) ([]domain.Track, error)

	// RecentlyPlayed returns the listener's most recent plays, newest first.
	RecentlyPlayed(ctx context.Context, limit int) ([]domain.Track, error)

	// SavedTracks returns the listener's library tracks with save timestamps.
	SavedTracks(ctx context.Context, limit int) ([]SavedTrack, error)

	// TopArtists returns the listener's top artists with genre lists.
	TopArtists(ctx context.Context, limit int) ([]domain.Artist, error)

	// Artist fetches one artist's metadata.
	Artist(ctx context.Context, id string) (domain.Artist, error)

	// ArtistTopTracks returns an artist's current top tracks.
	ArtistTopTracks(ctx context.Context, id string) ([]domain.Track, error)

	// NewReleases lists recently released albums across the catalog.
	NewReleases(ctx context.Context, limit int) ([]domain.Album, error)

	// AlbumTracks lists the tracks on an album.
	AlbumTracks(ctx context.Context, id string) ([]domain.Track, error)

	// AudioFeatures fetches raw feature vectors for up to 100 track IDs in
	// one call. Tracks the catalog has never analyzed are absent from the map.
	AudioFeatures(ctx context.Context, ids []string) (map[string]domain.AudioFeatures, error)

	// Playlists lists the listener's playlists.
	Playlists(ctx context.Context, limit int) ([]domain.PlaylistRef, error)

	// PlaylistTrackIDs returns the track IDs inside one playlist.
	PlaylistTrackIDs(ctx context.Context, playlistID string) ([]string, error)

	// CurrentUser returns the authenticated listener's profile.
	CurrentUser(ctx context.Context) (domain.UserProfile, error)

	// GenreSeeds lists the catalog's recommendation genre vocabulary.
	GenreSeeds(ctx context.Context) ([]string, error)

	// CreatePlaylist creates a private playlist for the user.
	CreatePlaylist(ctx context.Context, userID, name, description string) (domain.PlaylistRef, error)

	// AddPlaylistTracks appends tracks to a playlist, at most 100 per call.
	AddPlaylistTracks(ctx context.Context, playlistID string, trackIDs []string) error
}
