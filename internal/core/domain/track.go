package domain

import "strings"

// Track represents a catalog track in the domain layer. It is created when a
// catalog query returns it and enriched in place by the scoring and analysis
// passes; nothing outlives the request that produced it.
type Track struct {
	ID         string
	Name       string
	Artists    []string
	ArtistIDs  []string
	Popularity *int // 0-100, absent on some catalog payloads
	PreviewURL string

	DiscoveryScore *float64
	Analysis       *AudioAnalysis
}

// HasPreview reports whether the catalog exposed a playable preview clip.
func (t Track) HasPreview() bool {
	return t.PreviewURL != ""
}

// PrimaryArtist returns the first credited artist name, or "".
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// PrimaryArtistID returns the first credited artist's catalog ID, or "".
func (t Track) PrimaryArtistID() string {
	if len(t.ArtistIDs) == 0 {
		return ""
	}
	return t.ArtistIDs[0]
}

// ArtistLine flattens the credited artists into a display string.
func (t Track) ArtistLine() string {
	return strings.Join(t.Artists, ", ")
}

// Artist is catalog artist metadata used for scoring and profile views.
type Artist struct {
	ID         string
	Name       string
	Genres     []string
	Popularity *int
}

// Album is the minimal album reference needed to walk new releases.
type Album struct {
	ID   string
	Name string
}

// PlaylistRef identifies one of the listener's playlists without its tracks.
type PlaylistRef struct {
	ID         string
	Name       string
	TrackTotal int
}

// UserProfile is the authenticated listener's catalog identity.
type UserProfile struct {
	ID          string
	DisplayName string
}

// RecommendedTrack is a (name, artist) pair emitted by the text-generation
// service. It stays distinct from Track until the resolver maps it back to a
// concrete catalog ID.
type RecommendedTrack struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
	Reason string `json:"reason,omitempty"`
}
