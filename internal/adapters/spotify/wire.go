package spotify

// Wire types mirror the Spotify Web API payloads. They are decoded at this
// boundary and mapped to validated domain records before anything downstream
// touches them.

type wireArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres,omitempty"`
	Popularity *int     `json:"popularity,omitempty"`
}

type wireAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireTrack struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Artists    []wireArtist `json:"artists"`
	Album      wireAlbum    `json:"album"`
	Popularity *int         `json:"popularity,omitempty"`
	PreviewURL string       `json:"preview_url"`
}

type wireFeatures struct {
	ID               string  `json:"id"`
	Valence          float64 `json:"valence"`
	Energy           float64 `json:"energy"`
	Danceability     float64 `json:"danceability"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Loudness         float64 `json:"loudness"`
	Tempo            float64 `json:"tempo"`
	Key              int     `json:"key"`
	Mode             int     `json:"mode"`
	TimeSignature    int     `json:"time_signature"`
}

type wirePlaylist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

// trackPage is the paginated wrapper around plain track lists.
type trackPage struct {
	Items []wireTrack `json:"items"`
	Next  string      `json:"next"`
}

// savedTrackPage wraps library entries, which nest the track under an
// added_at envelope.
type savedTrackPage struct {
	Items []struct {
		AddedAt string    `json:"added_at"`
		Track   wireTrack `json:"track"`
	} `json:"items"`
	Next string `json:"next"`
}

// playedTrackPage wraps recently-played entries.
type playedTrackPage struct {
	Items []struct {
		Track wireTrack `json:"track"`
	} `json:"items"`
	Next string `json:"next"`
}

type artistPage struct {
	Items []wireArtist `json:"items"`
	Next  string       `json:"next"`
}

type playlistPage struct {
	Items []wirePlaylist `json:"items"`
	Next  string         `json:"next"`
}
