package domain

import "strings"

// UserPreferences captures the listener's playlist request. Constructed once
// per request from form input and immutable for the duration of pool
// generation. Validation rules mirror the intake form.
type UserPreferences struct {
	Name            string `json:"name"`
	Mood            int    `json:"mood" validate:"min=0,max=100"`
	DesiredMood     int    `json:"desired_mood" validate:"min=0,max=100"`
	Activity        string `json:"activity"`
	EnergyLevel     int    `json:"energy_level" validate:"min=0,max=100"`
	TimeOfDay       string `json:"time_of_day" validate:"omitempty,oneof=Morning Afternoon Evening Night"`
	Duration        int    `json:"duration" validate:"required,min=1,max=300"`
	DiscoveryLevel  int    `json:"discovery_level" validate:"min=0,max=100"`
	FavoriteArtists string `json:"favorite_artists"`
	FavoriteGenres  string `json:"favorite_genres"`
	Description     string `json:"playlist_description"`
}

// DiscoveryRatio converts the 0-100 form value into the [0,1] fraction the
// aggregator splits on.
func (p UserPreferences) DiscoveryRatio() float64 {
	return float64(p.DiscoveryLevel) / 100
}

// ArtistList splits the comma-separated favorite artists field.
func (p UserPreferences) ArtistList() []string {
	return splitList(p.FavoriteArtists)
}

// GenreList splits the comma-separated favorite genres field.
func (p UserPreferences) GenreList() []string {
	return splitList(p.FavoriteGenres)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
