package domain

import (
	"reflect"
	"testing"
)

func TestUserPreferences_DiscoveryRatio(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{0, 0},
		{40, 0.4},
		{100, 1},
	}
	for _, tc := range tests {
		p := UserPreferences{DiscoveryLevel: tc.level}
		if got := p.DiscoveryRatio(); got != tc.want {
			t.Errorf("DiscoveryRatio(%d): got %v, want %v", tc.level, got, tc.want)
		}
	}
}

func TestUserPreferences_Lists(t *testing.T) {
	p := UserPreferences{
		FavoriteArtists: " Radiohead , Björk,, Portishead ",
		FavoriteGenres:  "",
	}

	if got, want := p.ArtistList(), []string{"Radiohead", "Björk", "Portishead"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ArtistList: got %v, want %v", got, want)
	}
	if got := p.GenreList(); got != nil {
		t.Errorf("GenreList on empty field: got %v, want nil", got)
	}
}

func TestTrack_Accessors(t *testing.T) {
	tr := Track{Artists: []string{"A", "B"}, ArtistIDs: []string{"id-a"}}

	if got := tr.PrimaryArtist(); got != "A" {
		t.Errorf("PrimaryArtist: got %q", got)
	}
	if got := tr.PrimaryArtistID(); got != "id-a" {
		t.Errorf("PrimaryArtistID: got %q", got)
	}
	if got := tr.ArtistLine(); got != "A, B" {
		t.Errorf("ArtistLine: got %q", got)
	}
	if (Track{}).PrimaryArtist() != "" || (Track{}).PrimaryArtistID() != "" {
		t.Error("empty track should yield empty artist accessors")
	}
	if (Track{}).HasPreview() {
		t.Error("empty preview URL should report no preview")
	}
}
