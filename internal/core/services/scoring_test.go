package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/PoliTwit1984/playlistai/internal/cache"
	"github.com/PoliTwit1984/playlistai/internal/core/domain"
)

func intPtr(v int) *int { return &v }

func newTestScorer(catalog *stubCatalog) *Scorer {
	return NewScorer(catalog, cache.New(), zerolog.Nop())
}

func TestScore_NeutralWithoutSignals(t *testing.T) {
	scorer := newTestScorer(&stubCatalog{})
	profile := ListenerProfile{TopGenres: map[string]struct{}{}, RecentTrackIDs: map[string]struct{}{}}

	got := scorer.Score(context.Background(), domain.Track{ID: "t1"}, profile)

	assert.Equal(t, 0.5, got)
}

func TestScore_PopularityFactors(t *testing.T) {
	catalog := &stubCatalog{
		artist: func(_ context.Context, id string) (domain.Artist, error) {
			return domain.Artist{ID: id, Popularity: intPtr(20)}, nil
		},
	}
	scorer := newTestScorer(catalog)
	profile := ListenerProfile{TopGenres: map[string]struct{}{}, RecentTrackIDs: map[string]struct{}{}}

	track := domain.Track{ID: "t1", Popularity: intPtr(10), ArtistIDs: []string{"a1"}}
	got := scorer.Score(context.Background(), track, profile)

	// 0.5 + (100-10)/200 + (100-20)/200
	assert.InDelta(t, 0.5+0.45+0.4, got, 1e-9)
}

func TestScore_ClampedToOne(t *testing.T) {
	catalog := &stubCatalog{
		artist: func(_ context.Context, id string) (domain.Artist, error) {
			return domain.Artist{ID: id, Popularity: intPtr(0)}, nil
		},
	}
	scorer := newTestScorer(catalog)
	profile := ListenerProfile{TopGenres: map[string]struct{}{}, RecentTrackIDs: map[string]struct{}{}}

	track := domain.Track{ID: "t1", Popularity: intPtr(0), ArtistIDs: []string{"a1"}}
	got := scorer.Score(context.Background(), track, profile)

	assert.Equal(t, 1.0, got)
}

func TestScore_GenreOverlapAndPenalties(t *testing.T) {
	catalog := &stubCatalog{
		artist: func(_ context.Context, id string) (domain.Artist, error) {
			return domain.Artist{ID: id, Genres: []string{"Indie Rock", "dream pop"}}, nil
		},
		playlists: func(_ context.Context, _ int) ([]domain.PlaylistRef, error) {
			return []domain.PlaylistRef{{ID: "pl1", TrackTotal: 2}}, nil
		},
		playlistTrackIDs: func(_ context.Context, _ string) ([]string, error) {
			return []string{"t1", "other"}, nil
		},
	}
	scorer := newTestScorer(catalog)
	profile := ListenerProfile{
		TopGenres:      map[string]struct{}{"indie rock": {}, "dream pop": {}},
		RecentTrackIDs: map[string]struct{}{"t1": {}},
	}

	track := domain.Track{ID: "t1", ArtistIDs: []string{"a1"}}
	got := scorer.Score(context.Background(), track, profile)

	// 0.5 - 2*0.1 (genre overlap, case-insensitive) - 0.3 (recent) - 0.2 (playlist), clamped
	assert.Equal(t, 0.0, got)
}

func TestScore_ArtistLookupFailureSkipsArtistFactors(t *testing.T) {
	catalog := &stubCatalog{
		artist: func(_ context.Context, _ string) (domain.Artist, error) {
			return domain.Artist{}, errors.New("boom")
		},
	}
	scorer := newTestScorer(catalog)
	profile := ListenerProfile{TopGenres: map[string]struct{}{"rock": {}}, RecentTrackIDs: map[string]struct{}{}}

	track := domain.Track{ID: "t1", Popularity: intPtr(50), ArtistIDs: []string{"a1"}}
	got := scorer.Score(context.Background(), track, profile)

	assert.InDelta(t, 0.5+0.25, got, 1e-9)
}

func TestScorer_ArtistLookupIsCached(t *testing.T) {
	calls := 0
	catalog := &stubCatalog{
		artist: func(_ context.Context, id string) (domain.Artist, error) {
			calls++
			return domain.Artist{ID: id}, nil
		},
	}
	scorer := newTestScorer(catalog)
	profile := ListenerProfile{TopGenres: map[string]struct{}{}, RecentTrackIDs: map[string]struct{}{}}

	for i := 0; i < 5; i++ {
		scorer.Score(context.Background(), domain.Track{ID: "t1", ArtistIDs: []string{"a1"}}, profile)
	}

	assert.Equal(t, 1, calls)
}

func TestScorer_PlaylistScanSkipsEmptyAndFailed(t *testing.T) {
	var scanned []string
	catalog := &stubCatalog{
		playlists: func(_ context.Context, _ int) ([]domain.PlaylistRef, error) {
			return []domain.PlaylistRef{
				{ID: "empty", TrackTotal: 0},
				{ID: "broken", TrackTotal: 3},
				{ID: "hit", TrackTotal: 3},
			}, nil
		},
		playlistTrackIDs: func(_ context.Context, id string) ([]string, error) {
			scanned = append(scanned, id)
			if id == "broken" {
				return nil, errors.New("boom")
			}
			return []string{"t1"}, nil
		},
	}
	scorer := newTestScorer(catalog)

	assert.True(t, scorer.inUserPlaylist(context.Background(), "t1"))
	assert.Equal(t, []string{"broken", "hit"}, scanned)
}

func TestBuildProfile_DefensiveOnFailures(t *testing.T) {
	catalog := &stubCatalog{
		topArtists: func(_ context.Context, _ int) ([]domain.Artist, error) {
			return nil, errors.New("boom")
		},
		recentlyPlayed: func(_ context.Context, _ int) ([]domain.Track, error) {
			return []domain.Track{{ID: "r1"}}, nil
		},
	}
	scorer := newTestScorer(catalog)

	profile := scorer.BuildProfile(context.Background())

	assert.Empty(t, profile.TopGenres)
	assert.Contains(t, profile.RecentTrackIDs, "r1")
}

func TestTopGenres(t *testing.T) {
	artists := []domain.Artist{
		{ID: "a1", Genres: []string{"rock", "indie"}},
		{ID: "a2", Genres: []string{"rock", "jazz"}},
		{ID: "a3", Genres: []string{"rock", "indie"}},
	}

	got := TopGenres(artists, 2)

	assert.Equal(t, []GenreCount{{Name: "rock", Count: 3}, {Name: "indie", Count: 2}}, got)
}

func TestTopGenres_TiesBreakAlphabetically(t *testing.T) {
	artists := []domain.Artist{{ID: "a1", Genres: []string{"zydeco", "ambient"}}}

	got := TopGenres(artists, 10)

	assert.Equal(t, []GenreCount{{Name: "ambient", Count: 1}, {Name: "zydeco", Count: 1}}, got)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.2))
	assert.Equal(t, 1.0, clamp01(1.7))
	assert.Equal(t, 0.4, clamp01(0.4))
}
