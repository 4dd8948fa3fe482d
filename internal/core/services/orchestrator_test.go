package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
	"github.com/PoliTwit1984/playlistai/internal/core/ports"
)

const testSession = "session-1"

func validPrefs() domain.UserPreferences {
	return domain.UserPreferences{
		Mood:           30,
		DesiredMood:    80,
		Activity:       "running",
		EnergyLevel:    75,
		TimeOfDay:      "Morning",
		Duration:       10,
		DiscoveryLevel: 40,
	}
}

func newTestOrchestrator(catalog *stubCatalog, llm ports.Recommender) (*Orchestrator, *memStore) {
	store := newMemStore()
	o := NewOrchestrator(catalog, llm, store, nil, time.Hour, zerolog.Nop())
	return o, store
}

func TestSavePreferences_RejectsInvalid(t *testing.T) {
	o, store := newTestOrchestrator(&stubCatalog{}, &stubRecommender{})

	prefs := validPrefs()
	prefs.Duration = 0

	err := o.SavePreferences(context.Background(), testSession, prefs)

	require.Error(t, err)
	var stored domain.UserPreferences
	assert.ErrorIs(t, store.Get(context.Background(), testSession, keyPreferences, &stored), ports.ErrNoValue)
}

func TestSavePreferences_StoresValid(t *testing.T) {
	o, store := newTestOrchestrator(&stubCatalog{}, &stubRecommender{})

	require.NoError(t, o.SavePreferences(context.Background(), testSession, validPrefs()))

	var stored domain.UserPreferences
	require.NoError(t, store.Get(context.Background(), testSession, keyPreferences, &stored))
	assert.Equal(t, "running", stored.Activity)
}

func TestFindTracks_RequiresPreferences(t *testing.T) {
	o, _ := newTestOrchestrator(&stubCatalog{}, &stubRecommender{})

	_, err := o.FindTracks(context.Background(), testSession)

	assert.ErrorIs(t, err, ports.ErrNoValue)
}

func TestFindTracks_BuildsAndStoresPool(t *testing.T) {
	catalog := &stubCatalog{
		topTracks: func(_ context.Context, _ int) ([]domain.Track, error) {
			return makeTracks("top", 20), nil
		},
	}
	o, store := newTestOrchestrator(catalog, &stubRecommender{})
	require.NoError(t, o.SavePreferences(context.Background(), testSession, validPrefs()))

	summary, err := o.FindTracks(context.Background(), testSession)

	require.NoError(t, err)
	assert.Equal(t, 20, summary.Total)
	assert.Equal(t, 8, summary.DiscoveryCount)
	assert.Equal(t, 12, summary.FamiliarCount)
	assert.Len(t, summary.Sample, 10)

	var pool TrackPool
	require.NoError(t, store.Get(context.Background(), testSession, keyTrackPool, &pool))
	assert.Equal(t, 20, pool.Size())
}

func TestCapPool(t *testing.T) {
	tests := []struct {
		name          string
		familiar      int
		discovery     int
		ratio         float64
		wantFamiliar  int
		wantDiscovery int
	}{
		{"under cap untouched", 100, 50, 0.4, 100, 50},
		{"trims to ratio", 200, 150, 0.4, 120, 80},
		{"short discovery side", 300, 10, 0.5, 190, 10},
		{"short familiar side", 30, 300, 0.2, 30, 170},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			pool := TrackPool{
				Familiar:  makeTracks("f", tc.familiar),
				Discovery: makeTracks("d", tc.discovery),
			}

			got := capPool(pool, tc.ratio)

			assert.Len(t, got.Familiar, tc.wantFamiliar)
			assert.Len(t, got.Discovery, tc.wantDiscovery)
			assert.LessOrEqual(t, got.Size(), poolCap)
		})
	}
}

func TestGeneratePlaylist_FullExchange(t *testing.T) {
	catalog := &stubCatalog{
		topTracks: func(_ context.Context, _ int) ([]domain.Track, error) {
			return makeTracks("top", 6), nil
		},
	}
	llm := &stubRecommender{
		reply: "```json\n" +
			`{"playlist_description": "Morning run fuel", "tracks": [{"name": "Song", "artist": "Artist", "reason": "fast"}]}` +
			"\n```\nA steady build for your run.",
	}
	o, store := newTestOrchestrator(catalog, llm)
	require.NoError(t, o.SavePreferences(context.Background(), testSession, validPrefs()))
	_, err := o.FindTracks(context.Background(), testSession)
	require.NoError(t, err)

	got, err := o.GeneratePlaylist(context.Background(), testSession)

	require.NoError(t, err)
	require.Len(t, got.Tracks, 1)
	assert.Equal(t, "Morning run fuel", got.Description)
	assert.Equal(t, "A steady build for your run.", got.Explanation)

	// The prompt carries the pool and the requested length.
	assert.Contains(t, llm.prompt, "Provide a list of 10 tracks")
	assert.Contains(t, llm.prompt, "Track 0")

	var recs []domain.RecommendedTrack
	require.NoError(t, store.Get(context.Background(), testSession, keyRecommended, &recs))
	assert.Len(t, recs, 1)
	var desc string
	require.NoError(t, store.Get(context.Background(), testSession, keyDescription, &desc))
	assert.Equal(t, "Morning run fuel", desc)
}

func TestGeneratePlaylist_RequiresPool(t *testing.T) {
	o, _ := newTestOrchestrator(&stubCatalog{}, &stubRecommender{reply: "x"})
	require.NoError(t, o.SavePreferences(context.Background(), testSession, validPrefs()))

	_, err := o.GeneratePlaylist(context.Background(), testSession)

	assert.ErrorIs(t, err, ports.ErrNoValue)
}

func TestSavePlaylist_CreatesAndFills(t *testing.T) {
	var createdName, createdDesc string
	var batches [][]string
	resolved := 0
	catalog := &stubCatalog{
		searchTracks: func(_ context.Context, _ string, _ int) ([]domain.Track, error) {
			resolved++
			return []domain.Track{{ID: fmt.Sprintf("id-%d", resolved)}}, nil
		},
		createPlaylist: func(_ context.Context, userID, name, description string) (domain.PlaylistRef, error) {
			assert.Equal(t, "user-1", userID)
			createdName, createdDesc = name, description
			return domain.PlaylistRef{ID: "pl-9", Name: name}, nil
		},
		addTracks: func(_ context.Context, playlistID string, trackIDs []string) error {
			assert.Equal(t, "pl-9", playlistID)
			batches = append(batches, trackIDs)
			return nil
		},
	}
	o, store := newTestOrchestrator(catalog, &stubRecommender{})
	ctx := context.Background()
	require.NoError(t, o.SavePreferences(ctx, testSession, validPrefs()))

	recs := make([]domain.RecommendedTrack, 120)
	for i := range recs {
		recs[i] = domain.RecommendedTrack{Name: fmt.Sprintf("Song %d", i), Artist: "Artist"}
	}
	require.NoError(t, store.Put(ctx, testSession, keyRecommended, recs, time.Hour))
	require.NoError(t, store.Put(ctx, testSession, keyDescription, strings.Repeat("x", 400), time.Hour))

	saved, err := o.SavePlaylist(ctx, testSession)

	require.NoError(t, err)
	assert.Equal(t, "pl-9", saved.ID)
	assert.Equal(t, 120, saved.TrackCount)
	assert.Equal(t, "MoodWave: Running - 75 Energy", createdName)
	assert.Len(t, createdDesc, descriptionLimit)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 100)
	assert.Len(t, batches[1], 20)
}

func TestPlaylistName(t *testing.T) {
	tests := []struct {
		activity string
		energy   int
		want     string
	}{
		{"running", 75, "MoodWave: Running - 75 Energy"},
		{"", 20, "MoodWave: Custom - 20 Energy"},
		{"  ", 20, "MoodWave: Custom - 20 Energy"},
		{"Yoga", 10, "MoodWave: Yoga - 10 Energy"},
	}

	for _, tc := range tests {
		prefs := domain.UserPreferences{Activity: tc.activity, EnergyLevel: tc.energy}
		assert.Equal(t, tc.want, playlistName(prefs))
	}
}

func TestOverview(t *testing.T) {
	saved := make([]ports.SavedTrack, 12)
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range saved {
		saved[i] = ports.SavedTrack{
			Track:   domain.Track{ID: fmt.Sprintf("saved-%d", i)},
			AddedAt: base.AddDate(0, i, 0),
		}
	}

	catalog := &stubCatalog{
		topArtists: func(_ context.Context, _ int) ([]domain.Artist, error) {
			return []domain.Artist{{ID: "a1", Name: "A", Genres: []string{"rock"}}}, nil
		},
		recentlyPlayed: func(_ context.Context, _ int) ([]domain.Track, error) {
			// saved-11 is recent, so wayback must exclude it.
			return []domain.Track{{ID: "recent-1"}, {ID: "saved-11"}}, nil
		},
		savedTracks: func(_ context.Context, _ int) ([]ports.SavedTrack, error) {
			return saved, nil
		},
	}
	o, _ := newTestOrchestrator(catalog, &stubRecommender{})

	overview, err := o.Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "user-1", overview.User.ID)
	require.Len(t, overview.TopArtists, 1)
	assert.Equal(t, []GenreCount{{Name: "rock", Count: 1}}, overview.TopGenres)
	assert.Len(t, overview.RecentTracks, 2)

	require.Len(t, overview.WaybackTracks, waybackLimit)
	seen := map[string]bool{}
	for _, tr := range overview.WaybackTracks {
		assert.NotEqual(t, "saved-11", tr.ID)
		assert.False(t, seen[tr.ID], "duplicate wayback track %s", tr.ID)
		seen[tr.ID] = true
	}
	// The oldest non-recent saves are always included.
	for i := 0; i < waybackLimit/2; i++ {
		assert.True(t, seen[fmt.Sprintf("saved-%d", i)], "oldest save saved-%d missing", i)
	}
}

func TestOverview_WaybackFailureIsNonFatal(t *testing.T) {
	calls := 0
	catalog := &stubCatalog{
		recentlyPlayed: func(_ context.Context, limit int) ([]domain.Track, error) {
			calls++
			if limit == waybackRecentScan {
				return nil, fmt.Errorf("history unavailable")
			}
			return nil, nil
		},
	}
	o, _ := newTestOrchestrator(catalog, &stubRecommender{})

	overview, err := o.Overview(context.Background())

	require.NoError(t, err)
	assert.Empty(t, overview.WaybackTracks)
	assert.Equal(t, 2, calls)
}

func TestAutocompleteArtists(t *testing.T) {
	catalog := &stubCatalog{
		searchArtists: func(_ context.Context, query string, limit int) ([]domain.Artist, error) {
			assert.Equal(t, "radio", query)
			assert.Equal(t, 5, limit)
			return []domain.Artist{{ID: "a1", Name: "Radiohead"}, {ID: "a2", Name: "Radio Dept."}}, nil
		},
	}
	o, _ := newTestOrchestrator(catalog, &stubRecommender{})

	names, err := o.AutocompleteArtists(context.Background(), "radio")

	require.NoError(t, err)
	assert.Equal(t, []string{"Radiohead", "Radio Dept."}, names)
}

func TestAutocompleteGenres(t *testing.T) {
	catalog := &stubCatalog{
		genreSeeds: func(_ context.Context) ([]string, error) {
			return []string{"rock", "jazz", "post-rock", "indie-rock", "punk-rock", "rockabilly", "pop"}, nil
		},
	}
	o, _ := newTestOrchestrator(catalog, &stubRecommender{})

	genres, err := o.AutocompleteGenres(context.Background(), "ROCK")

	require.NoError(t, err)
	// Case-insensitive substring match, capped at five.
	assert.Equal(t, []string{"rock", "post-rock", "indie-rock", "punk-rock", "rockabilly"}, genres)
}
