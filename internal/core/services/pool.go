package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
	"github.com/PoliTwit1984/playlistai/internal/core/ports"
)

const (
	// perSourceCap bounds each aggregation source's contribution.
	perSourceCap = 50
	// perQueryLimit is the search page requested per favorite artist/genre.
	perQueryLimit = 10
	// releaseTracksPerAlbum and trendingTracksPerArtist keep the broad
	// sources from flooding the pool.
	releaseTracksPerAlbum   = 2
	trendingTracksPerArtist = 2
	trendingArtistLimit     = 10
	featureBatchSize        = 100
)

// PreviewProber estimates a track's energy from its preview clip. Optional;
// nil disables the fallback.
type PreviewProber interface {
	Energy(ctx context.Context, url string) (float64, error)
}

// TrackPool is the aggregation result: two ordered subsets, discovery sorted
// most novel first.
type TrackPool struct {
	Familiar  []domain.Track `json:"familiar"`
	Discovery []domain.Track `json:"discovery"`
}

// Size is the combined pool size.
func (p TrackPool) Size() int {
	return len(p.Familiar) + len(p.Discovery)
}

// All concatenates familiar then discovery.
func (p TrackPool) All() []domain.Track {
	out := make([]domain.Track, 0, p.Size())
	out = append(out, p.Familiar...)
	out = append(out, p.Discovery...)
	return out
}

// Aggregator fuses tracks from five catalog sources into a deduplicated,
// scored, analyzed candidate pool.
type Aggregator struct {
	catalog ports.CatalogProvider
	scorer  *Scorer
	probe   PreviewProber
	log     zerolog.Logger
}

func NewAggregator(catalog ports.CatalogProvider, scorer *Scorer, probe PreviewProber, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		catalog: catalog,
		scorer:  scorer,
		probe:   probe,
		log:     log.With().Str("component", "aggregator").Logger(),
	}
}

// BuildPool runs the full aggregation: fetch five sources (each isolated),
// dedupe by track ID, attach features, score, analyze, then split by the
// discovery ratio. A single source or track failing never aborts the run.
func (a *Aggregator) BuildPool(ctx context.Context, prefs domain.UserPreferences) (TrackPool, error) {
	sources := []struct {
		name  string
		fetch func(context.Context) ([]domain.Track, error)
	}{
		{"favorite_artists", func(ctx context.Context) ([]domain.Track, error) {
			return a.favoriteArtistTracks(ctx, prefs.ArtistList())
		}},
		{"favorite_genres", func(ctx context.Context) ([]domain.Track, error) {
			return a.favoriteGenreTracks(ctx, prefs.GenreList())
		}},
		{"top_and_recent", a.topAndRecentTracks},
		{"new_releases", a.newReleaseTracks},
		{"trending_artists", a.trendingArtistTracks},
	}

	var all []domain.Track
	for _, src := range sources {
		tracks, err := src.fetch(ctx)
		if err != nil {
			a.log.Error().Err(err).Str("source", src.name).Msg("source failed; continuing without it")
			continue
		}
		a.log.Debug().Str("source", src.name).Int("tracks", len(tracks)).Msg("source fetched")
		all = append(all, tracks...)
	}

	deduped := dedupeByID(all)
	a.log.Info().Int("raw", len(all)).Int("unique", len(deduped)).Msg("pool deduplicated")

	features := a.fetchFeatures(ctx, deduped)
	profile := a.scorer.BuildProfile(ctx)

	for i := range deduped {
		t := &deduped[i]

		score := a.scorer.Score(ctx, *t, profile)
		t.DiscoveryScore = &score

		if f, ok := features[t.ID]; ok && !f.IsZero() {
			analysis := domain.AnalyzeFeatures(f)
			t.Analysis = &analysis
			continue
		}
		if a.probe != nil && t.HasPreview() {
			if energy, err := a.probe.Energy(ctx, t.PreviewURL); err == nil {
				f := syntheticFeatures(t.ID)
				f.Energy = energy
				analysis := domain.AnalyzeFeatures(f)
				t.Analysis = &analysis
				a.log.Debug().Str("track", t.ID).Msg("analysis from preview probe")
			}
		}
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return *deduped[i].DiscoveryScore > *deduped[j].DiscoveryScore
	})

	split := int(float64(len(deduped)) * prefs.DiscoveryRatio())
	pool := TrackPool{
		Discovery: deduped[:split],
		Familiar:  deduped[split:],
	}
	a.log.Info().Int("familiar", len(pool.Familiar)).Int("discovery", len(pool.Discovery)).Msg("pool built")
	return pool, nil
}

// dedupeByID keeps one entry per track ID, last write winning on attribute
// conflicts while first-seen order is preserved.
func dedupeByID(tracks []domain.Track) []domain.Track {
	index := make(map[string]int, len(tracks))
	deduped := make([]domain.Track, 0, len(tracks))
	for _, t := range tracks {
		if i, ok := index[t.ID]; ok {
			deduped[i] = t
			continue
		}
		index[t.ID] = len(deduped)
		deduped = append(deduped, t)
	}
	return deduped
}

// fetchFeatures pulls feature vectors in catalog-bounded batches. A failed
// batch degrades to missing features for its tracks.
func (a *Aggregator) fetchFeatures(ctx context.Context, tracks []domain.Track) map[string]domain.AudioFeatures {
	features := make(map[string]domain.AudioFeatures, len(tracks))

	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}

	for start := 0; start < len(ids); start += featureBatchSize {
		end := start + featureBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := a.catalog.AudioFeatures(ctx, ids[start:end])
		if err != nil {
			a.log.Warn().Err(err).Int("batch", start/featureBatchSize+1).Msg("feature batch failed; tracks keep empty features")
			continue
		}
		for id, f := range batch {
			features[id] = f
		}
	}

	return features
}

func (a *Aggregator) favoriteArtistTracks(ctx context.Context, artists []string) ([]domain.Track, error) {
	var tracks []domain.Track
	for _, artist := range artists {
		hits, err := a.catalog.SearchTracks(ctx, fmt.Sprintf("artist:%s", artist), perQueryLimit)
		if err != nil {
			return nil, fmt.Errorf("search by artist %q: %w", artist, err)
		}
		tracks = append(tracks, hits...)
	}
	return capSlice(tracks, perSourceCap), nil
}

func (a *Aggregator) favoriteGenreTracks(ctx context.Context, genres []string) ([]domain.Track, error) {
	var tracks []domain.Track
	for _, genre := range genres {
		hits, err := a.catalog.SearchTracks(ctx, fmt.Sprintf("genre:%s", genre), perQueryLimit)
		if err != nil {
			return nil, fmt.Errorf("search by genre %q: %w", genre, err)
		}
		tracks = append(tracks, hits...)
	}
	return capSlice(tracks, perSourceCap), nil
}

func (a *Aggregator) topAndRecentTracks(ctx context.Context) ([]domain.Track, error) {
	top, err := a.catalog.TopTracks(ctx, perSourceCap)
	if err != nil {
		return nil, fmt.Errorf("top tracks: %w", err)
	}
	recent, err := a.catalog.RecentlyPlayed(ctx, perSourceCap)
	if err != nil {
		return nil, fmt.Errorf("recently played: %w", err)
	}
	return capSlice(append(top, recent...), perSourceCap), nil
}

func (a *Aggregator) newReleaseTracks(ctx context.Context) ([]domain.Track, error) {
	albums, err := a.catalog.NewReleases(ctx, perSourceCap)
	if err != nil {
		return nil, fmt.Errorf("new releases: %w", err)
	}

	var tracks []domain.Track
	for _, album := range albums {
		if len(tracks) >= perSourceCap {
			break
		}
		albumTracks, err := a.catalog.AlbumTracks(ctx, album.ID)
		if err != nil {
			return nil, fmt.Errorf("album tracks %q: %w", album.ID, err)
		}
		tracks = append(tracks, capSlice(albumTracks, releaseTracksPerAlbum)...)
	}
	return capSlice(tracks, perSourceCap), nil
}

// trendingArtistTracks pulls top tracks from artists surfacing in the
// current year's artist search.
func (a *Aggregator) trendingArtistTracks(ctx context.Context) ([]domain.Track, error) {
	year := time.Now().Year()
	artists, err := a.catalog.SearchArtists(ctx, fmt.Sprintf("year:%d", year), trendingArtistLimit)
	if err != nil {
		return nil, fmt.Errorf("trending artist search: %w", err)
	}

	var tracks []domain.Track
	for _, artist := range artists {
		if len(tracks) >= perSourceCap {
			break
		}
		top, err := a.catalog.ArtistTopTracks(ctx, artist.ID)
		if err != nil {
			return nil, fmt.Errorf("artist top tracks %q: %w", artist.ID, err)
		}
		tracks = append(tracks, capSlice(top, trendingTracksPerArtist)...)
	}
	return capSlice(tracks, perSourceCap), nil
}

func capSlice(tracks []domain.Track, limit int) []domain.Track {
	if len(tracks) > limit {
		return tracks[:limit]
	}
	return tracks
}
