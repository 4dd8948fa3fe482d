package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/PoliTwit1984/playlistai/internal/cache"
	"github.com/PoliTwit1984/playlistai/internal/core/domain"
	"github.com/PoliTwit1984/playlistai/internal/core/ports"
)

const (
	// neutralScore is assigned when scoring inputs are unavailable.
	neutralScore = 0.5
	// profileGenreLimit is how many of the listener's top genres feed the
	// overlap factor.
	profileGenreLimit = 50
	recentPlayWindow  = 50
	playlistScanLimit = 50

	recentPlayPenalty  = 0.3
	playlistPenalty    = 0.2
	genreOverlapWeight = 0.1

	artistCacheTTL   = 10 * time.Minute
	playlistCacheTTL = 10 * time.Minute
)

// ListenerProfile is the listening-history context every score is computed
// against. Built once per aggregation run.
type ListenerProfile struct {
	TopGenres      map[string]struct{}
	RecentTrackIDs map[string]struct{}
}

// Scorer computes bounded novelty scores. The lookups behind the artist and
// playlist factors go through a request-scoped TTL cache so a 200-track pool
// does not repeat them per track.
type Scorer struct {
	catalog ports.CatalogProvider
	cache   *cache.TTLStore
	log     zerolog.Logger
}

func NewScorer(catalog ports.CatalogProvider, store *cache.TTLStore, log zerolog.Logger) *Scorer {
	return &Scorer{
		catalog: catalog,
		cache:   store,
		log:     log.With().Str("component", "scoring").Logger(),
	}
}

// BuildProfile assembles the listener profile. Each part is fetched
// defensively; a failed lookup leaves that part empty rather than failing
// the profile.
func (s *Scorer) BuildProfile(ctx context.Context) ListenerProfile {
	profile := ListenerProfile{
		TopGenres:      map[string]struct{}{},
		RecentTrackIDs: map[string]struct{}{},
	}

	artists, err := s.catalog.TopArtists(ctx, profileGenreLimit)
	if err != nil {
		s.log.Warn().Err(err).Msg("top artists unavailable; genre overlap disabled")
	} else {
		for _, gc := range TopGenres(artists, profileGenreLimit) {
			profile.TopGenres[strings.ToLower(gc.Name)] = struct{}{}
		}
	}

	recent, err := s.catalog.RecentlyPlayed(ctx, recentPlayWindow)
	if err != nil {
		s.log.Warn().Err(err).Msg("recent plays unavailable; recency penalty disabled")
	} else {
		for _, t := range recent {
			profile.RecentTrackIDs[t.ID] = struct{}{}
		}
	}

	return profile
}

// Score computes the discovery score for one track: a 0.5 baseline plus five
// independent adjustments, each skipped when its inputs are missing or its
// lookup fails. The result is clamped to [0,1].
func (s *Scorer) Score(ctx context.Context, track domain.Track, profile ListenerProfile) float64 {
	score := neutralScore

	// Less popular means more discoverable.
	if track.Popularity != nil {
		score += float64(100-*track.Popularity) / 200
	}

	if artistID := track.PrimaryArtistID(); artistID != "" {
		if artist, err := s.artist(ctx, artistID); err != nil {
			s.log.Warn().Err(err).Str("artist", artistID).Msg("artist lookup failed; skipping artist factors")
		} else {
			if artist.Popularity != nil {
				score += float64(100-*artist.Popularity) / 200
			}
			overlap := 0
			for _, genre := range artist.Genres {
				if _, ok := profile.TopGenres[strings.ToLower(genre)]; ok {
					overlap++
				}
			}
			score -= genreOverlapWeight * float64(overlap)
		}
	}

	if _, ok := profile.RecentTrackIDs[track.ID]; ok {
		score -= recentPlayPenalty
	}

	if s.inUserPlaylist(ctx, track.ID) {
		score -= playlistPenalty
	}

	return clamp01(score)
}

// artist fetches artist metadata through the request cache.
func (s *Scorer) artist(ctx context.Context, id string) (domain.Artist, error) {
	cacheKey := "artist:" + id
	if v, ok := s.cache.Get(cacheKey); ok {
		return v.(domain.Artist), nil
	}

	artist, err := s.catalog.Artist(ctx, id)
	if err != nil {
		return domain.Artist{}, err
	}
	s.cache.Put(cacheKey, artist, artistCacheTTL)
	return artist, nil
}

// inUserPlaylist scans the listener's playlists for the track, stopping at
// the first hit. Any lookup failure counts as "not present".
func (s *Scorer) inUserPlaylist(ctx context.Context, trackID string) bool {
	playlists, err := s.playlists(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("playlist listing failed; skipping playlist penalty")
		return false
	}

	for _, pl := range playlists {
		if pl.TrackTotal == 0 {
			continue
		}
		ids, err := s.playlistTrackIDs(ctx, pl.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("playlist", pl.ID).Msg("playlist tracks lookup failed; skipping")
			continue
		}
		if _, ok := ids[trackID]; ok {
			return true
		}
	}
	return false
}

func (s *Scorer) playlists(ctx context.Context) ([]domain.PlaylistRef, error) {
	if v, ok := s.cache.Get("playlists"); ok {
		return v.([]domain.PlaylistRef), nil
	}
	playlists, err := s.catalog.Playlists(ctx, playlistScanLimit)
	if err != nil {
		return nil, err
	}
	s.cache.Put("playlists", playlists, playlistCacheTTL)
	return playlists, nil
}

func (s *Scorer) playlistTrackIDs(ctx context.Context, playlistID string) (map[string]struct{}, error) {
	cacheKey := "playlist_tracks:" + playlistID
	if v, ok := s.cache.Get(cacheKey); ok {
		return v.(map[string]struct{}), nil
	}

	ids, err := s.catalog.PlaylistTrackIDs(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	s.cache.Put(cacheKey, set, playlistCacheTTL)
	return set, nil
}

// GenreCount pairs a genre with how many top artists carry it.
type GenreCount struct {
	Name  string
	Count int
}

// TopGenres tallies genres across artists and returns the most common, ties
// broken alphabetically for stable output.
func TopGenres(artists []domain.Artist, limit int) []GenreCount {
	counts := map[string]int{}
	for _, a := range artists {
		for _, g := range a.Genres {
			counts[g]++
		}
	}

	out := make([]GenreCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, GenreCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
