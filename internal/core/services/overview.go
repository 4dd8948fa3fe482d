package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
	"github.com/PoliTwit1984/playlistai/internal/core/ports"
)

const (
	overviewArtistLimit = 10
	overviewGenreLimit  = 10
	overviewRecentLimit = 20
	waybackLimit        = 10
	waybackRecentScan   = 200
	waybackSavedScan    = 500
)

// ListenerOverview summarizes the listener's taste for the profile view.
type ListenerOverview struct {
	User          domain.UserProfile `json:"user"`
	TopArtists    []domain.Artist    `json:"top_artists"`
	TopGenres     []GenreCount       `json:"top_genres"`
	RecentTracks  []domain.Track     `json:"recent_tracks"`
	WaybackTracks []domain.Track     `json:"wayback_tracks"`
}

// Overview assembles the profile view. Wayback lookup is best-effort; its
// failure empties that section rather than failing the whole view.
func (o *Orchestrator) Overview(ctx context.Context) (ListenerOverview, error) {
	user, err := o.catalog.CurrentUser(ctx)
	if err != nil {
		return ListenerOverview{}, fmt.Errorf("service: current user: %w", err)
	}

	artists, err := o.catalog.TopArtists(ctx, overviewArtistLimit)
	if err != nil {
		return ListenerOverview{}, fmt.Errorf("service: top artists: %w", err)
	}

	recent, err := o.catalog.RecentlyPlayed(ctx, overviewRecentLimit)
	if err != nil {
		return ListenerOverview{}, fmt.Errorf("service: recently played: %w", err)
	}

	wayback, err := o.waybackTracks(ctx, waybackLimit)
	if err != nil {
		o.log.Warn().Err(err).Msg("wayback lookup failed")
		wayback = nil
	}

	return ListenerOverview{
		User:          user,
		TopArtists:    artists,
		TopGenres:     TopGenres(artists, overviewGenreLimit),
		RecentTracks:  recent,
		WaybackTracks: wayback,
	}, nil
}

// waybackTracks surfaces library tracks the listener has not played lately.
// Half come from the oldest saves, the rest are sampled at random, so the
// result mixes deep cuts with mid-library rediscoveries.
func (o *Orchestrator) waybackTracks(ctx context.Context, limit int) ([]domain.Track, error) {
	recent, err := o.catalog.RecentlyPlayed(ctx, waybackRecentScan)
	if err != nil {
		return nil, fmt.Errorf("service: recently played: %w", err)
	}
	recentIDs := make(map[string]struct{}, len(recent))
	for _, t := range recent {
		recentIDs[t.ID] = struct{}{}
	}

	saved, err := o.catalog.SavedTracks(ctx, waybackSavedScan)
	if err != nil {
		return nil, fmt.Errorf("service: saved tracks: %w", err)
	}

	var candidates []ports.SavedTrack
	for _, st := range saved {
		if _, played := recentIDs[st.Track.ID]; played {
			continue
		}
		candidates = append(candidates, st)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AddedAt.Before(candidates[j].AddedAt)
	})

	numOld := limit / 2
	if numOld > len(candidates) {
		numOld = len(candidates)
	}

	picked := make([]domain.Track, 0, limit)
	for _, st := range candidates[:numOld] {
		picked = append(picked, st.Track)
	}

	rest := candidates[numOld:]
	rng := rand.New(rand.NewSource(waybackSeed(candidates)))
	rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	for _, st := range rest {
		if len(picked) == limit {
			break
		}
		picked = append(picked, st.Track)
	}

	rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	return picked, nil
}

// waybackSeed derives a stable seed from the candidate set so repeated views
// of an unchanged library show the same picks.
func waybackSeed(candidates []ports.SavedTrack) int64 {
	h := fnv.New64a()
	for _, st := range candidates {
		h.Write([]byte(st.Track.ID))
	}
	return int64(h.Sum64())
}
