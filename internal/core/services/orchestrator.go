package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/PoliTwit1984/playlistai/internal/cache"
	"github.com/PoliTwit1984/playlistai/internal/core/domain"
	"github.com/PoliTwit1984/playlistai/internal/core/ports"
	"github.com/PoliTwit1984/playlistai/internal/core/protocol"
)

// Session keys for the per-request scratch state.
const (
	keyPreferences = "form_data"
	keyTrackPool   = "track_pool"
	keyRecommended = "recommended_tracks"
	keyDescription = "ai_playlist_description"
	keyExplanation = "explanation"
)

const (
	// poolCap bounds the combined candidate pool handed to the codec.
	poolCap = 200
	// descriptionLimit is the catalog's playlist description length cap.
	descriptionLimit = 300
)

// Orchestrator drives the pipeline: preferences in, aggregated pool,
// generated recommendations, saved playlist. One instance serves one user
// request; its cache is request-scoped by construction.
type Orchestrator struct {
	catalog    ports.CatalogProvider
	llm        ports.Recommender
	sessions   ports.SessionStore
	codec      *protocol.Codec
	aggregator *Aggregator
	resolver   *Resolver
	validate   *validator.Validate
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewOrchestrator(
	catalog ports.CatalogProvider,
	llm ports.Recommender,
	sessions ports.SessionStore,
	probe PreviewProber,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *Orchestrator {
	requestCache := cache.New()
	scorer := NewScorer(catalog, requestCache, log)

	return &Orchestrator{
		catalog:    catalog,
		llm:        llm,
		sessions:   sessions,
		codec:      protocol.NewCodec(log),
		aggregator: NewAggregator(catalog, scorer, probe, log),
		resolver:   NewResolver(catalog, log),
		validate:   validator.New(),
		sessionTTL: sessionTTL,
		log:        log.With().Str("component", "orchestrator").Logger(),
	}
}

// SavePreferences validates and stores the listener's playlist request.
func (o *Orchestrator) SavePreferences(ctx context.Context, sessionID string, prefs domain.UserPreferences) error {
	if err := o.validate.Struct(prefs); err != nil {
		return fmt.Errorf("service: invalid preferences: %w", err)
	}
	if err := o.sessions.Put(ctx, sessionID, keyPreferences, prefs, o.sessionTTL); err != nil {
		return fmt.Errorf("service: store preferences: %w", err)
	}
	return nil
}

// PoolSummary is what the caller shows after aggregation.
type PoolSummary struct {
	Total          int            `json:"total"`
	FamiliarCount  int            `json:"familiar_count"`
	DiscoveryCount int            `json:"discovery_count"`
	Sample         []domain.Track `json:"sample"`
}

// FindTracks aggregates the candidate pool for the stored preferences, caps
// it, and stashes it in the session.
func (o *Orchestrator) FindTracks(ctx context.Context, sessionID string) (PoolSummary, error) {
	var prefs domain.UserPreferences
	if err := o.sessions.Get(ctx, sessionID, keyPreferences, &prefs); err != nil {
		return PoolSummary{}, fmt.Errorf("service: load preferences: %w", err)
	}

	pool, err := o.aggregator.BuildPool(ctx, prefs)
	if err != nil {
		return PoolSummary{}, fmt.Errorf("service: build pool: %w", err)
	}
	pool = capPool(pool, prefs.DiscoveryRatio())

	if err := o.sessions.Put(ctx, sessionID, keyTrackPool, pool, o.sessionTTL); err != nil {
		return PoolSummary{}, fmt.Errorf("service: store pool: %w", err)
	}

	sample := pool.All()
	if len(sample) > 10 {
		sample = sample[:10]
	}
	return PoolSummary{
		Total:          pool.Size(),
		FamiliarCount:  len(pool.Familiar),
		DiscoveryCount: len(pool.Discovery),
		Sample:         sample,
	}, nil
}

// capPool trims the combined pool to poolCap, keeping the discovery share
// close to the requested ratio.
func capPool(pool TrackPool, discoveryRatio float64) TrackPool {
	if pool.Size() <= poolCap {
		return pool
	}

	discoveryKeep := int(float64(poolCap) * discoveryRatio)
	if discoveryKeep > len(pool.Discovery) {
		discoveryKeep = len(pool.Discovery)
	}
	familiarKeep := poolCap - discoveryKeep
	if familiarKeep > len(pool.Familiar) {
		familiarKeep = len(pool.Familiar)
		discoveryKeep = poolCap - familiarKeep
	}

	return TrackPool{
		Familiar:  pool.Familiar[:familiarKeep],
		Discovery: pool.Discovery[:discoveryKeep],
	}
}

// GeneratedPlaylist is the codec's typed output stored for preview.
type GeneratedPlaylist struct {
	Tracks      []domain.RecommendedTrack `json:"tracks"`
	Description string                    `json:"description"`
	Explanation string                    `json:"explanation"`
}

// GeneratePlaylist sends the pool and preferences to the text service and
// parses its reply. A malformed reply yields an empty (not failed) playlist.
func (o *Orchestrator) GeneratePlaylist(ctx context.Context, sessionID string) (GeneratedPlaylist, error) {
	var prefs domain.UserPreferences
	if err := o.sessions.Get(ctx, sessionID, keyPreferences, &prefs); err != nil {
		return GeneratedPlaylist{}, fmt.Errorf("service: load preferences: %w", err)
	}
	var pool TrackPool
	if err := o.sessions.Get(ctx, sessionID, keyTrackPool, &pool); err != nil {
		return GeneratedPlaylist{}, fmt.Errorf("service: load pool: %w", err)
	}

	prompt := o.codec.BuildPrompt(prefs, pool.Familiar, pool.Discovery, prefs.Duration)
	raw, err := o.llm.Complete(ctx, protocol.SystemPrompt, prompt)
	if err != nil {
		return GeneratedPlaylist{}, fmt.Errorf("service: recommendation request: %w", err)
	}

	parsed := o.codec.ParseResponse(raw)
	result := GeneratedPlaylist{
		Tracks:      parsed.Tracks,
		Description: parsed.Description,
		Explanation: parsed.Explanation,
	}

	if err := o.sessions.Put(ctx, sessionID, keyRecommended, result.Tracks, o.sessionTTL); err != nil {
		return GeneratedPlaylist{}, fmt.Errorf("service: store recommendations: %w", err)
	}
	if err := o.sessions.Put(ctx, sessionID, keyDescription, result.Description, o.sessionTTL); err != nil {
		return GeneratedPlaylist{}, fmt.Errorf("service: store description: %w", err)
	}
	if err := o.sessions.Put(ctx, sessionID, keyExplanation, result.Explanation, o.sessionTTL); err != nil {
		return GeneratedPlaylist{}, fmt.Errorf("service: store explanation: %w", err)
	}

	return result, nil
}

// SavedPlaylist describes the created catalog playlist.
type SavedPlaylist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"track_count"`
}

// SavePlaylist resolves the stored recommendations and writes them to a new
// private playlist, batching additions to the catalog's per-call cap.
func (o *Orchestrator) SavePlaylist(ctx context.Context, sessionID string) (SavedPlaylist, error) {
	var prefs domain.UserPreferences
	if err := o.sessions.Get(ctx, sessionID, keyPreferences, &prefs); err != nil {
		return SavedPlaylist{}, fmt.Errorf("service: load preferences: %w", err)
	}
	var recs []domain.RecommendedTrack
	if err := o.sessions.Get(ctx, sessionID, keyRecommended, &recs); err != nil {
		return SavedPlaylist{}, fmt.Errorf("service: load recommendations: %w", err)
	}
	var description string
	if err := o.sessions.Get(ctx, sessionID, keyDescription, &description); err != nil {
		return SavedPlaylist{}, fmt.Errorf("service: load description: %w", err)
	}

	ids, err := o.resolver.Resolve(ctx, recs)
	if err != nil {
		return SavedPlaylist{}, err
	}

	user, err := o.catalog.CurrentUser(ctx)
	if err != nil {
		return SavedPlaylist{}, fmt.Errorf("service: current user: %w", err)
	}

	name := playlistName(prefs)
	if len(description) > descriptionLimit {
		description = description[:descriptionLimit]
	}

	ref, err := o.catalog.CreatePlaylist(ctx, user.ID, name, description)
	if err != nil {
		return SavedPlaylist{}, fmt.Errorf("service: create playlist: %w", err)
	}

	for start := 0; start < len(ids); start += 100 {
		end := start + 100
		if end > len(ids) {
			end = len(ids)
		}
		if err := o.catalog.AddPlaylistTracks(ctx, ref.ID, ids[start:end]); err != nil {
			return SavedPlaylist{}, fmt.Errorf("service: add tracks: %w", err)
		}
	}

	o.log.Info().Str("playlist", ref.ID).Int("tracks", len(ids)).Msg("playlist saved")
	return SavedPlaylist{ID: ref.ID, Name: ref.Name, TrackCount: len(ids)}, nil
}

func playlistName(prefs domain.UserPreferences) string {
	activity := strings.TrimSpace(prefs.Activity)
	if activity == "" {
		activity = "Custom"
	} else {
		activity = strings.ToUpper(activity[:1]) + activity[1:]
	}
	return fmt.Sprintf("MoodWave: %s - %d Energy", activity, prefs.EnergyLevel)
}

// AutocompleteArtists suggests artist names for a partial query.
func (o *Orchestrator) AutocompleteArtists(ctx context.Context, query string) ([]string, error) {
	artists, err := o.catalog.SearchArtists(ctx, query, 5)
	if err != nil {
		return nil, fmt.Errorf("service: artist autocomplete: %w", err)
	}
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return names, nil
}

// AutocompleteGenres filters the catalog's genre vocabulary by substring.
func (o *Orchestrator) AutocompleteGenres(ctx context.Context, query string) ([]string, error) {
	genres, err := o.catalog.GenreSeeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: genre autocomplete: %w", err)
	}

	needle := strings.ToLower(query)
	var matched []string
	for _, g := range genres {
		if strings.Contains(strings.ToLower(g), needle) {
			matched = append(matched, g)
			if len(matched) == 5 {
				break
			}
		}
	}
	return matched, nil
}
