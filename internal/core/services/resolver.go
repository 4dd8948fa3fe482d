package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
	"github.com/PoliTwit1984/playlistai/internal/core/ports"
)

// Resolver maps recommended (name, artist) pairs back to catalog track IDs
// with a two-stage search: an exact field-qualified query first, then a
// relaxed free-text query. Resolution is best-effort; a track with no hit in
// either stage is logged and dropped, never silently lost.
type Resolver struct {
	catalog ports.CatalogProvider
	log     zerolog.Logger
}

func NewResolver(catalog ports.CatalogProvider, log zerolog.Logger) *Resolver {
	return &Resolver{
		catalog: catalog,
		log:     log.With().Str("component", "resolver").Logger(),
	}
}

// Resolve returns the catalog IDs for the recommendations it could match, in
// input order. Catalog errors other than rate limiting (absorbed by the
// gateway) propagate: a systemic failure should not be masked per track.
func (r *Resolver) Resolve(ctx context.Context, recs []domain.RecommendedTrack) ([]string, error) {
	var ids []string
	for _, rec := range recs {
		exactQuery := fmt.Sprintf("track:%s artist:%s", rec.Name, rec.Artist)
		hits, err := r.catalog.SearchTracks(ctx, exactQuery, 1)
		if err != nil {
			r.log.Error().Err(err).Str("name", rec.Name).Str("artist", rec.Artist).Msg("exact search failed")
			return ids, fmt.Errorf("resolver: exact search for %q by %q: %w", rec.Name, rec.Artist, err)
		}

		if len(hits) == 0 {
			relaxedQuery := rec.Name + " " + rec.Artist
			hits, err = r.catalog.SearchTracks(ctx, relaxedQuery, 1)
			if err != nil {
				r.log.Error().Err(err).Str("name", rec.Name).Str("artist", rec.Artist).Msg("relaxed search failed")
				return ids, fmt.Errorf("resolver: relaxed search for %q by %q: %w", rec.Name, rec.Artist, err)
			}
		}

		if len(hits) == 0 {
			r.log.Warn().Str("name", rec.Name).Str("artist", rec.Artist).Msg("track not found in catalog")
			continue
		}

		found := hits[0]
		r.log.Debug().Str("name", found.Name).Str("artist", found.PrimaryArtist()).Str("id", found.ID).Msg("track resolved")
		ids = append(ids, found.ID)
	}

	r.log.Info().Int("resolved", len(ids)).Int("requested", len(recs)).Msg("resolution finished")
	return ids, nil
}
