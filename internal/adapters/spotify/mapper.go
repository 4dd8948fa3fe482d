package spotify

import (
	"github.com/PoliTwit1984/playlistai/internal/core/domain"
)

// mapTrack converts a raw catalog track to a domain track. The boolean is
// false for malformed payloads (no ID), which callers drop instead of
// propagating untyped junk into scoring.
func mapTrack(wt wireTrack) (domain.Track, bool) {
	if wt.ID == "" {
		return domain.Track{}, false
	}

	names := make([]string, 0, len(wt.Artists))
	ids := make([]string, 0, len(wt.Artists))
	for _, a := range wt.Artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
		if a.ID != "" {
			ids = append(ids, a.ID)
		}
	}

	return domain.Track{
		ID:         wt.ID,
		Name:       wt.Name,
		Artists:    names,
		ArtistIDs:  ids,
		Popularity: wt.Popularity,
		PreviewURL: wt.PreviewURL,
	}, true
}

func mapTracks(wts []wireTrack) []domain.Track {
	out := make([]domain.Track, 0, len(wts))
	for _, wt := range wts {
		if t, ok := mapTrack(wt); ok {
			out = append(out, t)
		}
	}
	return out
}

func mapArtist(wa wireArtist) (domain.Artist, bool) {
	if wa.ID == "" {
		return domain.Artist{}, false
	}
	return domain.Artist{
		ID:         wa.ID,
		Name:       wa.Name,
		Genres:     wa.Genres,
		Popularity: wa.Popularity,
	}, true
}

func mapFeatures(wf wireFeatures) domain.AudioFeatures {
	return domain.AudioFeatures{
		Valence:          wf.Valence,
		Energy:           wf.Energy,
		Danceability:     wf.Danceability,
		Acousticness:     wf.Acousticness,
		Instrumentalness: wf.Instrumentalness,
		Loudness:         wf.Loudness,
		Tempo:            wf.Tempo,
		Key:              wf.Key,
		Mode:             wf.Mode,
		TimeSignature:    wf.TimeSignature,
	}
}
