package services

import (
	"hash/fnv"
	"math/rand"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
)

// syntheticFeatures produces a deterministic, track-ID-seeded feature vector
// for tracks the catalog has no analysis for. The preview probe overwrites
// the energy with a measured value when a clip is available.
func syntheticFeatures(trackID string) domain.AudioFeatures {
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(trackID))
	seed := int64(hasher.Sum32())
	// Deterministic RNG keyed on the track ID, not security-sensitive.
	rng := rand.New(rand.NewSource(seed))

	between := func(min, max float64) float64 {
		return min + rng.Float64()*(max-min)
	}

	return domain.AudioFeatures{
		Valence:          between(0.1, 0.9),
		Energy:           between(0.1, 0.9),
		Danceability:     between(0.1, 0.9),
		Acousticness:     between(0.1, 0.9),
		Instrumentalness: between(0.1, 0.9),
		Loudness:         between(-30, -5),
		Tempo:            between(60, 180),
		Key:              rng.Intn(12),
		Mode:             rng.Intn(2),
		TimeSignature:    4,
	}
}
