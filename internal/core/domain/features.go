package domain

// AudioFeatures is the raw per-track feature vector supplied by the catalog.
// Valence, energy, danceability, acousticness and instrumentalness are in
// [0,1]; loudness is in dB (negative); tempo is BPM. Treated as immutable
// input once mapped at the adapter boundary.
type AudioFeatures struct {
	Valence          float64
	Energy           float64
	Danceability     float64
	Acousticness     float64
	Instrumentalness float64
	Loudness         float64
	Tempo            float64
	Key              int
	Mode             int
	TimeSignature    int
}

// IsZero reports whether the vector carries no signal at all. The catalog
// returns all-zero rows for tracks it has never analyzed.
func (f AudioFeatures) IsZero() bool {
	return f.Valence == 0 &&
		f.Energy == 0 &&
		f.Danceability == 0 &&
		f.Acousticness == 0 &&
		f.Instrumentalness == 0 &&
		f.Loudness == 0 &&
		f.Tempo == 0
}
