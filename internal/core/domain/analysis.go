package domain

// Tempo categories, ordered slowest to fastest.
const (
	TempoVerySlow = "Very Slow"
	TempoSlow     = "Slow"
	TempoModerate = "Moderate"
	TempoFast     = "Fast"
	TempoVeryFast = "Very Fast"
)

// Time-of-day labels suggested by the analyzer.
const (
	TimeMorning   = "Morning"
	TimeAfternoon = "Afternoon"
	TimeEvening   = "Evening"
	TimeNight     = "Night"
)

// MoodScores are derived mood descriptors, each on a 0-100 scale.
type MoodScores struct {
	Happiness  float64
	Energy     float64
	Relaxation float64
	Intensity  float64
}

// AudioAnalysis is the semantic reading of a raw feature vector. Computed
// once per track and immutable afterwards.
type AudioAnalysis struct {
	Mood               MoodScores
	SuitableActivities []string
	BestTimeOfDay      string
	Danceability       float64 // percent
	Acousticness       float64 // percent
	Instrumentalness   float64 // percent
	TempoCategory      string
	Tempo              float64
	Key                int
	Mode               int
	TimeSignature      int
}

// AnalyzeFeatures turns a raw feature vector into semantic descriptors.
// Pure function, no I/O.
func AnalyzeFeatures(f AudioFeatures) AudioAnalysis {
	return AudioAnalysis{
		Mood: MoodScores{
			Happiness:  (f.Valence*0.6 + f.Energy*0.4) * 100,
			Energy:     f.Energy * 100,
			Relaxation: ((1-f.Energy)*0.5 + f.Acousticness*0.3 + (1-f.Loudness/-60)*0.2) * 100,
			Intensity:  (f.Energy*0.4 + f.Loudness/-60*0.3 + f.Tempo/200*0.3) * 100,
		},
		SuitableActivities: suggestActivities(f),
		BestTimeOfDay:      suggestTimeOfDay(f),
		Danceability:       f.Danceability * 100,
		Acousticness:       f.Acousticness * 100,
		Instrumentalness:   f.Instrumentalness * 100,
		TempoCategory:      CategorizeTempo(f.Tempo),
		Tempo:              f.Tempo,
		Key:                f.Key,
		Mode:               f.Mode,
		TimeSignature:      f.TimeSignature,
	}
}

// CategorizeTempo buckets a BPM value into one of five fixed bands.
func CategorizeTempo(tempo float64) string {
	switch {
	case tempo < 60:
		return TempoVerySlow
	case tempo < 90:
		return TempoSlow
	case tempo < 120:
		return TempoModerate
	case tempo < 150:
		return TempoFast
	default:
		return TempoVeryFast
	}
}

func suggestActivities(f AudioFeatures) []string {
	var activities []string
	if f.Danceability > 0.7 {
		activities = append(activities, "Dancing")
	}
	if f.Energy > 0.8 {
		activities = append(activities, "Working Out")
	}
	if f.Acousticness > 0.7 {
		activities = append(activities, "Relaxing")
	}
	if f.Instrumentalness > 0.5 {
		activities = append(activities, "Studying")
	}
	if f.Valence > 0.7 {
		activities = append(activities, "Partying")
	}
	if len(activities) == 0 {
		activities = append(activities, "General Listening")
	}
	return activities
}

// suggestTimeOfDay is an ordered rule chain; the first matching rule wins.
func suggestTimeOfDay(f AudioFeatures) string {
	switch {
	case f.Energy > 0.7 && f.Valence > 0.7:
		return TimeMorning
	case f.Energy > 0.5 && f.Valence > 0.5:
		return TimeAfternoon
	case f.Energy < 0.4 && f.Valence < 0.4:
		return TimeNight
	default:
		return TimeEvening
	}
}
