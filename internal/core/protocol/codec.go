// Package protocol owns the textual contract with the generative text
// service: building the instruction prompt and decoding the fenced JSON
// block the reply must carry. Parsing never fails past this boundary; a
// malformed reply degrades to an empty, detectable result.
package protocol

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
)

// SystemPrompt frames every exchange with the text service.
const SystemPrompt = "You are a music expert AI assistant, skilled in creating personalized playlists."

// maxTracksPerSubset caps how many candidate tracks of each subset are
// embedded in the prompt.
const maxTracksPerSubset = 50

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Codec builds prompts and parses replies.
type Codec struct {
	log zerolog.Logger
}

func NewCodec(log zerolog.Logger) *Codec {
	return &Codec{log: log.With().Str("component", "protocol").Logger()}
}

// ParsedResponse is the typed form of a reply's structured block plus its
// trailing prose.
type ParsedResponse struct {
	Tracks      []domain.RecommendedTrack
	Description string
	Explanation string
}

// BuildPrompt renders the instruction embedding the listener's preferences,
// the candidate pool and the requested track count.
func (c *Codec) BuildPrompt(prefs domain.UserPreferences, familiar, discovery []domain.Track, numTracks int) string {
	var b strings.Builder

	b.WriteString("As a music expert AI assistant, create a personalized playlist based on the following preferences:\n")
	fmt.Fprintf(&b, "- Current mood: %d (0-100, where 0 is very negative and 100 is very positive)\n", prefs.Mood)
	fmt.Fprintf(&b, "- Desired mood: %d (0-100, same scale as current mood)\n", prefs.DesiredMood)
	fmt.Fprintf(&b, "- Activity: %s\n", prefs.Activity)
	fmt.Fprintf(&b, "- Energy level: %d (0-100, where 0 is very low energy and 100 is very high energy)\n", prefs.EnergyLevel)
	fmt.Fprintf(&b, "- Time of day: %s\n", prefs.TimeOfDay)
	fmt.Fprintf(&b, "- Discovery level: %.2f (0 = only familiar tracks, 1 = maximum discovery)\n", prefs.DiscoveryRatio())
	fmt.Fprintf(&b, "- Playlist description: %s\n\n", prefs.Description)

	writeTrackList(&b, "Familiar tracks to consider:", familiar)
	writeTrackList(&b, "Discovery tracks to consider:", discovery)

	fmt.Fprintf(&b, "Provide a list of %d tracks that best match these preferences, considering both familiar and discovery tracks.\n", numTracks)
	b.WriteString("The response should be in the following JSON format:\n\n")
	b.WriteString("```json\n")
	b.WriteString("{\n")
	b.WriteString("    \"playlist_description\": \"A brief description of the playlist, explaining how it meets the user's preferences\",\n")
	b.WriteString("    \"tracks\": [\n")
	b.WriteString("        {\n")
	b.WriteString("            \"name\": \"Track Name\",\n")
	b.WriteString("            \"artist\": \"Artist Name\",\n")
	b.WriteString("            \"reason\": \"A brief explanation of why this track was chosen and how it fits the playlist\"\n")
	b.WriteString("        }\n")
	b.WriteString("    ]\n")
	b.WriteString("}\n")
	b.WriteString("```\n\n")
	b.WriteString("After the JSON block, add a short free-form explanation of the playlist as a whole.\n")

	return b.String()
}

func writeTrackList(b *strings.Builder, heading string, tracks []domain.Track) {
	if len(tracks) == 0 {
		return
	}
	b.WriteString(heading)
	b.WriteByte('\n')
	n := len(tracks)
	if n > maxTracksPerSubset {
		n = maxTracksPerSubset
	}
	for _, t := range tracks[:n] {
		fmt.Fprintf(b, "- %s by %s\n", t.Name, t.ArtistLine())
	}
	b.WriteByte('\n')
}

// ParseResponse isolates the first fenced JSON block and decodes it. A reply
// with no fence, or an undecodable block, yields an empty result; the
// explanation is everything after the last fence marker, trimmed.
func (c *Codec) ParseResponse(raw string) ParsedResponse {
	empty := ParsedResponse{Tracks: []domain.RecommendedTrack{}}

	match := fencedJSON.FindStringSubmatch(raw)
	if match == nil {
		c.log.Warn().Msg("no fenced JSON block in response")
		return empty
	}

	var payload struct {
		PlaylistDescription string                    `json:"playlist_description"`
		Tracks              []domain.RecommendedTrack `json:"tracks"`
	}
	if err := json.Unmarshal([]byte(match[1]), &payload); err != nil {
		c.log.Warn().Err(err).Msg("undecodable JSON block in response")
		return empty
	}

	explanation := ""
	if idx := strings.LastIndex(raw, "```"); idx != -1 {
		explanation = strings.TrimSpace(raw[idx+3:])
	}

	tracks := payload.Tracks
	if tracks == nil {
		tracks = []domain.RecommendedTrack{}
	}

	c.log.Info().Int("tracks", len(tracks)).Msg("parsed recommendation response")
	return ParsedResponse{
		Tracks:      tracks,
		Description: payload.PlaylistDescription,
		Explanation: explanation,
	}
}
