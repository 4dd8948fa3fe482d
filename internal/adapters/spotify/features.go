package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
)

// AudioFeatures fetches raw feature vectors for up to featureBatchSize track
// IDs in a single call. Tracks the catalog has never analyzed come back as
// null and are absent from the result.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) (map[string]domain.AudioFeatures, error) {
	if len(ids) == 0 {
		return map[string]domain.AudioFeatures{}, nil
	}
	if len(ids) > featureBatchSize {
		return nil, fmt.Errorf("spotify adapter: audio features batch of %d exceeds %d", len(ids), featureBatchSize)
	}

	u, err := url.Parse(c.baseURL + "/audio-features")
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid features url: %w", err)
	}
	q := u.Query()
	q.Set("ids", strings.Join(ids, ","))
	u.RawQuery = q.Encode()

	var body struct {
		AudioFeatures []*wireFeatures `json:"audio_features"`
	}
	if err := c.getJSON(ctx, u.String(), &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: audio features: %w", err)
	}

	result := make(map[string]domain.AudioFeatures, len(body.AudioFeatures))
	for _, wf := range body.AudioFeatures {
		if wf == nil || wf.ID == "" {
			continue
		}
		result[wf.ID] = mapFeatures(*wf)
	}
	return result, nil
}
