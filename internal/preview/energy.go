// Package preview derives a rough energy estimate from a track's preview
// clip. It is a best-effort fallback for tracks the catalog has no feature
// vector for; callers skip silently on any failure.
package preview

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// Prober fetches and decodes preview clips.
type Prober struct {
	httpClient *http.Client
}

func NewProber() *Prober {
	return &Prober{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Energy downloads the MP3 preview and returns the RMS amplitude of its
// samples normalized to [0,1].
func (p *Prober) Energy(ctx context.Context, url string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("preview request failed: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("preview fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("preview fetch status %d", resp.StatusCode)
	}

	decoder, err := mp3.NewDecoder(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("preview decode failed: %w", err)
	}

	buf := make([]byte, 4096)
	var sumSquares float64
	var count float64

	for {
		n, err := decoder.Read(buf)
		if n > 0 {
			for i := 0; i+1 < n; i += 2 {
				sample := int16(buf[i]) | int16(buf[i+1])<<8
				val := float64(sample)
				sumSquares += val * val
				count++
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return 0, fmt.Errorf("preview read failed: %w", err)
		}
	}

	if count == 0 {
		return 0, fmt.Errorf("preview contains no samples")
	}

	rms := math.Sqrt(sumSquares / count)
	energy := rms / 32768.0
	if energy < 0 {
		energy = 0
	}
	if energy > 1 {
		energy = 1
	}

	return energy, nil
}
