package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
	"github.com/PoliTwit1984/playlistai/internal/core/ports"
)

// stubCatalog implements the catalog port with per-method hooks. Methods
// without a hook return empty results so tests only wire what they assert.
type stubCatalog struct {
	searchTracks     func(ctx context.Context, query string, limit int) ([]domain.Track, error)
	searchArtists    func(ctx context.Context, query string, limit int) ([]domain.Artist, error)
	topTracks        func(ctx context.Context, limit int) ([]domain.Track, error)
	recentlyPlayed   func(ctx context.Context, limit int) ([]domain.Track, error)
	savedTracks      func(ctx context.Context, limit int) ([]ports.SavedTrack, error)
	topArtists       func(ctx context.Context, limit int) ([]domain.Artist, error)
	artist           func(ctx context.Context, id string) (domain.Artist, error)
	artistTopTracks  func(ctx context.Context, id string) ([]domain.Track, error)
	newReleases      func(ctx context.Context, limit int) ([]domain.Album, error)
	albumTracks      func(ctx context.Context, id string) ([]domain.Track, error)
	audioFeatures    func(ctx context.Context, ids []string) (map[string]domain.AudioFeatures, error)
	playlists        func(ctx context.Context, limit int) ([]domain.PlaylistRef, error)
	playlistTrackIDs func(ctx context.Context, playlistID string) ([]string, error)
	currentUser      func(ctx context.Context) (domain.UserProfile, error)
	genreSeeds       func(ctx context.Context) ([]string, error)
	createPlaylist   func(ctx context.Context, userID, name, description string) (domain.PlaylistRef, error)
	addTracks        func(ctx context.Context, playlistID string, trackIDs []string) error
}

var _ ports.CatalogProvider = (*stubCatalog)(nil)

func (s *stubCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	if s.searchTracks == nil {
		return nil, nil
	}
	return s.searchTracks(ctx, query, limit)
}

func (s *stubCatalog) SearchArtists(ctx context.Context, query string, limit int) ([]domain.Artist, error) {
	if s.searchArtists == nil {
		return nil, nil
	}
	return s.searchArtists(ctx, query, limit)
}

func (s *stubCatalog) TopTracks(ctx context.Context, limit int) ([]domain.Track, error) {
	if s.topTracks == nil {
		return nil, nil
	}
	return s.topTracks(ctx, limit)
}

func (s *stubCatalog) RecentlyPlayed(ctx context.Context, limit int) ([]domain.Track, error) {
	if s.recentlyPlayed == nil {
		return nil, nil
	}
	return s.recentlyPlayed(ctx, limit)
}

func (s *stubCatalog) SavedTracks(ctx context.Context, limit int) ([]ports.SavedTrack, error) {
	if s.savedTracks == nil {
		return nil, nil
	}
	return s.savedTracks(ctx, limit)
}

func (s *stubCatalog) TopArtists(ctx context.Context, limit int) ([]domain.Artist, error) {
	if s.topArtists == nil {
		return nil, nil
	}
	return s.topArtists(ctx, limit)
}

func (s *stubCatalog) Artist(ctx context.Context, id string) (domain.Artist, error) {
	if s.artist == nil {
		return domain.Artist{}, domain.ErrNotFound
	}
	return s.artist(ctx, id)
}

func (s *stubCatalog) ArtistTopTracks(ctx context.Context, id string) ([]domain.Track, error) {
	if s.artistTopTracks == nil {
		return nil, nil
	}
	return s.artistTopTracks(ctx, id)
}

func (s *stubCatalog) NewReleases(ctx context.Context, limit int) ([]domain.Album, error) {
	if s.newReleases == nil {
		return nil, nil
	}
	return s.newReleases(ctx, limit)
}

func (s *stubCatalog) AlbumTracks(ctx context.Context, id string) ([]domain.Track, error) {
	if s.albumTracks == nil {
		return nil, nil
	}
	return s.albumTracks(ctx, id)
}

func (s *stubCatalog) AudioFeatures(ctx context.Context, ids []string) (map[string]domain.AudioFeatures, error) {
	if s.audioFeatures == nil {
		return map[string]domain.AudioFeatures{}, nil
	}
	return s.audioFeatures(ctx, ids)
}

func (s *stubCatalog) Playlists(ctx context.Context, limit int) ([]domain.PlaylistRef, error) {
	if s.playlists == nil {
		return nil, nil
	}
	return s.playlists(ctx, limit)
}

func (s *stubCatalog) PlaylistTrackIDs(ctx context.Context, playlistID string) ([]string, error) {
	if s.playlistTrackIDs == nil {
		return nil, nil
	}
	return s.playlistTrackIDs(ctx, playlistID)
}

func (s *stubCatalog) CurrentUser(ctx context.Context) (domain.UserProfile, error) {
	if s.currentUser == nil {
		return domain.UserProfile{ID: "user-1", DisplayName: "Test Listener"}, nil
	}
	return s.currentUser(ctx)
}

func (s *stubCatalog) GenreSeeds(ctx context.Context) ([]string, error) {
	if s.genreSeeds == nil {
		return nil, nil
	}
	return s.genreSeeds(ctx)
}

func (s *stubCatalog) CreatePlaylist(ctx context.Context, userID, name, description string) (domain.PlaylistRef, error) {
	if s.createPlaylist == nil {
		return domain.PlaylistRef{ID: "pl-1", Name: name}, nil
	}
	return s.createPlaylist(ctx, userID, name, description)
}

func (s *stubCatalog) AddPlaylistTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if s.addTracks == nil {
		return nil
	}
	return s.addTracks(ctx, playlistID, trackIDs)
}

// memStore is an in-memory session store with sqlite-equivalent JSON
// round-tripping, so stored values decode exactly as they would from disk.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ ports.SessionStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Put(_ context.Context, sessionID, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID+"/"+key] = raw
	return nil
}

func (m *memStore) Get(_ context.Context, sessionID, key string, dest any) error {
	m.mu.Lock()
	raw, ok := m.data[sessionID+"/"+key]
	m.mu.Unlock()
	if !ok {
		return ports.ErrNoValue
	}
	return json.Unmarshal(raw, dest)
}

func (m *memStore) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if len(k) > len(sessionID) && k[:len(sessionID)+1] == sessionID+"/" {
			delete(m.data, k)
		}
	}
	return nil
}

// stubRecommender returns a canned reply and records the prompt.
type stubRecommender struct {
	reply  string
	err    error
	prompt string
}

func (s *stubRecommender) Complete(_ context.Context, _ string, prompt string) (string, error) {
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func trackIDs(tracks []domain.Track) []string {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

func makeTracks(prefix string, n int) []domain.Track {
	tracks := make([]domain.Track, n)
	for i := range tracks {
		tracks[i] = domain.Track{
			ID:      fmt.Sprintf("%s-%d", prefix, i),
			Name:    fmt.Sprintf("Track %d", i),
			Artists: []string{"Artist"},
		}
	}
	return tracks
}
