package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"mueen-assist/internal/models"
)

// ProfileStore owns the single per-deployment user profile document.
type ProfileStore struct {
	mu   sync.Mutex
	path string
}

func NewProfileStore(dataDir string) *ProfileStore {
	return &ProfileStore{path: filepath.Join(dataDir, "user_data.json")}
}

// Get returns the current profile; a missing document is an empty profile.
func (s *ProfileStore) Get() (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Update applies the mutator to the profile under the store lock and persists
// the result. The read-modify-write is atomic with respect to other callers
// of this store.
func (s *ProfileStore) Update(mutate func(*models.UserProfile)) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.load()
	if err != nil {
		return models.UserProfile{}, err
	}
	mutate(&profile)
	if err := writeDocument(s.path, &profile); err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

func (s *ProfileStore) load() (models.UserProfile, error) {
	var profile models.UserProfile
	if err := readDocument(s.path, &profile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.UserProfile{}, nil
		}
		return models.UserProfile{}, err
	}
	return profile, nil
}
