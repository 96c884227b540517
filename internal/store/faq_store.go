package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"mueen-assist/internal/models"
)

// FAQStore owns the FAQ corpus document.
type FAQStore struct {
	mu   sync.Mutex
	path string
}

func NewFAQStore(dataDir string) *FAQStore {
	return &FAQStore{path: filepath.Join(dataDir, "faq_data.json")}
}

// Load returns the whole corpus; a missing document is an empty corpus.
func (s *FAQStore) Load() ([]models.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var topics []models.Topic
	if err := readDocument(s.path, &topics); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return topics, nil
}

// Save replaces the whole corpus document.
func (s *FAQStore) Save(topics []models.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if topics == nil {
		topics = []models.Topic{}
	}
	return writeDocument(s.path, topics)
}
