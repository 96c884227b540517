package store

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"mueen-assist/internal/client"
)

// CacheStore owns the per-service nationality and shift cache documents.
// They are pre-fetched when a service is selected so the next two funnel
// turns stay low-latency, and they survive restarts alongside the other
// documents.
type CacheStore struct {
	mu              sync.Mutex
	nationalityPath string
	shiftPath       string
}

type serviceNationalities struct {
	Nationalities []client.KeyValue `json:"nationalities"`
}

type serviceShifts struct {
	Shifts []client.KeyValue `json:"shifts"`
}

func NewCacheStore(dataDir string) *CacheStore {
	return &CacheStore{
		nationalityPath: filepath.Join(dataDir, "NationalityHourly.json"),
		shiftPath:       filepath.Join(dataDir, "HourlyServicesShift.json"),
	}
}

func (s *CacheStore) SaveNationalities(serviceID int, list []client.KeyValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := map[string]serviceNationalities{}
	s.loadInto(s.nationalityPath, &doc)
	doc[strconv.Itoa(serviceID)] = serviceNationalities{Nationalities: list}
	return writeDocument(s.nationalityPath, doc)
}

func (s *CacheStore) Nationalities(serviceID int) ([]client.KeyValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := map[string]serviceNationalities{}
	if err := s.loadInto(s.nationalityPath, &doc); err != nil {
		return nil, err
	}
	return doc[strconv.Itoa(serviceID)].Nationalities, nil
}

func (s *CacheStore) SaveShifts(serviceID int, list []client.KeyValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := map[string]serviceShifts{}
	s.loadInto(s.shiftPath, &doc)
	doc[strconv.Itoa(serviceID)] = serviceShifts{Shifts: list}
	return writeDocument(s.shiftPath, doc)
}

func (s *CacheStore) Shifts(serviceID int) ([]client.KeyValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := map[string]serviceShifts{}
	if err := s.loadInto(s.shiftPath, &doc); err != nil {
		return nil, err
	}
	return doc[strconv.Itoa(serviceID)].Shifts, nil
}

// Clear resets both cache documents to empty objects.
func (s *CacheStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeDocument(s.nationalityPath, map[string]serviceNationalities{}); err != nil {
		return err
	}
	return writeDocument(s.shiftPath, map[string]serviceShifts{})
}

func (s *CacheStore) loadInto(path string, out interface{}) error {
	if err := readDocument(path, out); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
