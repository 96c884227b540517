package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"mueen-assist/internal/models"
)

// PackageStore owns the active fixed-package funnel document.
type PackageStore struct {
	mu   sync.Mutex
	path string
}

func NewPackageStore(dataDir string) *PackageStore {
	return &PackageStore{path: filepath.Join(dataDir, "FixedPackage.json")}
}

func (s *PackageStore) Get() (models.FixedPackageSelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Update merge-updates the funnel document under the store lock.
func (s *PackageStore) Update(mutate func(*models.FixedPackageSelection)) (models.FixedPackageSelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pkg, err := s.load()
	if err != nil {
		return models.FixedPackageSelection{}, err
	}
	mutate(&pkg)
	if err := writeDocument(s.path, &pkg); err != nil {
		return models.FixedPackageSelection{}, err
	}
	return pkg, nil
}

// Reset clears the funnel document.
func (s *PackageStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeDocument(s.path, &models.FixedPackageSelection{})
}

func (s *PackageStore) load() (models.FixedPackageSelection, error) {
	var pkg models.FixedPackageSelection
	if err := readDocument(s.path, &pkg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.FixedPackageSelection{}, nil
		}
		return models.FixedPackageSelection{}, err
	}
	return pkg, nil
}
