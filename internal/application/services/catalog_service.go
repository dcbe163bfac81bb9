package services

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"fitting-room/internal/domain/entities"
	"fitting-room/internal/domain/valueobjects"
)

//go:embed catalog.json
var defaultCatalog []byte

const previewWidth = 400

type catalogEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// CatalogService serves the fixed garment list. It is loaded once and never mutated.
type CatalogService struct {
	garments []*entities.Garment
	proxy    valueobjects.ImageProxy
}

// LoadCatalog reads the catalog from path, or the built-in list when path is empty.
func LoadCatalog(path string, proxy valueobjects.ImageProxy) (*CatalogService, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
	}
	return NewCatalogService(data, proxy)
}

func NewCatalogService(data []byte, proxy valueobjects.ImageProxy) (*CatalogService, error) {
	var entries []catalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	seen := make(map[entities.GarmentID]bool, len(entries))
	garments := make([]*entities.Garment, 0, len(entries))
	for i, entry := range entries {
		garment, err := entities.NewGarment(entities.GarmentID(entry.ID), entry.Name, entry.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if seen[garment.ID()] {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %q", i, garment.ID())
		}
		seen[garment.ID()] = true
		garments = append(garments, garment)
	}

	return &CatalogService{
		garments: garments,
		proxy:    proxy,
	}, nil
}

func (s *CatalogService) List() []*entities.Garment {
	garments := make([]*entities.Garment, len(s.garments))
	copy(garments, s.garments)
	return garments
}

// Find looks a garment up by id, falling back to a case-insensitive name match.
func (s *CatalogService) Find(key string) (*entities.Garment, error) {
	key = strings.TrimSpace(key)
	for _, garment := range s.garments {
		if string(garment.ID()) == key {
			return garment, nil
		}
	}
	for _, garment := range s.garments {
		if strings.EqualFold(garment.Name(), key) {
			return garment, nil
		}
	}
	return nil, fmt.Errorf("garment %q not found in catalog", key)
}

func (s *CatalogService) PreviewURL(garment *entities.Garment) string {
	return s.proxy.URL(garment.ImageURL(), previewWidth)
}
