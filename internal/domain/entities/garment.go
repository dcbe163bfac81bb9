package entities

import (
	"fmt"
	"net/url"
	"strings"
)

type GarmentID string

// Garment is one read-only catalog entry.
type Garment struct {
	id       GarmentID
	name     string
	imageURL string
}

func NewGarment(id GarmentID, name, imageURL string) (*Garment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("garment name is required")
	}

	u, err := url.Parse(imageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL for %q: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("image URL for %q must be absolute http(s), got %q", name, imageURL)
	}

	if id == "" {
		id = GarmentID(name)
	}

	return &Garment{
		id:       id,
		name:     name,
		imageURL: imageURL,
	}, nil
}

func (g *Garment) ID() GarmentID {
	return g.id
}

func (g *Garment) Name() string {
	return g.name
}

func (g *Garment) ImageURL() string {
	return g.imageURL
}
