package services

import (
	"fmt"
	"io"
	"net/http"

	"fitting-room/internal/domain/entities"
)

const multipartMemory = 32 << 20

// ParameterService reads the user's selections from form requests.
type ParameterService struct {
	catalog *CatalogService
}

func NewParameterService(catalog *CatalogService) *ParameterService {
	return &ParameterService{catalog: catalog}
}

func (s *ParameterService) ParsePhoto(r *http.Request) (*entities.UploadedFile, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, fmt.Errorf("failed to parse upload: %w", err)
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		return nil, fmt.Errorf("photo is required: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}

	mimeType := s.getString(header.Header.Get("Content-Type"), "")
	return entities.NewUploadedFile(header.Filename, mimeType, data), nil
}

func (s *ParameterService) ParseGarment(r *http.Request) (*entities.Garment, error) {
	key := s.getString(r.FormValue("garment"), r.URL.Query().Get("garment"))
	if key == "" {
		return nil, fmt.Errorf("garment is required")
	}
	return s.catalog.Find(key)
}

func (s *ParameterService) getString(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
