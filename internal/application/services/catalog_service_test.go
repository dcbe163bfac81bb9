package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fitting-room/internal/domain/valueobjects"
)

func TestLoadCatalog_Default(t *testing.T) {
	catalog, err := LoadCatalog("", valueobjects.ImageProxy{})
	require.NoError(t, err)

	garments := catalog.List()
	require.Len(t, garments, 16)
	require.Equal(t, "Béžová mikina s kapucí", garments[0].Name())

	byID, err := catalog.Find("crop-top-leto")
	require.NoError(t, err)
	byName, err := catalog.Find("crop top léto")
	require.NoError(t, err)
	require.Same(t, byID, byName)

	_, err = catalog.Find("nope")
	require.Error(t, err)
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Black Hoodie","imageUrl":"https://example.com/hoodie.jpg"}]`), 0o600))

	proxy, err := valueobjects.NewImageProxy("https://images.weserv.nl/")
	require.NoError(t, err)

	catalog, err := LoadCatalog(path, proxy)
	require.NoError(t, err)

	garment, err := catalog.Find("Black Hoodie")
	require.NoError(t, err)
	require.EqualValues(t, "Black Hoodie", garment.ID())
	require.Contains(t, catalog.PreviewURL(garment), "w=400")
}

func TestNewCatalogService_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"empty", `[]`},
		{"bad url", `[{"name":"x","imageUrl":"not a url"}]`},
		{"duplicate id", `[{"id":"a","name":"x","imageUrl":"https://e.com/1.jpg"},{"id":"a","name":"y","imageUrl":"https://e.com/2.jpg"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalogService([]byte(tt.data), valueobjects.ImageProxy{})
			require.Error(t, err)
		})
	}
}
