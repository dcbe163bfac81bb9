package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewGarment(t *testing.T) {
	tests := []struct {
		name     string
		id       GarmentID
		garment  string
		imageURL string
		wantID   GarmentID
		wantErr  bool
	}{
		{"valid", "tee", "Tee", "https://example.com/tee.jpg", "tee", false},
		{"id defaults to name", "", "Hoodie", "https://example.com/h.jpg", "Hoodie", false},
		{"relative url", "x", "X", "/img/x.jpg", "", true},
		{"unsupported scheme", "x", "X", "ftp://example.com/x.jpg", "", true},
		{"blank name", "x", "  ", "https://example.com/x.jpg", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			garment, err := NewGarment(tt.id, tt.garment, tt.imageURL)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, garment.ID())
			require.Equal(t, tt.imageURL, garment.ImageURL())
		})
	}
}

func TestModelResponse_FirstInlineImage(t *testing.T) {
	img := createTestImage(t)
	response := NewModelResponse([]*ContentPart{
		{Text: "here you go"},
		nil,
		{InlineImage: img},
		{InlineImage: createTestPNG(t)},
	})

	got, ok := response.FirstInlineImage()
	require.True(t, ok)
	require.Same(t, img, got)
	require.Equal(t, "here you go", response.Text())

	_, ok = NewModelResponse([]*ContentPart{{Text: "sorry"}}).FirstInlineImage()
	require.False(t, ok)
}
