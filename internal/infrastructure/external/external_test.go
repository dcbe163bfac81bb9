package external

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"fitting-room/internal/domain/entities"
	"fitting-room/internal/domain/valueobjects"
)

func encodeJPEG(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil))
	return buf.Bytes()
}

func encodePNG(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 4))))
	return buf.Bytes()
}

func newTestRequest(t *testing.T) *entities.TryOnRequest {
	person, err := valueobjects.NewImagePayload(encodeJPEG(t), "image/jpeg")
	require.NoError(t, err)
	garment, err := valueobjects.NewImagePayload(encodePNG(t), "image/png")
	require.NoError(t, err)

	request, err := entities.NewTryOnRequest(person, garment, "dress the person", nil)
	require.NoError(t, err)
	return request
}
