package valueobjects

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewImagePayload(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		mimeType string
		wantMime string
		wantErr  bool
	}{
		{
			name:    "empty data should fail",
			data:    []byte{},
			wantErr: true,
		},
		{
			name:    "nil data should fail",
			data:    nil,
			wantErr: true,
		},
		{
			name:     "declared type is kept",
			data:     []byte{0x00, 0x01, 0x02},
			mimeType: "image/png",
			wantMime: "image/png",
		},
		{
			name:     "parameters are stripped",
			data:     []byte{0x00, 0x01, 0x02},
			mimeType: "image/webp; charset=binary",
			wantMime: "image/webp",
		},
		{
			name:     "missing type on unknown bytes falls back to jpeg",
			data:     []byte{0x00, 0x01, 0x02},
			mimeType: "",
			wantMime: "image/jpeg",
		},
		{
			name:     "octet-stream falls back to jpeg",
			data:     []byte{0x00, 0x01, 0x02},
			mimeType: "application/octet-stream",
			wantMime: "image/jpeg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := NewImagePayload(tt.data, tt.mimeType)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantMime, payload.MimeType())
			require.Equal(t, tt.data, payload.Data())
		})
	}
}

func TestResolveMimeType_SniffsAmbiguousTypes(t *testing.T) {
	require.Equal(t, "image/png", ResolveMimeType("", encodePNG(t)))
	require.Equal(t, "image/png", ResolveMimeType("image/*", encodePNG(t)))
	require.Equal(t, "image/jpeg", ResolveMimeType("binary/octet-stream", encodeJPEG(t)))
	require.Equal(t, "image/jpeg", ResolveMimeType("application/octet-stream", []byte("not an image")))
}

func TestImagePayload_ToJPEG(t *testing.T) {
	t.Run("JPEG stays byte-identical", func(t *testing.T) {
		data := encodeJPEG(t)
		payload, err := NewImagePayload(data, "")
		require.NoError(t, err)

		converted, err := payload.ToJPEG()
		require.NoError(t, err)
		require.Equal(t, data, converted.Data())
		require.True(t, converted.IsJPEG())
	})

	t.Run("PNG is transcoded", func(t *testing.T) {
		payload, err := NewImagePayload(encodePNG(t), "image/png")
		require.NoError(t, err)
		require.False(t, payload.IsJPEG())

		converted, err := payload.ToJPEG()
		require.NoError(t, err)
		require.True(t, converted.IsJPEG())

		format, err := converted.Format()
		require.NoError(t, err)
		require.Equal(t, JPEG, format)
	})

	t.Run("undecodable data fails", func(t *testing.T) {
		payload, err := NewImagePayload([]byte("not an image"), "image/gif")
		require.NoError(t, err)

		_, err = payload.ToJPEG()
		require.Error(t, err)
	})
}

func TestImagePayload_DataURI(t *testing.T) {
	payload, err := NewImagePayload([]byte("test data"), "image/png")
	require.NoError(t, err)

	require.Equal(t, "data:image/png;base64,dGVzdCBkYXRh", payload.DataURI())
}
