package services

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fitting-room/internal/domain/valueobjects"
)

func newParameterService(t *testing.T) *ParameterService {
	catalog, err := LoadCatalog("", valueobjects.ImageProxy{})
	require.NoError(t, err)
	return NewParameterService(catalog)
}

func TestParameterService_ParsePhoto(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="photo"; filename="me.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/photo", &body)
	r.Header.Set("Content-Type", writer.FormDataContentType())

	file, err := newParameterService(t).ParsePhoto(r)
	require.NoError(t, err)
	require.Equal(t, "me.png", file.Name())
	require.Equal(t, "image/png", file.MimeType())
}

func TestParameterService_ParsePhotoMissing(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("other", "x"))
	require.NoError(t, writer.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/photo", &body)
	r.Header.Set("Content-Type", writer.FormDataContentType())

	_, err := newParameterService(t).ParsePhoto(r)
	require.Error(t, err)
}

func TestParameterService_ParseGarment(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		wantID  string
		wantErr bool
	}{
		{"by id", url.Values{"garment": {"crop-top-jaro"}}, "crop-top-jaro", false},
		{"by name", url.Values{"garment": {"Crop Top Jaro"}}, "crop-top-jaro", false},
		{"missing", url.Values{}, "", true},
		{"unknown", url.Values{"garment": {"tuxedo"}}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/garment", strings.NewReader(tt.form.Encode()))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			garment, err := newParameterService(t).ParseGarment(r)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.EqualValues(t, tt.wantID, garment.ID())
		})
	}
}
