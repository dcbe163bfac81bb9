package valueobjects

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

type ImageFormat string

const (
	JPEG ImageFormat = "jpeg"
	PNG  ImageFormat = "png"
	GIF  ImageFormat = "gif"
	WEBP ImageFormat = "webp"
)

// DefaultMimeType is used when a source does not declare a concrete image type.
const DefaultMimeType = "image/jpeg"

// ImagePayload is an inline image: raw bytes plus the MIME type they are sent or shown with.
type ImagePayload struct {
	data     []byte
	mimeType string
}

func NewImagePayload(data []byte, mimeType string) (*ImagePayload, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image data cannot be empty")
	}

	return &ImagePayload{
		data:     data,
		mimeType: ResolveMimeType(mimeType, data),
	}, nil
}

func (i *ImagePayload) Data() []byte {
	return i.data
}

func (i *ImagePayload) MimeType() string {
	return i.mimeType
}

func (i *ImagePayload) Size() int {
	return len(i.data)
}

// Format sniffs the encoded format from the image header.
func (i *ImagePayload) Format() (ImageFormat, error) {
	return detectFormat(i.data)
}

func (i *ImagePayload) IsJPEG() bool {
	return i.mimeType == DefaultMimeType
}

func (i *ImagePayload) ToJPEG() (*ImagePayload, error) {
	if format, err := i.Format(); err == nil && format == JPEG {
		return &ImagePayload{data: i.data, mimeType: DefaultMimeType}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(i.data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	return &ImagePayload{
		data:     buf.Bytes(),
		mimeType: DefaultMimeType,
	}, nil
}

func (i *ImagePayload) ToBase64() string {
	return base64.StdEncoding.EncodeToString(i.data)
}

// DataURI renders the payload for direct display, e.g. as an <img> source.
func (i *ImagePayload) DataURI() string {
	return "data:" + i.mimeType + ";base64," + i.ToBase64()
}

// ResolveMimeType keeps a concrete declared image type, otherwise falls back to
// the sniffed format and finally to image/jpeg.
func ResolveMimeType(declared string, data []byte) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
		mediaType = strings.ToLower(mediaType)
		if strings.HasPrefix(mediaType, "image/") && mediaType != "image/*" {
			return mediaType
		}
	}

	sniffed := mimetype.Detect(data)
	if strings.HasPrefix(sniffed.String(), "image/") {
		mediaType, _, _ := mime.ParseMediaType(sniffed.String())
		return mediaType
	}

	return DefaultMimeType
}

func detectFormat(data []byte) (ImageFormat, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	switch format {
	case "jpeg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "gif":
		return GIF, nil
	case "webp":
		return WEBP, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}
