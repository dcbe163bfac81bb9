package external

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"fitting-room/internal/domain/entities"
	"fitting-room/internal/domain/valueobjects"
)

const maxCatalogImageBytes = 25 << 20

// CatalogImageFetcher downloads catalog images, through the resizing proxy
// when one is configured.
type CatalogImageFetcher struct {
	client *http.Client
	proxy  valueobjects.ImageProxy
	width  int
}

func NewCatalogImageFetcher(client *http.Client, proxy valueobjects.ImageProxy, width int) *CatalogImageFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &CatalogImageFetcher{
		client: client,
		proxy:  proxy,
		width:  width,
	}
}

func (f *CatalogImageFetcher) Fetch(ctx context.Context, imageURL string) (*valueobjects.ImagePayload, error) {
	target := f.proxy.URL(imageURL, f.width)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, entities.NewTryOnError(entities.FetchError, "invalid garment image URL", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, entities.NewTryOnError(entities.FetchError, "failed to download garment image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, entities.NewTryOnError(entities.FetchError,
			fmt.Sprintf("garment image request returned %s", resp.Status), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogImageBytes+1))
	if err != nil {
		return nil, entities.NewTryOnError(entities.FetchError, "failed to read garment image", err)
	}
	if len(data) > maxCatalogImageBytes {
		return nil, entities.NewTryOnError(entities.FetchError,
			fmt.Sprintf("garment image is larger than %d bytes", maxCatalogImageBytes), entities.ErrTooLarge)
	}

	payload, err := valueobjects.NewImagePayload(data, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, entities.NewTryOnError(entities.FetchError, "garment image is empty", err)
	}

	log.Ctx(ctx).Debug().
		Str("url", target).
		Str("mime_type", payload.MimeType()).
		Int("bytes", payload.Size()).
		Msg("garment image downloaded")

	return payload, nil
}
