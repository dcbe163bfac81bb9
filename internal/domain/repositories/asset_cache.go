package repositories

import (
	"context"
	"errors"

	"fitting-room/internal/domain/valueobjects"
)

var ErrCacheMiss = errors.New("asset not cached")

// AssetCache keeps fetched garment images keyed by source URL.
type AssetCache interface {
	Get(ctx context.Context, key string) (*valueobjects.ImagePayload, error)
	Set(ctx context.Context, key string, image *valueobjects.ImagePayload) error
}
