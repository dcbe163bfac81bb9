package repositories

import (
	"context"

	"fitting-room/internal/domain/valueobjects"
)

// RemoteImageSource downloads catalog images.
type RemoteImageSource interface {
	Fetch(ctx context.Context, imageURL string) (*valueobjects.ImagePayload, error)
}
