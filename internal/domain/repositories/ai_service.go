package repositories

import (
	"context"

	"fitting-room/internal/domain/entities"
)

// TryOnModel is an image-generation backend that can dress a person photo in a garment.
type TryOnModel interface {
	// CheckCredentials reports a MissingCredential error without making a remote call.
	CheckCredentials(ctx context.Context) error

	Generate(ctx context.Context, request *entities.TryOnRequest) (*entities.ModelResponse, error)

	Name() string

	Close() error
}
