package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"fitting-room/internal/domain/valueobjects"
)

type TryOnRequestID string

type TryOnRequest struct {
	id           TryOnRequestID
	personImage  *valueobjects.ImagePayload
	garmentImage *valueobjects.ImagePayload
	instruction  string
	parameters   *valueobjects.TryOnParameters
	createdAt    time.Time
}

func NewTryOnRequest(
	personImage *valueobjects.ImagePayload,
	garmentImage *valueobjects.ImagePayload,
	instruction string,
	parameters *valueobjects.TryOnParameters,
) (*TryOnRequest, error) {
	if personImage == nil {
		return nil, fmt.Errorf("person image is required")
	}

	if garmentImage == nil {
		return nil, fmt.Errorf("garment image is required")
	}

	if instruction == "" {
		return nil, fmt.Errorf("instruction is required")
	}

	if parameters == nil {
		parameters = valueobjects.DefaultTryOnParameters()
	}

	return &TryOnRequest{
		id:           TryOnRequestID("req_" + uuid.NewString()),
		personImage:  personImage,
		garmentImage: garmentImage,
		instruction:  instruction,
		parameters:   parameters,
		createdAt:    time.Now(),
	}, nil
}

func (r *TryOnRequest) ID() TryOnRequestID {
	return r.id
}

func (r *TryOnRequest) PersonImage() *valueobjects.ImagePayload {
	return r.personImage
}

func (r *TryOnRequest) GarmentImage() *valueobjects.ImagePayload {
	return r.garmentImage
}

func (r *TryOnRequest) Instruction() string {
	return r.instruction
}

func (r *TryOnRequest) Parameters() *valueobjects.TryOnParameters {
	return r.parameters
}

func (r *TryOnRequest) AspectRatio() valueobjects.AspectRatio {
	return r.parameters.AspectRatio()
}

func (r *TryOnRequest) CreatedAt() time.Time {
	return r.createdAt
}

// PrepareImages transcodes both images to JPEG for backends that only accept JPEG input.
func (r *TryOnRequest) PrepareImages() error {
	var err error

	r.personImage, err = r.personImage.ToJPEG()
	if err != nil {
		return fmt.Errorf("failed to convert person image to JPEG: %w", err)
	}

	r.garmentImage, err = r.garmentImage.ToJPEG()
	if err != nil {
		return fmt.Errorf("failed to convert garment image to JPEG: %w", err)
	}

	return nil
}
