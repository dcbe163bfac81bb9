package valueobjects

import (
	"fmt"
	"slices"
)

type AspectRatio string
type MimeType string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectPortrait  AspectRatio = "3:4"
	AspectLandscape AspectRatio = "4:3"
	AspectTall      AspectRatio = "9:16"
	AspectWide      AspectRatio = "16:9"
	AspectPhoto     AspectRatio = "2:3"
	AspectPhotoWide AspectRatio = "3:2"
	AspectSocial    AspectRatio = "4:5"
	AspectSocialW   AspectRatio = "5:4"
	AspectCinema    AspectRatio = "21:9"
)

const (
	MimeTypePNG  MimeType = "image/png"
	MimeTypeJPEG MimeType = "image/jpeg"
)

// aspect ratios accepted by the image models' output configuration
var supportedAspectRatios = []AspectRatio{
	AspectSquare, AspectPortrait, AspectLandscape, AspectTall, AspectWide,
	AspectPhoto, AspectPhotoWide, AspectSocial, AspectSocialW, AspectCinema,
}

// TryOnParameters is the output-shape configuration sent with every try-on request.
type TryOnParameters struct {
	aspectRatio    AspectRatio
	outputMimeType MimeType
}

func NewTryOnParameters(aspectRatio AspectRatio, outputMimeType MimeType) (*TryOnParameters, error) {
	if !IsSupportedAspectRatio(aspectRatio) {
		return nil, fmt.Errorf("unsupported aspect ratio %q", aspectRatio)
	}

	if outputMimeType != MimeTypePNG && outputMimeType != MimeTypeJPEG {
		return nil, fmt.Errorf("outputMimeType must be %s or %s, got %q", MimeTypePNG, MimeTypeJPEG, outputMimeType)
	}

	return &TryOnParameters{
		aspectRatio:    aspectRatio,
		outputMimeType: outputMimeType,
	}, nil
}

func DefaultTryOnParameters() *TryOnParameters {
	params, _ := NewTryOnParameters(AspectPortrait, MimeTypePNG)
	return params
}

func IsSupportedAspectRatio(ratio AspectRatio) bool {
	return slices.Contains(supportedAspectRatios, ratio)
}

func (p *TryOnParameters) AspectRatio() AspectRatio {
	return p.aspectRatio
}

func (p *TryOnParameters) OutputMimeType() MimeType {
	return p.outputMimeType
}
