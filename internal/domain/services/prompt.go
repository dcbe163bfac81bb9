package services

import "strings"

const (
	PersonImageLabel  = "Image 1 (Person):"
	GarmentImageLabel = "Image 2 (Clothing):"
)

// TryOnInstruction follows the two labelled images in every request.
var TryOnInstruction = strings.Join([]string{
	"FASHION VIRTUAL TRY-ON.",
	"Task: dress the person shown in Image 1 in the exact clothing item shown in Image 2.",
	"Identity: keep the person's face, hair, body shape, pose and background exactly as they are in Image 1.",
	"Fit: the garment from Image 2 must follow the person's pose and the scene lighting naturally.",
	"Output: a single high-quality, photorealistic fashion photograph.",
}, " ")
