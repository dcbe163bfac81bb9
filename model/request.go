package model

// VirtualTryOnRequest is the predict request of the Vertex AI Virtual Try-On model.
type VirtualTryOnRequest struct {
	Instances  []VirtualTryOnInstance `json:"instances"`
	Parameters VirtualTryOnParameters `json:"parameters"`
}

type VirtualTryOnInstance struct {
	PersonImage   EncodedImage   `json:"personImage"`
	ProductImages []EncodedImage `json:"productImages"`
}

type EncodedImage struct {
	Image struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
	} `json:"image"`
}

func NewEncodedImage(b64 string) EncodedImage {
	var image EncodedImage
	image.Image.BytesBase64Encoded = b64
	return image
}

type VirtualTryOnParameters struct {
	AddWatermark     bool          `json:"addWatermark"`
	BaseSteps        int           `json:"baseSteps,omitempty"`
	PersonGeneration string        `json:"personGeneration,omitempty"`
	SafetySetting    string        `json:"safetySetting,omitempty"`
	SampleCount      int           `json:"sampleCount"`
	OutputOptions    OutputOptions `json:"outputOptions"`
}

type OutputOptions struct {
	MimeType           string `json:"mimeType"`
	CompressionQuality int    `json:"compressionQuality,omitempty"`
}
