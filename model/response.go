package model

// VirtualTryOnResponse is the predict response of the Vertex AI Virtual Try-On model.
type VirtualTryOnResponse struct {
	Predictions []Prediction `json:"predictions"`
}

type Prediction struct {
	MimeType           string `json:"mimeType"`
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	// set when the model filtered the output instead of returning an image
	RaiFilteredReason string `json:"raiFilteredReason,omitempty"`
}

// GoogleAPIError is the error envelope of Google REST APIs.
type GoogleAPIError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
