package model

// Garment is a catalog entry as served to the page.
type Garment struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ImageURL   string `json:"imageUrl"`
	PreviewURL string `json:"previewUrl"`
}

// Session is the observable state of the fitting room.
type Session struct {
	State     string   `json:"state"`
	Busy      bool     `json:"busy"`
	Photo     string   `json:"photo,omitempty"`
	Garment   *Garment `json:"garment,omitempty"`
	RequestID string   `json:"requestId,omitempty"`
	Image     string   `json:"image,omitempty"`
	Error     string   `json:"error,omitempty"`
	ErrorKind string   `json:"errorKind,omitempty"`
	Retryable bool     `json:"retryable,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
