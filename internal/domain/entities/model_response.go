package entities

import (
	"strings"

	"fitting-room/internal/domain/valueobjects"
)

// ContentPart is one part of a model response: text, an inline image, or neither.
type ContentPart struct {
	Text        string
	InlineImage *valueobjects.ImagePayload
}

// ModelResponse is the backend-neutral view of a generation response.
type ModelResponse struct {
	parts []*ContentPart
}

func NewModelResponse(parts []*ContentPart) *ModelResponse {
	return &ModelResponse{parts: parts}
}

func (r *ModelResponse) Parts() []*ContentPart {
	return r.parts
}

// FirstInlineImage returns the first part carrying image data.
func (r *ModelResponse) FirstInlineImage() (*valueobjects.ImagePayload, bool) {
	if r == nil {
		return nil, false
	}
	for _, part := range r.parts {
		if part != nil && part.InlineImage != nil {
			return part.InlineImage, true
		}
	}
	return nil, false
}

func (r *ModelResponse) Text() string {
	if r == nil {
		return ""
	}
	var texts []string
	for _, part := range r.parts {
		if part != nil && part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "\n")
}
