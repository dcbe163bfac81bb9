package entities

import (
	"time"

	"github.com/google/uuid"

	"fitting-room/internal/domain/valueobjects"
)

type TryOnResultID string

// TryOnResult carries exactly one of a generated image or a classified failure.
type TryOnResult struct {
	id        TryOnResultID
	requestID TryOnRequestID
	image     *valueobjects.ImagePayload
	failure   *TryOnError
	createdAt time.Time
}

func NewSucceededResult(requestID TryOnRequestID, image *valueobjects.ImagePayload) *TryOnResult {
	return newTryOnResult(requestID, image, nil)
}

func NewFailedResult(requestID TryOnRequestID, failure *TryOnError) *TryOnResult {
	return newTryOnResult(requestID, nil, failure)
}

func newTryOnResult(requestID TryOnRequestID, image *valueobjects.ImagePayload, failure *TryOnError) *TryOnResult {
	return &TryOnResult{
		id:        TryOnResultID("result_" + uuid.NewString()),
		requestID: requestID,
		image:     image,
		failure:   failure,
		createdAt: time.Now(),
	}
}

func (r *TryOnResult) ID() TryOnResultID {
	return r.id
}

func (r *TryOnResult) RequestID() TryOnRequestID {
	return r.requestID
}

func (r *TryOnResult) Image() *valueobjects.ImagePayload {
	return r.image
}

func (r *TryOnResult) Failure() *TryOnError {
	return r.failure
}

func (r *TryOnResult) Succeeded() bool {
	return r.image != nil && r.failure == nil
}

func (r *TryOnResult) CreatedAt() time.Time {
	return r.createdAt
}
