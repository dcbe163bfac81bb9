package entities

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	ReadError         ErrorKind = "read_error"
	FetchError        ErrorKind = "fetch_error"
	MissingCredential ErrorKind = "missing_credential"
	NoImageReturned   ErrorKind = "no_image_returned"
	RemoteCallFailed  ErrorKind = "remote_call_failed"
)

// ErrTooLarge marks an image rejected by a size limit.
var ErrTooLarge = errors.New("image exceeds size limit")

// TryOnError is the single classified failure of a try-on attempt.
type TryOnError struct {
	Kind ErrorKind

	// Provider message or short description, kept for display.
	Message string

	// HTTP-like status reported by the provider, 0 when unknown.
	StatusCode int

	Retryable bool
	Err       error
}

func NewTryOnError(kind ErrorKind, message string, err error) *TryOnError {
	return &TryOnError{
		Kind:      kind,
		Message:   message,
		Retryable: kind != MissingCredential,
		Err:       err,
	}
}

// NewRemoteCallError classifies a provider failure by its status code.
// Rate limits and server faults can be retried after a cool-down, access
// denial stays fatal until the credential is reconfigured.
func NewRemoteCallError(statusCode int, message string, err error) *TryOnError {
	retryable := true
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusBadRequest, http.StatusNotFound:
		retryable = false
	}

	return &TryOnError{
		Kind:       RemoteCallFailed,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
		Err:        err,
	}
}

func (e *TryOnError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *TryOnError) Unwrap() error {
	return e.Err
}

func (e *TryOnError) IsRateLimited() bool {
	return e.Kind == RemoteCallFailed && e.StatusCode == http.StatusTooManyRequests
}

func (e *TryOnError) IsAccessDenied() bool {
	return e.Kind == RemoteCallFailed && (e.StatusCode == http.StatusForbidden || e.StatusCode == http.StatusUnauthorized)
}

// UserMessage is the text shown in the result area.
func (e *TryOnError) UserMessage() string {
	switch e.Kind {
	case ReadError:
		if errors.Is(e.Err, ErrTooLarge) {
			return "Your photo is too large. Please choose a smaller image."
		}
		return "Your photo could not be read. Please choose it again."
	case FetchError:
		return "Could not load the product for the AI. Please try again."
	case MissingCredential:
		if e.Message != "" {
			return fmt.Sprintf("The image model is not configured: %s. Fix the configuration and restart.", e.Message)
		}
		return "The image model is not configured. Check its credentials and restart."
	case NoImageReturned:
		return "The model did not return an image. Try a different combination of photos."
	}

	switch {
	case e.IsAccessDenied():
		return "Error 403: make sure the Generative Language API is enabled for your project in the Google Cloud Console."
	case e.IsRateLimited():
		return "The free request limit has been exhausted. Try again in a minute."
	case e.StatusCode == http.StatusGatewayTimeout:
		return "The image model took too long to respond. Please try again."
	case e.Message != "":
		return e.Message
	default:
		return "The preview could not be created."
	}
}

// AsTryOnError extracts the classified error from a wrapped chain.
func AsTryOnError(err error) (*TryOnError, bool) {
	var tryOnErr *TryOnError
	if errors.As(err, &tryOnErr) {
		return tryOnErr, true
	}
	return nil, false
}

func KindOf(err error) ErrorKind {
	if tryOnErr, ok := AsTryOnError(err); ok {
		return tryOnErr.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
