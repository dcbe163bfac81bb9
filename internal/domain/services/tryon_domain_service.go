package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"fitting-room/internal/domain/entities"
	"fitting-room/internal/domain/repositories"
	"fitting-room/internal/domain/valueobjects"
)

type TryOnDomainService struct {
	model      repositories.TryOnModel
	parameters *valueobjects.TryOnParameters
}

func NewTryOnDomainService(model repositories.TryOnModel, parameters *valueobjects.TryOnParameters) *TryOnDomainService {
	if parameters == nil {
		parameters = valueobjects.DefaultTryOnParameters()
	}

	return &TryOnDomainService{
		model:      model,
		parameters: parameters,
	}
}

func (s *TryOnDomainService) CheckCredentials(ctx context.Context) error {
	if err := s.model.CheckCredentials(ctx); err != nil {
		if entities.IsKind(err, entities.MissingCredential) {
			return err
		}
		return entities.NewTryOnError(entities.MissingCredential, "model credentials are not usable", err)
	}
	return nil
}

// BuildRequest is only called once both payloads resolved.
func (s *TryOnDomainService) BuildRequest(person, garment *valueobjects.ImagePayload) (*entities.TryOnRequest, error) {
	request, err := entities.NewTryOnRequest(person, garment, TryOnInstruction, s.parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to build try-on request: %w", err)
	}
	return request, nil
}

// ProcessTryOn submits the request once and interprets the response.
// The returned result carries either the image or the classified failure.
func (s *TryOnDomainService) ProcessTryOn(ctx context.Context, request *entities.TryOnRequest) *entities.TryOnResult {
	logger := log.Ctx(ctx).With().
		Str("request_id", string(request.ID())).
		Str("model", s.model.Name()).
		Logger()

	response, err := s.model.Generate(ctx, request)
	if err != nil {
		failure := ClassifyRemoteError(ctx, err)
		logger.Warn().Err(err).
			Str("kind", string(failure.Kind)).
			Int("status", failure.StatusCode).
			Msg("try-on generation failed")
		return entities.NewFailedResult(request.ID(), failure)
	}

	image, ok := response.FirstInlineImage()
	if !ok {
		logger.Info().Str("text", response.Text()).Msg("model returned no image")
		return entities.NewFailedResult(request.ID(),
			entities.NewTryOnError(entities.NoImageReturned, "model response contained no inline image", nil))
	}

	logger.Info().
		Str("mime_type", image.MimeType()).
		Int("bytes", image.Size()).
		Msg("try-on image generated")

	return entities.NewSucceededResult(request.ID(), image)
}

// ClassifyRemoteError maps a failed model call to a TryOnError. Errors the
// backend already classified pass through unchanged.
func ClassifyRemoteError(ctx context.Context, err error) *entities.TryOnError {
	if tryOnErr, ok := entities.AsTryOnError(err); ok {
		return tryOnErr
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return entities.NewRemoteCallError(http.StatusGatewayTimeout, "the image model did not answer in time", err)
	}

	message := err.Error()
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "429") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "resourceexhausted") ||
		strings.Contains(lower, "quota exceeded"):
		return entities.NewRemoteCallError(http.StatusTooManyRequests, message, err)
	case strings.Contains(lower, "403") || strings.Contains(lower, "permission_denied"):
		return entities.NewRemoteCallError(http.StatusForbidden, message, err)
	case strings.Contains(lower, "401") || strings.Contains(lower, "unauthenticated"):
		return entities.NewRemoteCallError(http.StatusUnauthorized, message, err)
	}

	return entities.NewRemoteCallError(0, message, err)
}
