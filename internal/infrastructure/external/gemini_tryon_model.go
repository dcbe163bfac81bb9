package external

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"fitting-room/internal/domain/entities"
	"fitting-room/internal/domain/repositories"
	"fitting-room/internal/domain/services"
	"fitting-room/internal/domain/valueobjects"
)

// GeminiTryOnModel calls a Gemini image model through the Gemini API.
type GeminiTryOnModel struct {
	pool   repositories.GenAIClientPool
	apiKey string
	model  string
}

func NewGeminiTryOnModel(pool repositories.GenAIClientPool, apiKey, model string) *GeminiTryOnModel {
	return &GeminiTryOnModel{
		pool:   pool,
		apiKey: apiKey,
		model:  model,
	}
}

func (m *GeminiTryOnModel) Name() string {
	return m.model
}

func (m *GeminiTryOnModel) CheckCredentials(ctx context.Context) error {
	if m.apiKey == "" {
		return entities.NewTryOnError(entities.MissingCredential, "GEMINI_API_KEY is not set", nil)
	}
	return nil
}

func (m *GeminiTryOnModel) Generate(ctx context.Context, request *entities.TryOnRequest) (*entities.ModelResponse, error) {
	if err := m.CheckCredentials(ctx); err != nil {
		return nil, err
	}

	client, err := m.pool.GetGenAIClient(ctx, m.apiKey)
	if err != nil {
		return nil, entities.NewTryOnError(entities.MissingCredential, "failed to create Gemini client", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(services.PersonImageLabel),
		inlinePart(request.PersonImage()),
		genai.NewPartFromText(services.GarmentImageLabel),
		inlinePart(request.GarmentImage()),
		genai.NewPartFromText(request.Instruction()),
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	// multiple candidates are not supported by the image models
	resp, err := client.Models.GenerateContent(ctx, m.model, contents, &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{
			AspectRatio: string(request.AspectRatio()),
		},
	})
	if err != nil {
		return nil, classifyGenAIError(err)
	}

	return convertGenAIResponse(ctx, resp), nil
}

func (m *GeminiTryOnModel) Close() error {
	return nil
}

func inlinePart(image *valueobjects.ImagePayload) *genai.Part {
	return &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: image.MimeType(),
			Data:     image.Data(),
		},
	}
}

func classifyGenAIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return entities.NewRemoteCallError(apiErr.Code, apiErr.Message, err)
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return entities.NewRemoteCallError(apiErrPtr.Code, apiErrPtr.Message, err)
	}

	return fmt.Errorf("failed to generate content: %w", err)
}

// convertGenAIResponse keeps the parts of the first candidate.
func convertGenAIResponse(ctx context.Context, resp *genai.GenerateContentResponse) *entities.ModelResponse {
	logger := log.Ctx(ctx)

	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil {
			logger.Warn().Str("block_reason", string(resp.PromptFeedback.BlockReason)).Msg("prompt blocked")
		}
		return entities.NewModelResponse(nil)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		logger.Warn().Str("finish_reason", string(candidate.FinishReason)).Msg("candidate has no content")
		return entities.NewModelResponse(nil)
	}

	parts := make([]*entities.ContentPart, 0, len(candidate.Content.Parts))
	for i, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}

		converted := &entities.ContentPart{Text: part.Text}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			image, err := valueobjects.NewImagePayload(part.InlineData.Data, part.InlineData.MIMEType)
			if err != nil {
				logger.Warn().Err(err).Int("part", i).Msg("skipping unreadable inline data")
			} else {
				converted.InlineImage = image
			}
		}
		parts = append(parts, converted)
	}

	logger.Debug().
		Int("candidates", len(resp.Candidates)).
		Int("parts", len(parts)).
		Msg("gemini response received")

	return entities.NewModelResponse(parts)
}
