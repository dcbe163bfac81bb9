package external

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/vertexai/genai"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fitting-room/internal/domain/entities"
	"fitting-room/internal/domain/repositories"
	"fitting-room/internal/domain/services"
	"fitting-room/internal/domain/valueobjects"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// VertexTryOnModel calls a Gemini image model hosted on Vertex AI.
//
// The Vertex SDK has no image output config, so no aspect ratio is sent and
// the model picks the output shape. Use the gemini backend when the 3:4
// portrait output matters.
type VertexTryOnModel struct {
	pool   repositories.ClientPoolService
	model  string
	lookup credentialsLookup
}

type credentialsLookup func(ctx context.Context, scopes ...string) (*google.Credentials, error)

func NewVertexTryOnModel(pool repositories.ClientPoolService, model string) *VertexTryOnModel {
	return &VertexTryOnModel{
		pool:   pool,
		model:  model,
		lookup: google.FindDefaultCredentials,
	}
}

func (m *VertexTryOnModel) Name() string {
	return m.model
}

// CheckCredentials needs a project and either inline service account JSON or
// application default credentials.
func (m *VertexTryOnModel) CheckCredentials(ctx context.Context) error {
	cfg := m.pool.Config()
	if cfg.ProjectID == "" {
		return entities.NewTryOnError(entities.MissingCredential, "PROJECT_ID is not set", nil)
	}
	if cfg.CredentialsJSON != "" {
		return nil
	}
	if _, err := m.lookup(ctx, cloudPlatformScope); err != nil {
		return entities.NewTryOnError(entities.MissingCredential, "no Google Cloud credentials found", err)
	}
	return nil
}

func (m *VertexTryOnModel) Generate(ctx context.Context, request *entities.TryOnRequest) (*entities.ModelResponse, error) {
	client, err := m.pool.VertexAIPool().GetVertexAIClient(ctx)
	if err != nil {
		return nil, entities.NewTryOnError(entities.MissingCredential, "failed to create Vertex AI client", err)
	}

	model := client.GenerativeModel(m.model)
	model.SetCandidateCount(1)

	resp, err := model.GenerateContent(ctx,
		genai.Text(services.PersonImageLabel),
		vertexBlob(request.PersonImage()),
		genai.Text(services.GarmentImageLabel),
		vertexBlob(request.GarmentImage()),
		genai.Text(request.Instruction()),
	)
	if err != nil {
		return nil, classifyGRPCError(err)
	}

	return convertVertexResponse(ctx, resp), nil
}

func (m *VertexTryOnModel) Close() error {
	return m.pool.VertexAIPool().Close()
}

func vertexBlob(image *valueobjects.ImagePayload) genai.Blob {
	return genai.Blob{
		MIMEType: image.MimeType(),
		Data:     image.Data(),
	}
}

var grpcToHTTP = map[codes.Code]int{
	codes.ResourceExhausted: http.StatusTooManyRequests,
	codes.PermissionDenied:  http.StatusForbidden,
	codes.Unauthenticated:   http.StatusUnauthorized,
	codes.InvalidArgument:   http.StatusBadRequest,
	codes.NotFound:          http.StatusNotFound,
	codes.DeadlineExceeded:  http.StatusGatewayTimeout,
	codes.Unavailable:       http.StatusServiceUnavailable,
	codes.Internal:          http.StatusInternalServerError,
}

func classifyGRPCError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return entities.NewRemoteCallError(http.StatusGatewayTimeout, "the image model did not answer in time", err)
	}

	if st, ok := status.FromError(err); ok {
		if code, known := grpcToHTTP[st.Code()]; known {
			return entities.NewRemoteCallError(code, st.Message(), err)
		}
	}

	return fmt.Errorf("failed to generate content: %w", err)
}

func convertVertexResponse(ctx context.Context, resp *genai.GenerateContentResponse) *entities.ModelResponse {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return entities.NewModelResponse(nil)
	}

	var parts []*entities.ContentPart
	for i, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			parts = append(parts, &entities.ContentPart{Text: string(p)})
		case genai.Blob:
			image, err := valueobjects.NewImagePayload(p.Data, p.MIMEType)
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Int("part", i).Msg("skipping unreadable blob")
				continue
			}
			parts = append(parts, &entities.ContentPart{InlineImage: image})
		}
	}

	return entities.NewModelResponse(parts)
}
