package external

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"fitting-room/internal/domain/entities"
	"fitting-room/internal/domain/valueobjects"
	"fitting-room/model"
)

// VirtualTryOnModel calls the Vertex AI Virtual Try-On predict endpoint. The
// model takes no instruction text and only accepts JPEG input.
type VirtualTryOnModel struct {
	projectID       string
	location        string
	model           string
	credentialsJSON string
	endpoint        string
	httpClient      *http.Client

	mu          sync.Mutex
	tokenSource oauth2.TokenSource
}

type VirtualTryOnOption func(*VirtualTryOnModel)

// WithTokenSource skips credential discovery.
func WithTokenSource(ts oauth2.TokenSource) VirtualTryOnOption {
	return func(m *VirtualTryOnModel) {
		m.tokenSource = ts
	}
}

// WithEndpoint overrides the regional aiplatform host, e.g. for tests.
func WithEndpoint(endpoint string) VirtualTryOnOption {
	return func(m *VirtualTryOnModel) {
		m.endpoint = strings.TrimRight(endpoint, "/")
	}
}

func WithHTTPClient(client *http.Client) VirtualTryOnOption {
	return func(m *VirtualTryOnModel) {
		m.httpClient = client
	}
}

func NewVirtualTryOnModel(projectID, location, model, credentialsJSON string, opts ...VirtualTryOnOption) *VirtualTryOnModel {
	m := &VirtualTryOnModel{
		projectID:       projectID,
		location:        location,
		model:           model,
		credentialsJSON: credentialsJSON,
		endpoint:        fmt.Sprintf("https://%s-aiplatform.googleapis.com", location),
		httpClient:      http.DefaultClient,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *VirtualTryOnModel) Name() string {
	return m.model
}

func (m *VirtualTryOnModel) CheckCredentials(ctx context.Context) error {
	if m.projectID == "" {
		return entities.NewTryOnError(entities.MissingCredential, "PROJECT_ID is not set", nil)
	}
	if _, err := m.getTokenSource(ctx); err != nil {
		return entities.NewTryOnError(entities.MissingCredential, "no Google Cloud credentials found", err)
	}
	return nil
}

func (m *VirtualTryOnModel) Generate(ctx context.Context, request *entities.TryOnRequest) (*entities.ModelResponse, error) {
	ts, err := m.getTokenSource(ctx)
	if err != nil {
		return nil, entities.NewTryOnError(entities.MissingCredential, "no Google Cloud credentials found", err)
	}

	token, err := ts.Token()
	if err != nil {
		return nil, entities.NewTryOnError(entities.MissingCredential, "failed to get access token", err)
	}

	if err := request.PrepareImages(); err != nil {
		return nil, fmt.Errorf("image preparation failed: %w", err)
	}

	apiRequest := model.VirtualTryOnRequest{
		Instances: []model.VirtualTryOnInstance{{
			PersonImage:   model.NewEncodedImage(request.PersonImage().ToBase64()),
			ProductImages: []model.EncodedImage{model.NewEncodedImage(request.GarmentImage().ToBase64())},
		}},
		Parameters: model.VirtualTryOnParameters{
			BaseSteps:        32,
			PersonGeneration: "allow_adult",
			SafetySetting:    "block_medium_and_above",
			SampleCount:      1,
			OutputOptions: model.OutputOptions{
				MimeType: string(request.Parameters().OutputMimeType()),
			},
		},
	}

	reqBody, err := json.Marshal(apiRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		m.endpoint, m.projectID, m.location, m.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	log.Ctx(ctx).Debug().
		Str("model", m.model).
		Int("person_bytes", request.PersonImage().Size()).
		Int("garment_bytes", request.GarmentImage().Size()).
		Msg("sending virtual try-on request")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, entities.NewRemoteCallError(resp.StatusCode, googleErrorMessage(respBody, resp.Status), nil)
	}

	var predictions model.VirtualTryOnResponse
	if err := json.Unmarshal(respBody, &predictions); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return convertPredictions(ctx, predictions), nil
}

func (m *VirtualTryOnModel) Close() error {
	return nil
}

func (m *VirtualTryOnModel) getTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tokenSource != nil {
		return m.tokenSource, nil
	}

	var (
		creds *google.Credentials
		err   error
	)
	if m.credentialsJSON != "" {
		creds, err = google.CredentialsFromJSON(ctx, []byte(m.credentialsJSON), cloudPlatformScope)
	} else {
		creds, err = google.FindDefaultCredentials(ctx, cloudPlatformScope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find credentials: %w", err)
	}

	m.tokenSource = creds.TokenSource
	return m.tokenSource, nil
}

func googleErrorMessage(body []byte, fallback string) string {
	var apiErr model.GoogleAPIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return fallback
}

func convertPredictions(ctx context.Context, response model.VirtualTryOnResponse) *entities.ModelResponse {
	var parts []*entities.ContentPart
	for i, prediction := range response.Predictions {
		if prediction.BytesBase64Encoded == "" {
			if prediction.RaiFilteredReason != "" {
				parts = append(parts, &entities.ContentPart{Text: prediction.RaiFilteredReason})
			}
			continue
		}

		data, err := base64.StdEncoding.DecodeString(prediction.BytesBase64Encoded)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Int("prediction", i).Msg("skipping undecodable prediction")
			continue
		}

		image, err := valueobjects.NewImagePayload(data, prediction.MimeType)
		if err != nil {
			continue
		}
		parts = append(parts, &entities.ContentPart{InlineImage: image})
	}
	return entities.NewModelResponse(parts)
}
