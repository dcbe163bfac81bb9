package repositories

import (
	"context"

	"cloud.google.com/go/vertexai/genai"
	genai_std "google.golang.org/genai"
)

type AIClientConfig struct {
	ProjectID string
	Location  string

	// Service account JSON; application default credentials are used when empty.
	CredentialsJSON string
}

// VertexAIClientPool lazily creates the Vertex AI SDK client.
type VertexAIClientPool interface {
	GetVertexAIClient(ctx context.Context) (*genai.Client, error)

	Close() error
}

// GenAIClientPool lazily creates the Gemini API client.
type GenAIClientPool interface {
	GetGenAIClient(ctx context.Context, apiKey string) (*genai_std.Client, error)

	Close() error
}

type ClientPoolService interface {
	VertexAIPool() VertexAIClientPool

	GenAIPool() GenAIClientPool

	Config() *AIClientConfig

	Close() error
}
