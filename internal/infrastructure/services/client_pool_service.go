package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
	genai_std "google.golang.org/genai"

	"fitting-room/internal/domain/repositories"
)

// lazyClient builds a client on first use and hands the same instance to
// every later caller until reset.
type lazyClient[T any] struct {
	mu     sync.RWMutex
	client *T
}

func (l *lazyClient[T]) get(build func() (*T, error)) (*T, error) {
	l.mu.RLock()
	client := l.client
	l.mu.RUnlock()
	if client != nil {
		return client, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// double-checked
	if l.client != nil {
		return l.client, nil
	}

	client, err := build()
	if err != nil {
		return nil, err
	}
	l.client = client
	return client, nil
}

// reset drops the cached client and returns it so the caller can release it.
func (l *lazyClient[T]) reset() *T {
	l.mu.Lock()
	defer l.mu.Unlock()

	client := l.client
	l.client = nil
	return client
}

type vertexAIClientPool struct {
	config *repositories.AIClientConfig
	lazy   lazyClient[genai.Client]
}

func (p *vertexAIClientPool) GetVertexAIClient(ctx context.Context) (*genai.Client, error) {
	return p.lazy.get(func() (*genai.Client, error) {
		endpoint := fmt.Sprintf("%s-aiplatform.googleapis.com:443", p.config.Location)
		opts := []option.ClientOption{option.WithEndpoint(endpoint)}
		if p.config.CredentialsJSON != "" {
			opts = append(opts, option.WithCredentialsJSON([]byte(p.config.CredentialsJSON)))
		}

		client, err := genai.NewClient(ctx, p.config.ProjectID, p.config.Location, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create VertexAI client: %w", err)
		}
		return client, nil
	})
}

func (p *vertexAIClientPool) Close() error {
	if client := p.lazy.reset(); client != nil {
		return client.Close()
	}
	return nil
}

type genAIClientPool struct {
	baseURL string
	lazy    lazyClient[genai_std.Client]
}

// GetGenAIClient binds the pool to the first API key it is called with.
func (p *genAIClientPool) GetGenAIClient(ctx context.Context, apiKey string) (*genai_std.Client, error) {
	return p.lazy.get(func() (*genai_std.Client, error) {
		clientConfig := &genai_std.ClientConfig{
			APIKey:  apiKey,
			Backend: genai_std.BackendGeminiAPI,
		}
		if p.baseURL != "" {
			clientConfig.HTTPOptions = genai_std.HTTPOptions{BaseURL: p.baseURL}
		}

		client, err := genai_std.NewClient(ctx, clientConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create GenAI client: %w", err)
		}
		return client, nil
	})
}

// Close forgets the client; the Gemini API client holds no connections of its own.
func (p *genAIClientPool) Close() error {
	p.lazy.reset()
	return nil
}

type ClientPoolOption func(*clientPoolOptions)

type clientPoolOptions struct {
	genAIBaseURL string
}

// WithGenAIBaseURL points the Gemini API client at another host, e.g. a test server.
func WithGenAIBaseURL(baseURL string) ClientPoolOption {
	return func(o *clientPoolOptions) {
		o.genAIBaseURL = baseURL
	}
}

type clientPoolService struct {
	config       *repositories.AIClientConfig
	vertexAIPool *vertexAIClientPool
	genAIPool    *genAIClientPool
}

func NewClientPoolService(config *repositories.AIClientConfig, opts ...ClientPoolOption) repositories.ClientPoolService {
	var options clientPoolOptions
	for _, opt := range opts {
		opt(&options)
	}

	return &clientPoolService{
		config:       config,
		vertexAIPool: &vertexAIClientPool{config: config},
		genAIPool:    &genAIClientPool{baseURL: options.genAIBaseURL},
	}
}

func (s *clientPoolService) VertexAIPool() repositories.VertexAIClientPool {
	return s.vertexAIPool
}

func (s *clientPoolService) GenAIPool() repositories.GenAIClientPool {
	return s.genAIPool
}

func (s *clientPoolService) Config() *repositories.AIClientConfig {
	return s.config
}

func (s *clientPoolService) Close() error {
	var errs []error

	if err := s.vertexAIPool.Close(); err != nil {
		errs = append(errs, fmt.Errorf("VertexAI pool close error: %w", err))
	}

	if err := s.genAIPool.Close(); err != nil {
		errs = append(errs, fmt.Errorf("GenAI pool close error: %w", err))
	}

	return errors.Join(errs...)
}
