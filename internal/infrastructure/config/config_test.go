package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "fallback-key")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, BackendGemini, cfg.ModelBackend)
	require.Equal(t, "gemini-2.5-flash-image", cfg.GeminiModel)
	require.Equal(t, 120*time.Second, cfg.ModelTimeout)
	require.EqualValues(t, 10<<20, cfg.MaxUploadBytes)
	require.Equal(t, "fallback-key", cfg.ResolvedAPIKey())
	require.True(t, cfg.ImageProxy().Enabled())

	params, err := cfg.TryOnParameters()
	require.NoError(t, err)
	require.EqualValues(t, "3:4", params.AspectRatio())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "primary")
	t.Setenv("API_KEY", "fallback")
	t.Setenv("MODEL_BACKEND", "vto")
	t.Setenv("MODEL_TIMEOUT", "45s")
	t.Setenv("IMAGE_PROXY_DISABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "primary", cfg.ResolvedAPIKey())
	require.Equal(t, BackendVTO, cfg.ModelBackend)
	require.Equal(t, 45*time.Second, cfg.ModelTimeout)
	require.False(t, cfg.ImageProxy().Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown backend", "MODEL_BACKEND", "dalle"},
		{"bad aspect ratio", "ASPECT_RATIO", "7:3"},
		{"bad duration", "MODEL_TIMEOUT", "soon"},
		{"negative upload limit", "MAX_UPLOAD_BYTES", "-1"},
		{"relative proxy", "IMAGE_PROXY_URL", "images.weserv.nl"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"redis without port", "REDIS_ADDR", "localhost"},
		{"broken credentials json", "VERTEXAI_CREDENTIALS_JSON", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
