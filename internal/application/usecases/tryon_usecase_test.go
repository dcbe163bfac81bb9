package usecases

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fitting-room/internal/domain/entities"
	"fitting-room/internal/domain/services"
	"fitting-room/internal/domain/valueobjects"
)

type fakeModel struct {
	mu       sync.Mutex
	credErr  error
	generate func(ctx context.Context, request *entities.TryOnRequest) (*entities.ModelResponse, error)
	calls    atomic.Int32
}

func (m *fakeModel) CheckCredentials(ctx context.Context) error {
	return m.credErr
}

func (m *fakeModel) Generate(ctx context.Context, request *entities.TryOnRequest) (*entities.ModelResponse, error) {
	m.calls.Add(1)
	m.mu.Lock()
	generate := m.generate
	m.mu.Unlock()
	return generate(ctx, request)
}

func (m *fakeModel) setGenerate(generate func(ctx context.Context, request *entities.TryOnRequest) (*entities.ModelResponse, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generate = generate
}

func (m *fakeModel) Name() string { return "fake" }
func (m *fakeModel) Close() error { return nil }

type fakeSource struct {
	payload *valueobjects.ImagePayload
	err     error
	calls   atomic.Int32
}

func (s *fakeSource) Fetch(ctx context.Context, imageURL string) (*valueobjects.ImagePayload, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

type unreadableFile struct{}

func (unreadableFile) Name() string     { return "photo.jpg" }
func (unreadableFile) MimeType() string { return "image/jpeg" }
func (unreadableFile) Open() (io.ReadCloser, error) {
	return nil, errors.New("file handle is no longer valid")
}

func noisyJPEG(t *testing.T, size int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 7), uint8(y * 13), uint8((x ^ y) * 31), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

func pngPayload(t *testing.T) *valueobjects.ImagePayload {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 4))))
	payload, err := valueobjects.NewImagePayload(buf.Bytes(), "image/png")
	require.NoError(t, err)
	return payload
}

func hoodie(t *testing.T) *entities.Garment {
	garment, err := entities.NewGarment("", "Black Hoodie", "https://example.com/hoodie.jpg")
	require.NoError(t, err)
	return garment
}

func photo(t *testing.T) *entities.UploadedFile {
	return entities.NewUploadedFile("photo.jpg", "image/jpeg", noisyJPEG(t, 64))
}

func imageResponse(image *valueobjects.ImagePayload) func(context.Context, *entities.TryOnRequest) (*entities.ModelResponse, error) {
	return func(ctx context.Context, request *entities.TryOnRequest) (*entities.ModelResponse, error) {
		return entities.NewModelResponse([]*entities.ContentPart{{InlineImage: image}}), nil
	}
}

func newTestUseCase(t *testing.T, model *fakeModel, source *fakeSource, timeout time.Duration) *TryOnUseCase {
	if source.payload == nil && source.err == nil {
		garment, err := valueobjects.NewImagePayload(noisyJPEG(t, 32), "")
		require.NoError(t, err)
		source.payload = garment
	}
	assets := services.NewAssetPreparationService(source, nil, 10<<20)
	return NewTryOnUseCase(assets, services.NewTryOnDomainService(model, nil), timeout)
}

func TestTryOnUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	generated := pngPayload(t)

	t.Run("success returns the model image", func(t *testing.T) {
		model := &fakeModel{generate: imageResponse(generated)}
		var phases []entities.Phase
		uc := newTestUseCase(t, model, &fakeSource{}, time.Minute)

		output, err := uc.Execute(ctx, TryOnInput{
			PersonFile: photo(t),
			Garment:    hoodie(t),
			OnPhase:    func(p entities.Phase) { phases = append(phases, p) },
		})
		require.NoError(t, err)
		require.Equal(t, generated.Data(), output.Image.Data())
		require.Equal(t, "image/png", output.Image.MimeType())
		require.Contains(t, output.DataURI(), "data:image/png;base64,")
		require.Equal(t, []entities.Phase{entities.PhasePreparing, entities.PhaseRequesting}, phases)
	})

	t.Run("model receives both payloads and the instruction", func(t *testing.T) {
		var seen *entities.TryOnRequest
		model := &fakeModel{generate: func(ctx context.Context, request *entities.TryOnRequest) (*entities.ModelResponse, error) {
			seen = request
			return imageResponse(generated)(ctx, request)
		}}
		source := &fakeSource{}
		uc := newTestUseCase(t, model, source, time.Minute)
		file := photo(t)

		_, err := uc.Execute(ctx, TryOnInput{PersonFile: file, Garment: hoodie(t)})
		require.NoError(t, err)
		require.Equal(t, source.payload.Data(), seen.GarmentImage().Data())
		require.Equal(t, "image/jpeg", seen.PersonImage().MimeType())
		require.Equal(t, services.TryOnInstruction, seen.Instruction())
		require.Equal(t, valueobjects.AspectPortrait, seen.AspectRatio())
	})

	t.Run("missing credential fails before any network work", func(t *testing.T) {
		model := &fakeModel{credErr: entities.NewTryOnError(entities.MissingCredential, "no key", nil)}
		source := &fakeSource{}
		uc := newTestUseCase(t, model, source, time.Minute)

		_, err := uc.Execute(ctx, TryOnInput{PersonFile: photo(t), Garment: hoodie(t)})
		require.True(t, entities.IsKind(err, entities.MissingCredential))
		require.Zero(t, source.calls.Load())
		require.Zero(t, model.calls.Load())
	})

	t.Run("read failure never calls the model", func(t *testing.T) {
		model := &fakeModel{generate: imageResponse(generated)}
		uc := newTestUseCase(t, model, &fakeSource{}, time.Minute)

		_, err := uc.Execute(ctx, TryOnInput{PersonFile: unreadableFile{}, Garment: hoodie(t)})
		require.True(t, entities.IsKind(err, entities.ReadError))
		require.Zero(t, model.calls.Load())
	})

	t.Run("fetch failure never calls the model", func(t *testing.T) {
		model := &fakeModel{generate: imageResponse(generated)}
		uc := newTestUseCase(t, model, &fakeSource{err: errors.New("unexpected status 502")}, time.Minute)

		_, err := uc.Execute(ctx, TryOnInput{PersonFile: photo(t), Garment: hoodie(t)})
		require.True(t, entities.IsKind(err, entities.FetchError))
		require.Zero(t, model.calls.Load())
	})

	t.Run("no image part", func(t *testing.T) {
		model := &fakeModel{generate: func(ctx context.Context, request *entities.TryOnRequest) (*entities.ModelResponse, error) {
			return entities.NewModelResponse([]*entities.ContentPart{{Text: "cannot comply"}}), nil
		}}
		uc := newTestUseCase(t, model, &fakeSource{}, time.Minute)

		_, err := uc.Execute(ctx, TryOnInput{PersonFile: photo(t), Garment: hoodie(t)})
		require.True(t, entities.IsKind(err, entities.NoImageReturned))
	})

	t.Run("model call is bounded by the timeout", func(t *testing.T) {
		model := &fakeModel{generate: func(ctx context.Context, request *entities.TryOnRequest) (*entities.ModelResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}}
		uc := newTestUseCase(t, model, &fakeSource{}, 20*time.Millisecond)

		_, err := uc.Execute(ctx, TryOnInput{PersonFile: photo(t), Garment: hoodie(t)})
		failure, ok := entities.AsTryOnError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusGatewayTimeout, failure.StatusCode)
		require.True(t, failure.Retryable)
	})
}
