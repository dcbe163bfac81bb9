package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"fitting-room/internal/domain/entities"
	"fitting-room/internal/domain/repositories"
	"fitting-room/internal/domain/valueobjects"
)

// AssetPreparationService turns the user's photo and a catalog image into
// inline payloads for the model.
type AssetPreparationService struct {
	source         repositories.RemoteImageSource
	cache          repositories.AssetCache
	maxUploadBytes int64
}

// NewAssetPreparationService builds the service. cache may be nil;
// maxUploadBytes <= 0 disables the upload size policy.
func NewAssetPreparationService(
	source repositories.RemoteImageSource,
	cache repositories.AssetCache,
	maxUploadBytes int64,
) *AssetPreparationService {
	return &AssetPreparationService{
		source:         source,
		cache:          cache,
		maxUploadBytes: maxUploadBytes,
	}
}

func (s *AssetPreparationService) PrepareLocalImage(ctx context.Context, file entities.LocalFile) (*valueobjects.ImagePayload, error) {
	if file == nil {
		return nil, entities.NewTryOnError(entities.ReadError, "no photo selected", nil)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, entities.NewTryOnError(entities.ReadError, fmt.Sprintf("failed to open %s", file.Name()), err)
	}
	defer rc.Close()

	var reader io.Reader = rc
	if s.maxUploadBytes > 0 {
		reader = io.LimitReader(rc, s.maxUploadBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, entities.NewTryOnError(entities.ReadError, fmt.Sprintf("failed to read %s", file.Name()), err)
	}

	if s.maxUploadBytes > 0 && int64(len(data)) > s.maxUploadBytes {
		return nil, entities.NewTryOnError(entities.ReadError,
			fmt.Sprintf("%s is larger than %d bytes", file.Name(), s.maxUploadBytes), entities.ErrTooLarge)
	}

	payload, err := valueobjects.NewImagePayload(data, file.MimeType())
	if err != nil {
		return nil, entities.NewTryOnError(entities.ReadError, fmt.Sprintf("failed to read %s", file.Name()), err)
	}

	log.Ctx(ctx).Debug().
		Str("file", file.Name()).
		Str("mime_type", payload.MimeType()).
		Int("bytes", payload.Size()).
		Msg("photo prepared")

	return payload, nil
}

func (s *AssetPreparationService) PrepareRemoteImage(ctx context.Context, imageURL string) (*valueobjects.ImagePayload, error) {
	logger := log.Ctx(ctx).With().Str("url", imageURL).Logger()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, imageURL)
		switch {
		case err == nil:
			logger.Debug().Msg("garment image served from cache")
			return cached, nil
		case !errors.Is(err, repositories.ErrCacheMiss):
			logger.Warn().Err(err).Msg("asset cache lookup failed")
		}
	}

	payload, err := s.source.Fetch(ctx, imageURL)
	if err != nil {
		if entities.IsKind(err, entities.FetchError) {
			return nil, err
		}
		return nil, entities.NewTryOnError(entities.FetchError, "failed to fetch garment image", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, imageURL, payload); err != nil {
			logger.Warn().Err(err).Msg("asset cache store failed")
		}
	}

	logger.Debug().
		Str("mime_type", payload.MimeType()).
		Int("bytes", payload.Size()).
		Msg("garment image prepared")

	return payload, nil
}

// PreparePair prepares both images concurrently. The first failure cancels
// the other preparation and no partial result is returned.
func (s *AssetPreparationService) PreparePair(
	ctx context.Context,
	file entities.LocalFile,
	garment *entities.Garment,
) (*valueobjects.ImagePayload, *valueobjects.ImagePayload, error) {
	if garment == nil {
		return nil, nil, entities.NewTryOnError(entities.FetchError, "no garment selected", nil)
	}

	var person, clothing *valueobjects.ImagePayload

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		person, err = s.PrepareLocalImage(gctx, file)
		return err
	})
	g.Go(func() error {
		var err error
		clothing, err = s.PrepareRemoteImage(gctx, garment.ImageURL())
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return person, clothing, nil
}
