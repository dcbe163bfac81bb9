// Package app wires configuration into the try-on pipeline shared by the
// server and the command-line tool.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"fitting-room/internal/application/services"
	"fitting-room/internal/application/usecases"
	domainrepositories "fitting-room/internal/domain/repositories"
	domainservices "fitting-room/internal/domain/services"
	"fitting-room/internal/infrastructure/config"
	"fitting-room/internal/infrastructure/external"
	"fitting-room/internal/infrastructure/repositories"
	infraservices "fitting-room/internal/infrastructure/services"
)

type App struct {
	Catalog *services.CatalogService
	TryOn   *usecases.TryOnUseCase

	closers []func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{}

	proxy := cfg.ImageProxy()
	catalog, err := services.LoadCatalog(cfg.CatalogFile, proxy)
	if err != nil {
		return nil, err
	}
	a.Catalog = catalog

	parameters, err := cfg.TryOnParameters()
	if err != nil {
		return nil, err
	}

	model, err := a.newModel(cfg)
	if err != nil {
		return nil, err
	}

	cache, err := a.newCache(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	fetcher := external.NewCatalogImageFetcher(&http.Client{Timeout: cfg.FetchTimeout}, proxy, cfg.ImageProxyWidth)
	assets := domainservices.NewAssetPreparationService(fetcher, cache, cfg.MaxUploadBytes)
	a.TryOn = usecases.NewTryOnUseCase(assets, domainservices.NewTryOnDomainService(model, parameters), cfg.ModelTimeout)

	log.Ctx(ctx).Info().
		Str("backend", model.Name()).
		Str("aspect_ratio", cfg.AspectRatio).
		Bool("image_proxy", proxy.Enabled()).
		Int("garments", len(catalog.List())).
		Msg("try-on pipeline ready")

	return a, nil
}

func (a *App) newModel(cfg config.Config) (domainrepositories.TryOnModel, error) {
	var model domainrepositories.TryOnModel

	switch cfg.ModelBackend {
	case config.BackendGemini:
		pool := infraservices.NewClientPoolService(&domainrepositories.AIClientConfig{})
		model = external.NewGeminiTryOnModel(pool.GenAIPool(), cfg.ResolvedAPIKey(), cfg.GeminiModel)
		a.closers = append(a.closers, pool.Close)
	case config.BackendVertex:
		pool := infraservices.NewClientPoolService(&domainrepositories.AIClientConfig{
			ProjectID:       cfg.ProjectID,
			Location:        cfg.Location,
			CredentialsJSON: cfg.CredentialsJSON,
		})
		model = external.NewVertexTryOnModel(pool, cfg.GeminiModel)
	case config.BackendVTO:
		model = external.NewVirtualTryOnModel(cfg.ProjectID, cfg.Location, cfg.VTOModel, cfg.CredentialsJSON)
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.ModelBackend)
	}

	a.closers = append(a.closers, model.Close)
	return model, nil
}

// newCache uses Redis when REDIS_ADDR is set and an in-process cache otherwise.
func (a *App) newCache(ctx context.Context, cfg config.Config) (domainrepositories.AssetCache, error) {
	if cfg.RedisAddr == "" {
		return repositories.NewMemoryAssetCache(cfg.AssetCacheTTL), nil
	}

	client, err := repositories.ConnectRedis(ctx, repositories.RedisOptions{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
		UseTLS:   cfg.RedisUseTLS,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)

	log.Ctx(ctx).Info().Str("addr", cfg.RedisAddr).Msg("using redis asset cache")
	return repositories.NewRedisAssetCache(client, cfg.AssetCacheTTL), nil
}

// Close releases model clients and the cache connection in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	return errors.Join(errs...)
}
