package usecases

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"fitting-room/internal/domain/entities"
	"fitting-room/internal/domain/services"
	"fitting-room/internal/domain/valueobjects"
)

type TryOnUseCase struct {
	assets        *services.AssetPreparationService
	domainService *services.TryOnDomainService
	modelTimeout  time.Duration
}

func NewTryOnUseCase(
	assets *services.AssetPreparationService,
	domainService *services.TryOnDomainService,
	modelTimeout time.Duration,
) *TryOnUseCase {
	return &TryOnUseCase{
		assets:        assets,
		domainService: domainService,
		modelTimeout:  modelTimeout,
	}
}

type TryOnInput struct {
	PersonFile entities.LocalFile
	Garment    *entities.Garment

	// OnPhase is called when the flow moves past Preparing. Optional.
	OnPhase func(entities.Phase)
}

type TryOnOutput struct {
	RequestID entities.TryOnRequestID
	Image     *valueobjects.ImagePayload
}

func (o *TryOnOutput) DataURI() string {
	return o.Image.DataURI()
}

// Execute runs one try-on attempt. Every failure is returned as a
// *entities.TryOnError; nothing is retried.
func (uc *TryOnUseCase) Execute(ctx context.Context, input TryOnInput) (*TryOnOutput, error) {
	logger := log.Ctx(ctx)

	if err := uc.domainService.CheckCredentials(ctx); err != nil {
		return nil, err
	}

	notify(input.OnPhase, entities.PhasePreparing)
	person, garment, err := uc.assets.PreparePair(ctx, input.PersonFile, input.Garment)
	if err != nil {
		logger.Warn().Err(err).Msg("asset preparation failed")
		return nil, services.ClassifyRemoteError(ctx, err)
	}

	request, err := uc.domainService.BuildRequest(person, garment)
	if err != nil {
		return nil, services.ClassifyRemoteError(ctx, err)
	}

	notify(input.OnPhase, entities.PhaseRequesting)

	callCtx := ctx
	if uc.modelTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, uc.modelTimeout)
		defer cancel()
	}

	result := uc.domainService.ProcessTryOn(callCtx, request)
	if !result.Succeeded() {
		return nil, result.Failure()
	}

	return &TryOnOutput{
		RequestID: result.RequestID(),
		Image:     result.Image(),
	}, nil
}

func notify(onPhase func(entities.Phase), phase entities.Phase) {
	if onPhase != nil {
		onPhase(phase)
	}
}
