package usecases

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"fitting-room/internal/domain/entities"
)

var (
	ErrBusy                = errors.New("a try-on is already in progress")
	ErrIncompleteSelection = errors.New("select a photo and a garment first")
	ErrSuperseded          = errors.New("selection changed while the try-on was running")
)

type TryOnRunner interface {
	Execute(ctx context.Context, input TryOnInput) (*TryOnOutput, error)
}

// FittingRoom owns the state of the single fitting-room session: the current
// selections, the busy flag and the result or error slot.
type FittingRoom struct {
	runner TryOnRunner

	mu         sync.Mutex
	photo      entities.LocalFile
	garment    *entities.Garment
	phase      entities.Phase
	generation uint64
	cancel     context.CancelFunc
	output     *TryOnOutput
	failure    *entities.TryOnError
}

func NewFittingRoom(runner TryOnRunner) *FittingRoom {
	return &FittingRoom{
		runner: runner,
		phase:  entities.PhaseIdle,
	}
}

type Snapshot struct {
	Phase   entities.Phase
	Photo   string
	Garment *entities.Garment
	Output  *TryOnOutput
	Failure *entities.TryOnError
}

func (s Snapshot) Busy() bool {
	return s.Phase.InFlight()
}

func (f *FittingRoom) SelectPhoto(ctx context.Context, photo entities.LocalFile) Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.photo = photo
	f.invalidateLocked(ctx)
	return f.snapshotLocked()
}

func (f *FittingRoom) SelectGarment(ctx context.Context, garment *entities.Garment) Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.garment = garment
	f.invalidateLocked(ctx)
	return f.snapshotLocked()
}

// Reset discards the current result or error and keeps the selections.
func (f *FittingRoom) Reset(ctx context.Context) Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.invalidateLocked(ctx)
	return f.snapshotLocked()
}

func (f *FittingRoom) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.snapshotLocked()
}

// Generate runs one try-on with the current selections and blocks until it
// settles. A call made while another is in flight returns ErrBusy without
// starting anything. A run whose selections changed before it finished is
// discarded and reported as ErrSuperseded.
func (f *FittingRoom) Generate(ctx context.Context) (Snapshot, error) {
	f.mu.Lock()
	if f.phase.InFlight() {
		snapshot := f.snapshotLocked()
		f.mu.Unlock()
		return snapshot, ErrBusy
	}
	if f.photo == nil || f.garment == nil {
		snapshot := f.snapshotLocked()
		f.mu.Unlock()
		return snapshot, ErrIncompleteSelection
	}

	f.generation++
	generation := f.generation
	runCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.phase = entities.PhasePreparing
	f.output = nil
	f.failure = nil
	input := TryOnInput{
		PersonFile: f.photo,
		Garment:    f.garment,
		OnPhase: func(phase entities.Phase) {
			f.advance(generation, phase)
		},
	}
	f.mu.Unlock()

	logger := log.Ctx(ctx).With().
		Uint64("generation", generation).
		Str("garment", f.garmentName(input.Garment)).
		Logger()
	logger.Info().Msg("try-on started")

	output, err := f.runner.Execute(runCtx, input)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	if generation != f.generation {
		logger.Info().Msg("try-on result discarded, selection changed")
		return f.snapshotLocked(), ErrSuperseded
	}

	f.cancel = nil
	if err != nil {
		failure, ok := entities.AsTryOnError(err)
		if !ok {
			failure = entities.NewRemoteCallError(0, err.Error(), err)
		}
		f.phase = entities.PhaseFailed
		f.failure = failure
		logger.Info().Str("kind", string(failure.Kind)).Msg("try-on failed")
		return f.snapshotLocked(), nil
	}

	f.phase = entities.PhaseSucceeded
	f.output = output
	logger.Info().Str("request_id", string(output.RequestID)).Msg("try-on succeeded")
	return f.snapshotLocked(), nil
}

func (f *FittingRoom) advance(generation uint64, phase entities.Phase) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if generation == f.generation && f.phase.InFlight() {
		f.phase = phase
	}
}

func (f *FittingRoom) invalidateLocked(ctx context.Context) {
	if f.cancel != nil {
		log.Ctx(ctx).Info().Uint64("generation", f.generation).Msg("cancelling in-flight try-on")
		f.cancel()
		f.cancel = nil
	}
	f.generation++
	f.phase = entities.PhaseIdle
	f.output = nil
	f.failure = nil
}

func (f *FittingRoom) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		Phase:   f.phase,
		Garment: f.garment,
		Output:  f.output,
		Failure: f.failure,
	}
	if f.photo != nil {
		snapshot.Photo = f.photo.Name()
	}
	return snapshot
}

func (f *FittingRoom) garmentName(garment *entities.Garment) string {
	if garment == nil {
		return ""
	}
	return garment.Name()
}
