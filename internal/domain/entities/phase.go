package entities

// Phase is the position of the fitting-room flow:
// Idle -> Preparing -> Requesting -> {Succeeded, Failed}.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhasePreparing  Phase = "preparing"
	PhaseRequesting Phase = "requesting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

func (p Phase) IsTerminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

func (p Phase) InFlight() bool {
	return p == PhasePreparing || p == PhaseRequesting
}
