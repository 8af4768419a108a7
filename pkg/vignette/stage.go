package vignette

// Stage is where a generation cycle currently is.
type Stage int32

const (
	Idle Stage = iota
	LoadingState
	GeneratingProse
	Summarizing
	UpdatingCrew
	Persisting
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case LoadingState:
		return "loading_state"
	case GeneratingProse:
		return "generating_prose"
	case Summarizing:
		return "summarizing"
	case UpdatingCrew:
		return "updating_crew"
	case Persisting:
		return "persisting"
	default:
		return "unknown"
	}
}
