package tui

type state int

const (
	inputState state = iota
	historyState
	resolvingState
	playingState
	embedState
	errorState
)

func (s state) String() string {
	switch s {
	case inputState:
		return "input"
	case historyState:
		return "history"
	case resolvingState:
		return "resolving"
	case playingState:
		return "playing"
	case embedState:
		return "embed"
	case errorState:
		return "error"
	default:
		return "unknown"
	}
}
