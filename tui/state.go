package tui

type state int

const (
	waitingState state = iota
	rawState
	sessionState
	errorState
)
