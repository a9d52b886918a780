package round

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind identifies why an act or operation was rejected.
// Clients receive the kind as a stable code so they can re-prompt the
// correct actor.
type Kind string

// error kinds
const (
	OutOfTurn             Kind = "OUT_OF_TURN"
	IllegalActionForPhase Kind = "ILLEGAL_ACTION_FOR_PHASE"
	InsufficientStack     Kind = "INSUFFICIENT_STACK"
	RoundAlreadyFinished  Kind = "ROUND_ALREADY_FINISHED"
	NotEnoughPlayers      Kind = "NOT_ENOUGH_PLAYERS"
	InvariantViolation    Kind = "INVARIANT_VIOLATION"
)

// Error is a rejection with a stable kind and a human-readable reason
type Error struct {
	kind    Kind
	message string
}

func newError(kind Kind, format string, a ...interface{}) *Error {
	return &Error{
		kind:    kind,
		message: fmt.Sprintf(format, a...),
	}
}

// ErrNotEnoughPlayers is returned when a round is started with fewer than two eligible players
var ErrNotEnoughPlayers = newError(NotEnoughPlayers, "at least two players are required to start a round")

func (e *Error) Error() string {
	return e.message
}

// Kind returns the error's kind
func (e *Error) Kind() Kind {
	return e.kind
}

// MarshalJSON encodes JSON
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code    Kind   `json:"code"`
		Message string `json:"message"`
	}{
		Code:    e.kind,
		Message: e.message,
	})
}

// KindOf returns the kind of the error, or an empty kind for foreign errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}

	return ""
}
