package round

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ActType represents a decision a player can make
type ActType string

// act type constants
const (
	ActCheck     ActType = "CHECK"
	ActCall      ActType = "CALL"
	ActRaise     ActType = "RAISE"
	ActFold      ActType = "FOLD"
	ActBlind     ActType = "BLIND"
	ActUndecided ActType = "UNDECIDED"
)

// client-submittable acts; blinds are synthesized by the engine
var submittableActs = map[ActType]bool{
	ActCheck: true,
	ActCall:  true,
	ActRaise: true,
	ActFold:  true,
}

// ActTypeFromString returns an act type for the given string.
// The comparison is case-insensitive.
func ActTypeFromString(s string) (ActType, error) {
	t := ActType(strings.ToUpper(s))
	if submittableActs[t] {
		return t, nil
	}

	return "", fmt.Errorf("unknown act type: %s", s)
}

// IsSubmittable returns true if a client may submit the act type
func (t ActType) IsSubmittable() bool {
	return submittableActs[t]
}

func (t ActType) String() string {
	return string(t)
}

// Act is an immutable record of one decision in a round.
// Bet is the number of chips the act moved into the pot; TotalBet is the
// actor's street commitment after the act was applied.
type Act struct {
	RoundID  uuid.UUID `json:"roundId"`
	UserID   string    `json:"userId"`
	Type     ActType   `json:"type"`
	Phase    Phase     `json:"phase"`
	Bet      int       `json:"bet"`
	TotalBet int       `json:"totalBet"`
}
