package round

import "encoding/json"

// Phase represents the betting street a round is in.
// A round's phase only moves forward; it never regresses.
type Phase int

// constants for Phase
const (
	PhasePreFlop Phase = iota
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhasePreFlop:
		return "PRE_FLOP"
	case PhaseFlop:
		return "FLOP"
	case PhaseTurn:
		return "TURN"
	case PhaseRiver:
		return "RIVER"
	case PhaseFinished:
		return "FINISHED"
	}

	return ""
}

// communityCardCount returns how many community cards must be on the
// table during the phase
func (p Phase) communityCardCount() int {
	switch p {
	case PhasePreFlop:
		return 0
	case PhaseFlop:
		return 3
	case PhaseTurn:
		return 4
	}

	return 5
}

// MarshalJSON encodes JSON
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(p),
		Name: p.String(),
	})
}

// UnmarshalJSON decodes JSON
func (p *Phase) UnmarshalJSON(b []byte) error {
	var payload struct {
		ID int `json:"id"`
	}

	if err := json.Unmarshal(b, &payload); err != nil {
		return err
	}

	*p = Phase(payload.ID)
	return nil
}
