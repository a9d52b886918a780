package round

import (
	"github.com/google/uuid"

	"pokerroom-server/pkg/deck"
)

// PlayerState is the public view of one player in a round
type PlayerState struct {
	UserID    string    `json:"userId"`
	Stack     int       `json:"stack"`
	StreetBet int       `json:"streetBet"`
	TotalBet  int       `json:"totalBet"`
	Status    Status    `json:"status"`
	Cards     deck.Hand `json:"cards,omitempty"`
	Hand      string    `json:"hand,omitempty"`
}

// Snapshot is an immutable view of a round, safe to broadcast and
// persist. Hole cards are only included for players who went to
// showdown.
type Snapshot struct {
	ID            uuid.UUID     `json:"id"`
	Button        int           `json:"button"`
	Phase         Phase         `json:"phase"`
	Pot           int           `json:"pot"`
	Bet           int           `json:"bet"`
	Community     deck.Hand     `json:"community"`
	Players       []PlayerState `json:"players"`
	ExpectedActor string        `json:"expectedActor,omitempty"`
	Finished      bool          `json:"finished"`
	Acts          []Act         `json:"acts"`
	Result        *Result       `json:"result,omitempty"`
}

// Players returns the per-player public state in seat order.
// Hole cards are only included for players who went to showdown in a
// finished round.
func (r *Round) Players() []PlayerState {
	players := make([]PlayerState, len(r.players))
	for i, p := range r.players {
		ps := PlayerState{
			UserID:    p.userID,
			Stack:     p.stack,
			StreetBet: r.pm.StreetBet(p.userID),
			TotalBet:  r.pm.TotalBet(p.userID),
			Status:    p.status,
		}

		// reveal showdown hands once the round is over
		if r.finished {
			if hand, ok := r.hands[p.userID]; ok {
				ps.Cards = p.HoleCards()
				ps.Hand = hand.Type.String()
			}
		}

		players[i] = ps
	}

	return players
}

// Snapshot returns the round's current public state
func (r *Round) Snapshot() Snapshot {
	snapshot := Snapshot{
		ID:        r.id,
		Button:    r.button,
		Phase:     r.phase,
		Pot:       r.pm.TotalPot(),
		Bet:       r.pm.Bet(),
		Community: r.Community(),
		Players:   r.Players(),
		Finished:  r.finished,
		Acts:      r.Acts(),
		Result:    r.Result(),
	}

	if actor, ok := r.ExpectedActor(); ok {
		snapshot.ExpectedActor = actor
	}

	return snapshot
}
