package round

import "pokerroom-server/pkg/deck"

// Status is a player's standing within the round
type Status string

// status constants
const (
	StatusActive       Status = "active"
	StatusFolded       Status = "folded"
	StatusAllIn        Status = "all-in"
	StatusDisconnected Status = "disconnected"
)

// Seat pairs a user with the chips they bring into the round
type Seat struct {
	UserID string
	Chips  int
}

// Player is a participant in a single round. Players are created when the
// round starts and are never removed mid-round; folded players are kept
// for pot and showdown accounting.
type Player struct {
	userID string
	stack  int
	cards  deck.Hand
	status Status
}

func newPlayer(seat Seat) *Player {
	return &Player{
		userID: seat.UserID,
		stack:  seat.Chips,
		cards:  make(deck.Hand, 0, 2),
		status: StatusActive,
	}
}

// UserID returns the player's user ID
func (p *Player) UserID() string {
	return p.userID
}

// Status returns the player's standing within the round
func (p *Player) Status() Status {
	return p.status
}

// HoleCards returns a copy of the player's hole cards
func (p *Player) HoleCards() deck.Hand {
	return p.cards.Clone()
}

// CanAct returns true if the player may still make decisions
func (p *Player) CanAct() bool {
	return p.status == StatusActive
}

// potmanager.Participant interface

// ID returns the player's user ID
func (p *Player) ID() string {
	return p.userID
}

// Stack returns the chips the player has behind
func (p *Player) Stack() int {
	return p.stack
}

// AdjustStack adds the amount to the player's stack
func (p *Player) AdjustStack(amount int) {
	p.stack += amount
}
