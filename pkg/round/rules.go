package round

import "errors"

// GameRules are the immutable rules a room plays under, supplied to the
// engine when a round is created
type GameRules struct {
	SmallBlind     int `json:"smallBlind" yaml:"smallBlind"`
	BigBlind       int `json:"bigBlind" yaml:"bigBlind"`
	PlayDelay      int `json:"playDelay" yaml:"playDelay"`
	StartingChips  int `json:"startingChips" yaml:"startingChips"`
	MaxPlayerCount int `json:"maxPlayerCount" yaml:"maxPlayerCount"`
}

// DefaultRules returns the default game rules
func DefaultRules() GameRules {
	return GameRules{
		SmallBlind:     10,
		BigBlind:       20,
		PlayDelay:      30,
		StartingChips:  2000,
		MaxPlayerCount: 6,
	}
}

// Validate ensures the rules are playable
func (g GameRules) Validate() error {
	if g.SmallBlind <= 0 {
		return errors.New("small blind must be > 0")
	}

	if g.BigBlind <= g.SmallBlind {
		return errors.New("big blind must be greater than the small blind")
	}

	if g.StartingChips < g.BigBlind {
		return errors.New("starting chips must cover the big blind")
	}

	if g.MaxPlayerCount < 2 {
		return errors.New("max player count must be >= 2")
	}

	return nil
}
