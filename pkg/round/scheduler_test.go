package round

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testPlayers(n int) []*Player {
	players := make([]*Player, n)
	for i := range players {
		players[i] = newPlayer(Seat{UserID: string(rune('a' + i)), Chips: 1000})
	}

	return players
}

func TestScheduler_blindPositions(t *testing.T) {
	a := assert.New(t)

	// heads-up: the button is the small blind
	s := newScheduler(testPlayers(2), 0)
	a.Equal(0, s.smallBlindIndex())
	a.Equal(1, s.bigBlindIndex())

	s = newScheduler(testPlayers(2), 1)
	a.Equal(1, s.smallBlindIndex())
	a.Equal(0, s.bigBlindIndex())

	// three-handed: the blinds follow the button
	s = newScheduler(testPlayers(3), 0)
	a.Equal(1, s.smallBlindIndex())
	a.Equal(2, s.bigBlindIndex())

	s = newScheduler(testPlayers(3), 2)
	a.Equal(0, s.smallBlindIndex())
	a.Equal(1, s.bigBlindIndex())
}

func TestScheduler_firstToAct(t *testing.T) {
	a := assert.New(t)

	s := newScheduler(testPlayers(3), 0)
	s.startPreFlop()
	a.Equal("a", s.expected().UserID())

	s.startStreet()
	a.Equal("b", s.expected().UserID())

	// heads-up pre-flop, the button acts first
	s = newScheduler(testPlayers(2), 0)
	s.startPreFlop()
	a.Equal("a", s.expected().UserID())

	s.startStreet()
	a.Equal("b", s.expected().UserID())
}

func TestScheduler_skipsFoldedSeats(t *testing.T) {
	a := assert.New(t)

	players := testPlayers(4)
	players[1].status = StatusFolded
	players[2].status = StatusAllIn

	s := newScheduler(players, 0)
	s.startStreet()
	a.Equal("d", s.expected().UserID())

	s.moveOn()
	a.Equal("a", s.expected().UserID())
}

func TestScheduler_raiseReopensAction(t *testing.T) {
	a := assert.New(t)

	players := testPlayers(3)
	s := newScheduler(players, 0)
	s.startStreet()

	streetBet := func(string) int { return 0 }

	s.recordAct(players[1], false)
	s.recordAct(players[2], false)
	a.False(s.streetComplete(streetBet, 0))

	s.recordAct(players[0], false)
	a.True(s.streetComplete(streetBet, 0))

	// a raise clears everyone else's acted flag
	s.recordAct(players[1], true)
	a.False(s.streetComplete(streetBet, 0))
}

func TestScheduler_streetCompleteRequiresMatchedBets(t *testing.T) {
	a := assert.New(t)

	players := testPlayers(2)
	s := newScheduler(players, 0)
	s.startStreet()

	bets := map[string]int{"a": 20, "b": 10}
	streetBet := func(id string) int { return bets[id] }

	s.recordAct(players[0], false)
	s.recordAct(players[1], false)
	a.False(s.streetComplete(streetBet, 20))

	bets["b"] = 20
	a.True(s.streetComplete(streetBet, 20))
}

func TestScheduler_nobodyCanAct(t *testing.T) {
	a := assert.New(t)

	players := testPlayers(2)
	players[0].status = StatusAllIn
	players[1].status = StatusAllIn

	s := newScheduler(players, 0)
	s.startStreet()
	a.Nil(s.expected())

	// with no one able to act, the street is trivially complete
	a.True(s.streetComplete(func(string) int { return 0 }, 0))
}
