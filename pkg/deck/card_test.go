package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardFromString(t *testing.T) {
	a := assert.New(t)

	card := CardFromString("14s")
	a.Equal(Ace, card.Rank)
	a.Equal(Spades, card.Suit)

	card = CardFromString("2c")
	a.Equal(2, card.Rank)
	a.Equal(Clubs, card.Suit)

	a.PanicsWithValue("could not parse card: 15s", func() {
		CardFromString("15s")
	})

	a.PanicsWithValue("could not parse card: 2x", func() {
		CardFromString("2x")
	})
}

func TestCard_String(t *testing.T) {
	a := assert.New(t)
	a.Equal("A♠", CardFromString("14s").String())
	a.Equal("T♡", CardFromString("10h").String())
	a.Equal("2♣", CardFromString("2c").String())
	a.Equal("J♢", CardFromString("11d").String())
}

func TestCard_Equal(t *testing.T) {
	a := assert.New(t)
	a.True(CardFromString("5d").Equal(CardFromString("5d")))
	a.False(CardFromString("5d").Equal(CardFromString("5c")))
	a.False(CardFromString("5d").Equal(CardFromString("6d")))
}

func TestCard_AceLowRank(t *testing.T) {
	a := assert.New(t)
	a.Equal(1, CardFromString("14s").AceLowRank())
	a.Equal(13, CardFromString("13s").AceLowRank())
}

func TestCardsFromString(t *testing.T) {
	a := assert.New(t)

	cards := CardsFromString("2c,3d,14h")
	a.Equal(3, len(cards))
	a.Equal("2c,3d,14h", CardsToString(cards))

	a.Equal([]Card{}, CardsFromString(""))
}
