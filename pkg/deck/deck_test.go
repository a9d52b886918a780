package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pokerroom-server/internal/rng"
)

func TestNew(t *testing.T) {
	a := assert.New(t)

	d := New()
	a.Equal(52, len(d.Cards))

	seen := make(map[string]bool)
	for _, c := range d.Cards {
		seen[CardToString(c)] = true
	}
	a.Equal(52, len(seen))
}

func TestDeck_Shuffle(t *testing.T) {
	a := assert.New(t)

	d := New()
	d.SetGenerator(rng.NewSeeded(42))
	d.Shuffle()
	a.Equal(52, len(d.Cards))

	d2 := New()
	d2.SetGenerator(rng.NewSeeded(42))
	d2.Shuffle()

	for i := range d.Cards {
		a.True(d.Cards[i].Equal(d2.Cards[i]))
	}
}

func TestDeck_Draw(t *testing.T) {
	a := assert.New(t)

	d := New()
	a.True(d.CanDraw(52))
	a.False(d.CanDraw(53))

	card, err := d.Draw()
	a.NoError(err)
	a.Equal(2, card.Rank)
	a.Equal(51, d.CardsLeft())

	for d.CardsLeft() > 0 {
		_, err := d.Draw()
		a.NoError(err)
	}

	_, err = d.Draw()
	a.Equal(ErrEndOfDeck, err)
}

func TestHand(t *testing.T) {
	a := assert.New(t)

	h := Hand{}
	h.AddCard(CardFromString("2c"))
	h.AddCard(CardFromString("14s"))

	a.True(h.HasCard(CardFromString("2c")))
	a.False(h.HasCard(CardFromString("2d")))
	a.Equal("2c,14s", h.String())

	first, ok := h.FirstCard()
	a.True(ok)
	a.Equal(2, first.Rank)

	clone := h.Clone()
	clone[0] = CardFromString("9h")
	a.True(h[0].Equal(CardFromString("2c")))
}
