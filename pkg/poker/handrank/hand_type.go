package handrank

import (
	"encoding/json"
	"fmt"
)

// HandType is a poker hand category, i.e., full house
type HandType int

// hand type constants, weakest first
const (
	HighCard HandType = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// Score returns the numeric score used as the primary sort key
func (t HandType) Score() int {
	return int(t)
}

// String returns the string representation of a hand type
func (t HandType) String() string {
	switch t {
	case HighCard:
		return "High card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two pair"
	case ThreeOfAKind:
		return "Three of a kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full house"
	case FourOfAKind:
		return "Four of a kind"
	case StraightFlush:
		return "Straight flush"
	default:
		panic(fmt.Sprintf("unknown hand type: %d", t))
	}
}

// MarshalJSON encodes JSON
func (t HandType) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Score int    `json:"score"`
		Name  string `json:"name"`
	}{
		Score: t.Score(),
		Name:  t.String(),
	})
}

// UnmarshalJSON decodes JSON
func (t *HandType) UnmarshalJSON(b []byte) error {
	var payload struct {
		Score int `json:"score"`
	}

	if err := json.Unmarshal(b, &payload); err != nil {
		return err
	}

	*t = HandType(payload.Score)
	return nil
}
