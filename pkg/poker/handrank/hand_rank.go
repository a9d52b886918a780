package handrank

import (
	"errors"
	"sort"

	"pokerroom-server/pkg/deck"
)

// ErrNotEnoughCards is an error when fewer than five cards are available to evaluate
var ErrNotEnoughCards = errors.New("at least five cards are required")

// Hand is the best five-card combination a player can make.
// RankValues is the ordered tie-break key, most significant rank first.
// For two pair that is [high pair, low pair, kicker]; for a full house
// [trips, pair]; for a straight just [high card].
type Hand struct {
	Type       HandType  `json:"handType"`
	Cards      deck.Hand `json:"cards"`
	RankValues []int     `json:"rankValues"`
}

// Evaluate returns the best five-card hand from the player's hole cards
// combined with the community cards. Every five-card subset is classified
// and the strongest one wins. Evaluate is pure; the input cards are not
// modified.
func Evaluate(holeCards, communityCards []deck.Card) (*Hand, error) {
	cards := make(deck.Hand, 0, len(holeCards)+len(communityCards))
	cards = append(cards, holeCards...)
	cards = append(cards, communityCards...)

	if len(cards) < 5 {
		return nil, ErrNotEnoughCards
	}

	var best *Hand
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						hand := classify(deck.Hand{cards[a], cards[b], cards[c], cards[d], cards[e]})
						if best == nil || Compare(hand, best) > 0 {
							best = hand
						}
					}
				}
			}
		}
	}

	return best, nil
}

// Compare orders two hands. The result is positive if a beats b, negative
// if b beats a, and zero for a split pot.
func Compare(a, b *Hand) int {
	if cmp := a.Type.Score() - b.Type.Score(); cmp != 0 {
		return cmp
	}

	for i := 0; i < len(a.RankValues) && i < len(b.RankValues); i++ {
		if cmp := a.RankValues[i] - b.RankValues[i]; cmp != 0 {
			return cmp
		}
	}

	return 0
}

// classify determines the category and tie-break key of exactly five cards
func classify(cards deck.Hand) *Hand {
	sorted := cards.Clone()
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})

	flush := isFlush(sorted)
	straightHigh, straight := straightHighCard(sorted)

	if straight && flush {
		return &Hand{Type: StraightFlush, Cards: sorted, RankValues: []int{straightHigh}}
	}

	groups := rankGroups(sorted)

	switch {
	case groups[0].count == 4:
		return &Hand{Type: FourOfAKind, Cards: sorted, RankValues: groupKey(groups)}
	case groups[0].count == 3 && groups[1].count == 2:
		return &Hand{Type: FullHouse, Cards: sorted, RankValues: groupKey(groups)}
	case flush:
		return &Hand{Type: Flush, Cards: sorted, RankValues: ranksOf(sorted)}
	case straight:
		return &Hand{Type: Straight, Cards: sorted, RankValues: []int{straightHigh}}
	case groups[0].count == 3:
		return &Hand{Type: ThreeOfAKind, Cards: sorted, RankValues: groupKey(groups)}
	case groups[0].count == 2 && groups[1].count == 2:
		return &Hand{Type: TwoPair, Cards: sorted, RankValues: groupKey(groups)}
	case groups[0].count == 2:
		return &Hand{Type: OnePair, Cards: sorted, RankValues: groupKey(groups)}
	}

	return &Hand{Type: HighCard, Cards: sorted, RankValues: ranksOf(sorted)}
}

func isFlush(cards deck.Hand) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}

	return true
}

// straightHighCard expects cards sorted by descending rank.
// The wheel (A-5-4-3-2) counts as a five-high straight.
func straightHighCard(cards deck.Hand) (int, bool) {
	run := true
	for i := 1; i < len(cards); i++ {
		if cards[i].Rank != cards[i-1].Rank-1 {
			run = false
			break
		}
	}

	if run {
		return cards[0].Rank, true
	}

	// check for the wheel: ace plays low
	if cards[0].Rank == deck.Ace {
		for i := 1; i < len(cards); i++ {
			if cards[i].Rank != 6-i {
				return 0, false
			}
		}

		return 5, true
	}

	return 0, false
}

type rankGroup struct {
	rank  int
	count int
}

// rankGroups expects cards sorted by descending rank and returns groups
// ordered by count, then rank, both descending
func rankGroups(cards deck.Hand) []rankGroup {
	groups := make([]rankGroup, 0, len(cards))
	for _, c := range cards {
		if n := len(groups); n > 0 && groups[n-1].rank == c.Rank {
			groups[n-1].count++
			continue
		}

		groups = append(groups, rankGroup{rank: c.Rank, count: 1})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}

		return groups[i].rank > groups[j].rank
	})

	return groups
}

func groupKey(groups []rankGroup) []int {
	key := make([]int, len(groups))
	for i, g := range groups {
		key[i] = g.rank
	}

	return key
}

func ranksOf(cards deck.Hand) []int {
	ranks := make([]int, len(cards))
	for i, c := range cards {
		ranks[i] = c.Rank
	}

	return ranks
}
