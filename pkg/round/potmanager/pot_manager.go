package potmanager

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInsufficientStack is an error when a commitment exceeds the participant's stack
var ErrInsufficientStack = errors.New("commitment exceeds remaining stack")

// ErrParticipantNotFound is an error when a participant with a provided ID cannot be found
var ErrParticipantNotFound = errors.New("participant not found")

// PotManager keeps the chip books for one round: per-street commitments,
// per-round totals, and the pot. The chip-sum invariant (pot equals the
// sum of all commitments) can be verified at any time with CheckInvariant.
type PotManager struct {
	participants map[string]*participantInPot
	tableOrder   []*participantInPot
	pot          int
	bet          int
}

// New instantiates a new PotManager
func New() *PotManager {
	return &PotManager{
		participants: make(map[string]*participantInPot),
	}
}

// SeatParticipant adds a participant to the table.
// This method must be called in seat order.
func (p *PotManager) SeatParticipant(pt Participant) error {
	if pt.Stack() <= 0 {
		return errors.New("cannot seat participant without a stack")
	}

	pip := &participantInPot{
		Participant: pt,
		tableIndex:  len(p.tableOrder),
	}
	p.participants[pt.ID()] = pip
	p.tableOrder = append(p.tableOrder, pip)

	return nil
}

// Commit raises the participant's street commitment to the amount and
// moves the difference from their stack into the pot. Committing the
// entire stack marks the participant all-in. The chips added are returned.
func (p *PotManager) Commit(id string, amount int) (int, error) {
	pip, ok := p.participants[id]
	if !ok {
		return 0, ErrParticipantNotFound
	}

	added := amount - pip.streetBet
	if added < 0 {
		return 0, fmt.Errorf("street commitment cannot shrink from %d to %d", pip.streetBet, amount)
	}

	if added > pip.Stack() {
		return 0, ErrInsufficientStack
	}

	if added == pip.Stack() {
		pip.isAllIn = true
	}

	pip.streetBet = amount
	pip.totalBet += added
	pip.AdjustStack(-added)
	p.pot += added

	if amount > p.bet {
		p.bet = amount
	}

	return added, nil
}

// Fold marks the participant as folded.
// Their commitments stay in the pot.
func (p *PotManager) Fold(id string) error {
	pip, ok := p.participants[id]
	if !ok {
		return ErrParticipantNotFound
	}

	pip.isFolded = true
	return nil
}

// Bet returns the highest street commitment
func (p *PotManager) Bet() int {
	return p.bet
}

// TotalPot returns the pot across the round's lifetime
func (p *PotManager) TotalPot() int {
	return p.pot
}

// StreetBet returns the participant's commitment on the current street
func (p *PotManager) StreetBet(id string) int {
	if pip, ok := p.participants[id]; ok {
		return pip.streetBet
	}

	return 0
}

// TotalBet returns the participant's commitment across the round
func (p *PotManager) TotalBet(id string) int {
	if pip, ok := p.participants[id]; ok {
		return pip.totalBet
	}

	return 0
}

// IsFolded returns true if the participant folded
func (p *PotManager) IsFolded(id string) bool {
	pip, ok := p.participants[id]
	return ok && pip.isFolded
}

// IsAllIn returns true if the participant has no chips behind
func (p *PotManager) IsAllIn(id string) bool {
	pip, ok := p.participants[id]
	return ok && pip.isAllIn
}

// ActiveCount returns the number of participants who have not folded
func (p *PotManager) ActiveCount() int {
	count := 0
	for _, pip := range p.tableOrder {
		if !pip.isFolded {
			count++
		}
	}

	return count
}

// CanActCount returns the number of participants who have not folded and are not all-in
func (p *PotManager) CanActCount() int {
	count := 0
	for _, pip := range p.tableOrder {
		if pip.canAct() {
			count++
		}
	}

	return count
}

// NextStreet resets every street commitment to zero.
// The pot and the round totals are preserved.
func (p *PotManager) NextStreet() {
	for _, pip := range p.tableOrder {
		pip.streetBet = 0
	}

	p.bet = 0
}

// CheckInvariant verifies chip conservation: the pot must equal the sum
// of all participants' round commitments. A non-nil return indicates a
// programming defect, never a recoverable condition.
func (p *PotManager) CheckInvariant() error {
	sum := 0
	for _, pip := range p.tableOrder {
		sum += pip.totalBet
	}

	if sum != p.pot {
		return fmt.Errorf("chip conservation violated: pot is %d but commitments sum to %d", p.pot, sum)
	}

	return nil
}

// Payout distributes the pot given a ranking of the remaining players:
// ranking[0] holds the best hand(s), ranking[1] the next best, and so on.
// Side pots are honored by capping each all-in player's winnings at the
// layer their own commitment covers. Split pots are divided evenly; any
// remainder is handed out one chip at a time starting with the first
// winner clockwise from the button. Winners' stacks are credited and the
// final shares are returned.
func (p *PotManager) Payout(ranking [][]string, button int) (map[string]int, error) {
	shares := make(map[string]int)

	// pot layers are defined by the distinct round commitments of the
	// players still in the hand; folded commitments fill the layers they
	// reach
	caps := p.potLayerCaps()
	if len(caps) == 0 {
		return nil, errors.New("no participants eligible for the pot")
	}

	var lastWinners []*participantInPot

	prev := 0
	for _, layerCap := range caps {
		amount := 0
		for _, pip := range p.tableOrder {
			contribution := pip.totalBet
			if contribution > layerCap {
				contribution = layerCap
			}
			if contribution > prev {
				amount += contribution - prev
			}
		}
		prev = layerCap

		if amount == 0 {
			continue
		}

		winners := p.layerWinners(ranking, layerCap)
		if len(winners) == 0 {
			// commitments above every live player's cap go to the
			// winners of the layer below (uncalled chips)
			winners = lastWinners
		}
		if len(winners) == 0 {
			return nil, errors.New("no winners for pot layer")
		}
		lastWinners = winners

		p.splitAmount(amount, winners, button, shares)
	}

	for id, share := range shares {
		p.participants[id].AdjustStack(share)
	}

	return shares, nil
}

func (p *PotManager) potLayerCaps() []int {
	seen := make(map[int]bool)
	caps := make([]int, 0, len(p.tableOrder))
	for _, pip := range p.tableOrder {
		if pip.isFolded || pip.totalBet == 0 || seen[pip.totalBet] {
			continue
		}

		seen[pip.totalBet] = true
		caps = append(caps, pip.totalBet)
	}

	sort.Ints(caps)

	// folded players may have committed beyond every live cap; add a
	// final layer so those chips are still paid out
	maxBet := 0
	for _, pip := range p.tableOrder {
		if pip.totalBet > maxBet {
			maxBet = pip.totalBet
		}
	}
	if n := len(caps); maxBet > 0 && (n == 0 || caps[n-1] < maxBet) {
		caps = append(caps, maxBet)
	}

	return caps
}

// layerWinners returns the best-ranked participants eligible for a layer,
// ordered clockwise from the button
func (p *PotManager) layerWinners(ranking [][]string, layerCap int) []*participantInPot {
	for _, group := range ranking {
		winners := make([]*participantInPot, 0, len(group))
		for _, id := range group {
			pip, ok := p.participants[id]
			if !ok || pip.isFolded || pip.totalBet < layerCap {
				continue
			}

			winners = append(winners, pip)
		}

		if len(winners) > 0 {
			return winners
		}
	}

	return nil
}

// splitAmount divides the amount evenly among the winners. The remainder
// is assigned one chip at a time, starting with the first winner
// clockwise from the button.
func (p *PotManager) splitAmount(amount int, winners []*participantInPot, button int, shares map[string]int) {
	n := len(p.tableOrder)
	sorted := make([]*participantInPot, len(winners))
	copy(sorted, winners)
	sort.Slice(sorted, func(i, j int) bool {
		return (sorted[i].tableIndex-button-1+2*n)%n < (sorted[j].tableIndex-button-1+2*n)%n
	})

	each := amount / len(sorted)
	remainder := amount % len(sorted)
	for i, winner := range sorted {
		share := each
		if i < remainder {
			share++
		}

		shares[winner.ID()] += share
	}
}
