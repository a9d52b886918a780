package round

import (
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pokerroom-server/internal/rng"
	"pokerroom-server/pkg/deck"
	"pokerroom-server/pkg/poker/handrank"
	"pokerroom-server/pkg/round/potmanager"
)

// Result holds the outcome of a finished round
type Result struct {
	Winners   []string       `json:"winners"`
	PotShares map[string]int `json:"potShares"`
}

// Round is a single round of no-limit hold'em: deal, four betting
// streets, and a showdown. All mutation happens through Submit and
// Disconnect; historical state (the act log, community cards, player
// list) is only handed out as read-only copies.
type Round struct {
	id        uuid.UUID
	rules     GameRules
	button    int
	players   []*Player
	pm        *potmanager.PotManager
	deck      *deck.Deck
	community deck.Hand
	phase     Phase
	finished  bool
	acts      []Act
	sched     *scheduler
	hands     map[string]*handrank.Hand
	result    *Result

	// frozen is set when chip conservation is violated; the round then
	// refuses all further processing
	frozen *Error

	log logrus.FieldLogger
}

// New creates a round, deals two cards to every seat, and posts the
// blinds. It fails with ErrNotEnoughPlayers when fewer than two seats
// are supplied.
func New(rules GameRules, seats []Seat, button int) (*Round, error) {
	return newRound(rules, seats, button, rng.Crypto{})
}

// NewSeeded creates a round with a deterministic deal.
// This should only be used by tests.
func NewSeeded(rules GameRules, seats []Seat, button int, seed int64) (*Round, error) {
	return newRound(rules, seats, button, rng.NewSeeded(seed))
}

func newRound(rules GameRules, seats []Seat, button int, gen rng.Generator) (*Round, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	if len(seats) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	if button < 0 || button >= len(seats) {
		return nil, newError(OutOfTurn, "button index %d is out of range", button)
	}

	id := uuid.New()

	players := make([]*Player, len(seats))
	pm := potmanager.New()
	for i, seat := range seats {
		p := newPlayer(seat)
		players[i] = p
		if err := pm.SeatParticipant(p); err != nil {
			return nil, err
		}
	}

	d := deck.New()
	d.SetGenerator(gen)
	d.Shuffle()

	r := &Round{
		id:        id,
		rules:     rules,
		button:    button,
		players:   players,
		pm:        pm,
		deck:      d,
		community: make(deck.Hand, 0, 5),
		phase:     PhasePreFlop,
		acts:      make([]Act, 0),
		sched:     newScheduler(players, button),
		hands:     make(map[string]*handrank.Hand),
		log:       logrus.WithField("round", id),
	}

	r.dealHoleCards()

	if err := r.postBlind(r.sched.smallBlindIndex(), rules.SmallBlind); err != nil {
		return nil, err
	}
	if err := r.postBlind(r.sched.bigBlindIndex(), rules.BigBlind); err != nil {
		return nil, err
	}

	r.sched.startPreFlop()

	if err := r.checkChipConservation(); err != nil {
		return nil, err
	}

	// both blinds may be all-in already
	if err := r.progress(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Round) dealHoleCards() {
	for i := 0; i < 2; i++ {
		for _, p := range r.players {
			card, err := r.deck.Draw()
			if err != nil {
				// a 52-card deck always covers the max table size
				panic(err)
			}

			p.cards.AddCard(card)
		}
	}
}

// postBlind synthesizes a blind act. A short stack posts what it can and
// is all-in.
func (r *Round) postBlind(seat, blind int) error {
	p := r.players[seat]
	amount := blind
	if p.stack < amount {
		amount = p.stack
	}

	added, err := r.pm.Commit(p.userID, amount)
	if err != nil {
		return err
	}

	r.syncStatus(p)
	r.appendAct(p, ActBlind, added)
	return nil
}

// Submit validates and applies one act. On rejection the round state is
// unchanged and the returned error carries a Kind the caller can relay
// to the client. For a raise, amount is the street total the actor
// raises to; it is ignored for the other act types.
func (r *Round) Submit(userID string, actType ActType, amount int) (Act, error) {
	if r.frozen != nil {
		return Act{}, r.frozen
	}

	if r.finished {
		return Act{}, newError(RoundAlreadyFinished, "the round is already finished")
	}

	if !actType.IsSubmittable() {
		return Act{}, newError(IllegalActionForPhase, "act type %s cannot be submitted", actType)
	}

	p := r.playerByID(userID)
	if p == nil {
		return Act{}, newError(OutOfTurn, "user %s is not in this round", userID)
	}

	expected := r.sched.expected()
	if expected == nil || expected.userID != userID {
		return Act{}, newError(OutOfTurn, "it is not your turn")
	}

	bet := r.pm.Bet()
	streetBet := r.pm.StreetBet(userID)

	var added int
	wasRaise := false

	switch actType {
	case ActCheck:
		if streetBet != bet {
			return Act{}, newError(IllegalActionForPhase, "you cannot check with an outstanding bet of %d", bet)
		}
	case ActCall:
		if bet <= streetBet {
			return Act{}, newError(IllegalActionForPhase, "there is no outstanding bet to call")
		}

		// a call for less than the bet puts the caller all-in
		target := bet
		if max := streetBet + p.stack; target > max {
			target = max
		}

		var err error
		if added, err = r.pm.Commit(userID, target); err != nil {
			return Act{}, r.commitError(err)
		}
	case ActRaise:
		if amount <= bet {
			return Act{}, newError(IllegalActionForPhase, "a raise must exceed the current bet of %d", bet)
		}

		if amount > streetBet+p.stack {
			return Act{}, newError(InsufficientStack, "a raise to %d exceeds your stack", amount)
		}

		// the minimum raise is one big blind over the bet, unless the
		// raise puts the actor all-in
		if amount < bet+r.rules.BigBlind && amount != streetBet+p.stack {
			return Act{}, newError(IllegalActionForPhase, "a raise must be to at least %d", bet+r.rules.BigBlind)
		}

		var err error
		if added, err = r.pm.Commit(userID, amount); err != nil {
			return Act{}, r.commitError(err)
		}

		wasRaise = true
	case ActFold:
		if err := r.pm.Fold(userID); err != nil {
			return Act{}, r.commitError(err)
		}

		p.status = StatusFolded
	}

	r.syncStatus(p)
	act := r.appendAct(p, actType, added)

	r.sched.recordAct(p, wasRaise)
	r.sched.moveOn()

	if err := r.checkChipConservation(); err != nil {
		return act, err
	}

	if err := r.progress(); err != nil {
		return act, err
	}

	return act, nil
}

// Disconnect injects an implicit fold for a player who left mid-round.
// The fold shows up in the act log like any other decision. A player who
// is already all-in keeps their hand: with no decisions left there is
// nothing to forfeit, so the hand still goes to showdown.
func (r *Round) Disconnect(userID string) (Act, error) {
	if r.frozen != nil {
		return Act{}, r.frozen
	}

	if r.finished {
		return Act{}, newError(RoundAlreadyFinished, "the round is already finished")
	}

	p := r.playerByID(userID)
	if p == nil {
		return Act{}, newError(OutOfTurn, "user %s is not in this round", userID)
	}

	if p.status == StatusFolded || p.status == StatusDisconnected {
		p.status = StatusDisconnected
		return Act{}, newError(IllegalActionForPhase, "user %s already folded", userID)
	}

	if p.status == StatusAllIn {
		return Act{}, nil
	}

	if err := r.pm.Fold(userID); err != nil {
		return Act{}, r.commitError(err)
	}

	p.status = StatusDisconnected
	act := r.appendAct(p, ActFold, 0)

	r.sched.ensureActionable()

	if err := r.checkChipConservation(); err != nil {
		return act, err
	}

	if err := r.progress(); err != nil {
		return act, err
	}

	return act, nil
}

// progress moves the round forward after a state change: early
// termination, street completion, or simply pointing at the next actor
func (r *Round) progress() error {
	if r.finished {
		return nil
	}

	if r.pm.ActiveCount() <= 1 {
		return r.awardLastPlayer()
	}

	if r.sched.streetComplete(r.pm.StreetBet, r.pm.Bet()) {
		return r.completeStreet()
	}

	r.sched.ensureActionable()
	return nil
}

func (r *Round) completeStreet() error {
	// with fewer than two players able to act, betting is over for good:
	// run out the remaining community cards and go to showdown
	if r.pm.CanActCount() < 2 {
		for r.phase < PhaseRiver {
			if err := r.advancePhase(); err != nil {
				return err
			}
		}

		return r.showdown()
	}

	if r.phase == PhaseRiver {
		return r.showdown()
	}

	if err := r.advancePhase(); err != nil {
		return err
	}

	r.pm.NextStreet()
	r.sched.startStreet()
	return nil
}

// advancePhase reveals the next community cards: three for the flop, one
// each for the turn and river
func (r *Round) advancePhase() error {
	r.phase++
	for len(r.community) < r.phase.communityCardCount() {
		card, err := r.deck.Draw()
		if err != nil {
			return err
		}

		r.community.AddCard(card)
	}

	return nil
}

// showdown evaluates every player still in the hand, ranks the hands,
// and distributes the pot
func (r *Round) showdown() error {
	type contender struct {
		player *Player
		hand   *handrank.Hand
	}

	contenders := make([]contender, 0, len(r.players))
	for _, p := range r.players {
		if p.status == StatusFolded || p.status == StatusDisconnected {
			continue
		}

		hand, err := handrank.Evaluate(p.cards, r.community)
		if err != nil {
			return r.freeze("hand evaluation failed: %v", err)
		}

		r.hands[p.userID] = hand
		contenders = append(contenders, contender{player: p, hand: hand})
	}

	sort.SliceStable(contenders, func(i, j int) bool {
		return handrank.Compare(contenders[i].hand, contenders[j].hand) > 0
	})

	ranking := make([][]string, 0, len(contenders))
	for _, c := range contenders {
		if n := len(ranking); n > 0 {
			prev := ranking[n-1][0]
			if handrank.Compare(r.hands[prev], c.hand) == 0 {
				ranking[n-1] = append(ranking[n-1], c.player.userID)
				continue
			}
		}

		ranking = append(ranking, []string{c.player.userID})
	}

	return r.finish(ranking)
}

// awardLastPlayer hands the pot to the only player left without
// evaluating any hands
func (r *Round) awardLastPlayer() error {
	var winner *Player
	for _, p := range r.players {
		if p.status != StatusFolded && p.status != StatusDisconnected {
			winner = p
			break
		}
	}

	if winner == nil {
		return r.freeze("no remaining player to award the pot to")
	}

	return r.finish([][]string{{winner.userID}})
}

func (r *Round) finish(ranking [][]string) error {
	shares, err := r.pm.Payout(ranking, r.button)
	if err != nil {
		return r.freeze("payout failed: %v", err)
	}

	winners := make([]string, 0, len(shares))
	for _, p := range r.players {
		if shares[p.userID] > 0 {
			winners = append(winners, p.userID)
		}
	}

	r.result = &Result{
		Winners:   winners,
		PotShares: shares,
	}
	r.phase = PhaseFinished
	r.finished = true

	return nil
}

func (r *Round) appendAct(p *Player, actType ActType, added int) Act {
	act := Act{
		RoundID:  r.id,
		UserID:   p.userID,
		Type:     actType,
		Phase:    r.phase,
		Bet:      added,
		TotalBet: r.pm.StreetBet(p.userID),
	}

	r.acts = append(r.acts, act)
	return act
}

func (r *Round) syncStatus(p *Player) {
	if p.status == StatusActive && r.pm.IsAllIn(p.userID) {
		p.status = StatusAllIn
	}
}

// checkChipConservation verifies the pot invariant after every applied
// act. A violation is a programming defect: the round freezes rather
// than continue with inconsistent books.
func (r *Round) checkChipConservation() error {
	if err := r.pm.CheckInvariant(); err != nil {
		return r.freeze("%v", err)
	}

	return nil
}

func (r *Round) freeze(format string, a ...interface{}) *Error {
	r.frozen = newError(InvariantViolation, format, a...)
	r.log.WithField("kind", InvariantViolation).Error(r.frozen.Error())
	return r.frozen
}

// commitError maps pot manager errors onto act rejection kinds
func (r *Round) commitError(err error) error {
	switch err {
	case potmanager.ErrInsufficientStack:
		return newError(InsufficientStack, "the amount exceeds your remaining stack")
	case potmanager.ErrParticipantNotFound:
		return newError(OutOfTurn, "you are not in this round")
	}

	return err
}

func (r *Round) playerByID(userID string) *Player {
	for _, p := range r.players {
		if p.userID == userID {
			return p
		}
	}

	return nil
}

// ID returns the round's identifier
func (r *Round) ID() uuid.UUID {
	return r.id
}

// Phase returns the round's current phase
func (r *Round) Phase() Phase {
	return r.phase
}

// Finished returns true once a winner has been determined
func (r *Round) Finished() bool {
	return r.finished
}

// Frozen reports whether the round froze on an invariant violation.
// A frozen round never finishes; the room abandons it.
func (r *Round) Frozen() bool {
	return r.frozen != nil
}

// Pot returns the total pot
func (r *Round) Pot() int {
	return r.pm.TotalPot()
}

// CurrentBet returns the highest commitment on the current street
func (r *Round) CurrentBet() int {
	return r.pm.Bet()
}

// Button returns the dealer position
func (r *Round) Button() int {
	return r.button
}

// Rules returns the rules the round is played under
func (r *Round) Rules() GameRules {
	return r.rules
}

// Result returns the outcome, or nil while the round is in progress
func (r *Round) Result() *Result {
	if r.result == nil {
		return nil
	}

	cp := Result{
		Winners:   append([]string(nil), r.result.Winners...),
		PotShares: make(map[string]int, len(r.result.PotShares)),
	}
	for id, share := range r.result.PotShares {
		cp.PotShares[id] = share
	}

	return &cp
}

// ExpectedActor returns the user whose act is currently expected
func (r *Round) ExpectedActor() (string, bool) {
	if r.finished || r.frozen != nil {
		return "", false
	}

	if p := r.sched.expected(); p != nil {
		return p.userID, true
	}

	return "", false
}

// CanCheck returns true if a check by the user would be legal
func (r *Round) CanCheck(userID string) bool {
	return r.pm.StreetBet(userID) == r.pm.Bet()
}

// Community returns a read-only copy of the community cards
func (r *Round) Community() deck.Hand {
	return r.community.Clone()
}

// ActCount returns the number of entries in the act log
func (r *Round) ActCount() int {
	return len(r.acts)
}

// Acts returns a read-only copy of the append-only act log
func (r *Round) Acts() []Act {
	acts := make([]Act, len(r.acts))
	copy(acts, r.acts)
	return acts
}

// HoleCards returns a copy of the user's hole cards
func (r *Round) HoleCards(userID string) deck.Hand {
	if p := r.playerByID(userID); p != nil {
		return p.HoleCards()
	}

	return nil
}
