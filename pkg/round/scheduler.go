package round

// scheduler computes whose act is currently expected, given the ordered
// seats, the button position, and each player's standing. Seat arithmetic
// wraps with modulo on the seat count.
type scheduler struct {
	players []*Player
	button  int

	// actorIndex is the seat currently expected to act, or -1 when no
	// action is possible
	actorIndex int

	// acted tracks who has acted since the last raise on this street
	acted map[string]bool
}

func newScheduler(players []*Player, button int) *scheduler {
	return &scheduler{
		players:    players,
		button:     button,
		actorIndex: -1,
		acted:      make(map[string]bool),
	}
}

// smallBlindIndex returns the seat posting the small blind.
// Heads-up, the button posts the small blind.
func (s *scheduler) smallBlindIndex() int {
	if len(s.players) == 2 {
		return s.button
	}

	return (s.button + 1) % len(s.players)
}

// bigBlindIndex returns the seat posting the big blind
func (s *scheduler) bigBlindIndex() int {
	return (s.smallBlindIndex() + 1) % len(s.players)
}

// startPreFlop points the action at the seat after the big blind.
// The blinds still owe an act this street: posting a blind is
// synthesized, not a decision.
func (s *scheduler) startPreFlop() {
	s.acted = make(map[string]bool)
	s.actorIndex = s.nextActionableAfter(s.bigBlindIndex())
}

// startStreet points the action at the first actionable seat after the
// button for the flop, turn, and river
func (s *scheduler) startStreet() {
	s.acted = make(map[string]bool)
	s.actorIndex = s.nextActionableAfter(s.button)
}

// expected returns the player whose act is expected, or nil when nobody
// can act
func (s *scheduler) expected() *Player {
	if s.actorIndex < 0 {
		return nil
	}

	return s.players[s.actorIndex]
}

// recordAct marks the actor as having acted. A raise reopens the action:
// everyone else must act again.
func (s *scheduler) recordAct(p *Player, wasRaise bool) {
	if wasRaise {
		s.acted = make(map[string]bool)
	}

	s.acted[p.userID] = true
}

// moveOn advances the expected actor to the next seat that can act
func (s *scheduler) moveOn() {
	if s.actorIndex < 0 {
		return
	}

	s.actorIndex = s.nextActionableAfter(s.actorIndex)
}

// ensureActionable repoints the action if the currently expected seat
// can no longer act (e.g., the player disconnected out of turn)
func (s *scheduler) ensureActionable() {
	if s.actorIndex >= 0 && !s.players[s.actorIndex].CanAct() {
		s.moveOn()
	}
}

// streetComplete returns true when every player who can still act has
// matched the highest street commitment and has acted since the last
// raise (a full orbit)
func (s *scheduler) streetComplete(streetBet func(userID string) int, bet int) bool {
	for _, p := range s.players {
		if !p.CanAct() {
			continue
		}

		if !s.acted[p.userID] || streetBet(p.userID) != bet {
			return false
		}
	}

	return true
}

func (s *scheduler) nextActionableAfter(index int) int {
	n := len(s.players)
	for i := 1; i <= n; i++ {
		next := (index + i) % n
		if s.players[next].CanAct() {
			return next
		}
	}

	return -1
}
