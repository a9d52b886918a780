package potmanager

// Participant is the pot manager's view of a player in the round
type Participant interface {
	// ID returns the participant's user ID
	ID() string

	// Stack returns the chips the participant has left behind their commitments
	Stack() int

	// AdjustStack adds the amount (possibly negative) to the participant's stack
	AdjustStack(amount int)
}

type participantInPot struct {
	Participant

	tableIndex int
	streetBet  int
	totalBet   int
	isFolded   bool
	isAllIn    bool
}

func (p *participantInPot) canAct() bool {
	return !p.isFolded && !p.isAllIn
}
