package room

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pokerroom-server/pkg/round"
)

// room errors
var (
	ErrRoomFull        = errors.New("the room is full")
	ErrAlreadySeated   = errors.New("the user is already seated")
	ErrNotSeated       = errors.New("the user is not seated in this room")
	ErrRoundInProgress = errors.New("a round is already in progress")
	ErrNoActiveRound   = errors.New("there is no active round")
)

// Recorder persists finished rounds. pkg/history provides the Postgres
// implementation.
type Recorder interface {
	SaveRound(ctx context.Context, roomID uuid.UUID, snapshot round.Snapshot) error
}

type member struct {
	userID string
	chips  int
}

// Room hosts a table of players and runs one round at a time. All state
// is owned by a single run-loop goroutine; public methods hand work to
// that goroutine over the exec channel, so act submissions are
// serialized and turn checks are race-free.
type Room struct {
	id       uuid.UUID
	name     string
	rules    round.GameRules
	recorder Recorder
	log      logrus.FieldLogger

	exec    chan func()
	closeCh chan bool

	// everything below must only be touched from the run loop
	members      []*member
	button       int
	current      *round.Round
	subs             map[*subscription]bool
	clients          map[*Client]bool
	actorOnClock     string
	decisionsOnClock int
}

// NewRoom creates a room. The recorder may be nil, in which case
// finished rounds are not persisted.
func NewRoom(name string, rules round.GameRules, recorder Recorder) (*Room, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	return &Room{
		id:       id,
		name:     name,
		rules:    rules,
		recorder: recorder,
		log:      logrus.WithFields(logrus.Fields{"room": id, "name": name}),
		exec:     make(chan func(), 256),
		closeCh:  make(chan bool),
		members:  make([]*member, 0, rules.MaxPlayerCount),
		button:   -1,
		subs:     make(map[*subscription]bool),
		clients:  make(map[*Client]bool),
	}, nil
}

// StartShift starts the run loop
func (r *Room) StartShift() {
	go r.runLoop()
}

// EndShift stops the run loop. The room must not be used afterwards.
func (r *Room) EndShift() {
	close(r.closeCh)
}

func (r *Room) runLoop() {
	r.log.Debug("creating room run loop")

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case fn := <-r.exec:
			fn()
			r.resetClock(timer)
		case <-timer.C:
			r.actOnBehalf()
			r.resetClock(timer)
		case <-r.closeCh:
			timer.Stop()
			r.log.Debug("terminating room run loop")
			return
		}
	}
}

// do runs fn on the run loop and waits for it.
// Must not be called from the run loop itself.
func (r *Room) do(fn func()) {
	done := make(chan struct{})
	r.exec <- func() {
		fn()
		close(done)
	}
	<-done
}

// resetClock re-arms the play-delay timer whenever a fresh decision is
// awaited: a different actor, or the same actor after more acts were
// applied (closing one street can leave the same player first to act on
// the next). Disarmed when nobody is on the clock.
func (r *Room) resetClock(timer *time.Timer) {
	actor := ""
	decisions := 0
	if r.current != nil && !r.current.Finished() {
		if id, ok := r.current.ExpectedActor(); ok {
			actor = id
			decisions = r.current.ActCount()
		}
	}

	if actor == r.actorOnClock && decisions == r.decisionsOnClock {
		return
	}

	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}

	r.actorOnClock = actor
	r.decisionsOnClock = decisions
	if actor != "" {
		timer.Reset(time.Duration(r.rules.PlayDelay) * time.Second)
	}
}

// actOnBehalf plays for a player who ran out the play delay: check when
// legal, fold otherwise
func (r *Room) actOnBehalf() {
	if r.current == nil || r.current.Finished() {
		return
	}

	actor, ok := r.current.ExpectedActor()
	if !ok || actor != r.actorOnClock {
		return
	}

	actType := round.ActFold
	if r.current.CanCheck(actor) {
		actType = round.ActCheck
	}

	act, err := r.current.Submit(actor, actType, 0)
	if err != nil {
		r.log.WithError(err).WithField("user", actor).Error("could not act on the player's behalf")
		return
	}

	r.log.WithFields(logrus.Fields{"user": actor, "act": act.Type}).Debug("acted on behalf of a slow player")
	r.afterAct(act)
}

// ID returns the room's identifier
func (r *Room) ID() uuid.UUID {
	return r.id
}

// Name returns the room's display name
func (r *Room) Name() string {
	return r.name
}

// Rules returns the rules the room plays under
func (r *Room) Rules() round.GameRules {
	return r.rules
}

// Sit adds the user to the table with the rules' starting chips. A user
// seated mid-round joins the next round.
func (r *Room) Sit(userID string) error {
	var err error
	r.do(func() {
		if r.memberByID(userID) != nil {
			err = ErrAlreadySeated
			return
		}

		if len(r.members) >= r.rules.MaxPlayerCount {
			err = ErrRoomFull
			return
		}

		r.members = append(r.members, &member{userID: userID, chips: r.rules.StartingChips})
	})

	return err
}

// Leave removes the user from the table. If a round is running, the
// engine records the departure as a fold first.
func (r *Room) Leave(userID string) error {
	var err error
	r.do(func() {
		m := r.memberByID(userID)
		if m == nil {
			err = ErrNotSeated
			return
		}

		if r.current != nil && !r.current.Finished() {
			// an all-in departure changes nothing, so there is no act to
			// publish
			if act, derr := r.current.Disconnect(userID); derr == nil && act.Type != "" {
				r.afterAct(act)
			}
		}

		for i, existing := range r.members {
			if existing == m {
				r.members = append(r.members[:i], r.members[i+1:]...)
				break
			}
		}
	})

	return err
}

// Members returns the seated users and their chip counts in seat order
func (r *Room) Members() []round.Seat {
	var seats []round.Seat
	r.do(func() {
		seats = make([]round.Seat, len(r.members))
		for i, m := range r.members {
			seats[i] = round.Seat{UserID: m.userID, Chips: m.chips}
		}
	})

	return seats
}

// StartRound deals a new round for every seated user who still has
// chips. The button advances one eligible seat per round.
func (r *Room) StartRound() (round.Snapshot, error) {
	var snapshot round.Snapshot
	var err error
	r.do(func() {
		// a frozen round never finishes; it no longer blocks the table
		if r.current != nil && !r.current.Finished() && !r.current.Frozen() {
			err = ErrRoundInProgress
			return
		}

		seats := make([]round.Seat, 0, len(r.members))
		for _, m := range r.members {
			if m.chips > 0 {
				seats = append(seats, round.Seat{UserID: m.userID, Chips: m.chips})
			}
		}

		if len(seats) < 2 {
			err = round.ErrNotEnoughPlayers
			return
		}

		r.button = (r.button + 1) % len(seats)

		var rd *round.Round
		if rd, err = round.New(r.rules, seats, r.button); err != nil {
			return
		}

		r.current = rd
		r.log.WithField("round", rd.ID()).Info("round started")

		r.publish(EventRoundUpdated, nil)

		// posting the blinds can end the round outright
		if rd.Finished() {
			r.settle()
		}

		snapshot = rd.Snapshot()
	})

	return snapshot, err
}

// SubmitAct applies one act to the running round
func (r *Room) SubmitAct(userID string, actType round.ActType, amount int) (round.Act, error) {
	var act round.Act
	var err error
	r.do(func() {
		if r.current == nil {
			err = ErrNoActiveRound
			return
		}

		if act, err = r.current.Submit(userID, actType, amount); err != nil {
			return
		}

		r.afterAct(act)
	})

	return act, err
}

// CurrentRound returns a snapshot of the running or most recently
// finished round
func (r *Room) CurrentRound() (round.Snapshot, bool) {
	var snapshot round.Snapshot
	var ok bool
	r.do(func() {
		if r.current != nil {
			snapshot = r.current.Snapshot()
			ok = true
		}
	})

	return snapshot, ok
}

// Subscribe registers an event channel. The returned function
// unsubscribes it.
func (r *Room) Subscribe() (<-chan Event, func()) {
	sub := &subscription{ch: make(chan Event, 64)}
	r.do(func() {
		r.subs[sub] = true
	})

	return sub.ch, func() {
		r.do(func() {
			delete(r.subs, sub)
		})
	}
}

// AddClient attaches a websocket client to the room's broadcasts
func (r *Room) AddClient(client *Client) {
	r.do(func() {
		client.room = r
		r.clients[client] = true
	})
}

// RemoveClient detaches a websocket client
func (r *Room) RemoveClient(client *Client) {
	r.do(func() {
		delete(r.clients, client)
	})
}

// afterAct publishes the accepted act and handles round completion.
// Must only be called from the run loop.
func (r *Room) afterAct(act round.Act) {
	r.publish(EventActAccepted, &act)
	r.publish(EventRoundUpdated, nil)

	if r.current.Finished() {
		r.settle()
	}
}

// settle copies the finished round's stacks back to the seats, announces
// the result, and hands the snapshot to the recorder.
// Must only be called from the run loop.
func (r *Room) settle() {
	snapshot := r.current.Snapshot()
	for _, ps := range snapshot.Players {
		if m := r.memberByID(ps.UserID); m != nil {
			m.chips = ps.Stack
		}
	}

	r.log.WithFields(logrus.Fields{
		"round":   snapshot.ID,
		"winners": snapshot.Result.Winners,
	}).Info("round finished")

	r.publish(EventRoundFinished, nil)

	if r.recorder != nil {
		go func() {
			if err := r.recorder.SaveRound(context.Background(), r.id, snapshot); err != nil {
				r.log.WithError(err).Error("could not save the finished round")
			}
		}()
	}
}

// publish broadcasts an event to every subscriber and connected client.
// Must only be called from the run loop.
func (r *Room) publish(eventType EventType, act *round.Act) {
	event := Event{
		Type:     eventType,
		RoomID:   r.id,
		Snapshot: r.current.Snapshot(),
		Act:      act,
	}

	if eventType == EventRoundFinished {
		event.Result = r.current.Result()
	}

	for sub := range r.subs {
		sub.deliver(event)
	}

	for client := range r.clients {
		client.Send(event)
	}
}

func (r *Room) memberByID(userID string) *member {
	for _, m := range r.members {
		if m.userID == userID {
			return m
		}
	}

	return nil
}
