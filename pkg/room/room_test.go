package room

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"pokerroom-server/pkg/round"
)

func testRules() round.GameRules {
	rules := round.DefaultRules()
	rules.StartingChips = 1000
	return rules
}

func testRoom(t *testing.T, userIDs ...string) *Room {
	t.Helper()

	r, err := NewRoom("test room", testRules(), nil)
	assert.NoError(t, err)
	r.StartShift()
	t.Cleanup(r.EndShift)

	for _, userID := range userIDs {
		assert.NoError(t, r.Sit(userID))
	}

	return r
}

func drainUntil(t *testing.T, events <-chan Event, eventType EventType) Event {
	t.Helper()

	for {
		select {
		case event := <-events:
			if event.Type == eventType {
				return event
			}
		case <-time.After(3 * time.Second):
			t.Fatalf("timed out waiting for %s", eventType)
			return Event{}
		}
	}
}

func TestRoom_sitAndLeave(t *testing.T) {
	a := assert.New(t)

	r := testRoom(t, "alice", "bob")
	a.Equal(ErrAlreadySeated, r.Sit("alice"))

	members := r.Members()
	a.Equal(2, len(members))
	a.Equal("alice", members[0].UserID)
	a.Equal(1000, members[0].Chips)

	a.NoError(r.Leave("alice"))
	a.Equal(ErrNotSeated, r.Leave("alice"))
	a.Equal(1, len(r.Members()))
}

func TestRoom_full(t *testing.T) {
	a := assert.New(t)

	rules := testRules()
	rules.MaxPlayerCount = 2

	r, err := NewRoom("tiny", rules, nil)
	a.NoError(err)
	r.StartShift()
	t.Cleanup(r.EndShift)

	a.NoError(r.Sit("alice"))
	a.NoError(r.Sit("bob"))
	a.Equal(ErrRoomFull, r.Sit("carol"))
}

func TestRoom_startRoundRequiresTwoPlayers(t *testing.T) {
	a := assert.New(t)

	r := testRoom(t, "alice")
	_, err := r.StartRound()
	a.Equal(round.ErrNotEnoughPlayers, err)

	a.NoError(r.Sit("bob"))
	snapshot, err := r.StartRound()
	a.NoError(err)
	a.Equal(round.PhasePreFlop, snapshot.Phase)
	a.Equal(30, snapshot.Pot)

	_, err = r.StartRound()
	a.Equal(ErrRoundInProgress, err)
}

func TestRoom_actFlowAndEvents(t *testing.T) {
	a := assert.New(t)

	r := testRoom(t, "alice", "bob")

	events, unsubscribe := r.Subscribe()
	defer unsubscribe()

	_, err := r.StartRound()
	a.NoError(err)
	drainUntil(t, events, EventRoundUpdated)

	// heads-up, first round button is alice
	act, err := r.SubmitAct("alice", round.ActCall, 0)
	a.NoError(err)
	a.Equal(round.ActCall, act.Type)

	event := drainUntil(t, events, EventActAccepted)
	a.NotNil(event.Act)
	a.Equal("alice", event.Act.UserID)
	a.Equal(r.ID(), event.RoomID)

	_, err = r.SubmitAct("bob", round.ActCheck, 0)
	a.NoError(err)

	snapshot, ok := r.CurrentRound()
	a.True(ok)
	a.Equal(round.PhaseFlop, snapshot.Phase)

	// rejected acts publish nothing and change nothing
	_, err = r.SubmitAct("alice", round.ActCheck, 0)
	a.Equal(round.OutOfTurn, round.KindOf(err))
}

func TestRoom_finishSettlesChips(t *testing.T) {
	a := assert.New(t)

	r := testRoom(t, "alice", "bob")

	events, unsubscribe := r.Subscribe()
	defer unsubscribe()

	_, err := r.StartRound()
	a.NoError(err)

	// the button folds; the big blind wins the pot
	_, err = r.SubmitAct("alice", round.ActFold, 0)
	a.NoError(err)

	event := drainUntil(t, events, EventRoundFinished)
	a.NotNil(event.Result)
	a.Equal([]string{"bob"}, event.Result.Winners)

	members := r.Members()
	a.Equal(990, members[0].Chips)
	a.Equal(1010, members[1].Chips)
}

func TestRoom_leaveMidRoundFolds(t *testing.T) {
	a := assert.New(t)

	r := testRoom(t, "alice", "bob", "carol")

	_, err := r.StartRound()
	a.NoError(err)

	// carol leaves before acting; her blind stays in the pot
	a.NoError(r.Leave("carol"))

	_, err = r.SubmitAct("alice", round.ActFold, 0)
	a.NoError(err)

	snapshot, ok := r.CurrentRound()
	a.True(ok)
	a.True(snapshot.Finished)
	a.Equal([]string{"bob"}, snapshot.Result.Winners)
}

func TestRoom_autoActOnPlayDelay(t *testing.T) {
	a := assert.New(t)

	rules := testRules()
	rules.PlayDelay = 1

	r, err := NewRoom("slow", rules, nil)
	a.NoError(err)
	r.StartShift()
	t.Cleanup(r.EndShift)

	a.NoError(r.Sit("alice"))
	a.NoError(r.Sit("bob"))

	events, unsubscribe := r.Subscribe()
	defer unsubscribe()

	_, err = r.StartRound()
	a.NoError(err)

	// alice never acts; the room folds for her since a check is illegal
	event := drainUntil(t, events, EventRoundFinished)
	a.Equal([]string{"bob"}, event.Result.Winners)

	snapshot, ok := r.CurrentRound()
	a.True(ok)
	last := snapshot.Acts[len(snapshot.Acts)-1]
	a.Equal(round.ActFold, last.Type)
	a.Equal("alice", last.UserID)
}

func TestRoom_clockRestartsAcrossStreets(t *testing.T) {
	a := assert.New(t)

	rules := testRules()
	rules.PlayDelay = 1

	r, err := NewRoom("slow", rules, nil)
	a.NoError(err)
	r.StartShift()
	t.Cleanup(r.EndShift)

	a.NoError(r.Sit("alice"))
	a.NoError(r.Sit("bob"))

	_, err = r.StartRound()
	a.NoError(err)

	_, err = r.SubmitAct("alice", round.ActCall, 0)
	a.NoError(err)

	// bob closes pre-flop late in his window and is first to act again
	// on the flop
	time.Sleep(600 * time.Millisecond)
	_, err = r.SubmitAct("bob", round.ActCheck, 0)
	a.NoError(err)

	// his flop clock starts fresh, so past the old deadline he is still
	// on the clock
	time.Sleep(600 * time.Millisecond)
	snapshot, ok := r.CurrentRound()
	a.True(ok)
	a.Equal(round.PhaseFlop, snapshot.Phase)
	a.Equal("bob", snapshot.ExpectedActor)
}

type fakeRecorder struct {
	saved chan round.Snapshot
}

func (f *fakeRecorder) SaveRound(_ context.Context, _ uuid.UUID, snapshot round.Snapshot) error {
	f.saved <- snapshot
	return nil
}

func TestRoom_recordsFinishedRounds(t *testing.T) {
	a := assert.New(t)

	recorder := &fakeRecorder{saved: make(chan round.Snapshot, 1)}

	r, err := NewRoom("recorded", testRules(), recorder)
	a.NoError(err)
	r.StartShift()
	t.Cleanup(r.EndShift)

	a.NoError(r.Sit("alice"))
	a.NoError(r.Sit("bob"))

	_, err = r.StartRound()
	a.NoError(err)
	_, err = r.SubmitAct("alice", round.ActFold, 0)
	a.NoError(err)

	select {
	case snapshot := <-recorder.saved:
		a.True(snapshot.Finished)
		a.Equal([]string{"bob"}, snapshot.Result.Winners)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the recorder")
	}
}

func TestManager_rooms(t *testing.T) {
	a := assert.New(t)

	m := NewManager(nil)
	m.StartShift()

	r, err := m.CreateRoom("main", testRules())
	a.NoError(err)

	found, err := m.GetRoom(r.ID())
	a.NoError(err)
	a.Equal(r, found)

	_, err = m.GetRoom(uuid.New())
	a.Equal(ErrRoomNotFound, err)

	a.Equal(1, len(m.Rooms()))

	a.NoError(m.CloseRoom(r.ID()))
	a.Equal(ErrRoomNotFound, m.CloseRoom(r.ID()))
	a.Equal(0, len(m.Rooms()))
}
