package room

import (
	"github.com/google/uuid"

	"pokerroom-server/pkg/round"
)

// EventType identifies what a room event describes
type EventType string

// event type constants
const (
	EventRoundUpdated  EventType = "roundUpdated"
	EventActAccepted   EventType = "actAccepted"
	EventRoundFinished EventType = "roundFinished"
)

// Event is a fire-and-forget notification published to everyone watching
// a room. Snapshot is always present; Act only for actAccepted and Result
// only for roundFinished.
type Event struct {
	Type     EventType      `json:"type"`
	RoomID   uuid.UUID      `json:"roomId"`
	Snapshot round.Snapshot `json:"snapshot"`
	Act      *round.Act     `json:"act,omitempty"`
	Result   *round.Result  `json:"result,omitempty"`
}

// subscription is a registered event channel. Delivery never blocks; a
// slow subscriber misses events.
type subscription struct {
	ch chan Event
}

func (s *subscription) deliver(event Event) {
	select {
	case s.ch <- event:
	default:
	}
}
