package room

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pokerroom-server/pkg/round"
)

// ErrRoomNotFound is an error when a room with a provided ID cannot be found
var ErrRoomNotFound = errors.New("room not found")

// Manager owns the rooms and dispatches websocket clients to them
type Manager struct {
	recorder Recorder

	lock  sync.RWMutex
	rooms map[uuid.UUID]*Room

	connect    chan *Client
	disconnect chan *Client
}

// NewManager returns a new manager. The recorder may be nil.
func NewManager(recorder Recorder) *Manager {
	return &Manager{
		recorder:   recorder,
		rooms:      make(map[uuid.UUID]*Room),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
	}
}

// StartShift starts the manager's dispatch loop
func (m *Manager) StartShift() {
	go m.runLoop()
}

func (m *Manager) runLoop() {
	for {
		select {
		case client := <-m.connect:
			logrus.WithField("client", client.String()).Debug("client connected")
			room, err := m.GetRoom(client.roomID)
			if err != nil {
				logrus.WithField("room", client.roomID).Error("room not found")
				continue
			}

			room.AddClient(client)
		case client := <-m.disconnect:
			logrus.WithField("client", client.String()).Debug("client disconnected")
			if client.room == nil {
				continue
			}

			client.room.RemoveClient(client)
		}
	}
}

// ClientConnected is called when a client connects to the server
func (m *Manager) ClientConnected(client *Client) {
	m.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (m *Manager) ClientDisconnected(client *Client) {
	m.disconnect <- client
}

// CreateRoom creates a room, starts its run loop, and registers it
func (m *Manager) CreateRoom(name string, rules round.GameRules) (*Room, error) {
	room, err := NewRoom(name, rules, m.recorder)
	if err != nil {
		return nil, err
	}

	room.StartShift()

	m.lock.Lock()
	m.rooms[room.ID()] = room
	m.lock.Unlock()

	logrus.WithFields(logrus.Fields{"room": room.ID(), "name": name}).Info("room created")
	return room, nil
}

// GetRoom returns the room with the given ID
func (m *Manager) GetRoom(id uuid.UUID) (*Room, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	room, ok := m.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}

	return room, nil
}

// Rooms returns every registered room
func (m *Manager) Rooms() []*Room {
	m.lock.RLock()
	defer m.lock.RUnlock()

	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}

	return rooms
}

// CloseRoom stops a room's run loop and removes it
func (m *Manager) CloseRoom(id uuid.UUID) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	room, ok := m.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}

	room.EndShift()
	delete(m.rooms, id)
	return nil
}
