package room

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"pokerroom-server/pkg/round"
)

// Client is a user connected to a room via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	room *Room

	userID string
	roomID uuid.UUID
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, userID string, roomID uuid.UUID) *Client {
	return &Client{
		send:   make(chan interface{}, 256),
		Close:  make(chan string),
		Conn:   conn,
		userID: userID,
		roomID: roomID,
	}
}

// UserID returns the connected user's identity
func (c *Client) UserID() string {
	return c.userID
}

// Send queues a message for the web client. A full buffer drops the
// message rather than block the room.
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the user and room
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.userID, c.roomID)
}

// PayloadIn is a message received from a web client
type PayloadIn struct {
	Action  string `json:"action"`
	Amount  int    `json:"amount"`
	Context string `json:"context"`
}

// response acknowledges a client message. Context echoes the client's
// correlation token.
type response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value,omitempty"`
	Context string      `json:"context,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func okResponse(ctx string) *response {
	return &response{Key: "ok", Context: ctx}
}

func newErrorResponse(ctx string, err error) *response {
	return &response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}

// ReceivedMessage is called when the server receives a message from a
// connected client
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	if c.room == nil {
		logrus.WithField("msg", msg).Warn("received message, but room not found")
		return
	}

	switch msg.Action {
	case "startRound":
		if _, err := c.room.StartRound(); err != nil {
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		c.Send(okResponse(msg.Context))
	case "check", "call", "raise", "fold":
		actType, err := round.ActTypeFromString(msg.Action)
		if err != nil {
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		if _, err := c.room.SubmitAct(c.userID, actType, msg.Amount); err != nil {
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		c.Send(okResponse(msg.Context))
	default:
		logrus.WithField("msg", msg).Warn("unknown message")
	}
}
