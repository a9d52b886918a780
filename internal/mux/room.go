package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"
	"github.com/google/uuid"

	"pokerroom-server/internal/config"
	"pokerroom-server/pkg/round"
	"pokerroom-server/pkg/room"
)

type roomResponse struct {
	ID      uuid.UUID       `json:"id"`
	Name    string          `json:"name"`
	Rules   round.GameRules `json:"rules"`
	Members []round.Seat    `json:"members"`
}

func newRoomResponse(rm *room.Room) roomResponse {
	return roomResponse{
		ID:      rm.ID(),
		Name:    rm.Name(),
		Rules:   rm.Rules(),
		Members: rm.Members(),
	}
}

// roomMiddleware resolves the {uuid} path segment into a room
func (m *Mux) roomMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(gmux.Vars(r)["uuid"])
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		rm, err := m.manager.GetRoom(id)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(withRoom(r.Context(), rm)))
	})
}

func (m *Mux) getRooms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms := m.manager.Rooms()
		payload := make([]roomResponse, len(rooms))
		for i, rm := range rooms {
			payload[i] = newRoomResponse(rm)
		}

		writeJSON(w, http.StatusOK, payload)
	}
}

func (m *Mux) postRooms() http.HandlerFunc {
	type payloadIn struct {
		Name  string           `json:"name"`
		Rules *round.GameRules `json:"rules"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var payload payloadIn
		if !decodeRequest(w, r, &payload) {
			return
		}

		if payload.Name == "" {
			writeJSONError(w, http.StatusBadRequest, nil)
			return
		}

		rules := config.Instance().DefaultRules
		if payload.Rules != nil {
			rules = *payload.Rules
		}

		rm, err := m.manager.CreateRoom(payload.Name, rules)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusCreated, newRoomResponse(rm))
	}
}

func (m *Mux) getRoomUUID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newRoomResponse(roomFrom(r)))
	}
}

func (m *Mux) postRoomUUIDSeat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := roomFrom(r)
		if err := rm.Sit(userIDFrom(r)); err != nil {
			writeJSONError(w, http.StatusConflict, err)
			return
		}

		writeJSON(w, http.StatusCreated, newRoomResponse(rm))
	}
}

func (m *Mux) deleteRoomUUIDSeat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := roomFrom(r)
		if err := rm.Leave(userIDFrom(r)); err != nil {
			writeJSONError(w, http.StatusConflict, err)
			return
		}

		writeJSON(w, http.StatusOK, newRoomResponse(rm))
	}
}

func (m *Mux) postRoomUUIDStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := roomFrom(r).StartRound()
		if err != nil {
			writeActError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, snapshot)
	}
}

func (m *Mux) postRoomUUIDAct() http.HandlerFunc {
	type payloadIn struct {
		Type   string `json:"type"`
		Amount int    `json:"amount"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var payload payloadIn
		if !decodeRequest(w, r, &payload) {
			return
		}

		actType, err := round.ActTypeFromString(payload.Type)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		act, err := roomFrom(r).SubmitAct(userIDFrom(r), actType, payload.Amount)
		if err != nil {
			writeActError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, act)
	}
}

func (m *Mux) getRoomUUIDRound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := roomFrom(r).CurrentRound()
		if !ok {
			writeJSONError(w, http.StatusNotFound, room.ErrNoActiveRound)
			return
		}

		writeJSON(w, http.StatusOK, snapshot)
	}
}

func (m *Mux) getRoomUUIDRounds() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.rounds == nil {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		start, rows, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		records, err := m.rounds.RoundsByRoom(r.Context(), roomFrom(r).ID(), start, rows)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, records)
	}
}
