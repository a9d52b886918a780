package mux

import (
	"context"
	"net/http"
	"strings"

	gmux "github.com/gorilla/mux"

	"pokerroom-server/internal/jwt"
	"pokerroom-server/pkg/history"
	"pokerroom-server/pkg/room"
)

type ctxKey int

const (
	ctxUserIDKey ctxKey = iota
	ctxRoomKey
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	manager *room.Manager
	rounds  *history.Store

	// store for testing purposes
	authRouter *gmux.Router
}

// NewMux returns a new HTTP mux. The round store may be nil, in which
// case finished rounds are neither persisted nor served.
func NewMux(version string, rounds *history.Store) *Mux {
	var recorder room.Recorder
	if rounds != nil {
		recorder = rounds
	}

	manager := room.NewManager(recorder)
	manager.StartShift()

	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		manager: manager,
		rounds:  rounds,
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	}

	// requires bearer authorization
	{
		r := this.authRouter

		r.Methods(http.MethodGet).Path("/rooms").Handler(this.getRooms())
		r.Methods(http.MethodPost).Path("/rooms").Handler(this.postRooms())

		rr := r.PathPrefix("/rooms/{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}").Subrouter()
		rr.Use(this.roomMiddleware)

		rr.Methods(http.MethodGet).Path("").Handler(this.getRoomUUID())
		rr.Methods(http.MethodPost).Path("/seat").Handler(this.postRoomUUIDSeat())
		rr.Methods(http.MethodDelete).Path("/seat").Handler(this.deleteRoomUUIDSeat())
		rr.Methods(http.MethodPost).Path("/start").Handler(this.postRoomUUIDStart())
		rr.Methods(http.MethodPost).Path("/act").Handler(this.postRoomUUIDAct())
		rr.Methods(http.MethodGet).Path("/round").Handler(this.getRoomUUIDRound())
		rr.Methods(http.MethodGet).Path("/rounds").Handler(this.getRoomUUIDRounds())
		rr.Methods(http.MethodGet).Path("/ws").Handler(this.getRoomUUIDWS())
	}

	return this
}

// Manager returns the room manager backing the mux
func (m *Mux) Manager() *room.Manager {
	return m.manager
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		userID, err := jwt.ValidUserID(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxUserIDKey, userID)
		w.Header().Set("PokerRoom-UserID", userID)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func withRoom(ctx context.Context, rm *room.Room) context.Context {
	return context.WithValue(ctx, ctxRoomKey, rm)
}

func roomFrom(r *http.Request) *room.Room {
	return r.Context().Value(ctxRoomKey).(*room.Room)
}

func userIDFrom(r *http.Request) string {
	return r.Context().Value(ctxUserIDKey).(string)
}
