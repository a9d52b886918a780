package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"pokerroom-server/pkg/db"
	"pokerroom-server/pkg/round"
)

// ErrRoundNotFound is an error when a stored round cannot be found
var ErrRoundNotFound = errors.New("round not found")

// Store persists finished-round snapshots to Postgres. It implements
// room.Recorder.
type Store struct {
	db *sql.DB
}

// New returns a store backed by the given database
func New(database *sql.DB) *Store {
	return &Store{db: database}
}

// Record is one stored round
type Record struct {
	ID       uuid.UUID      `json:"id"`
	RoomID   uuid.UUID      `json:"roomId"`
	Pot      int            `json:"pot"`
	Winners  []string       `json:"winners"`
	Snapshot round.Snapshot `json:"snapshot"`
	Created  time.Time      `json:"created"`
}

// SaveRound stores a finished round's snapshot
func (s *Store) SaveRound(ctx context.Context, roomID uuid.UUID, snapshot round.Snapshot) error {
	if !snapshot.Finished || snapshot.Result == nil {
		return errors.New("only finished rounds can be stored")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO rounds (id, room_id, pot, winners, snapshot)
VALUES ($1, $2, $3, $4, $5)`

	_, err = s.db.ExecContext(ctx, query,
		snapshot.ID, roomID, snapshot.Pot, pq.Array(snapshot.Result.Winners), payload)
	return err
}

// Round returns a stored round by its ID
func (s *Store) Round(ctx context.Context, id uuid.UUID) (*Record, error) {
	const query = `
SELECT id, room_id, pot, winners, snapshot, created
FROM rounds
WHERE id = $1`

	record, err := recordFromRow(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrRoundNotFound
	}

	return record, err
}

// RoundsByRoom returns a page of a room's stored rounds, most recent
// first
func (s *Store) RoundsByRoom(ctx context.Context, roomID uuid.UUID, start, rows int) ([]*Record, error) {
	const query = `
SELECT id, room_id, pot, winners, snapshot, created
FROM rounds
WHERE room_id = $1
ORDER BY created DESC, id
OFFSET $2 LIMIT $3`

	result, err := s.db.QueryContext(ctx, query, roomID, start, rows)
	if err != nil {
		return nil, err
	}
	defer func() { _ = result.Close() }()

	records := make([]*Record, 0, rows)
	for result.Next() {
		record, err := recordFromRow(result)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, result.Err()
}

func recordFromRow(row db.Scanner) (*Record, error) {
	var record Record
	var payload []byte
	if err := row.Scan(&record.ID, &record.RoomID, &record.Pot, pq.Array(&record.Winners), &payload, &record.Created); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payload, &record.Snapshot); err != nil {
		return nil, err
	}

	return &record, nil
}
