package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DefaultEventLimit is the number of events List returns when no limit is given.
const DefaultEventLimit = 100

// Event is one journaled detection.
type Event struct {
	ID        string    `json:"id"`
	Trigger   string    `json:"trigger"`
	GestureID int       `json:"gesture_id"`
	HandID    int       `json:"hand_id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Z         float64   `json:"z"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository provides access to the event journal.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts an event, assigning an id and timestamp when missing.
func (r *EventRepository) Create(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO events (id, trigger_name, gesture_id, hand_id, x, y, z, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Trigger, e.GestureID, e.HandID, e.X, e.Y, e.Z, e.CreatedAt,
	)
	return err
}

// List returns the most recent events, newest first. A non-positive limit
// uses DefaultEventLimit.
func (r *EventRepository) List(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}

	rows, err := r.db.Query(
		`SELECT id, trigger_name, gesture_id, hand_id, x, y, z, created_at
		 FROM events ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Trigger, &e.GestureID, &e.HandID, &e.X, &e.Y, &e.Z, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Count returns the number of journaled events.
func (r *EventRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

// DeleteAll clears the journal.
func (r *EventRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM events`)
	return err
}
