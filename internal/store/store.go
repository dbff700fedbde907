package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Kind distinguishes plain chat messages from /me action messages.
type Kind string

const (
	KindNormal Kind = "normal"
	KindAction Kind = "action"
)

// Message is one row of the append-only chat log. Immutable once created.
type Message struct {
	ID        int64
	Username  string
	Text      string
	Timestamp time.Time
	Kind      Kind
}

const schema = `
	CREATE TABLE IF NOT EXISTS messages (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		username  TEXT NOT NULL,
		message   TEXT NOT NULL,
		timestamp DATETIME NOT NULL
	)
`

// Store is a durable append-only message log backed by SQLite.
// All writes funnel through a single goroutine; SQLite allows only one
// writer at a time and serializing here avoids busy-timeout churn.
type Store struct {
	db       *sql.DB
	writes   chan writeOp
	shutdown chan struct{}
	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

type writeOp struct {
	operation func(*sql.DB) error
	result    chan error
}

// Open opens (creating if necessary) the message log at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create messages table: %w", err)
	}

	s := &Store{
		db:       db,
		writes:   make(chan writeOp, 100),
		shutdown: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.writeLoop()

	return s, nil
}

func (s *Store) writeLoop() {
	defer s.wg.Done()

	for {
		select {
		case op := <-s.writes:
			op.result <- op.operation(s.db)
		case <-s.shutdown:
			// Fail queued writes instead of stranding their callers.
			for {
				select {
				case op := <-s.writes:
					op.result <- ErrClosed
				default:
					return
				}
			}
		}
	}
}

// executeWrite queues a write and waits for the commit to complete, so an
// acknowledged append is durable before the caller proceeds.
func (s *Store) executeWrite(ctx context.Context, operation func(*sql.DB) error) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	s.mu.RUnlock()

	result := make(chan error, 1)

	select {
	case s.writes <- writeOp{operation: operation, result: result}:
		select {
		case err := <-result:
			return err
		case <-ctx.Done():
			return ctx.Err()
		case <-s.shutdown:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	case <-s.shutdown:
		return ErrClosed
	}
}

// Append stores a message and returns it with its assigned timestamp.
// Action messages are stored with a "* " prefix but returned unprefixed;
// the prefix is how actions read in plain history replay.
func (s *Store) Append(ctx context.Context, username, text string, kind Kind) (Message, error) {
	stored := text
	if kind == KindAction {
		stored = "* " + text
	}

	msg := Message{
		Username:  username,
		Text:      text,
		Timestamp: time.Now(),
		Kind:      kind,
	}

	err := s.executeWrite(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx,
			`INSERT INTO messages (username, message, timestamp) VALUES (?, ?, ?)`,
			msg.Username, stored, msg.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read inserted message id: %w", err)
		}
		msg.ID = id
		return nil
	})
	if err != nil {
		return Message{}, err
	}

	return msg, nil
}

// Recent returns at most limit of the newest messages in chronological
// order, oldest of the returned window first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, message, timestamp FROM messages ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.Username, &msg.Text, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		msg.Kind = KindNormal
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	// Query returned newest first; flip to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// HealthCheck validates database connectivity.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close shuts down the write loop and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.shutdown)
	s.wg.Wait()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	slog.Debug("message store closed")
	return nil
}
