package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"thesis-chatbot/internal/llm"
)

// querier is the common interface satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// HistoryRepo persists per-session chat transcripts as an append-only log.
// One row per message, ordered by insertion. Safe for concurrent use.
type HistoryRepo struct {
	db querier
}

// NewHistoryRepo creates a HistoryRepo backed by the given pool.
func NewHistoryRepo(db querier) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Load returns all turns for a session in chronological order. A session
// that has never been written to yields an empty slice, not an error.
func (r *HistoryRepo) Load(ctx context.Context, sessionID uuid.UUID) ([]llm.Message, error) {
	rows, err := r.db.Query(ctx,
		`SELECT message FROM chat_history WHERE session_id = $1 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	var messages []llm.Message
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		var msg llm.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, fmt.Errorf("malformed history payload for session %s: %w", sessionID, err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}

	return messages, nil
}

// Append adds one turn to a session's transcript.
func (r *HistoryRepo) Append(ctx context.Context, sessionID uuid.UUID, msg llm.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO chat_history (session_id, message) VALUES ($1, $2)`,
		sessionID, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to append to chat history: %w", err)
	}

	return nil
}
