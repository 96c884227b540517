package repository

import (
	"context"
	"time"

	"mueen-assist/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SessionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSessionRepository(db *pgxpool.Pool, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		db:     db,
		logger: logger,
	}
}

// Append writes one message to the conversation log.
func (r *SessionRepository) Append(ctx context.Context, sessionID string, role models.MessageRole, text string) error {
	query := squirrel.Insert("session_messages").
		Columns("id", "session_id", "role", "text", "created_at").
		Values(uuid.New(), sessionID, role, text, time.Now().UTC()).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// History returns a session's messages in chronological order.
func (r *SessionRepository) History(ctx context.Context, sessionID string) ([]*models.SessionMessage, error) {
	query := squirrel.Select("id", "session_id", "role", "text", "created_at").
		From("session_messages").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.SessionMessage
	for rows.Next() {
		var m models.SessionMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}

	return messages, nil
}

// Clear removes every message of one session. An empty sessionID clears the
// whole log.
func (r *SessionRepository) Clear(ctx context.Context, sessionID string) (int64, error) {
	builder := squirrel.Delete("session_messages").PlaceholderFormat(squirrel.Dollar)
	if sessionID != "" {
		builder = builder.Where(squirrel.Eq{"session_id": sessionID})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
