package models

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	RoleUser MessageRole = "user"
	RoleBot  MessageRole = "bot"
)

// SessionMessage is one line of the append-only conversation log.
type SessionMessage struct {
	ID        uuid.UUID   `db:"id"`
	SessionID string      `db:"session_id"`
	Role      MessageRole `db:"role"`
	Text      string      `db:"text"`
	CreatedAt time.Time   `db:"created_at"`
}

// AddressAudit snapshots one outbound address-creation attempt, request and
// response alike, regardless of outcome.
type AddressAudit struct {
	ID         uuid.UUID `db:"id"`
	Request    string    `db:"request"`
	Response   string    `db:"response"`
	StatusCode int       `db:"status_code"`
	Succeeded  bool      `db:"succeeded"`
	CreatedAt  time.Time `db:"created_at"`
}
