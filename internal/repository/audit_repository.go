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

type AuditRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAuditRepository(db *pgxpool.Pool, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Record stores one address-creation exchange snapshot.
func (r *AuditRepository) Record(ctx context.Context, audit *models.AddressAudit) error {
	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now().UTC()
	}

	query := squirrel.Insert("address_audits").
		Columns("id", "request", "response", "status_code", "succeeded", "created_at").
		Values(audit.ID, audit.Request, audit.Response, audit.StatusCode, audit.Succeeded, audit.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// Recent returns the latest audit snapshots, newest first.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]*models.AddressAudit, error) {
	if limit <= 0 {
		limit = 50
	}

	query := squirrel.Select("id", "request", "response", "status_code", "succeeded", "created_at").
		From("address_audits").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
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

	var audits []*models.AddressAudit
	for rows.Next() {
		var a models.AddressAudit
		if err := rows.Scan(&a.ID, &a.Request, &a.Response, &a.StatusCode, &a.Succeeded, &a.CreatedAt); err != nil {
			return nil, err
		}
		audits = append(audits, &a)
	}

	return audits, nil
}
