package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"school-admin/internal/model"
)

// AuditStore persists the audit trail. Lists are newest first.
type AuditStore interface {
	LogAudit(ctx context.Context, entry model.AuditEntry) error
	ListAudit(ctx context.Context, filter model.AuditFilter, page model.PageRequest) ([]model.AuditEntry, int, error)
}

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) LogAudit(ctx context.Context, entry model.AuditEntry) error {
	var data []byte
	if len(entry.Data) > 0 {
		data = entry.Data
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_entries (id, action, resource, actor_id, actor_name, data, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.Action, entry.Resource, entry.ActorID, entry.ActorName, data, entry.OccurredAt)
	if err != nil {
		return fmt.Errorf("log audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListAudit(ctx context.Context, filter model.AuditFilter, page model.PageRequest) ([]model.AuditEntry, int, error) {
	var w where
	if filter.Action != "" {
		w.add("action = ?", filter.Action)
	}
	w.like("actor_name", filter.Actor)
	w.like("resource", filter.Resource)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_entries`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	query := `SELECT id, action, resource, actor_id, actor_name, data, occurred_at FROM audit_entries` +
		w.sql() + ` ORDER BY occurred_at DESC, id`
	query += w.page(page)

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	out := make([]model.AuditEntry, 0, page.Limit)
	for rows.Next() {
		var (
			entry model.AuditEntry
			data  []byte
		)
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.Resource, &entry.ActorID, &entry.ActorName, &data, &entry.OccurredAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit entry: %w", err)
		}
		if len(data) > 0 {
			entry.Data = data
		}
		out = append(out, entry)
	}
	return out, total, rows.Err()
}
