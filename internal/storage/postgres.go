package storage

import (
	"context"
	"database/sql"
	"fmt"

	"talanch-backoffice/internal/domain"
)

// PostgresRepository keeps the back-office's own audit trail of admin
// mutations. The catering data itself lives upstream.
type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS audit_entries (
			id SERIAL PRIMARY KEY,
			entity TEXT NOT NULL,
			entity_id INTEGER NOT NULL DEFAULT 0,
			action TEXT NOT NULL,
			actor TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS audit_entries_entity_idx ON audit_entries (entity, entity_id)`,
	}

	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

func (r *PostgresRepository) RecordMutation(ctx context.Context, e domain.AuditEntry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO audit_entries (entity, entity_id, action, actor, detail)
		VALUES ($1, $2, $3, $4, $5)`,
		e.Entity, e.EntityID, e.Action, e.Actor, e.Detail)
	return err
}

func (r *PostgresRepository) ListRecentMutations(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, entity, entity_id, action, actor, detail, created_at
		FROM audit_entries
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.AuditEntry{}
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.Entity, &e.EntityID, &e.Action, &e.Actor, &e.Detail, &e.CreatedAt); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
