package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/port"
)

// PostgresStore persists sessions and audit records.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id           TEXT PRIMARY KEY,
	access_token TEXT NOT NULL,
	user_name    TEXT NOT NULL DEFAULT '',
	user_email   TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS audit_logs (
	id          BIGSERIAL PRIMARY KEY,
	user_name   TEXT NOT NULL,
	action      TEXT NOT NULL,
	resource    TEXT NOT NULL,
	resource_id TEXT NOT NULL,
	details     JSONB,
	ip          TEXT,
	user_agent  TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// EnsureSchema creates the tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// --- Sessions ---

// Get implements port.SessionStore.
func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT id, access_token, user_name, user_email FROM sessions WHERE id = $1`

	var sess domain.Session
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID, &sess.AccessToken, &sess.UserName, &sess.UserEmail,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

// Save implements port.SessionStore.
func (s *PostgresStore) Save(ctx context.Context, sess *domain.Session) error {
	query := `
		INSERT INTO sessions (id, access_token, user_name, user_email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			user_name = EXCLUDED.user_name,
			user_email = EXCLUDED.user_email`

	if _, err := s.db.ExecContext(ctx, query,
		sess.ID, sess.AccessToken, sess.UserName, sess.UserEmail,
	); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete implements port.SessionStore. Deleting an unknown id is not an error.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// --- Audit Logs ---

// WriteAudit implements middleware.AuditWriter.
func (s *PostgresStore) WriteAudit(userName, action, resource, resourceID, details, ip, userAgent string) error {
	query := `INSERT INTO audit_logs (user_name, action, resource, resource_id, details, ip, user_agent)
	          VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)`
	_, err := s.db.ExecContext(context.Background(), query,
		userName, action, resource, resourceID, details, ip, userAgent,
	)
	return err
}

// ListAuditLogs returns recent audit logs with optional filters.
func (s *PostgresStore) ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error) {
	query := `SELECT id, user_name, action, resource, resource_id, COALESCE(details::text, ''), COALESCE(ip, ''), COALESCE(user_agent, ''), created_at
	          FROM audit_logs`
	args := []interface{}{}
	argIdx := 1

	if action != "" {
		query += fmt.Sprintf(" WHERE action = $%d", argIdx)
		args = append(args, action)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(
			&l.ID, &l.UserName, &l.Action, &l.Resource, &l.ResourceID,
			&l.Details, &l.IP, &l.UserAgent, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
