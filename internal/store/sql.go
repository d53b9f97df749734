package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/resetgate/resetgate/internal/constants"
	"github.com/resetgate/resetgate/internal/database"
	"github.com/resetgate/resetgate/internal/models"
	"github.com/resetgate/resetgate/internal/utils"
)

// SQLSessionStore is a database-backed session store for deployments without
// Redis. Each session is a row in the reset_sessions table; stale rows are
// removed by a periodic sweep rather than at logical expiry.
type SQLSessionStore struct {
	db  *database.Pool
	ttl time.Duration
}

// NewSQLSessionStore creates a new database-backed session store with the
// given session lifetime.
func NewSQLSessionStore(db *database.Pool, ttl time.Duration) *SQLSessionStore {
	return &SQLSessionStore{db: db, ttl: ttl}
}

// Get retrieves the session stored under the given scope.
func (s *SQLSessionStore) Get(ctx context.Context, scope string) (*models.ResetSession, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s, %s FROM %s WHERE %s = ?",
		constants.ColumnSessionFlag, constants.ColumnEmail, constants.ColumnCreatedAtMs,
		constants.TableResetSessions, constants.ColumnScope,
	)

	var flag, email string
	var createdAtMs int64
	err := s.db.QueryRowContext(ctx, s.db.Rebind(query), scope).Scan(&flag, &email, &createdAtMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("reset session", scope)
		}
		return nil, utils.ParseError(err)
	}

	return &models.ResetSession{
		Scope:     scope,
		Active:    flag != "",
		Email:     email,
		CreatedAt: time.UnixMilli(createdAtMs),
	}, nil
}

// Create stores a session under its scope, replacing any existing one.
// The replace runs in a transaction so a concurrent Get never observes a
// scope with no session in between.
func (s *SQLSessionStore) Create(ctx context.Context, session *models.ResetSession) error {
	deleteQuery := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = ?",
		constants.TableResetSessions, constants.ColumnScope,
	)
	insertQuery := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s, %s) VALUES (?, ?, ?, ?)",
		constants.TableResetSessions,
		constants.ColumnScope, constants.ColumnSessionFlag, constants.ColumnEmail, constants.ColumnCreatedAtMs,
	)

	flag := ""
	if session.Active {
		flag = constants.SessionFlagActive
	}

	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.db.Rebind(deleteQuery), session.Scope); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, s.db.Rebind(insertQuery),
			session.Scope, flag, session.Email, session.TimestampMillis())
		return err
	})
	if err != nil {
		return utils.ParseError(err)
	}

	return nil
}

// Clear removes the session stored under the given scope.
func (s *SQLSessionStore) Clear(ctx context.Context, scope string) error {
	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = ?",
		constants.TableResetSessions, constants.ColumnScope,
	)

	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), scope); err != nil {
		return utils.ParseError(err)
	}

	return nil
}

// Sweep removes sessions well past their expiry window. It is intended to be
// run periodically by the server.
func (s *SQLSessionStore) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-time.Duration(constants.ResetSessionGCFactor) * s.ttl)

	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s < ?",
		constants.TableResetSessions, constants.ColumnCreatedAtMs,
	)

	result, err := s.db.ExecContext(ctx, s.db.Rebind(query), cutoff.UnixMilli())
	if err != nil {
		return 0, utils.ParseError(err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, utils.ParseError(err)
	}

	return removed, nil
}
