package migrations_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/resetgate/resetgate/internal/database"
	"github.com/resetgate/resetgate/migrations"
)

// createMockDB creates a mock database for testing
func createMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return db, mock, cleanup
}

func TestNewMigrator(t *testing.T) {
	db, _, cleanup := createMockDB(t)
	defer cleanup()

	pool := database.NewPool(db, "mysql")
	migrator := migrations.NewMigrator(pool)

	assert.NotNil(t, migrator)
}

func TestGetMigrations(t *testing.T) {
	migrationsList := migrations.GetMigrations()

	assert.NotEmpty(t, migrationsList)

	foundResetSessions := false
	for _, migration := range migrationsList {
		if migration.Name == "create_reset_sessions_table" {
			foundResetSessions = true
			assert.Equal(t, "reset_sessions", migration.TableName)
		}
	}

	assert.True(t, foundResetSessions, "Should include reset_sessions table migration")
}

// TestRunMigrations tests the main RunMigrations function
func TestRunMigrations(t *testing.T) {
	existsRow := func(exists bool) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"exists"}).AddRow(exists)
	}

	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "Error - Create migrations table fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrations").
					WillReturnError(errors.New("failed to create migrations table"))
			},
			wantErr: true,
		},
		{
			name: "Error - Table exists check fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrations").
					WillReturnResult(sqlmock.NewResult(0, 0))

				mock.ExpectQuery("SELECT EXISTS.*FROM information_schema.tables").
					WillReturnError(errors.New("failed to check table existence"))
			},
			wantErr: true,
		},
		{
			name: "Error - Get executed migrations fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrations").
					WillReturnResult(sqlmock.NewResult(0, 0))

				mock.ExpectQuery("SELECT EXISTS.*FROM information_schema.tables").
					WillReturnRows(existsRow(true))

				mock.ExpectQuery("SELECT name FROM migrations").
					WillReturnError(errors.New("failed to get executed migrations"))
			},
			wantErr: true,
		},
		{
			name: "Success - Fresh database runs the migration",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrations").
					WillReturnResult(sqlmock.NewResult(0, 0))

				// Verification pass finds the table missing and creates it.
				mock.ExpectQuery("SELECT EXISTS.*FROM information_schema.tables").
					WillReturnRows(existsRow(false))
				mock.ExpectBegin()
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS reset_sessions").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_created_at_ms").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("INSERT INTO migrations").
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()

				// The migration is now recorded, so the main loop skips it.
				rows := sqlmock.NewRows([]string{"name"}).AddRow("create_reset_sessions_table")
				mock.ExpectQuery("SELECT name FROM migrations").
					WillReturnRows(rows)
			},
			wantErr: false,
		},
		{
			name: "Success - Existing table is recorded without running SQL",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrations").
					WillReturnResult(sqlmock.NewResult(0, 0))

				mock.ExpectQuery("SELECT EXISTS.*FROM information_schema.tables").
					WillReturnRows(existsRow(true))

				mock.ExpectQuery("SELECT name FROM migrations").
					WillReturnRows(sqlmock.NewRows([]string{"name"}))

				mock.ExpectQuery("SELECT EXISTS.*FROM information_schema.tables").
					WillReturnRows(existsRow(true))
				mock.ExpectExec("INSERT INTO migrations").
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			wantErr: false,
		},
		{
			name: "Success - Migration already recorded",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrations").
					WillReturnResult(sqlmock.NewResult(0, 0))

				mock.ExpectQuery("SELECT EXISTS.*FROM information_schema.tables").
					WillReturnRows(existsRow(true))

				rows := sqlmock.NewRows([]string{"name"}).AddRow("create_reset_sessions_table")
				mock.ExpectQuery("SELECT name FROM migrations").
					WillReturnRows(rows)
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := createMockDB(t)
			defer cleanup()

			tt.setup(mock)

			pool := database.NewPool(db, "mysql")
			migrator := migrations.NewMigrator(pool)

			ctx := context.Background()
			err := migrator.RunMigrations(ctx)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestMigrationProperties tests that all migrations have the required properties
func TestMigrationProperties(t *testing.T) {
	migrationsList := migrations.GetMigrations()

	for _, migration := range migrationsList {
		t.Run(migration.Name, func(t *testing.T) {
			assert.NotEmpty(t, migration.Name, "Migration should have a name")
			assert.NotEmpty(t, migration.Description, "Migration should have a description")
			assert.NotEmpty(t, migration.TableName, "Migration should have a table name")
			assert.NotNil(t, migration.RunSQL, "Migration should have a RunSQL function")
		})
	}
}

// TestTransactionBehavior tests that a failing migration rolls back.
func TestTransactionBehavior(t *testing.T) {
	t.Run("Transaction rollback on failure", func(t *testing.T) {
		db, mock, cleanup := createMockDB(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS test_table").
			WillReturnError(errors.New("migration failed"))
		mock.ExpectRollback()

		pool := database.NewPool(db, "mysql")

		failingMigration := migrations.Migration{
			Name:        "failing_migration",
			Description: "Migration that fails",
			RunSQL: func(ctx context.Context, tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS test_table")
				return err
			},
		}

		ctx := context.Background()

		err := pool.Transaction(ctx, func(tx *sql.Tx) error {
			if err := failingMigration.RunSQL(ctx, tx); err != nil {
				return err
			}

			// Not reached, the migration above fails first.
			_, err := tx.ExecContext(ctx, "INSERT INTO migrations (name, description) VALUES (?, ?)", failingMigration.Name, failingMigration.Description)
			return err
		})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
