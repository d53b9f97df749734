package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/resetgate/resetgate/internal/constants"
)

// createResetSessionsTable creates the reset_sessions table.
// One row per reset flow, keyed by the opaque scope identifier. The creation
// timestamp is stored as epoch milliseconds so expiry arithmetic is identical
// across drivers.
func createResetSessionsTable() Migration {
	return Migration{
		Name:        "create_reset_sessions_table",
		Description: "Creates the reset_sessions table",
		TableName:   constants.TableResetSessions,
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					%s VARCHAR(36) PRIMARY KEY,
					%s VARCHAR(10) NOT NULL,
					%s VARCHAR(255) NOT NULL,
					%s BIGINT NOT NULL
				)
			`,
				constants.TableResetSessions,
				constants.ColumnScope,
				constants.ColumnSessionFlag,
				constants.ColumnEmail,
				constants.ColumnCreatedAtMs,
			)
			if _, err := tx.ExecContext(ctx, query); err != nil {
				return err
			}

			// Index for the periodic sweep, which deletes by creation time.
			indexQuery := fmt.Sprintf(
				`CREATE INDEX IF NOT EXISTS idx_%s ON %s(%s)`,
				constants.ColumnCreatedAtMs,
				constants.TableResetSessions,
				constants.ColumnCreatedAtMs,
			)
			_, err := tx.ExecContext(ctx, indexQuery)
			return err
		},
	}
}
