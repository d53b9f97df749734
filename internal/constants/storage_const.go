// Package constants provides shared constant values used throughout the application.
//
// The storage_const.go file defines the wire-level names under which a reset
// session is persisted. The three field names are a compatibility contract
// with the original browser flow and must not change: every store backend
// (memory, Redis, SQL) keeps the session under exactly these keys so that the
// stored shape is inspectable and portable between backends.
package constants

// Session Store Field Names define the keys under which the three reset
// session fields are persisted. The flag is any truthy string, the timestamp
// is a string-encoded integer of epoch milliseconds.
const (
	// StoreKeySessionFlag marks a session as present. Absent or empty means no session.
	StoreKeySessionFlag = "resetPasswordSession"

	// StoreKeyEmail is the email address the session is bound to.
	StoreKeyEmail = "resetPasswordEmail"

	// StoreKeyTimestamp is the session creation time, epoch milliseconds as a string.
	StoreKeyTimestamp = "resetPasswordTimestamp"
)

// Session Flag Values define the canonical truthy value written for the
// session presence flag. Reads accept any non-empty string.
const (
	// SessionFlagActive is the value written for an active session flag.
	SessionFlagActive = "true"
)

// Redis Storage Constants define key construction for the Redis backend.
const (
	// RedisSessionKeyPrefix prefixes the per-scope Redis hash key.
	RedisSessionKeyPrefix = "resetgate:session:"
)

// SQL Storage Constants define the schema used by the SQL backend.
const (
	// TableResetSessions is the name of the table storing reset sessions.
	TableResetSessions = "reset_sessions"

	// ColumnScope is the opaque per-flow identifier and primary key.
	ColumnScope = "scope"

	// ColumnSessionFlag is the column holding the presence flag string.
	ColumnSessionFlag = "session_flag"

	// ColumnEmail is the column holding the bound email.
	ColumnEmail = "email"

	// ColumnCreatedAtMs is the column holding epoch milliseconds of creation.
	ColumnCreatedAtMs = "created_at_ms"
)

// Store Backend Names identify the configurable session store implementations.
const (
	// StoreBackendMemory selects the in-process map-backed store.
	StoreBackendMemory = "memory"

	// StoreBackendRedis selects the Redis hash-backed store.
	StoreBackendRedis = "redis"

	// StoreBackendSQL selects the database-backed store.
	StoreBackendSQL = "sql"
)
