// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling,
// categorization, and messaging. These constants ensure consistent error
// reporting throughout the application. User-facing error messages are
// carefully crafted to be informative without revealing implementation
// details that could aid in potential attacks.
package constants

// Error Types define the categories of errors that can occur in the application.
// These are used for internal error classification and handling.
const (
	// ErrorNoSession indicates that no active reset session is recorded.
	ErrorNoSession = "no reset session"

	// ErrorSessionExpired indicates that a reset session exceeded its TTL.
	ErrorSessionExpired = "reset session expired"

	// ErrorEmailMismatch indicates the candidate email does not match the session.
	ErrorEmailMismatch = "email mismatch"

	// ErrorServiceRejected indicates the credential service explicitly reported failure.
	ErrorServiceRejected = "credential service rejected request"

	// ErrorTransport indicates the credential service call could not complete.
	ErrorTransport = "credential service unreachable"
)

// User-Facing Error Messages define standardized messages that can be safely
// presented to users. The three validation messages mirror the wording the
// reset page has always shown, so existing clients keep displaying them verbatim.
const (
	// MsgInvalidAccess is shown when no reset session exists for the visitor.
	MsgInvalidAccess = "Invalid access. Please use the forgot password flow."

	// MsgSessionExpired is shown when the reset session exceeded its TTL.
	MsgSessionExpired = "Session expired. Please request a new OTP."

	// MsgInvalidEmail is shown when the candidate email fails the binding check.
	MsgInvalidEmail = "Invalid email parameter."

	// MsgAlreadyAuthenticated is shown when an authenticated principal reaches the flow.
	MsgAlreadyAuthenticated = "Already signed in."

	// MsgResetFailed is the generic message for a transport-level submission failure.
	MsgResetFailed = "Could not reset the password. Please try again."

	// MsgResetSuccess confirms a completed reset.
	MsgResetSuccess = "Password has been reset successfully."

	// MsgSessionCleared confirms an explicit session clear.
	MsgSessionCleared = "Reset session cleared"

	// MsgAuthRequired indicates that the user must authenticate to access the resource.
	MsgAuthRequired = "Authentication required"

	// MsgAccessDenied indicates that the user lacks permission for the requested action.
	MsgAccessDenied = "You don't have permission to access this resource"

	// MsgInternalServerError provides a generic server error message.
	MsgInternalServerError = "An internal server error occurred"

	// MsgTokenExpired indicates that the user's authentication token has expired.
	MsgTokenExpired = "Authentication token has expired"

	// MsgInvalidToken indicates that the provided token is invalid.
	MsgInvalidToken = "Invalid token"

	// MsgRequestBodyTooLarge indicates that the request payload exceeds size limits.
	MsgRequestBodyTooLarge = "Request body too large"

	// MsgEmptyRequestBody indicates that a request body was expected but not provided.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON indicates that the request body contains invalid JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"

	// MsgResourceNotFound indicates that the requested resource does not exist.
	MsgResourceNotFound = "The requested resource could not be found"

	// MsgMethodNotAllowed indicates that the HTTP method is not supported for the endpoint.
	MsgMethodNotAllowed = "This method is not allowed for this resource"

	// MsgTooManyRequests indicates the client exceeded its rate limit.
	MsgTooManyRequests = "Too many requests. Please slow down and try again."
)

// Database Error Types define constants for recognizing and handling
// database-specific errors.
const (
	// PGErrorDuplicateConstraint is the PostgreSQL error code for unique constraint violations.
	PGErrorDuplicateConstraint = "23505"

	// PGErrorForeignKeyConstraint is the PostgreSQL error code for foreign key violations.
	PGErrorForeignKeyConstraint = "23503"

	// PGErrorNotNullConstraint is the PostgreSQL error code for not-null constraint violations.
	PGErrorNotNullConstraint = "23502"
)

// Logger Constants define values used for structured logging.
// These constants ensure consistent log formatting and categorization.
const (
	// LogCategoryReset is the log category for reset flow events.
	LogCategoryReset = "reset"

	// LogEventValidate is the log event type for a validation attempt.
	LogEventValidate = "validate"

	// LogEventSubmit is the log event type for a reset submission.
	LogEventSubmit = "submit"

	// LogRedactedValue is used to replace sensitive values in logs.
	LogRedactedValue = "[REDACTED]"
)
