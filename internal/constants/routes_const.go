package constants

// Base Routes
const (
	APIBasePath = "/api"
	HealthPath  = "/health"
	VersionPath = "/version"
)

// Reset Flow Routes
const (
	ResetBasePath     = "/api/reset"
	ResetValidatePath = "/api/reset/validate"
	ResetSubmitPath   = "/api/reset/submit"
	ResetSessionPath  = "/api/reset/session"
)

// Redirect Targets are the navigation destinations the service hands back to
// the client alongside a verdict. They are paths in the end-user web
// application, not routes served by this API.
const (
	// RedirectForget is the "request a new OTP" entry point. Every
	// non-valid verdict sends the visitor here.
	RedirectForget = "/forget"

	// RedirectLogin is the destination after a successful reset or an
	// explicit "return to login" action.
	RedirectLogin = "/login"

	// RedirectHome is the destination for visitors who already hold an
	// authenticated application session.
	RedirectHome = "/"
)

// Scope Carriers define where the per-flow scope identifier travels.
const (
	// HeaderXResetScope carries the scope on API requests.
	HeaderXResetScope = "X-Reset-Scope"

	// ResetScopeCookie is the cookie fallback for the scope identifier.
	ResetScopeCookie = "reset_scope"
)

// Query Parameters
const (
	// QueryParamEmail is the legacy URL-embedded email parameter.
	QueryParamEmail = "email"
)
