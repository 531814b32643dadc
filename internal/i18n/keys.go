// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthTooManyAttempts    = "auth.too_many_attempts"

	// Access
	KeyAccessDenied = "access.denied"

	// Ledger
	KeyLedgerHalted   = "ledger.halted"
	KeyLedgerPaused   = "ledger.paused"
	KeyLedgerUnpaused = "ledger.unpaused"

	// Resources
	KeyProductNotFound     = "product.not_found"
	KeyParticipantNotFound = "participant.not_found"
	KeyNotFound            = "resource.not_found"

	// Validation
	KeyValidationInvalid = "validation.invalid"
	KeyInvalidID         = "validation.invalid_id"

	// Generic
	KeyInternalError = "error.internal"
	KeyRateLimited   = "error.rate_limited"
)
