package account

import "errors"

// Domain failures raised by the service. The message text is what callers see,
// the HTTP layer only picks the status code.
var (
	ErrUserNotFound  = errors.New("User not found")
	ErrWrongPassword = errors.New("Incorrect password")
	ErrNotVerified   = errors.New("User not verified")

	ErrConflict     = errors.New("Username or email is already taken")
	ErrSameUsername = errors.New("Username is the same")
	ErrSameEmail    = errors.New("Email is the same")

	ErrVerificationNotFound = errors.New("Verification code not found")
	ErrInvalidCode          = errors.New("Invalid verification code")
	ErrAlreadyVerified      = errors.New("User is already verified")

	ErrUnauthorized = errors.New("Could not validate credentials")
	ErrForbidden    = errors.New("You do not have permission to update this user")
)
