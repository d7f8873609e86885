package auth

import "errors"

// Sentinel errors for authentication operations.
//
// ErrUserNotFound and ErrWrongPassword stay internal to logs and wrapped
// errors; callers of Login only ever observe ErrInvalidCredentials so the
// external failure message cannot be used to probe registered emails.
var (
	// ErrInvalidCredentials is the generic login failure surfaced to
	// callers for both unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned by the directory when no user matches
	// the email.
	ErrUserNotFound = errors.New("user not found")

	// ErrWrongPassword indicates a password verification failure.
	ErrWrongPassword = errors.New("wrong password")

	// ErrUserExists is returned when signing up with an already
	// registered email.
	ErrUserExists = errors.New("user with this email already exists")

	// ErrNameTooShort is returned when the signup name has fewer than
	// two characters.
	ErrNameTooShort = errors.New("name must be at least 2 characters")

	// ErrInvalidEmail is returned when the email does not parse as an
	// address.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrWeakPassword is returned when the password has fewer than six
	// characters.
	ErrWeakPassword = errors.New("password must be at least 6 characters")

	// ErrPasswordMismatch is returned when password and confirmation
	// differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrUnknownProvider is returned for social logins with a provider
	// other than google or github.
	ErrUnknownProvider = errors.New("unknown login provider")

	// ErrInvalidToken is returned when a session token fails validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a session token has expired.
	ErrExpiredToken = errors.New("token has expired")
)
