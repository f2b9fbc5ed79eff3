package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	// ErrTokenIsExpiredOrInvalid covers every verification failure: bad
	// structure, wrong signature, unknown or revoked value, passed expiry.
	// Callers are deliberately not told which one it was.
	ErrTokenIsExpiredOrInvalid = errors.New("invalid or expired token")
)
