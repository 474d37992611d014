package service

import (
	"errors"
	"strings"
)

// Sentinel errors mark the failure class; the wrapped text after the sentinel
// is the user-facing message.
var (
	ErrValidation        = errors.New("validation")         // 400
	ErrUnauthorized      = errors.New("unauthorized")       // 401
	ErrNotFound          = errors.New("not found")          // 404
	ErrConflict          = errors.New("conflict")           // 400, observed wire behavior
	ErrInsufficientStock = errors.New("insufficient stock") // 400
	ErrBadTransition     = errors.New("bad transition")     // 400
)

// Reason strips the sentinel prefix from a service error, leaving the
// message meant for the response body.
func Reason(err error) string {
	s := err.Error()
	if i := strings.Index(s, ": "); i >= 0 {
		return s[i+2:]
	}
	return s
}
