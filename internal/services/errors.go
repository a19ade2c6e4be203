// Package services holds the business logic for comments, reports,
// moderation, quotes and usage tracking. This file centralizes the
// service-level error values. Handlers translate them into HTTP status codes
// and stable error codes; services never build responses themselves.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a request fails schema validation.
	// Detailed variants wrap it, so match with errors.Is.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBotSuspected groups the automated-client rejections.
	ErrBotSuspected = errors.New("bot suspected")

	// ErrHoneypot is returned when the hidden form field was filled in.
	ErrHoneypot = fmt.Errorf("%w: honeypot filled", ErrBotSuspected)

	// ErrChallengeFailed is returned when the human-verification token was
	// rejected or could not be checked.
	ErrChallengeFailed = fmt.Errorf("%w: challenge failed", ErrBotSuspected)

	// ErrTooManyLinks is returned when a comment body carries more than one URL.
	ErrTooManyLinks = errors.New("too many links")

	// ErrRateLimited is returned when the caller exceeded the abuse window.
	ErrRateLimited = errors.New("rate limited")

	// ErrDuplicateContent is returned when the same normalized body was
	// already posted on the quote.
	ErrDuplicateContent = errors.New("duplicate content")

	// ErrUnauthorized is returned when admin credentials are missing or wrong.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnknownAction is returned for moderation actions outside the closed set.
	ErrUnknownAction = errors.New("unknown action")

	// ErrQuoteNotFound is returned when a quote id does not exist.
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrNoQuotes is returned when the quote store is empty.
	ErrNoQuotes = errors.New("no quotes loaded")
)

// invalidf wraps ErrInvalidInput with a field-level reason.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}
