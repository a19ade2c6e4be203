// Package verify checks bot-challenge tokens submitted with comments.
package verify

import "context"

// Verifier reports whether a challenge token is valid for the given client
// address. A non-nil error means the verdict could not be obtained; callers
// treat that as a failed check.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// Static returns a fixed verdict. It is used for local development and tests
// where no challenge service is reachable.
type Static bool

// Verify implements Verifier.
func (s Static) Verify(context.Context, string, string) (bool, error) { return bool(s), nil }
