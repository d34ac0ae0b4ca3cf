// Package auth resolves bearer credentials to identities.
package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidCredential is returned when a credential is missing, malformed,
// expired, or rejected by the identity provider.
var ErrInvalidCredential = errors.New("invalid credential")

// Identity is the verified principal behind a bearer credential.
type Identity struct {
	Subject string
	Name    string
	Email   string
}

// Verifier resolves a raw bearer credential to an Identity.
type Verifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}

// BearerToken extracts the credential from an Authorization header value.
// It returns "" when the header is absent or not a bearer header.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
