package auth

import "context"

// StaticVerifier maps fixed tokens to identities, for tests.
type StaticVerifier map[string]Identity

// Verify looks the credential up in the table.
func (v StaticVerifier) Verify(_ context.Context, credential string) (Identity, error) {
	id, ok := v[credential]
	if !ok || credential == "" {
		return Identity{}, ErrInvalidCredential
	}
	return id, nil
}
