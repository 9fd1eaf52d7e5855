package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
// Implementación real: adapters/auth/remote. En dev queda nil.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
