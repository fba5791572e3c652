package credentials

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStatus describes a stored access token for diagnostics. An expired
// token is still attached to requests - the server's 401 is the source of
// truth, this check only gives the user a better message up front.
type TokenStatus int

const (
	TokenMissing TokenStatus = iota
	TokenInvalid
	TokenExpired
	TokenValid
)

var tokenStatusNames = []string{"missing", "invalid", "expired", "valid"}

func (t TokenStatus) String() string {
	if t < 0 || int(t) >= len(tokenStatusNames) {
		return fmt.Sprintf("TokenStatus(%d)", int(t))
	}
	return tokenStatusNames[t]
}

// Inspect classifies a token by parsing it as a JWT without verifying the
// signature (the client holds no signing key - verification happens server
// side).
func Inspect(token string) TokenStatus {
	if token == "" {
		return TokenMissing
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := &jwt.RegisteredClaims{}

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return TokenInvalid
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return TokenExpired
	}

	return TokenValid
}
