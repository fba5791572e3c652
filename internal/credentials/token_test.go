package credentials

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestInspect(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		token string
		want  TokenStatus
	}{
		{
			name:  "empty token",
			token: "",
			want:  TokenMissing,
		},
		{
			name:  "not a JWT",
			token: "abc123",
			want:  TokenInvalid,
		},
		{
			name: "expired",
			token: signedToken(t, jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			}),
			want: TokenExpired,
		},
		{
			name: "valid",
			token: signedToken(t, jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			}),
			want: TokenValid,
		},
		{
			name:  "no expiry claim",
			token: signedToken(t, jwt.RegisteredClaims{Subject: "dev@example.com"}),
			want:  TokenValid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Inspect(tt.token); got != tt.want {
				t.Errorf("Inspect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenStatusString(t *testing.T) {
	tests := []struct {
		status TokenStatus
		want   string
	}{
		{TokenMissing, "missing"},
		{TokenInvalid, "invalid"},
		{TokenExpired, "expired"},
		{TokenValid, "valid"},
		{TokenStatus(9), "TokenStatus(9)"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("TokenStatus(%d).String() = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}
