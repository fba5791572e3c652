package stubserver

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apikit "github.com/appfoundry/apikit"
)

// authService issues and verifies the JWTs handed out by the dev login
// endpoint. The single accepted credential is fixed in the server config; the
// password is hashed once at startup so login goes through the same bcrypt
// comparison a real backend would use.
type authService struct {
	secretKey      string
	devEmail       string
	hashedPassword []byte
}

func newAuthService(cfg *Config) (*authService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DevPassword), apikit.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash dev password: %w", err)
	}

	return &authService{
		secretKey:      cfg.SecretKey,
		devEmail:       cfg.DevEmail,
		hashedPassword: hash,
	}, nil
}

func (a *authService) checkPassword(password string) error {
	return bcrypt.CompareHashAndPassword(a.hashedPassword, []byte(password))
}

// createAccessToken returns a signed JWT and its lifetime in seconds.
func (a *authService) createAccessToken(email string) (string, int, error) {
	issuedAt := time.Now()
	expiresAt := issuedAt.Add(apikit.AccessTokenExpiry)

	claims := jwt.RegisteredClaims{
		Issuer:    apikit.TokenIssuerName,
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedAccessToken, err := accessToken.SignedString([]byte(a.secretKey))
	if err != nil {
		return "", 0, fmt.Errorf("error signing access token: %w", err)
	}

	return signedAccessToken, int(apikit.AccessTokenExpiry.Seconds()), nil
}

func (a *authService) verifyAccessToken(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
