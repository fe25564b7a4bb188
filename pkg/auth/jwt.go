// -----------------------------------------------------------------------------
// JWT Authentication
// -----------------------------------------------------------------------------
// Box-office clients authenticate once with their credentials and then send
// the issued HS256 token as "Authorization: Bearer <token>".
// -----------------------------------------------------------------------------

package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleBoxOffice = "box_office"

var ErrInvalidToken = errors.New("invalid token")

// Claims identify the calling client.
type Claims struct {
	ClientID string `json:"client_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type JWTConfig struct {
	Secret         string
	Issuer         string
	ExpirationTime time.Duration
}

// GenerateToken signs a token for clientID and returns it with its expiry.
func GenerateToken(clientID, role string, config JWTConfig) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(config.ExpirationTime)

	claims := Claims{
		ClientID: clientID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.Issuer,
			Subject:   clientID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken verifies the signature, issuer and expiry of tokenString.
func ParseToken(tokenString string, config JWTConfig) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject "none" and asymmetric algorithms.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.Secret), nil
	}, jwt.WithIssuer(config.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ClientID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractTokenFromHeader returns the token of a "Bearer <token>" header, or "".
func ExtractTokenFromHeader(authHeader string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
