package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenIssuer is the iss claim on every session token.
const tokenIssuer = "ecobuild"

// SessionClaims extends JWT standard claims with the session reference.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username  string `json:"usr"`
	SessionID string `json:"sid"`
}

// IssueToken creates a signed HS256 session token for a user.
//
// Parameters:
//   - user: Account the token identifies (subject)
//   - sessionID: Server-side session the token is bound to
//   - secret: HMAC signing key
//   - ttl: Lifetime from now
//
// Returns:
//   - string: Compact JWS
//   - time.Time: Expiry instant
//   - error: If signing fails
func IssueToken(user *User, sessionID, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(ttl)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
		Username:  user.Username,
		SessionID: sessionID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}
	return signed, expires, nil
}

// ParseToken validates a session token's signature, expiry and required
// claims. It does not consult the session store.
func ParseToken(tokenString, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	if claims.SessionID == "" {
		return nil, fmt.Errorf("%w: missing session", ErrTokenInvalid)
	}

	return claims, nil
}
