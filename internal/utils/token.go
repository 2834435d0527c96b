package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session tokens are HS256 JWTs. The signature lets the server discard
// forged or corrupted tokens without touching the session map, and the jti
// claim (a fresh UUID) guarantees every issued token is unique among live
// ones. The session store remains the authority on validity: a token is only
// accepted while its entry is present and not idle-expired.

var errInvalidToken = errors.New("invalid session token")

// NewSessionToken mints a signed token for the given user.
func NewSessionToken(secret string, userID int) (string, error) {
	claims := jwt.MapClaims{
		"sub": int64(userID),
		"jti": uuid.NewString(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// SessionUserID validates the token signature and returns the subject user
// id. It does not consult the session store; callers must still check that
// the token is live.
func SessionUserID(secret, token string) (int, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, errInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, errInvalidToken
	}
	return int(sub), nil
}
