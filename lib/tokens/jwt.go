package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// CallClaims carry the host-attested identity of the caller and the logical
// clock of the call being made.
type CallClaims struct {
	Identity string `json:"identity"`
	Clock    int64  `json:"clock"`

	jwt.StandardClaims
}

func (c *CallClaims) Valid() error {
	if c.Identity == "" {
		return errors.New("call token without identity")
	}
	if c.Clock < 0 {
		return fmt.Errorf("call token with negative clock %d", c.Clock)
	}
	return c.StandardClaims.Valid()
}

// GenerateCallToken signs a call token. A zero expiry produces a token that
// never expires.
func GenerateCallToken(secret []byte, identity string, clock int64, expiry time.Duration) (string, error) {
	claims := &CallClaims{
		Identity: identity,
		Clock:    clock,
	}
	if expiry > 0 {
		claims.ExpiresAt = time.Now().Add(expiry).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return t, nil
}

// ParseCallToken verifies the signature and returns the claims.
func ParseCallToken(secret []byte, raw string) (*CallClaims, error) {
	claims := &CallClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid call token")
	}
	return claims, nil
}
