package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// accessClaims builds the claim set every access token carries. The auth
// middleware requires "uid" and "role".
func accessClaims(uid, role string, issuedAt time.Time, ttl time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"uid":  uid,
		"role": role,
		"iat":  issuedAt.Unix(),
		"exp":  issuedAt.Add(ttl).Unix(),
	}
}

// TokenIssuer signs access tokens for employees who log in with a password.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// TTL is the lifetime of issued tokens
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs an HS256 token for employee
func (i *TokenIssuer) Issue(employee models.Employee) (string, error) {
	if employee.ID == 0 {
		return "", fmt.Errorf("cannot issue token for unsaved employee")
	}
	claims := accessClaims(strconv.FormatUint(uint64(employee.ID), 10), employee.Role(), time.Now(), i.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}
