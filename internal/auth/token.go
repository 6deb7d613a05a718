// Package auth issues and verifies the signed session tokens carried in the
// session cookie.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/roles"
)

// Identity is the resolved caller of a request: who they are and which
// role groups they held when the session was established.
type Identity struct {
	ID       primitive.ObjectID
	Username string
	Roles    roles.Set
}

func IssueToken(id primitive.ObjectID, username string, rs roles.Set, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":      id.Hex(),
		"username": username,
		"roles":    rs.Names(),
		"exp":      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(raw, secret string) (Identity, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid token claims")
	}

	subValue, ok := claims["sub"].(string)
	if !ok || strings.TrimSpace(subValue) == "" {
		return Identity{}, errors.New("sub claim missing")
	}

	id, err := primitive.ObjectIDFromHex(subValue)
	if err != nil {
		return Identity{}, errors.New("invalid sub claim")
	}

	username, _ := claims["username"].(string)

	names := make([]string, 0, 2)
	if rawRoles, ok := claims["roles"].([]interface{}); ok {
		for _, entry := range rawRoles {
			if name, ok := entry.(string); ok {
				names = append(names, name)
			}
		}
	}

	return Identity{
		ID:       id,
		Username: username,
		Roles:    roles.Parse(names),
	}, nil
}
