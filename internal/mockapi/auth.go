package mockapi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
	"github.com/dmitrijs2005/marketsupervisor/internal/common"
)

// Principal roles.
const (
	RoleCompany = "company"
	RoleAdmin   = "admin"
)

const principalKey = "principal"

// Claims are the JWT claims issued on login. Subject is the principal id.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

var errTokenRevoked = errors.New("token revoked")

// GenerateToken signs an HS256 token for the principal. Every token gets a
// unique id so that revoking one never revokes another.
func GenerateToken(subject, role string, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	})
	return token.SignedString(secret)
}

// ParseToken validates tokenString and returns its claims.
func ParseToken(tokenString string, secret []byte, now func() time.Time) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// bearer extracts the token from the Authorization header. The result is
// copied since fiber reuses header memory after the handler returns.
func bearer(c *fiber.Ctx) string {
	h := strings.Clone(c.Get(common.AuthHeaderName))
	if !strings.HasPrefix(h, common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, common.BearerPrefix))
}

// requireAuth rejects requests without a valid, unrevoked bearer token and
// stores the claims in the request locals.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	raw := bearer(c)
	if raw == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}
	claims, err := ParseToken(raw, s.secret, s.now)
	if err == nil && s.db.isRevoked(raw) {
		err = errTokenRevoked
	}
	if err != nil {
		s.logger.Debug(c.UserContext(), "token rejected", "path", c.Path(), "error", err)
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
	}
	c.Locals(principalKey, claims)
	return c.Next()
}

func principal(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(principalKey).(*Claims)
	return claims
}

// companyScope returns the company a company principal is confined to, or
// an empty id for admins.
func companyScope(c *fiber.Ctx) models.ID {
	p := principal(c)
	if p == nil || p.Role == RoleAdmin {
		return ""
	}
	return models.ID(p.Subject)
}

func (s *Server) issue(c *fiber.Ctx, u models.User) (string, error) {
	token, err := GenerateToken(u.ID.String(), u.Role, s.secret, s.now(), s.tokenTTL)
	if err != nil {
		s.logger.Error(c.UserContext(), "sign token", "error", err)
		return "", fiber.NewError(fiber.StatusInternalServerError, "could not issue token")
	}
	return token, nil
}
