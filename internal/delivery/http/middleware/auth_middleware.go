package middleware

import (
	"errors"
	"strings"

	"jobboard/internal/domain/profile"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/usecase/session"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxRequestIDKey = "request_id"
	CtxClaimsKey    = "claims"
	CtxSessionKey   = "session"
)

// AuthMiddleware attaches the caller's session when a bearer token is sent.
// Requests without a token continue as visitors; a bad token is rejected.
type AuthMiddleware struct {
	jwt      jwt.Service
	sessions *session.Store
}

func NewAuthMiddleware(jwtSvc jwt.Service, sessions *session.Store) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, sessions: sessions}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get("Authorization"))
		if raw == "" {
			return c.Next()
		}
		token, ok := bearerTokenFromHeader(raw)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}
		if claims.TokenType != jwt.TokenTypeSession {
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, nil)
		}

		sess, err := m.sessions.Resolve(c.Context(), claims)
		if err != nil {
			switch {
			case errors.Is(err, session.ErrSessionRevoked):
				return NewAppError(fiber.StatusUnauthorized, "Session revoked", nil, err)
			case errors.Is(err, jwt.ErrTokenInvalid), errors.Is(err, profile.ErrNotFound):
				return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
			default:
				return NewAppError(fiber.StatusInternalServerError, "", nil, err)
			}
		}

		c.Locals(CtxClaimsKey, claims)
		c.Locals(CtxSessionKey, sess)
		return c.Next()
	}
}

// SessionFrom returns the session attached by AuthMiddleware, or nil for a
// visitor.
func SessionFrom(c fiber.Ctx) *session.Session {
	sess, _ := c.Locals(CtxSessionKey).(*session.Session)
	return sess
}

func ClaimsFrom(c fiber.Ctx) (jwt.Claims, bool) {
	claims, ok := c.Locals(CtxClaimsKey).(jwt.Claims)
	return claims, ok
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
