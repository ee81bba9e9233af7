package ws

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"jobboard/internal/pkg/jwt"
	"jobboard/internal/usecase/session"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var errMissingToken = errors.New("missing token")

// Authenticator maps a session token to the session it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

type AuthenticatorFunc func(ctx context.Context, token string) (uuid.UUID, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	return f(ctx, token)
}

type SessionAuthenticator struct {
	Tokens   jwt.Service
	Sessions *session.Store
}

func (a SessionAuthenticator) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := a.Tokens.ValidateToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.TokenType != jwt.TokenTypeSession {
		return uuid.Nil, jwt.ErrTokenInvalid
	}
	sess, err := a.Sessions.Resolve(ctx, claims)
	if err != nil {
		return uuid.Nil, err
	}
	return sess.ID(), nil
}

// Handler upgrades authenticated requests. It is served by a plain net/http
// listener since the upgrade needs to hijack the connection.
type Handler struct {
	hub    *Hub
	auth   Authenticator
	logger logrus.FieldLogger
}

func NewHandler(hub *Hub, auth Authenticator, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = hub.logger
	}
	return &Handler{hub: hub, auth: auth, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.hub == nil || h.auth == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	token, err := tokenFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	sid, err := h.auth.Authenticate(r.Context(), token)
	if err != nil {
		h.logger.WithError(err).Debug("ws authentication failed")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("ws upgrade error")
		return
	}

	client := NewClient(h.hub, conn, sid)
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}

func tokenFromRequest(r *http.Request) (string, error) {
	if t := strings.TrimSpace(r.URL.Query().Get("token")); t != "" {
		return t, nil
	}
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		if t := strings.TrimSpace(parts[1]); t != "" {
			return t, nil
		}
	}
	return "", errMissingToken
}
