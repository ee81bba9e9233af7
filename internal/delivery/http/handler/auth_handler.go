package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase/session"
	"jobboard/internal/view"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	sessions *session.Store
}

func NewAuthHandler(sessions *session.Store) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/signup", h.SignUp)
	r.Post("/signin", h.SignIn)
	r.Post("/signout", h.SignOut)
	r.Get("/me", h.Me)
}

func (h *AuthHandler) SignUp(c fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	issued, err := h.sessions.SignUp(c.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return mapAuthError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Account created", sessionResponse(issued))
}

func (h *AuthHandler) SignIn(c fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	issued, err := h.sessions.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return mapAuthError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, sessionResponse(issued))
}

func (h *AuthHandler) SignOut(c fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	if err := h.sessions.SignOut(c.Context(), claims); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, "Signed out", view.NewHeader(false, nil))
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	snap := middleware.SessionFrom(c).Current()
	return response.Success(c, fiber.StatusOK, response.MessageOK, view.NewHeader(snap.SignedIn(), snap.Profile))
}

func sessionResponse(issued session.Issued) dto.SessionResponse {
	snap := issued.Session.Current()
	return dto.SessionResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		Header:    view.NewHeader(snap.SignedIn(), snap.Profile),
	}
}
