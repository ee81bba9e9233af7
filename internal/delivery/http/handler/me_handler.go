package handler

import (
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase/session"
	"jobboard/internal/view"

	"github.com/gofiber/fiber/v3"
)

type MeHandler struct {
	sessions *session.Store
}

func NewMeHandler(sessions *session.Store) *MeHandler {
	return &MeHandler{sessions: sessions}
}

func (h *MeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/jobs", h.MyJobs)
}

// MyJobs renders the posts and likes tabs for the signed-in caller.
func (h *MeHandler) MyJobs(c fiber.Ctx) error {
	dir, v := directoryFor(h.sessions, c)
	if !v.SignedIn {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	if _, err := dir.EnsureLoaded(c.Context()); err != nil {
		return mapDirectoryError(err)
	}
	st, err := dir.ListMine(c.Context(), v.ID)
	if err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, view.NewMyJobs(st, v, c.Query("tab")))
}
