package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase/session"

	"github.com/gofiber/fiber/v3"
)

// DirectoryHandler exposes the search inputs and presentation filters of
// the caller's directory. Visitors get a fresh directory per request, so
// their changes are not kept.
type DirectoryHandler struct {
	sessions *session.Store
}

func NewDirectoryHandler(sessions *session.Store) *DirectoryHandler {
	return &DirectoryHandler{sessions: sessions}
}

func (h *DirectoryHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.Get)
	r.Put("/query", h.SetQuery)
	r.Post("/filters/:name", h.ToggleFilter)
	r.Put("/salary", h.SetSalary)
}

func (h *DirectoryHandler) Get(c fiber.Ctx) error {
	dir, _ := directoryFor(h.sessions, c)
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewDirectoryResponse(dir.Snapshot()))
}

func (h *DirectoryHandler) SetQuery(c fiber.Ctx) error {
	var req dto.SearchQueryRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	dir, _ := directoryFor(h.sessions, c)

	st, err := dir.SetSearchQuery(req.Field, req.Value)
	if err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewDirectoryResponse(st))
}

func (h *DirectoryHandler) ToggleFilter(c fiber.Ctx) error {
	dir, _ := directoryFor(h.sessions, c)

	st, err := dir.ToggleFilter(c.Params("name"))
	if err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewDirectoryResponse(st))
}

func (h *DirectoryHandler) SetSalary(c fiber.Ctx) error {
	var req dto.SalaryRangeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.Min == nil || req.Max == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "min and max are required", nil, nil)
	}
	dir, _ := directoryFor(h.sessions, c)

	st, err := dir.SetSalaryRange(*req.Min, *req.Max)
	if err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewDirectoryResponse(st))
}
