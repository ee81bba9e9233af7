package handler

import (
	"strings"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase/directory"
	"jobboard/internal/usecase/session"
	"jobboard/internal/view"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobsHandler struct {
	sessions *session.Store
}

func NewJobsHandler(sessions *session.Store) *JobsHandler {
	return &JobsHandler{sessions: sessions}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/search", h.Search)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Post("/:id/like", h.Like)
	r.Post("/:id/apply", h.Apply)
	r.Delete("/:id", h.Delete)
}

// List returns the visible cards of the caller's directory. The directory is
// fetched on first use or when refresh=true.
func (h *JobsHandler) List(c fiber.Ctx) error {
	dir, v := h.directory(c)

	var (
		st  directory.State
		err error
	)
	if c.Query("refresh") == "true" {
		st, err = dir.List(c.Context())
	} else {
		st, err = dir.EnsureLoaded(c.Context())
	}
	if err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, listResponse(st, v))
}

func (h *JobsHandler) Search(c fiber.Ctx) error {
	dir, v := h.directory(c)

	st, err := dir.Search(c.Context(), c.Query("tags"), c.Query("location"), c.Query("title"))
	if err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, listResponse(st, v))
}

func (h *JobsHandler) Get(c fiber.Ctx) error {
	id, err := jobIDParam(c)
	if err != nil {
		return err
	}
	dir, v := h.directory(c)

	st, err := dir.EnsureLoaded(c.Context())
	if err != nil {
		return mapDirectoryError(err)
	}
	if _, ok := st.Find(id); !ok {
		// The directory may hold search results; fall back to the full list.
		if st, err = dir.List(c.Context()); err != nil {
			return mapDirectoryError(err)
		}
	}
	d, ok := view.NewDetail(st, id, v)
	if !ok {
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, d)
}

func (h *JobsHandler) Create(c fiber.Ctx) error {
	form := view.DefaultPostForm()
	if err := c.Bind().Body(&form); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	dir, v := h.directory(c)

	st, redirect, err := dir.Create(c.Context(), form.NewListing())
	if err != nil {
		return mapDirectoryError(err)
	}

	out := dto.CreateJobResponse{Redirect: redirect}
	if id, perr := uuid.Parse(strings.TrimPrefix(redirect, "/jobs/")); perr == nil {
		out.Job = findCard(st, id, v)
	}
	return response.Created(c, redirect, directory.NoticeCreated, out)
}

func (h *JobsHandler) Like(c fiber.Ctx) error {
	id, err := jobIDParam(c)
	if err != nil {
		return err
	}
	dir, v := h.directory(c)

	st, err := dir.Like(c.Context(), id)
	if err != nil {
		return mapDirectoryError(err)
	}

	card := findCard(st, id, v)
	notice := directory.NoticeUnliked
	if card != nil && card.IsLiked {
		notice = directory.NoticeLiked
	}
	return response.Success(c, fiber.StatusOK, notice, dto.JobActionResponse{Job: card, Notice: notice})
}

func (h *JobsHandler) Apply(c fiber.Ctx) error {
	id, err := jobIDParam(c)
	if err != nil {
		return err
	}
	dir, v := h.directory(c)

	st, err := dir.ApplyTo(c.Context(), id)
	if err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, directory.NoticeApplied, dto.JobActionResponse{
		Job:    findCard(st, id, v),
		Notice: directory.NoticeApplied,
	})
}

func (h *JobsHandler) Delete(c fiber.Ctx) error {
	id, err := jobIDParam(c)
	if err != nil {
		return err
	}
	dir, _ := h.directory(c)

	if _, err := dir.Remove(c.Context(), id); err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, directory.NoticeDeleted, dto.JobActionResponse{Notice: directory.NoticeDeleted})
}

func (h *JobsHandler) directory(c fiber.Ctx) (*directory.Store, view.Viewer) {
	return directoryFor(h.sessions, c)
}

func directoryFor(sessions *session.Store, c fiber.Ctx) (*directory.Store, view.Viewer) {
	sess := middleware.SessionFrom(c)
	id, ok := sess.ViewerID()
	return sessions.Directory(sess), view.Viewer{ID: id, SignedIn: ok}
}

func jobIDParam(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}
	return id, nil
}

func findCard(st directory.State, id uuid.UUID, v view.Viewer) *view.Card {
	l, ok := st.Find(id)
	if !ok {
		return nil
	}
	card := view.NewCard(l, v)
	return &card
}

func listResponse(st directory.State, v view.Viewer) dto.JobListResponse {
	cards := view.NewCards(view.Visible(st), v)
	return dto.JobListResponse{Jobs: cards, Total: len(st.Jobs)}
}
