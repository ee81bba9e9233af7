package handler

import (
	"errors"

	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase/directory"

	"github.com/gofiber/fiber/v3"
)

func mapAuthError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, user.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, user.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, user.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// mapDirectoryError keeps the store's notice text as the response message.
func mapDirectoryError(err error) error {
	if err == nil {
		return nil
	}
	msg := directory.NoticeOf(err)

	switch {
	case errors.Is(err, directory.ErrAuthRequired):
		return middleware.NewAppError(fiber.StatusUnauthorized, orDefault(msg, "Unauthorized"), nil, err)
	case errors.Is(err, directory.ErrAlreadyApplied):
		return middleware.NewAppError(fiber.StatusConflict, msg, nil, err)
	case errors.Is(err, directory.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, directory.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, orDefault(msg, "Bad request"), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
