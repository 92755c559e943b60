package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager-api/internal/application"
	"github.com/oksasatya/go-task-manager-api/pkg/response"
)

// respondError maps service-layer errors onto the taxonomy:
// 400 validation / disallowed field, 401 bad credentials, 404 missing or
// foreign resource, 500 anything unexpected (with no internal detail).
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "unexpected error"

	switch {
	case errors.Is(err, application.ErrDisallowedField),
		errors.Is(err, application.ErrValidation),
		errors.Is(err, application.ErrEmailTaken),
		errors.Is(err, application.ErrAvatarTooLarge),
		errors.Is(err, application.ErrAvatarBadType):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrInvalidToken):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, application.ErrUserNotFound),
		errors.Is(err, application.ErrTaskNotFound),
		errors.Is(err, application.ErrAvatarNotFound):
		status, message = http.StatusNotFound, err.Error()
	}

	resp := response.Error[any](c, status, message, nil)
	c.JSON(resp.Status, resp)
}

func respondBadRequest(c *gin.Context, message string, details map[string]string) {
	var errDetail any
	if len(details) > 0 {
		errDetail = response.Details(details)
	}
	resp := response.Error[any](c, http.StatusBadRequest, message, errDetail)
	c.JSON(resp.Status, resp)
}

func respondOK[T any](c *gin.Context, status int, data T, message string) {
	resp := response.Success(c, status, data, message, nil)
	c.JSON(resp.Status, resp)
}
