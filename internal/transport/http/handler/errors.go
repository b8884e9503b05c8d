package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"secondhand-market/internal/app"
	"secondhand-market/internal/pkg/logger"
	"secondhand-market/internal/transport/http/response"
)

const unexpectedErrorMessage = "an unexpected error occurred"

// respondError maps a workflow error onto its status and envelope code.
func respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrDuplicateUser):
		response.Error(c, http.StatusInternalServerError, response.CodeUsernameExists, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, app.ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, err.Error())
	case errors.Is(err, app.ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Unauthorized action: "+err.Error())
	case errors.Is(err, app.ErrGarmentNotFound):
		response.Error(c, http.StatusNotFound, response.CodeGarmentNotFound, err.Error())
	default:
		_ = c.Error(err)
		logger.FromContext(c.Request.Context()).Error(action+" failed", logger.Err(err))
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, unexpectedErrorMessage)
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
