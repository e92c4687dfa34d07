package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/franciscosanchezn/gin-canteen-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError maps service errors onto the API error envelope. Unclassified
// errors are logged and reported as 500 without their message.
func respondError(ctx *gin.Context, err error) {
	status, code := http.StatusInternalServerError, models.ErrInternalServer
	switch {
	case errors.Is(err, services.ErrNotFound):
		status, code = http.StatusNotFound, models.ErrNotFound
	case errors.Is(err, services.ErrUnavailable):
		status, code = http.StatusConflict, models.ErrMealUnavailable
	case errors.Is(err, services.ErrRejected):
		status, code = http.StatusUnprocessableEntity, models.ErrDeliveryRejected
	case errors.Is(err, services.ErrForbidden):
		status, code = http.StatusForbidden, models.ErrForbidden
	case errors.Is(err, services.ErrBadRequest):
		status, code = http.StatusBadRequest, models.ErrBadRequest
	case errors.Is(err, services.ErrConflict):
		status, code = http.StatusConflict, models.ErrConflict
	case errors.Is(err, services.ErrUnauthorized):
		status, code = http.StatusUnauthorized, models.ErrInvalidCredentials
	}

	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", ctx.FullPath()).Error("Request failed")
		ctx.JSON(status, models.NewAPIError(code, "Internal server error"))
		return
	}
	ctx.JSON(status, models.NewAPIError(code, err.Error()))
}

func badRequest(ctx *gin.Context, message string, err error) {
	apiErr := models.NewAPIError(models.ErrValidationFailed, message)
	if err != nil {
		apiErr.Details = map[string]interface{}{"reason": err.Error()}
	}
	ctx.JSON(http.StatusBadRequest, apiErr)
}

// pathID parses a numeric path parameter, writing a 400 when it is malformed
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid "+name+" format"))
		return 0, false
	}
	return uint(id), true
}
