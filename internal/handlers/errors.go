// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/guanl20/Blocktrust/internal/i18n"
	"github.com/guanl20/Blocktrust/internal/services"
	"github.com/guanl20/Blocktrust/internal/utils"
)

// respondError maps the service error taxonomy onto HTTP. resource names
// the i18n prefix used for not-found messages.
func respondError(c *gin.Context, err error, resource string) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", i18n.T(lang, i18n.KeyAccessDenied), err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", notFoundMessage(lang, resource), err.Error())
	case errors.Is(err, services.ErrHalted):
		utils.HaltedResponse(c)
	case errors.Is(err, services.ErrValidation):
		if details := utils.GetValidationErrors(err); len(details) > 0 {
			utils.ValidationErrorResponse(c, details)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": utils.GetRequestIDFromContext(c),
			"path":       c.Request.URL.Path,
		}).Error("Unhandled service error")
		utils.InternalErrorResponse(c, "")
	}
}

func notFoundMessage(lang, resource string) string {
	key := resource + ".not_found"
	if message := i18n.T(lang, key); message != key {
		return message
	}
	return i18n.T(lang, i18n.KeyNotFound)
}

// callerAccount returns the authenticated account or writes a 401.
func callerAccount(c *gin.Context) (string, bool) {
	account, ok := utils.GetAccountFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return "", false
	}
	return account, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}
