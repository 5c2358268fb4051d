package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ubora-rdc/ubora-auth/internal/model"
)

const (
	codeInvalidRequest = "invalid_request"
	msgInvalidRequest  = "Requête invalide."
)

var statusByKind = map[model.AuthErrorKind]int{
	model.KindBadCredentials:        http.StatusUnauthorized,
	model.KindInvalidOtp:            http.StatusUnauthorized,
	model.KindSessionExpired:        http.StatusUnauthorized,
	model.KindUnauthenticated:       http.StatusUnauthorized,
	model.KindAccountLocked:         http.StatusForbidden,
	model.KindNoPhoneOnFile:         http.StatusUnprocessableEntity,
	model.KindTooManyAttempts:       http.StatusTooManyRequests,
	model.KindThrottleActive:        http.StatusTooManyRequests,
	model.KindOtpDispatchFailed:     http.StatusBadGateway,
	model.KindOtpGatewayUnavailable: http.StatusBadGateway,
	model.KindDirectoryUnavailable:  http.StatusServiceUnavailable,
	model.KindLogoutFailed:          http.StatusInternalServerError,
	model.KindInternal:              http.StatusInternalServerError,
}

// handleError writes the client-facing body for err. Errors that are not
// *model.AuthError never leak their text.
func handleError(c *gin.Context, err error) {
	var authErr *model.AuthError
	if !errors.As(err, &authErr) {
		authErr = model.NewAuthError(model.KindInternal)
	}

	status, ok := statusByKind[authErr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	body := gin.H{
		"errors": authErr.Message,
		"code":   authErr.Kind,
	}
	switch authErr.Kind {
	case model.KindInvalidOtp:
		body["remaining_attempts"] = authErr.Remaining
	case model.KindThrottleActive:
		body["retry_after"] = authErr.RetryAfter
		c.Header("Retry-After", strconv.Itoa(authErr.RetryAfter))
	}

	c.AbortWithStatusJSON(status, body)
}

func handleBindError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"errors": msgInvalidRequest,
		"code":   codeInvalidRequest,
	})
}
