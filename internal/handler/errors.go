package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/auth-service/internal/metrics"
	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/service"
)

var statusByKind = map[service.Kind]int{
	service.KindAlreadyRegistered:  http.StatusConflict,
	service.KindInvalidCredentials: http.StatusUnauthorized,
	service.KindInvalidUser:        http.StatusForbidden,
	service.KindUnauthorized:       http.StatusUnauthorized,
	service.KindNotFound:           http.StatusNotFound,
	service.KindInvalidInput:       http.StatusBadRequest,
}

// fail turns a service error into a response. When the caller passed
// ?error_callback= the browser is redirected there with the message;
// otherwise a JSON body is written. Unexpected errors are logged and
// reported as "internal error".
func (h *AuthHandler) fail(c echo.Context, event string, err error) error {
	status, msg := http.StatusInternalServerError, "internal error"
	if de, ok := service.AsDomainError(err); ok {
		status, msg = statusByKind[de.Kind], de.Message
		if status == 0 {
			status = http.StatusBadRequest
		}
		h.metrics.Event(event, metrics.OutcomeFailure)
	} else {
		h.metrics.Event(event, metrics.OutcomeError)
		h.log.Error("request failed",
			zap.String("event", event),
			zap.String("request_id", middleware.RequestIDFrom(c.Request().Context())),
			zap.Error(err))
	}

	if cb := c.QueryParam("error_callback"); cb != "" {
		return c.Redirect(http.StatusFound, service.WithQuery(cb, "message", msg))
	}
	return c.JSON(status, echo.Map{"message": msg})
}
