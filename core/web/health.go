package web

import (
	"net/http"

	"github.com/dmitrymomot/sslsetup/core/logger"
)

func (h *Handler) live(*http.Request) Response {
	return Text("ALIVE")
}

func (h *Handler) ready(r *http.Request) Response {
	for _, check := range h.checks {
		if err := check(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
			return Error(&HTTPError{Status: http.StatusServiceUnavailable, Message: http.StatusText(http.StatusServiceUnavailable), Err: err})
		}
	}
	return Text("READY")
}
