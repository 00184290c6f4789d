package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/sslsetup/core/progress"
	"github.com/dmitrymomot/sslsetup/core/provision"
)

const maxBodyBytes = 1 << 16

type createRunResponse struct {
	ID        string `json:"id"`
	StatusURL string `json:"status_url"`
	StreamURL string `json:"stream_url"`
}

func (h *Handler) createRun(r *http.Request) Response {
	var req provision.Request
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return Error(httpError(http.StatusBadRequest, err))
	}

	run, err := h.runs.Start(r.Context(), req)
	switch {
	case errors.Is(err, provision.ErrInvalidRequest):
		return Error(httpError(http.StatusBadRequest, err))
	case errors.Is(err, provision.ErrShuttingDown):
		return Error(httpError(http.StatusServiceUnavailable, err))
	case err != nil:
		return Error(err)
	}

	statusURL := "/api/runs/" + run.ID.String()
	resp := JSON(createRunResponse{
		ID:        run.ID.String(),
		StatusURL: statusURL,
		StreamURL: statusURL + "/ws",
	}, http.StatusAccepted)

	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Location", statusURL)
		return resp(w, r)
	}
}

func (h *Handler) getRun(r *http.Request) Response {
	run, err := h.lookup(r)
	if err != nil {
		return Error(err)
	}
	return JSON(run.Snapshot(), http.StatusOK)
}

func (h *Handler) listRuns(r *http.Request) Response {
	runs := h.runs.List()
	out := make([]progress.Snapshot, 0, len(runs))
	for _, run := range runs {
		out = append(out, run.Snapshot())
	}
	return JSON(out, http.StatusOK)
}
