package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/sslsetup/core/progress"
	"github.com/dmitrymomot/sslsetup/core/provision"
)

type indexData struct {
	PublicIP      string
	DomainOptions []string
	Domain        string
	Email         string
	Error         string
	Runs          []runSummary
}

type runSummary struct {
	ID     string
	Domain string
	State  string
}

type runData struct {
	Snapshot progress.Snapshot
	Email    string
	Refresh  int
}

func (h *Handler) index(r *http.Request) Response {
	return Page(h.tmpl, "index.html", h.indexData(r, provision.Request{}, ""), http.StatusOK)
}

func (h *Handler) submit(r *http.Request) Response {
	if err := r.ParseForm(); err != nil {
		return Error(httpError(http.StatusBadRequest, err))
	}
	req := provision.Request{
		Domain: r.PostFormValue("domain"),
		Email:  r.PostFormValue("email"),
	}

	run, err := h.runs.Start(r.Context(), req)
	switch {
	case err == nil:
		return Redirect("/runs/" + run.ID.String())
	case errors.Is(err, provision.ErrInvalidRequest):
		return Page(h.tmpl, "index.html", h.indexData(r, req, err.Error()), http.StatusBadRequest)
	case errors.Is(err, provision.ErrShuttingDown):
		return Error(httpError(http.StatusServiceUnavailable, err))
	default:
		return Error(err)
	}
}

func (h *Handler) runPage(r *http.Request) Response {
	run, err := h.lookup(r)
	if err != nil {
		return Error(err)
	}

	data := runData{Snapshot: run.Snapshot(), Email: run.Request.Email}
	if !data.Snapshot.Terminal() {
		data.Refresh = int(h.refresh / time.Second)
		if data.Refresh < 1 {
			data.Refresh = 1
		}
	}
	return Page(h.tmpl, "run.html", data, http.StatusOK)
}

func (h *Handler) indexData(r *http.Request, req provision.Request, msg string) indexData {
	data := indexData{Domain: req.Domain, Email: req.Email, Error: msg}
	if h.suggester != nil {
		data.PublicIP, data.DomainOptions = h.suggester.SuggestDomains(r.Context())
	}

	runs := h.runs.List()
	for i := len(runs) - 1; i >= 0; i-- {
		snap := runs[i].Snapshot()
		data.Runs = append(data.Runs, runSummary{
			ID:     runs[i].ID.String(),
			Domain: snap.Domain,
			State:  runState(snap),
		})
	}
	return data
}

func runState(snap progress.Snapshot) string {
	switch {
	case snap.Result.Complete:
		return "complete"
	case snap.Result.Error != "":
		return "failed"
	default:
		return "running"
	}
}
