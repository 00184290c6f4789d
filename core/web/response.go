package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
)

// Response renders an HTTP response. A returned error is passed to the
// handler's error mapping; nothing must have been written in that case.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc produces the Response for a request.
type HandlerFunc func(r *http.Request) Response

// HTTPError carries a status code to the error mapping.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func httpError(status int, err error) *HTTPError {
	msg := http.StatusText(status)
	if err != nil && status < http.StatusInternalServerError {
		msg = err.Error()
	}
	return &HTTPError{Status: status, Message: msg, Err: err}
}

// Error propagates err to the error mapping.
func Error(err error) Response {
	return func(http.ResponseWriter, *http.Request) error {
		return err
	}
}

// JSON writes v with the given status.
func JSON(v any, status int) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		return json.NewEncoder(w).Encode(v)
	}
}

// Text writes a plain text body with 200 OK.
func Text(s string) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(s))
		return err
	}
}

// Page renders the named template. Output is buffered so a template error
// does not leave a half-written page.
func Page(tmpl *template.Template, name string, data any, status int) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
			return err
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, err := w.Write(buf.Bytes())
		return err
	}
}

// Redirect answers 303 See Other.
func Redirect(url string) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, http.StatusSeeOther)
		return nil
	}
}

func (h *Handler) wrap(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := fn(r)
		if resp == nil {
			return
		}
		if err := resp(w, r); err != nil {
			h.writeError(w, r, err)
		}
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var herr *HTTPError
	if !errors.As(err, &herr) {
		herr = httpError(http.StatusInternalServerError, err)
	}
	if herr.Status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", logAttrs(r, err)...)
	}

	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(herr.Status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": herr.Message})
		return
	}
	http.Error(w, herr.Message, herr.Status)
}
