package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/koustreak/jobboard/internal/errs"
	"github.com/koustreak/jobboard/internal/logger"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
	maxBodyBytes = 1 << 20
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error kind to the HTTP status it is reported with.
func statusFor(kind errs.ErrKind) int {
	switch kind {
	case errs.ErrKindInvalidInput:
		return http.StatusBadRequest
	case errs.ErrKindNotFound:
		return http.StatusNotFound
	case errs.ErrKindIntegrity:
		return http.StatusConflict
	case errs.ErrKindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports err with the status of its kind. Server-side failures
// are logged and their details kept out of the response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errs.KindOf(err)
	status := statusFor(kind)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).ErrorWith("request failed", err, map[string]interface{}{
			"kind": kind.String(),
		})
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{Error: msg, Kind: kind.String()})
}

func notFound(w http.ResponseWriter, r *http.Request, what string) {
	writeError(w, r, errs.Newf(errs.ErrKindNotFound, "%s not found", what))
}

// decodeBody reads a JSON body into dst. Unknown fields are rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.New(errs.ErrKindInvalidInput, "request body is empty")
		}
		return errs.Wrap(errs.ErrKindInvalidInput, "invalid request body", err)
	}
	return nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	return parseID("id", chi.URLParam(r, "id"))
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Newf(errs.ErrKindInvalidInput, "%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

// page reads limit and offset from the query string.
func page(r *http.Request) (limit, offset int, err error) {
	q := r.URL.Query()
	limit, offset = defaultLimit, 0

	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			return 0, 0, errs.Newf(errs.ErrKindInvalidInput, "limit must be between 1 and %d, got %q", maxLimit, raw)
		}
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, errs.Newf(errs.ErrKindInvalidInput, "offset must be a non-negative integer, got %q", raw)
		}
	}
	return limit, offset, nil
}
