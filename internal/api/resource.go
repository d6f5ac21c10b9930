package api

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/koustreak/jobboard/internal/dao"
	"github.com/koustreak/jobboard/internal/errs"
)

// filter narrows a list by one query-string value.
type filter[E any] func(ctx context.Context, value string) ([]E, error)

// counter narrows a count by one query-string value.
type counter func(ctx context.Context, value string) (int64, error)

// resource exposes the standard operations of one accessor over HTTP.
type resource[E any] struct {
	name string
	repo dao.Repository[E, int64]

	// A request carrying one of these query keys is served by its lookup
	// instead of by paging. More than one is an invalid request.
	filters  map[string]filter[E]
	counters map[string]counter

	// batch, when set, serves POST /batch as a bulk upsert.
	batch func(ctx context.Context, rows []E) (int64, error)
}

// routes registers the resource on r. Extra routes can be added to the
// returned router.
func (res *resource[E]) routes(r chi.Router) {
	r.Get("/", res.list)
	r.Post("/", res.create)
	r.Get("/count", res.count)
	if res.batch != nil {
		r.Post("/batch", res.upsert)
	}
	r.Get("/{id}", res.get)
	r.Put("/{id}", res.update)
	r.Delete("/{id}", res.delete)
}

func (res *resource[E]) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key, err := lookupKey(q, res.filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if key != "" {
		rows, err := res.filters[key](r.Context(), q.Get(key))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rows)
		return
	}

	limit, offset, err := page(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rows, err := res.repo.FindPage(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type countBody struct {
	Count int64 `json:"count"`
}

func (res *resource[E]) count(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key, err := lookupKey(q, res.counters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if key != "" {
		n, err := res.counters[key](r.Context(), q.Get(key))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, countBody{Count: n})
		return
	}

	n, err := res.repo.Count(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countBody{Count: n})
}

func (res *resource[E]) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res.respondWith(w, r, http.StatusOK, id)
}

func (res *resource[E]) create(w http.ResponseWriter, r *http.Request) {
	var e E
	if err := decodeBody(w, r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := res.repo.Insert(r.Context(), &e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res.respondWith(w, r, http.StatusCreated, id)
}

func (res *resource[E]) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var e E
	if err := decodeBody(w, r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := res.repo.Update(r.Context(), id, &e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		notFound(w, r, res.name)
		return
	}
	res.respondWith(w, r, http.StatusOK, id)
}

func (res *resource[E]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := res.repo.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		notFound(w, r, res.name)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type batchBody struct {
	Rows int64 `json:"rows"`
}

func (res *resource[E]) upsert(w http.ResponseWriter, r *http.Request) {
	var rows []E
	if err := decodeBody(w, r, &rows); err != nil {
		writeError(w, r, err)
		return
	}
	n, err := res.batch(r.Context(), rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batchBody{Rows: n})
}

// respondWith reads the row back so the response carries what was stored,
// generated columns included.
func (res *resource[E]) respondWith(w http.ResponseWriter, r *http.Request, status int, id int64) {
	e, ok, err := res.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		notFound(w, r, res.name)
		return
	}
	writeJSON(w, status, e)
}

// lookupKey returns the one key of lookups present in q, or "" when none is.
func lookupKey[F any](q url.Values, lookups map[string]F) (string, error) {
	var found []string
	for key := range lookups {
		if q.Has(key) {
			found = append(found, key)
		}
	}
	switch len(found) {
	case 0:
		return "", nil
	case 1:
		return found[0], nil
	default:
		sort.Strings(found)
		return "", errs.Newf(errs.ErrKindInvalidInput, "query parameters %s cannot be combined",
			strings.Join(found, ", "))
	}
}

// byID adapts an id-keyed lookup into a filter.
func byID[E any](name string, fn func(ctx context.Context, id int64) ([]E, error)) filter[E] {
	return func(ctx context.Context, value string) ([]E, error) {
		id, err := parseID(name, value)
		if err != nil {
			return nil, err
		}
		return fn(ctx, id)
	}
}

// single adapts a unique lookup into a filter returning zero or one row.
func single[E any](fn func(ctx context.Context, value string) (*E, bool, error)) filter[E] {
	return func(ctx context.Context, value string) ([]E, error) {
		e, ok, err := fn(ctx, value)
		if err != nil || !ok {
			return []E{}, err
		}
		return []E{*e}, nil
	}
}

// children serves GET /{id}/<child> for a lookup keyed by the parent id.
func children[E any](name string, fn func(ctx context.Context, id int64) ([]E, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(name, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		rows, err := fn(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}
