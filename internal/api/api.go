// Package api serves the job board's accessors over HTTP with chi.
//
// Every table is mounted as a resource with the same shape:
//
//	GET    /{res}?limit&offset   page of rows ordered by id
//	GET    /{res}/count          row count
//	GET    /{res}/{id}           one row
//	POST   /{res}                insert, responds with the stored row
//	PUT    /{res}/{id}           update, responds with the stored row
//	DELETE /{res}/{id}           delete
//
// Resources add lookups as query filters (GET /job-postings?status=open)
// and nested lists (GET /users/{id}/applications). Reference tables also
// accept POST /{res}/batch as a bulk upsert on their natural key.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/errs"
	"github.com/koustreak/jobboard/internal/importer"
	"github.com/koustreak/jobboard/internal/logger"
	"github.com/koustreak/jobboard/internal/model"
	"github.com/koustreak/jobboard/internal/repository"
)

// Deps are the collaborators the router serves.
type Deps struct {
	Store  database.Store
	Repos  *repository.Repositories
	Logger *logger.Logger

	// Imports is optional; without it the /imports routes answer 503.
	Imports *importer.Runner

	// Now is the clock for POST /job-postings/close-expired. Defaults to
	// time.Now.
	Now func() time.Time
}

// NewRouter builds the HTTP handler for deps.
func NewRouter(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = logger.Global()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	repos := deps.Repos

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", health(deps.Store))

	r.Route("/users", func(r chi.Router) {
		(&resource[model.User]{
			name: "user",
			repo: repos.Users,
			filters: map[string]filter[model.User]{
				"email":   single(repos.Users.FindByEmail),
				"city_id": byID("city_id", repos.Users.FindByCity),
			},
		}).routes(r)
		r.Get("/{id}/applications", children("id", repos.Applications.FindByApplicant))
		r.Get("/{id}/connections", children("id", repos.Connections.FindForUser))
		r.Get("/{id}/connections/pending", children("id", repos.Connections.FindPendingFor))
	})

	r.Route("/employers", func(r chi.Router) {
		(&resource[model.Employer]{
			name: "employer",
			repo: repos.Employers,
			filters: map[string]filter[model.Employer]{
				"owner_id":    byID("owner_id", repos.Employers.FindByOwner),
				"industry_id": byID("industry_id", repos.Employers.FindByIndustry),
				"q":           repos.Employers.SearchByName,
			},
		}).routes(r)
		r.Get("/{id}/job-postings", children("id", repos.JobPostings.FindByEmployer))
	})

	r.Route("/job-postings", func(r chi.Router) {
		r.Post("/close-expired", closeExpired(repos.JobPostings, deps.Now))
		(&resource[model.JobPosting]{
			name: "job posting",
			repo: repos.JobPostings,
			filters: map[string]filter[model.JobPosting]{
				"status":      repos.JobPostings.FindByStatus,
				"employer_id": byID("employer_id", repos.JobPostings.FindByEmployer),
				"open_in":     byID("open_in", repos.JobPostings.FindOpenByCity),
			},
			counters: map[string]counter{
				"status": repos.JobPostings.CountByStatus,
			},
		}).routes(r)
		r.Get("/{id}/applications", children("id", repos.Applications.FindByJobPosting))
	})

	r.Route("/applications", func(r chi.Router) {
		(&resource[model.Application]{
			name: "application",
			repo: repos.Applications,
			filters: map[string]filter[model.Application]{
				"job_posting_id": byID("job_posting_id", repos.Applications.FindByJobPosting),
				"applicant_id":   byID("applicant_id", repos.Applications.FindByApplicant),
			},
		}).routes(r)
		r.Put("/{id}/status", setStatus("application", repos.Applications.UpdateStatus, repos.Applications.FindByID))
	})

	r.Route("/connections", func(r chi.Router) {
		(&resource[model.Connection]{
			name: "connection",
			repo: repos.Connections,
			filters: map[string]filter[model.Connection]{
				"user_id": byID("user_id", repos.Connections.FindForUser),
			},
		}).routes(r)
		r.Put("/{id}/status", setStatus("connection", repos.Connections.UpdateStatus, repos.Connections.FindByID))
	})

	r.Route("/cities", func(r chi.Router) {
		(&resource[model.City]{
			name: "city",
			repo: repos.Cities,
			filters: map[string]filter[model.City]{
				"external_id": single(repos.Cities.FindByExternalID),
			},
			batch: repos.Cities.BatchUpsert,
		}).routes(r)
	})

	r.Route("/industries", func(r chi.Router) {
		(&resource[model.Industry]{
			name: "industry",
			repo: repos.Industries,
			filters: map[string]filter[model.Industry]{
				"name": single(repos.Industries.FindByName),
			},
			batch: repos.Industries.BatchUpsert,
		}).routes(r)
	})

	r.Route("/professions", func(r chi.Router) {
		(&resource[model.Profession]{
			name: "profession",
			repo: repos.Professions,
			filters: map[string]filter[model.Profession]{
				"code":        single(repos.Professions.FindByCode),
				"industry_id": byID("industry_id", repos.Professions.FindByIndustry),
			},
			batch: repos.Professions.BatchUpsert,
		}).routes(r)
	})

	r.Route("/imports", func(r chi.Router) {
		r.Get("/", feedStatus(deps.Imports))
		r.Get("/objects", listObjects(deps.Imports))
		r.Post("/{feed}", startImport(deps.Imports))
		r.Get("/runs/{runID}", getImport(deps.Imports))
	})

	return r
}

func health(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.FromContext(r.Context()).ErrorWith("health check failed", err, nil)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type statusBody struct {
	Status string `json:"status"`
}

// setStatus serves PUT /{id}/status for accessors with a status lifecycle.
func setStatus[E any](
	name string,
	update func(ctx context.Context, id int64, status string) (bool, error),
	find func(ctx context.Context, id int64) (*E, bool, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var body statusBody
		if err := decodeBody(w, r, &body); err != nil {
			writeError(w, r, err)
			return
		}
		ok, err := update(r.Context(), id, body.Status)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !ok {
			notFound(w, r, name)
			return
		}
		e, ok, err := find(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !ok {
			notFound(w, r, name)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

type closedBody struct {
	Closed int64 `json:"closed"`
}

func closeExpired(postings *repository.JobPostings, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := postings.CloseExpired(r.Context(), now())
		if err != nil {
			writeError(w, r, err)
			return
		}
		logger.FromContext(r.Context()).InfoWith("expired postings closed", map[string]interface{}{"closed": n})
		writeJSON(w, http.StatusOK, closedBody{Closed: n})
	}
}

// --- imports ---

func importsDisabled(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, errorBody{
		Error: "imports are not configured",
		Kind:  errs.ErrKindConfig.String(),
	})
}

func feedStatus(runner *importer.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if runner == nil {
			importsDisabled(w)
			return
		}
		feeds, err := runner.Importer().Status(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, feeds)
	}
}

func listObjects(runner *importer.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if runner == nil {
			importsDisabled(w)
			return
		}
		limit, _, err := page(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		objects, err := runner.Importer().Objects(r.Context(), r.URL.Query().Get("prefix"), limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, objects)
	}
}

func startImport(runner *importer.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if runner == nil {
			importsDisabled(w)
			return
		}
		run, err := runner.Start(r.Context(), chi.URLParam(r, "feed"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Location", "/imports/runs/"+run.ID.String())
		writeJSON(w, http.StatusAccepted, run)
	}
}

func getImport(runner *importer.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if runner == nil {
			importsDisabled(w)
			return
		}
		raw := chi.URLParam(r, "runID")
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, errs.Wrap(errs.ErrKindInvalidInput, "run id must be a UUID", err))
			return
		}
		run, ok := runner.Get(id)
		if !ok {
			notFound(w, r, "import run")
			return
		}
		writeJSON(w, http.StatusOK, run)
	}
}
