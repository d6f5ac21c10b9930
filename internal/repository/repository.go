// Package repository holds one data accessor per job board table. Each
// accessor embeds the generic dao.Accessor and adds the lookups its table
// needs; reference tables also offer a batch upsert keyed by their natural
// key.
package repository

import (
	"time"

	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/errs"
	"github.com/koustreak/jobboard/internal/model"
	"github.com/koustreak/jobboard/internal/table"
	"github.com/spf13/cast"
)

// Repositories bundles every accessor over one store.
type Repositories struct {
	Users        *Users
	Employers    *Employers
	JobPostings  *JobPostings
	Applications *Applications
	Connections  *Connections
	Cities       *Cities
	Industries   *Industries
	Professions  *Professions
}

// New builds every accessor over store.
func New(store database.Store) *Repositories {
	return &Repositories{
		Users:        NewUsers(store),
		Employers:    NewEmployers(store),
		JobPostings:  NewJobPostings(store),
		Applications: NewApplications(store),
		Connections:  NewConnections(store),
		Cities:       NewCities(store),
		Industries:   NewIndustries(store),
		Professions:  NewProfessions(store),
	}
}

// Descriptors returns the table descriptors of every accessor, in
// dependency order.
func Descriptors() []table.Descriptor {
	return []table.Descriptor{
		cityTable,
		industryTable,
		professionTable,
		userTable,
		employerTable,
		jobPostingTable,
		applicationTable,
		connectionTable,
	}
}

// now is the clock used to stamp rows. Postgres keeps microseconds.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// stampCreated fills *t on first write and returns it.
func stampCreated(t *time.Time) time.Time {
	if t.IsZero() {
		*t = now()
	}
	return *t
}

// stampUpdated sets *t to the current time and returns it.
func stampUpdated(t *time.Time) time.Time {
	*t = now()
	return *t
}

var (
	postingStatuses     = []string{model.PostingDraft, model.PostingOpen, model.PostingClosed}
	applicationStatuses = []string{model.ApplicationSubmitted, model.ApplicationReviewed,
		model.ApplicationRejected, model.ApplicationAccepted, model.ApplicationWithdrawn}
	connectionStatuses = []string{model.ConnectionPending, model.ConnectionAccepted, model.ConnectionDeclined}
)

// checkWrittenStatus is checkStatus for entity writes, where an empty status
// takes the column default.
func checkWrittenStatus(status string, allowed []string) error {
	if status == "" {
		return nil
	}
	return checkStatus(status, allowed...)
}

func checkStatus(status string, allowed ...string) error {
	for _, s := range allowed {
		if status == s {
			return nil
		}
	}
	return errs.Newf(errs.ErrKindInvalidInput, "unknown status %q", status)
}

// --- driver value coercion for setter-driven mappers ---
//
// Drivers hand back int64, float64, string, []byte or time.Time depending on
// the backend and protocol, so setters go through these helpers.

func asInt64(v any) int64 {
	if b, ok := v.([]byte); ok {
		return cast.ToInt64(string(b))
	}
	return cast.ToInt64(v)
}

func asOptInt64(v any) *int64 {
	if v == nil {
		return nil
	}
	n := asInt64(v)
	return &n
}

func asString(v any) string {
	return cast.ToString(v)
}

func asOptString(v any) *string {
	if v == nil {
		return nil
	}
	s := cast.ToString(v)
	return &s
}

func asTime(v any) time.Time {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	return cast.ToTime(v).UTC()
}
