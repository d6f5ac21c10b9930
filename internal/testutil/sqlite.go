// Package testutil provides shared fixtures for the accessor, importer and
// HTTP test suites.
package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/database/sqlite"
	"github.com/stretchr/testify/require"
)

// Schema is the job board schema in SQLite syntax.
const Schema = `
CREATE TABLE cities (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id  TEXT NOT NULL UNIQUE,
	name         TEXT NOT NULL,
	region       TEXT,
	country_code TEXT NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);

CREATE TABLE industries (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE,
	description TEXT,
	updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE professions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	code        TEXT NOT NULL UNIQUE,
	title       TEXT NOT NULL,
	industry_id INTEGER REFERENCES industries (id),
	updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	headline      TEXT,
	city_id       INTEGER REFERENCES cities (id),
	profession_id INTEGER REFERENCES professions (id),
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL
);

CREATE TABLE employers (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id    INTEGER NOT NULL REFERENCES users (id),
	name        TEXT NOT NULL,
	description TEXT,
	website     TEXT,
	industry_id INTEGER REFERENCES industries (id),
	city_id     INTEGER REFERENCES cities (id),
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE job_postings (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	employer_id     INTEGER NOT NULL REFERENCES employers (id),
	title           TEXT NOT NULL,
	description     TEXT NOT NULL,
	city_id         INTEGER REFERENCES cities (id),
	profession_id   INTEGER REFERENCES professions (id),
	employment_type TEXT NOT NULL,
	salary_min      REAL,
	salary_max      REAL,
	status          TEXT NOT NULL,
	expires_at      TIMESTAMP,
	created_at      TIMESTAMP NOT NULL,
	updated_at      TIMESTAMP NOT NULL
);

CREATE TABLE applications (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	job_posting_id INTEGER NOT NULL REFERENCES job_postings (id),
	applicant_id   INTEGER NOT NULL REFERENCES users (id),
	cover_letter   TEXT,
	resume_url     TEXT,
	status         TEXT NOT NULL,
	created_at     TIMESTAMP NOT NULL,
	updated_at     TIMESTAMP NOT NULL,
	UNIQUE (job_posting_id, applicant_id)
);

CREATE TABLE connections (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	requester_id INTEGER NOT NULL REFERENCES users (id),
	addressee_id INTEGER NOT NULL REFERENCES users (id),
	status       TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL,
	UNIQUE (requester_id, addressee_id)
);
`

// NewStore opens a private in-memory SQLite store, runs each DDL script
// against it and closes it when the test ends.
func NewStore(t testing.TB, ddl ...string) database.Store {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(ctx, database.DefaultConfig("file::memory:?_foreign_keys=on"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	for _, script := range ddl {
		for _, stmt := range strings.Split(script, ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			_, err := store.Exec(ctx, stmt)
			require.NoError(t, err, stmt)
		}
	}
	return store
}

// NewJobBoardStore is NewStore with the job board schema applied.
func NewJobBoardStore(t testing.TB) database.Store {
	t.Helper()
	return NewStore(t, Schema)
}
