package database

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/koustreak/jobboard/internal/errs"
)

// Dialect controls which bind style compiled statements use and which
// dialect-specific clauses the accessors emit.
type Dialect int

const (
	// DialectPostgres uses $1, $2, … placeholders.
	DialectPostgres Dialect = iota

	// DialectMySQL uses ? placeholders.
	DialectMySQL

	// DialectSQLite uses ? placeholders.
	DialectSQLite
)

func (d Dialect) String() string {
	switch d {
	case DialectPostgres:
		return "postgres"
	case DialectMySQL:
		return "mysql"
	case DialectSQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// SupportsReturning reports whether INSERT … RETURNING is available.
// MySQL reports generated keys through LastInsertId instead.
func (d Dialect) SupportsReturning() bool {
	return d != DialectMySQL
}

// Compile rewrites the :name placeholders in query into the dialect's
// positional bind style and returns the arguments in placeholder order.
// Values are never interpolated into the SQL text.
//
// A placeholder without a matching key in params is an invalid-input error.
// Postgres casts (created_at::date) and colons inside quoted literals or
// identifiers pass through unchanged.
func (d Dialect) Compile(query string, params map[string]any) (string, []any, error) {
	if params == nil {
		params = map[string]any{}
	}
	q, args, err := sqlx.BindNamed(d.bindType(), escapeColons(query), params)
	if err != nil {
		return "", nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to bind named parameters", err)
	}
	return q, args, nil
}

// escapeColons doubles the colons sqlx must not read as placeholders: every
// colon inside a quoted literal or identifier, and both colons of a cast.
func escapeColons(query string) string {
	if !strings.Contains(query, ":") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else if c == ':' {
				b.WriteByte(':')
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ':' && i+1 < len(query) && query[i+1] == ':':
			b.WriteString("::::")
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func (d Dialect) bindType() int {
	if d == DialectPostgres {
		return sqlx.DOLLAR
	}
	return sqlx.QUESTION
}
