package dao

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/errs"
	"github.com/koustreak/jobboard/internal/table"
	"github.com/koustreak/jobboard/internal/testutil"
	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type department struct {
	ID        int64
	Code      string
	Name      string
	Budget    *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

const departmentDDL = `
CREATE TABLE departments (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	code       TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	budget     REAL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

var created = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func departmentTable() *table.Table[department] {
	return table.MustNew("departments", "id",
		table.Col[department]("code", table.Text).NotNull().InsertOnly().
			Get(func(d *department) any { return d.Code }),
		table.Col[department]("name", table.Text).NotNull().
			Get(func(d *department) any { return d.Name }),
		table.Col[department]("budget", table.Decimal).
			Get(func(d *department) any { return d.Budget }),
		table.Col[department]("created_at", table.Timestamp).NotNull().InsertOnly().
			Get(func(d *department) any { return d.CreatedAt }),
		table.Col[department]("updated_at", table.Timestamp).NotNull().
			Get(func(d *department) any { return d.UpdatedAt }),
	)
}

func scanDepartment(row database.Row) (*department, error) {
	var d department
	if err := row.Scan(&d.ID, &d.Code, &d.Name, &d.Budget, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func newDepartments(t *testing.T) *Accessor[department, int64] {
	t.Helper()
	store := testutil.NewStore(t, departmentDDL)
	return New[department, int64](store, departmentTable(), scanDepartment)
}

func dept(code, name string) *department {
	return &department{Code: code, Name: name, CreatedAt: created, UpdatedAt: created}
}

func ptr[T any](v T) *T { return &v }

func TestAccessor_InsertAndFindByID(t *testing.T) {
	ctx := context.Background()
	a := newDepartments(t)

	d := dept("ENG", "Engineering")
	d.Budget = ptr(1250.5)
	id, err := a.Insert(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got, ok, err := a.FindByID(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	d.ID = id
	if diff := cmp.Diff(d, got); diff != "" {
		t.Errorf("FindByID mismatch (-want +got):\n%s", diff)
	}

	exists, err := a.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAccessor_FindByIDMissing(t *testing.T) {
	a := newDepartments(t)

	got, ok, err := a.FindByID(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestAccessor_UpdateRoundTripsUpdatableColumns(t *testing.T) {
	ctx := context.Background()
	a := newDepartments(t)

	id, err := a.Insert(ctx, dept("OPS", "Operations"))
	require.NoError(t, err)

	later := created.Add(48 * time.Hour)
	changed := &department{
		Code:      "IGNORED",
		Name:      "Platform Operations",
		Budget:    ptr(99.0),
		CreatedAt: later,
		UpdatedAt: later,
	}
	ok, err := a.Update(ctx, id, changed)
	require.NoError(t, err)
	assert.True(t, ok)

	got, found, err := a.FindByID(ctx, id)
	require.NoError(t, err)
	require.True(t, found)

	want := &department{
		ID:        id,
		Code:      "OPS",
		Name:      "Platform Operations",
		Budget:    ptr(99.0),
		CreatedAt: created,
		UpdatedAt: later,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Update round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestAccessor_UpdateMissingRow(t *testing.T) {
	a := newDepartments(t)

	ok, err := a.Update(context.Background(), 7, dept("X", "Nobody"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccessor_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	a := newDepartments(t)

	id, err := a.Insert(ctx, dept("FIN", "Finance"))
	require.NoError(t, err)

	ok, err := a.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	exists, err := a.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)

	ok, err = a.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccessor_DeleteAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	a := newDepartments(t)

	for _, code := range []string{"A", "B", "C"} {
		_, err := a.Insert(ctx, dept(code, "Dept "+code))
		require.NoError(t, err)
	}

	n, err := a.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = a.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := a.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAccessor_FindAllAndPages(t *testing.T) {
	ctx := context.Background()
	a := newDepartments(t)

	for _, code := range []string{"D1", "D2", "D3", "D4", "D5"} {
		_, err := a.Insert(ctx, dept(code, "Dept "+code))
		require.NoError(t, err)
	}

	all, err := a.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(all))

	first, err := a.FindPage(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(first))

	last, err := a.FindPage(ctx, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, ids(last))

	beyond, err := a.FindPage(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.NotNil(t, beyond)

	count, err := a.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func ids(ds []department) []int64 {
	out := make([]int64, len(ds))
	for i, d := range ds {
		out[i] = d.ID
	}
	return out
}

func TestAccessor_CustomQueries(t *testing.T) {
	ctx := context.Background()
	a := newDepartments(t)

	for _, d := range []*department{dept("HR", "People"), dept("LEG", "Legal"), dept("PR", "People Ops")} {
		_, err := a.Insert(ctx, d)
		require.NoError(t, err)
	}

	people, err := a.FindWhere(ctx, "name LIKE :prefix", "prefix", "People%")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(people))

	legal, ok, err := a.FindOneWhere(ctx, "code = :code", "code", "LEG")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Legal", legal.Name)

	n, err := a.CountWhere(ctx, "name LIKE :prefix", "prefix", "People%")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	affected, err := a.Exec(ctx, "UPDATE departments SET name = :name WHERE code = :code", "name", "Counsel", "code", "LEG")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, ok, err = a.QueryOne(ctx, "SELECT id, code, name, budget, created_at, updated_at FROM departments WHERE name = :name", "name", "Legal")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccessor_CustomQueryWithColonLiteral(t *testing.T) {
	ctx := context.Background()
	a := newDepartments(t)

	for _, d := range []*department{dept("NS", "Ops: Night Shift"), dept("HR", "People"), dept("FIN", "Finance")} {
		_, err := a.Insert(ctx, d)
		require.NoError(t, err)
	}

	got, err := a.FindWhere(ctx, "name = 'Ops: Night Shift' OR code = :code", "code", "HR")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(got))
}

func TestAccessor_CustomQueryParameterErrors(t *testing.T) {
	ctx := context.Background()
	a := newDepartments(t)

	_, err := a.Query(ctx, "SELECT id FROM departments WHERE code = :code", "code")
	assert.True(t, errs.IsInvalidInput(err))

	_, err = a.Exec(ctx, "DELETE FROM departments WHERE code = :code", 1, "HR")
	assert.True(t, errs.IsInvalidInput(err))

	_, err = a.QueryInt64(ctx, "SELECT COUNT(*) FROM departments WHERE code = :code", "other", "HR")
	assert.True(t, errs.IsInvalidInput(err))
}

func TestAccessor_InsertIntegrityViolation(t *testing.T) {
	ctx := context.Background()
	a := newDepartments(t)

	_, err := a.Insert(ctx, dept("DUP", "First"))
	require.NoError(t, err)

	_, err = a.Insert(ctx, dept("DUP", "Second"))
	require.Error(t, err)
	assert.True(t, errs.IsIntegrity(err))
}

func TestAccessor_SetterDrivenMapper(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t, departmentDDL)

	described := table.MustNew("departments", "id",
		table.Col[department]("id", table.Int64).ReadOnly().
			Set(func(d *department, v any) { d.ID = cast.ToInt64(v) }),
		table.Col[department]("code", table.Text).InsertOnly().
			Get(func(d *department) any { return d.Code }).
			Set(func(d *department, v any) { d.Code = cast.ToString(v) }),
		table.Col[department]("name", table.Text).
			Get(func(d *department) any { return d.Name }).
			Set(func(d *department, v any) { d.Name = cast.ToString(v) }),
		table.Col[department]("created_at", table.Timestamp).InsertOnly().
			Get(func(*department) any { return created }),
		table.Col[department]("updated_at", table.Timestamp).
			Get(func(*department) any { return created }),
	)
	a := New[department, int64](store, described, nil)

	id, err := a.Insert(ctx, &department{Code: "QA", Name: "Quality"})
	require.NoError(t, err)

	got, ok, err := a.FindByID(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, department{ID: id, Code: "QA", Name: "Quality"}, *got)
}
