package table

import (
	"strings"
	"testing"
	"time"

	"github.com/koustreak/jobboard/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type department struct {
	ID        int64
	Name      string
	Budget    *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

var stamp = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func departmentTable(t *testing.T) *Table[department] {
	t.Helper()
	tbl, err := New("departments", "id",
		Col[department]("name", Text).NotNull().
			Get(func(d *department) any { return d.Name }).
			Set(func(d *department, v any) { d.Name = v.(string) }),
		Col[department]("created_at", Timestamp).NotNull().InsertOnly().
			Get(func(*department) any { return stamp }),
		Col[department]("updated_at", Timestamp).NotNull().
			Get(func(*department) any { return stamp }),
	)
	require.NoError(t, err)
	return tbl
}

func TestParamID(t *testing.T) {
	tests := []struct {
		column string
		want   string
	}{
		{"name", "name"},
		{"created_at", "createdAt"},
		{"job_posting_id", "jobPostingId"},
		{"external_id", "externalId"},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.want, ParamID(tt.column))
		})
	}
}

func TestTable_DerivedLists(t *testing.T) {
	tbl := departmentTable(t)

	assert.Equal(t, "departments", tbl.Name())
	assert.Equal(t, "id", tbl.IDColumn())
	assert.Equal(t, "name, created_at, updated_at", tbl.ColumnNamesList())
	assert.Equal(t, "id, name, created_at, updated_at", tbl.SelectList())
	assert.Equal(t, 4, tbl.SelectWidth())
	assert.Equal(t, "name, created_at, updated_at", tbl.InsertableColumnNamesList())
	assert.Equal(t, ":name, :createdAt, :updatedAt", tbl.InsertableParametersList())
	assert.Equal(t, "name = :name, updated_at = :updatedAt", tbl.UpdateSetClause())
}

func TestTable_InsertListsCorrespondPositionally(t *testing.T) {
	mixed, err := New("postings", "",
		Col[department]("title", Text).Get(func(d *department) any { return d.Name }),
		Col[department]("internal_ref", Text).ReadOnly(),
		Col[department]("salary_band", Decimal).Param("band").Get(func(d *department) any { return d.Budget }),
		Col[department]("reviewed_at", Timestamp).UpdateOnly().Get(func(*department) any { return stamp }),
		Col[department]("created_at", Timestamp).InsertOnly().Get(func(*department) any { return stamp }),
	)
	require.NoError(t, err)

	for _, tbl := range []*Table[department]{departmentTable(t), mixed} {
		t.Run(tbl.Name(), func(t *testing.T) {
			names := strings.Split(tbl.InsertableColumnNamesList(), ", ")
			params := strings.Split(tbl.InsertableParametersList(), ", ")
			require.Len(t, params, len(names))

			for i, name := range names {
				col, ok := tbl.Column(name)
				require.True(t, ok)
				assert.Equal(t, col.Placeholder(), params[i])
			}
		})
	}

	assert.Equal(t, "title, salary_band, created_at", mixed.InsertableColumnNamesList())
	assert.Equal(t, ":title, :band, :createdAt", mixed.InsertableParametersList())
	assert.Equal(t, "title = :title, salary_band = :band, reviewed_at = :reviewedAt", mixed.UpdateSetClause())
	assert.Equal(t, "id, title, internal_ref, salary_band, reviewed_at, created_at", mixed.SelectList())
}

func TestTable_FilteredViewsKeepOrder(t *testing.T) {
	tbl := departmentTable(t)

	var ins, upd []string
	for _, c := range tbl.InsertableColumns() {
		ins = append(ins, c.Name())
	}
	for _, c := range tbl.UpdatableColumns() {
		upd = append(upd, c.Name())
	}

	assert.Equal(t, []string{"name", "created_at", "updated_at"}, ins)
	assert.Equal(t, []string{"name", "updated_at"}, upd)
}

func TestTable_ColumnsAreCopies(t *testing.T) {
	tbl := departmentTable(t)
	cols := tbl.Columns()
	cols[0] = nil

	c, ok := tbl.Column("name")
	require.True(t, ok)
	assert.Same(t, c, tbl.Columns()[0])
}

func TestTable_ColumnLookup(t *testing.T) {
	tbl := departmentTable(t)

	c, ok := tbl.Column("created_at")
	require.True(t, ok)
	assert.Equal(t, "createdAt", c.Param())
	assert.Equal(t, Timestamp, c.Type())
	assert.False(t, c.Nullable())
	assert.True(t, c.Insertable())
	assert.False(t, c.Updatable())

	_, ok = tbl.Column("missing")
	assert.False(t, ok)
}

func TestTable_Args(t *testing.T) {
	tbl := departmentTable(t)
	d := &department{Name: "Engineering"}

	assert.Equal(t, map[string]any{
		"name":      "Engineering",
		"createdAt": stamp,
		"updatedAt": stamp,
	}, tbl.InsertArgs(d))

	assert.Equal(t, map[string]any{
		"name":      "Engineering",
		"updatedAt": stamp,
	}, tbl.UpdateArgs(d))
}

func TestColumn_ValueAndAssignWithoutAccessors(t *testing.T) {
	c, err := Col[department]("computed", Text).ReadOnly().Build()
	require.NoError(t, err)

	d := &department{Name: "kept"}
	assert.Nil(t, c.Value(d))
	c.Assign(d, "ignored")
	assert.Equal(t, "kept", d.Name)
}

func TestColumn_Defaults(t *testing.T) {
	c, err := Col[department]("name", Text).Get(func(d *department) any { return d.Name }).Build()
	require.NoError(t, err)

	assert.True(t, c.Nullable())
	assert.True(t, c.Insertable())
	assert.True(t, c.Updatable())
	assert.Equal(t, ":name", c.Placeholder())
}

func TestNew_ConfigurationErrors(t *testing.T) {
	getName := func(d *department) any { return d.Name }

	tests := []struct {
		name  string
		build func() (*Table[department], error)
	}{
		{"missing table name", func() (*Table[department], error) {
			return New("", "id", Col[department]("name", Text).Get(getName))
		}},
		{"missing column name", func() (*Table[department], error) {
			return New("t", "id", Col[department]("", Text).Get(getName))
		}},
		{"missing value type", func() (*Table[department], error) {
			return New("t", "id", Col[department]("name", 0).Get(getName))
		}},
		{"written column without getter", func() (*Table[department], error) {
			return New("t", "id", Col[department]("name", Text))
		}},
		{"duplicate column", func() (*Table[department], error) {
			return New("t", "id",
				Col[department]("name", Text).Get(getName),
				Col[department]("name", Text).Get(getName))
		}},
		{"duplicate parameter", func() (*Table[department], error) {
			return New("t", "id",
				Col[department]("name", Text).Get(getName),
				Col[department]("label", Text).Param("name").Get(getName))
		}},
		{"updatable id column", func() (*Table[department], error) {
			return New("t", "id",
				Col[department]("id", Int64).Get(func(d *department) any { return d.ID }),
				Col[department]("name", Text).Get(getName))
		}},
		{"updatable column claiming id parameter", func() (*Table[department], error) {
			return New("t", "dept_no", Col[department]("id", Int64).Get(func(d *department) any { return d.ID }))
		}},
		{"nothing insertable", func() (*Table[department], error) {
			return New("t", "id", Col[department]("name", Text).ReadOnly())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := tt.build()
			require.Error(t, err)
			assert.Nil(t, tbl)
			assert.True(t, errs.IsConfig(err))
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew[department]("", "id")
	})
}

func TestNew_DefaultIDColumn(t *testing.T) {
	tbl, err := New("t", "", Col[department]("name", Text).Get(func(d *department) any { return d.Name }))
	require.NoError(t, err)
	assert.Equal(t, DefaultIDColumn, tbl.IDColumn())
}

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		*(d.(*any)) = r[i]
	}
	return nil
}

func TestMapper_UndescribedID(t *testing.T) {
	tbl := departmentTable(t)
	d, err := tbl.Mapper()(fakeRow{int64(9), "Finance", stamp, stamp})
	require.NoError(t, err)
	assert.Equal(t, "Finance", d.Name)
	assert.Zero(t, d.ID)
}

func TestMapper_DescribedID(t *testing.T) {
	tbl, err := New("departments", "id",
		Col[department]("id", Int64).ReadOnly().
			Set(func(d *department, v any) { d.ID = v.(int64) }),
		Col[department]("name", Text).
			Get(func(d *department) any { return d.Name }).
			Set(func(d *department, v any) { d.Name = v.(string) }),
	)
	require.NoError(t, err)
	assert.Equal(t, "id, name", tbl.SelectList())

	d, err := tbl.Mapper()(fakeRow{int64(4), "Legal"})
	require.NoError(t, err)
	assert.Equal(t, department{ID: 4, Name: "Legal"}, *d)
}
