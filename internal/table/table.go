package table

import (
	"slices"
	"strings"

	"github.com/koustreak/jobboard/internal/errs"
)

// DefaultIDColumn is the primary-key column used when none is given.
const DefaultIDColumn = "id"

// IDParam is the bind-parameter id the accessors use for the primary key in
// WHERE clauses. No updatable column may claim it.
const IDParam = "id"

// Descriptor is the entity-independent view of a Table.
type Descriptor interface {
	Name() string
	IDColumn() string
	SelectList() string
}

// Table describes one table of entity type E.
// It is immutable and safe to share between goroutines.
type Table[E any] struct {
	name       string
	idColumn   string
	columns    []*Column[E]
	byName     map[string]*Column[E]
	insertable []*Column[E]
	updatable  []*Column[E]

	columnNames      string
	selectList       string
	insertNames      string
	insertParameters string
	setClause        string
}

// New builds a Table from column definitions, in order. An empty idColumn
// means DefaultIDColumn. All failures are configuration errors.
func New[E any](name, idColumn string, cols ...*ColumnBuilder[E]) (*Table[E], error) {
	if name == "" {
		return nil, errs.New(errs.ErrKindConfig, "table name is required")
	}
	if idColumn == "" {
		idColumn = DefaultIDColumn
	}

	t := &Table[E]{
		name:     name,
		idColumn: idColumn,
		byName:   make(map[string]*Column[E], len(cols)),
	}

	params := make(map[string]string, len(cols))
	for _, b := range cols {
		c, err := b.Build()
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindConfig, "table "+name, err)
		}
		if _, dup := t.byName[c.name]; dup {
			return nil, errs.Newf(errs.ErrKindConfig, "table %q: duplicate column %q", name, c.name)
		}
		if other, dup := params[c.param]; dup {
			return nil, errs.Newf(errs.ErrKindConfig, "table %q: columns %q and %q share parameter %q", name, other, c.name, c.param)
		}
		if c.name == idColumn && c.updatable {
			return nil, errs.Newf(errs.ErrKindConfig, "table %q: id column %q cannot be updatable", name, c.name)
		}
		if c.updatable && c.param == IDParam {
			return nil, errs.Newf(errs.ErrKindConfig, "table %q: updatable column %q cannot use parameter %q", name, c.name, IDParam)
		}

		params[c.param] = c.name
		t.byName[c.name] = c
		t.columns = append(t.columns, c)
		if c.insertable {
			t.insertable = append(t.insertable, c)
		}
		if c.updatable {
			t.updatable = append(t.updatable, c)
		}
	}

	if len(t.insertable) == 0 {
		return nil, errs.Newf(errs.ErrKindConfig, "table %q: at least one insertable column is required", name)
	}

	t.derive()
	return t, nil
}

// MustNew is like New but panics on a configuration error. It is meant for
// package-level descriptors, so a broken descriptor stops the process
// before it serves traffic.
func MustNew[E any](name, idColumn string, cols ...*ColumnBuilder[E]) *Table[E] {
	t, err := New(name, idColumn, cols...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table[E]) derive() {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	t.columnNames = strings.Join(names, ", ")

	if _, described := t.byName[t.idColumn]; described {
		t.selectList = t.columnNames
	} else {
		t.selectList = t.idColumn + ", " + t.columnNames
	}

	insNames := make([]string, len(t.insertable))
	insParams := make([]string, len(t.insertable))
	for i, c := range t.insertable {
		insNames[i] = c.name
		insParams[i] = c.Placeholder()
	}
	t.insertNames = strings.Join(insNames, ", ")
	t.insertParameters = strings.Join(insParams, ", ")

	sets := make([]string, len(t.updatable))
	for i, c := range t.updatable {
		sets[i] = c.name + " = " + c.Placeholder()
	}
	t.setClause = strings.Join(sets, ", ")
}

// Name returns the table name.
func (t *Table[E]) Name() string { return t.name }

// IDColumn returns the primary-key column name.
func (t *Table[E]) IDColumn() string { return t.idColumn }

// Columns returns all columns in descriptor order.
func (t *Table[E]) Columns() []*Column[E] { return slices.Clone(t.columns) }

// InsertableColumns returns the columns written by INSERT, in descriptor order.
func (t *Table[E]) InsertableColumns() []*Column[E] { return slices.Clone(t.insertable) }

// UpdatableColumns returns the columns written by UPDATE, in descriptor order.
func (t *Table[E]) UpdatableColumns() []*Column[E] { return slices.Clone(t.updatable) }

// Column looks up a column by name.
func (t *Table[E]) Column(name string) (*Column[E], bool) {
	c, ok := t.byName[name]
	return c, ok
}

// ColumnNamesList returns every column name, comma-separated.
func (t *Table[E]) ColumnNamesList() string { return t.columnNames }

// SelectList returns the id column followed by ColumnNamesList. The id
// column is not repeated when it is itself a described column.
func (t *Table[E]) SelectList() string { return t.selectList }

// SelectWidth returns the number of columns in SelectList.
func (t *Table[E]) SelectWidth() int {
	if _, described := t.byName[t.idColumn]; described {
		return len(t.columns)
	}
	return len(t.columns) + 1
}

// InsertableColumnNamesList returns the insertable column names,
// comma-separated. Position i matches position i of InsertableParametersList.
func (t *Table[E]) InsertableColumnNamesList() string { return t.insertNames }

// InsertableParametersList returns the insertable placeholders,
// comma-separated, in the same order as InsertableColumnNamesList.
func (t *Table[E]) InsertableParametersList() string { return t.insertParameters }

// UpdateSetClause returns "col = :param" fragments for updatable columns.
func (t *Table[E]) UpdateSetClause() string { return t.setClause }

// InsertArgs reads every insertable column of e into a named-argument map.
func (t *Table[E]) InsertArgs(e *E) map[string]any {
	return args(t.insertable, e)
}

// UpdateArgs reads every updatable column of e into a named-argument map.
// The id binding is left to the caller.
func (t *Table[E]) UpdateArgs(e *E) map[string]any {
	return args(t.updatable, e)
}

func args[E any](cols []*Column[E], e *E) map[string]any {
	m := make(map[string]any, len(cols)+1)
	for _, c := range cols {
		m[c.param] = c.Value(e)
	}
	return m
}
