// Package table describes database tables declaratively.
//
// A Table is an ordered, immutable list of Columns plus a table name and a
// primary-key column. Each Column carries its name, its bind-parameter id,
// its value type, nullability, whether it takes part in INSERT and UPDATE
// statements, and a getter/setter pair bound to the entity type. The
// descriptors derive every column list, placeholder list and SET clause the
// generic accessor needs, so no statement is ever written by hand for the
// standard operations.
//
// Descriptors are built once, usually as package-level variables:
//
//	var industries = table.MustNew("industries", "id",
//	    table.Col[model.Industry]("name", table.Text).NotNull().
//	        Get(func(i *model.Industry) any { return i.Name }),
//	    table.Col[model.Industry]("updated_at", table.Timestamp).
//	        Get(func(*model.Industry) any { return time.Now().UTC() }),
//	)
package table

import (
	"github.com/iancoleman/strcase"
	"github.com/koustreak/jobboard/internal/errs"
)

// ValueType tags the native store type of a column.
type ValueType int

const (
	invalidType ValueType = iota
	Int64
	Int32
	Text
	Bool
	Float64
	Decimal
	Timestamp
	Date
)

func (t ValueType) String() string {
	switch t {
	case Int64:
		return "int64"
	case Int32:
		return "int32"
	case Text:
		return "text"
	case Bool:
		return "bool"
	case Float64:
		return "float64"
	case Decimal:
		return "decimal"
	case Timestamp:
		return "timestamp"
	case Date:
		return "date"
	default:
		return "invalid"
	}
}

// Column describes one table column of entity type E.
// A Column is immutable once its Table has been built.
type Column[E any] struct {
	name       string
	param      string
	valueType  ValueType
	nullable   bool
	insertable bool
	updatable  bool
	get        func(*E) any
	set        func(*E, any)
}

// Name returns the column name as it appears in SQL.
func (c *Column[E]) Name() string { return c.name }

// Param returns the bind-parameter id used for this column.
func (c *Column[E]) Param() string { return c.param }

// Placeholder returns the named placeholder (":param") for this column.
func (c *Column[E]) Placeholder() string { return ":" + c.param }

// Type returns the column's value type.
func (c *Column[E]) Type() ValueType { return c.valueType }

// Nullable reports whether the column accepts NULL.
func (c *Column[E]) Nullable() bool { return c.nullable }

// Insertable reports whether the column takes part in INSERT statements.
func (c *Column[E]) Insertable() bool { return c.insertable }

// Updatable reports whether the column takes part in UPDATE statements.
func (c *Column[E]) Updatable() bool { return c.updatable }

// Value reads the column's value from e. It returns nil when the column has
// no getter.
func (c *Column[E]) Value(e *E) any {
	if c.get == nil {
		return nil
	}
	return c.get(e)
}

// Assign writes v into e. It is a no-op when the column has no setter.
func (c *Column[E]) Assign(e *E, v any) {
	if c.set != nil {
		c.set(e, v)
	}
}

// ColumnBuilder accumulates a Column definition. Flags default to
// nullable, insertable and updatable.
type ColumnBuilder[E any] struct {
	col Column[E]
}

// Col starts a column definition for entity type E.
func Col[E any](name string, valueType ValueType) *ColumnBuilder[E] {
	return &ColumnBuilder[E]{col: Column[E]{
		name:       name,
		valueType:  valueType,
		nullable:   true,
		insertable: true,
		updatable:  true,
	}}
}

// Param overrides the derived bind-parameter id.
func (b *ColumnBuilder[E]) Param(param string) *ColumnBuilder[E] {
	b.col.param = param
	return b
}

// NotNull marks the column as not accepting NULL.
func (b *ColumnBuilder[E]) NotNull() *ColumnBuilder[E] {
	b.col.nullable = false
	return b
}

// Nullable marks the column as accepting NULL, which is the default.
func (b *ColumnBuilder[E]) Nullable() *ColumnBuilder[E] {
	b.col.nullable = true
	return b
}

// InsertOnly keeps the column out of UPDATE statements.
func (b *ColumnBuilder[E]) InsertOnly() *ColumnBuilder[E] {
	b.col.insertable = true
	b.col.updatable = false
	return b
}

// UpdateOnly keeps the column out of INSERT statements.
func (b *ColumnBuilder[E]) UpdateOnly() *ColumnBuilder[E] {
	b.col.insertable = false
	b.col.updatable = true
	return b
}

// ReadOnly keeps the column out of both INSERT and UPDATE statements; it
// is only ever read back (generated keys, database defaults).
func (b *ColumnBuilder[E]) ReadOnly() *ColumnBuilder[E] {
	b.col.insertable = false
	b.col.updatable = false
	return b
}

// Get sets the function that reads the column's value from an entity.
func (b *ColumnBuilder[E]) Get(get func(*E) any) *ColumnBuilder[E] {
	b.col.get = get
	return b
}

// Set sets the function that writes a fetched value into an entity.
func (b *ColumnBuilder[E]) Set(set func(*E, any)) *ColumnBuilder[E] {
	b.col.set = set
	return b
}

// Build validates the definition and returns the Column.
func (b *ColumnBuilder[E]) Build() (*Column[E], error) {
	c := b.col
	if c.name == "" {
		return nil, errs.New(errs.ErrKindConfig, "column name is required")
	}
	if c.valueType == invalidType {
		return nil, errs.Newf(errs.ErrKindConfig, "column %q: value type is required", c.name)
	}
	if (c.insertable || c.updatable) && c.get == nil {
		return nil, errs.Newf(errs.ErrKindConfig, "column %q: written columns need a getter", c.name)
	}
	if c.param == "" {
		c.param = ParamID(c.name)
	}
	return &c, nil
}

// ParamID derives the bind-parameter id for a snake_case column name:
// "created_at" becomes "createdAt".
func ParamID(column string) string {
	return strcase.ToLowerCamel(column)
}
