package table

import "github.com/koustreak/jobboard/internal/database"

// Mapper returns a row reconstructor that scans a row laid out as
// SelectList and hands each value to the matching column's setter.
// Values arrive driver-native, so setters should coerce them.
//
// When the id column is not described, its value is read and dropped.
func (t *Table[E]) Mapper() func(database.Row) (*E, error) {
	_, described := t.byName[t.idColumn]
	width := t.SelectWidth()

	return func(row database.Row) (*E, error) {
		values, err := database.ScanValues(row, width)
		if err != nil {
			return nil, err
		}
		if !described {
			values = values[1:]
		}

		e := new(E)
		for i, c := range t.columns {
			c.Assign(e, values[i])
		}
		return e, nil
	}
}
