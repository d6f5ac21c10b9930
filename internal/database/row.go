package database

import "github.com/koustreak/jobboard/internal/errs"

// ScanValues reads n columns of a single row as driver-native values.
// Scan targets are *any so the driver can write whatever Go type it
// produces for the column (int64, string, []byte, time.Time, …).
func ScanValues(row Row, n int) ([]any, error) {
	dest := make([]any, n)
	destPtrs := make([]any, n)
	for i := range dest {
		destPtrs[i] = &dest[i]
	}

	if err := row.Scan(destPtrs...); err != nil {
		if errs.KindOf(err) != errs.ErrKindUnknown {
			return nil, err
		}
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to scan row", err)
	}
	return dest, nil
}
