package dao

import (
	"strconv"

	"github.com/koustreak/jobboard/internal/errs"
)

// Params turns an alternating key/value list into named arguments:
//
//	dao.Params("status", "open", "cityId", 12)
//
// An odd number of elements, or a key that is not a non-empty string, is an
// invalid-input error. A repeated key keeps its last value.
func Params(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "parameter list has odd length %d", len(kv))
	}

	params := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok || key == "" {
			return nil, errs.New(errs.ErrKindInvalidInput, "parameter name at position "+strconv.Itoa(i)+" must be a non-empty string")
		}
		params[key] = kv[i+1]
	}
	return params, nil
}

// idFromInt64 converts a generated key into the accessor's id type.
func idFromInt64[ID comparable](n int64) (ID, error) {
	var id ID
	switch p := any(&id).(type) {
	case *int64:
		*p = n
	case *int:
		*p = int(n)
	case *int32:
		*p = int32(n)
	case *uint64:
		*p = uint64(n)
	case *string:
		*p = strconv.FormatInt(n, 10)
	default:
		return id, errs.Newf(errs.ErrKindInvalidInput, "generated key cannot be stored in %T", id)
	}
	return id, nil
}
