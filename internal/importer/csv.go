package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/koustreak/jobboard/internal/errs"
	"github.com/koustreak/jobboard/internal/logger"
)

// record is one CSV row addressed by header name.
type record struct {
	line    int
	index   map[string]int
	fields  []string
	missing []string
}

func (r *record) value(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// required returns a trimmed value and notes the column when it is empty.
func (r *record) required(column string) string {
	v := r.value(column)
	if v == "" {
		r.missing = append(r.missing, column)
	}
	return v
}

// optional returns nil for an empty or absent column.
func (r *record) optional(column string) *string {
	v := r.value(column)
	if v == "" {
		return nil
	}
	return &v
}

func (r *record) err() error {
	if len(r.missing) == 0 {
		return nil
	}
	return errs.Newf(errs.ErrKindInvalidInput, "line %d: missing %s", r.line, strings.Join(r.missing, ", "))
}

type decodeFunc[E any] func(ctx context.Context, rec record) (E, error)

// load decodes src and upserts it in chunks of batchSize rows.
func load[E any](ctx context.Context, src io.Reader, batchSize int, decode decodeFunc[E], sink BatchUpserter[E], progress func(int64)) (int64, error) {
	r := csv.NewReader(src)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return 0, nil
	}
	if err != nil {
		return 0, errs.Wrap(errs.ErrKindInvalidInput, "failed to read csv header", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	log := logger.FromContext(ctx)
	var written int64
	chunk := make([]E, 0, batchSize)

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		n, err := sink.BatchUpsert(ctx, chunk)
		if err != nil {
			return err
		}
		written += n
		log.DebugWith("chunk written", map[string]interface{}{"rows": n, "total": written})
		if progress != nil {
			progress(written)
		}
		chunk = chunk[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return written, errs.Wrap(errs.ErrKindTimeout, "import interrupted", err)
		}

		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, errs.Wrap(errs.ErrKindInvalidInput, "malformed csv", err)
		}
		line, _ := r.FieldPos(0)

		e, err := decode(ctx, record{line: line, index: index, fields: fields})
		if err != nil {
			return written, err
		}
		chunk = append(chunk, e)

		if len(chunk) == batchSize {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}

	if err := flush(); err != nil {
		return written, err
	}
	return written, nil
}
