// Package importer loads reference data (cities, industries, professions)
// from CSV feeds in the object store into the database through the
// reference accessors' batch upsert.
//
// Each chunk of batch_size rows is applied atomically. A feed that fails
// half-way keeps the chunks written before the failure; re-running it is
// safe because every write is an upsert on the natural key.
package importer

import (
	"context"
	"sort"
	"strings"

	"github.com/koustreak/jobboard/internal/errs"
	"github.com/koustreak/jobboard/internal/filestore"
	"github.com/koustreak/jobboard/internal/logger"
	"github.com/koustreak/jobboard/internal/model"
	"github.com/spf13/cast"
)

// Feed names.
const (
	FeedCities      = "cities"
	FeedIndustries  = "industries"
	FeedProfessions = "professions"
)

// BatchUpserter is the write side of a reference accessor.
type BatchUpserter[E any] interface {
	BatchUpsert(ctx context.Context, rows []E) (int64, error)
}

// IndustryLookup resolves an industry name to its id.
type IndustryLookup interface {
	FindByName(ctx context.Context, name string) (*model.Industry, bool, error)
}

// Sinks are the accessors the importer writes to.
type Sinks struct {
	Cities      BatchUpserter[model.City]
	Industries  BatchUpserter[model.Industry]
	Professions BatchUpserter[model.Profession]
	IndustryIDs IndustryLookup
}

// Options configures an Importer.
type Options struct {
	Bucket    string
	Feeds     map[string]string // feed name → object key
	BatchSize int
}

// Importer reads feeds from a filestore.Store. It is safe for concurrent
// use; each Import call is independent.
type Importer struct {
	files filestore.Store
	sinks Sinks
	opts  Options
}

func New(files filestore.Store, sinks Sinks, opts Options) (*Importer, error) {
	if opts.BatchSize <= 0 {
		return nil, errs.Newf(errs.ErrKindConfig, "importer: batch size must be positive, got %d", opts.BatchSize)
	}
	for feed := range opts.Feeds {
		if !knownFeed(feed) {
			return nil, errs.Newf(errs.ErrKindConfig, "importer: unknown feed %q", feed)
		}
	}
	return &Importer{files: files, sinks: sinks, opts: opts}, nil
}

func knownFeed(feed string) bool {
	switch feed {
	case FeedCities, FeedIndustries, FeedProfessions:
		return true
	}
	return false
}

// Feeds returns the configured feed names, sorted.
func (im *Importer) Feeds() []string {
	names := make([]string, 0, len(im.opts.Feeds))
	for name := range im.opts.Feeds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasFeed reports whether feed is configured.
func (im *Importer) HasFeed(feed string) bool {
	_, ok := im.opts.Feeds[feed]
	return ok
}

// Import reads one feed and upserts its rows. progress, when non-nil, is
// called with the running row count after each chunk. It returns the number
// of rows written.
func (im *Importer) Import(ctx context.Context, feed string, progress func(rows int64)) (int64, error) {
	key, ok := im.opts.Feeds[feed]
	if !ok {
		return 0, errs.Newf(errs.ErrKindInvalidInput, "unknown feed %q", feed)
	}

	log := logger.FromContext(ctx).With().Str("feed", feed).Str("object", key).Logger()
	ctx = log.WithContext(ctx)

	obj, err := im.files.GetObject(ctx, im.opts.Bucket, key)
	if err != nil {
		return 0, err
	}
	defer obj.Close()

	log.InfoWith("import started", map[string]interface{}{"size": obj.Info().Size})

	var n int64
	switch feed {
	case FeedCities:
		n, err = load(ctx, obj, im.opts.BatchSize, decodeCity, im.sinks.Cities, progress)
	case FeedIndustries:
		n, err = load(ctx, obj, im.opts.BatchSize, decodeIndustry, im.sinks.Industries, progress)
	case FeedProfessions:
		n, err = load(ctx, obj, im.opts.BatchSize, im.professionDecoder(), im.sinks.Professions, progress)
	}
	if err != nil {
		log.ErrorWith("import failed", err, map[string]interface{}{"rows": n})
		return n, err
	}

	log.InfoWith("import finished", map[string]interface{}{"rows": n})
	return n, nil
}

// --- per-feed decoding ---

func decodeCity(_ context.Context, rec record) (model.City, error) {
	c := model.City{
		ExternalID:  rec.required("external_id"),
		Name:        rec.required("name"),
		Region:      rec.optional("region"),
		CountryCode: strings.ToUpper(rec.required("country_code")),
	}
	return c, rec.err()
}

func decodeIndustry(_ context.Context, rec record) (model.Industry, error) {
	i := model.Industry{
		Name:        rec.required("name"),
		Description: rec.optional("description"),
	}
	return i, rec.err()
}

// professionDecoder resolves the industry column, which holds either an
// industry id or an industry name. Names are looked up once per import.
func (im *Importer) professionDecoder() decodeFunc[model.Profession] {
	cache := map[string]*int64{}

	return func(ctx context.Context, rec record) (model.Profession, error) {
		p := model.Profession{
			Code:  rec.required("code"),
			Title: rec.required("title"),
		}
		if err := rec.err(); err != nil {
			return p, err
		}

		industry := rec.optional("industry")
		if industry == nil {
			return p, nil
		}
		if id, err := cast.ToInt64E(*industry); err == nil {
			p.IndustryID = &id
			return p, nil
		}

		id, cached := cache[*industry]
		if !cached {
			found, ok, err := im.sinks.IndustryIDs.FindByName(ctx, *industry)
			if err != nil {
				return p, err
			}
			if !ok {
				return p, errs.Newf(errs.ErrKindInvalidInput, "line %d: unknown industry %q", rec.line, *industry)
			}
			id = &found.ID
			cache[*industry] = id
		}
		p.IndustryID = id
		return p, nil
	}
}

// --- feed objects ---

// FeedObject reports whether a configured feed's object is in the bucket.
type FeedObject struct {
	Feed    string                `json:"feed"`
	Key     string                `json:"key"`
	Present bool                  `json:"present"`
	Object  *filestore.ObjectInfo `json:"object,omitempty"`
}

// Status stats the object of every configured feed. A missing object is
// reported as not present rather than as an error.
func (im *Importer) Status(ctx context.Context) ([]FeedObject, error) {
	out := make([]FeedObject, 0, len(im.opts.Feeds))
	for _, feed := range im.Feeds() {
		key := im.opts.Feeds[feed]
		info, err := im.files.StatObject(ctx, im.opts.Bucket, key)
		switch {
		case errs.IsNotFound(err):
			out = append(out, FeedObject{Feed: feed, Key: key})
		case err != nil:
			return nil, err
		default:
			out = append(out, FeedObject{Feed: feed, Key: key, Present: true, Object: info})
		}
	}
	return out, nil
}

// Objects lists the bucket's objects under prefix, at most limit of them
// when limit is positive.
func (im *Importer) Objects(ctx context.Context, prefix string, limit int) ([]filestore.ObjectInfo, error) {
	objects, err := im.files.ListObjects(ctx, im.opts.Bucket, filestore.ListOptions{
		Prefix:    prefix,
		Recursive: true,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	if objects == nil {
		objects = []filestore.ObjectInfo{}
	}
	return objects, nil
}
