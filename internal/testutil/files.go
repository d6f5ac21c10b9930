package testutil

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/koustreak/jobboard/internal/errs"
	"github.com/koustreak/jobboard/internal/filestore"
)

// Files is an in-memory filestore.Store.
type Files struct {
	mu      sync.RWMutex
	objects map[string][]byte // "bucket/key" → content
}

func NewFiles() *Files {
	return &Files{objects: make(map[string][]byte)}
}

// Put stores content at bucket/key.
func (f *Files) Put(bucket, key, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[bucket+"/"+key] = []byte(content)
}

func (f *Files) Ping(context.Context) error { return nil }
func (f *Files) Close() error               { return nil }

func (f *Files) ListObjects(_ context.Context, bucket string, opts filestore.ListOptions) ([]filestore.ObjectInfo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []filestore.ObjectInfo
	prefix := bucket + "/" + opts.Prefix
	for path, content := range f.objects {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		key := strings.TrimPrefix(path, bucket+"/")
		if key <= opts.StartAfter {
			continue
		}
		out = append(out, info(key, content))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *Files) GetObject(_ context.Context, bucket, key string) (filestore.Object, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	content, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "object %s/%s not found", bucket, key)
	}
	i := info(key, content)
	return &memObject{ReadCloser: io.NopCloser(bytes.NewReader(content)), info: &i}, nil
}

func (f *Files) StatObject(ctx context.Context, bucket, key string) (*filestore.ObjectInfo, error) {
	obj, err := f.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	return obj.Info(), nil
}

func info(key string, content []byte) filestore.ObjectInfo {
	return filestore.ObjectInfo{
		Key:          key,
		Size:         int64(len(content)),
		ContentType:  "text/csv",
		LastModified: time.Unix(0, 0).UTC(),
	}
}

type memObject struct {
	io.ReadCloser
	info *filestore.ObjectInfo
}

func (o *memObject) Info() *filestore.ObjectInfo { return o.info }
