package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/litigio/tramita/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// ErrObjectNotFound is returned when a key does not exist
var ErrObjectNotFound = goerr.New("object not found")

type object struct {
	data        []byte
	contentType string
	updatedAt   time.Time
}

// Storage is an in-memory object store for development and tests.
// Signed URLs are synthetic and carry the expiry as a query parameter.
type Storage struct {
	mu      sync.RWMutex
	objects map[string]*object
}

var _ interfaces.ObjectStorage = &Storage{}

func New() *Storage {
	return &Storage{
		objects: make(map[string]*object),
	}
}

func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return goerr.Wrap(err, "failed to read object data", goerr.V("key", key))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = &object{
		data:        data,
		contentType: contentType,
		updatedAt:   time.Now().UTC(),
	}
	return nil
}

func (s *Storage) List(ctx context.Context, prefix string) ([]interfaces.ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]interfaces.ObjectInfo, 0)
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, interfaces.ObjectInfo{
				Key:         key,
				Size:        int64(len(obj.data)),
				ContentType: obj.contentType,
				UpdatedAt:   obj.updatedAt,
			})
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return goerr.Wrap(ErrObjectNotFound, "object not found", goerr.V("key", key))
	}

	delete(s.objects, key)
	return nil
}

func (s *Storage) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.objects[key]; !ok {
		return "", goerr.Wrap(ErrObjectNotFound, "object not found", goerr.V("key", key))
	}

	expires := time.Now().UTC().Add(expiry).Unix()
	return fmt.Sprintf("memory:///%s?expires=%d", url.PathEscape(key), expires), nil
}

func (s *Storage) Close() error {
	return nil
}

// Open returns the stored object's content. Test helper; the real
// backends serve content through signed URLs only.
func (s *Storage) Open(key string) (io.Reader, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, false
	}
	return bytes.NewReader(obj.data), true
}
