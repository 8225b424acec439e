package archive

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/litigio/tramita/pkg/domain/interfaces"
	"github.com/litigio/tramita/pkg/domain/types"
	"github.com/litigio/tramita/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors for the archive service
var (
	ErrNotDeletable    = goerr.New("file category is not deletable via the upload channel")
	ErrInvalidFilename = goerr.New("invalid filename")
)

const defaultSignTTL = 15 * time.Minute

// FileEntry describes one stored file for display
type FileEntry struct {
	Name      string
	Size      int64
	UpdatedAt time.Time
	URL       string
}

// Service implements the addressing contract over an object store:
// uploads and listings derive identical keys with no coordination, and
// retrieval is only ever exposed through time-limited signed URLs.
type Service struct {
	store   interfaces.ObjectStorage
	signTTL time.Duration
}

type Option func(*Service)

// WithSignTTL overrides the lifetime of generated retrieval URLs
func WithSignTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.signTTL = ttl
	}
}

func New(store interfaces.ObjectStorage, opts ...Option) *Service {
	s := &Service{
		store:   store,
		signTTL: defaultSignTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload writes a file under the derived prefix with the category's
// token prepended to the sanitized filename. Returns the full storage
// key and a signed retrieval URL.
func (s *Service) Upload(ctx context.Context, prefix string, category types.FileCategory, filename string, r io.Reader, size int64, contentType string) (string, string, error) {
	if prefix == "" {
		return "", "", goerr.New("storage prefix is required")
	}
	if !category.IsValid() {
		return "", "", goerr.New("invalid file category", goerr.V("category", category))
	}

	key := prefix + category.Prefix() + SafeFilename(filename)
	if err := s.store.Put(ctx, key, r, size, contentType); err != nil {
		return "", "", goerr.Wrap(err, "failed to store file", goerr.V("key", key))
	}

	url, err := s.store.SignedURL(ctx, key, s.signTTL)
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to sign file URL", goerr.V("key", key))
	}

	return key, url, nil
}

// List enumerates everything under the prefix and groups it by
// category, derived purely from each filename's prefix token. Files
// whose URL cannot be signed are listed without one rather than
// breaking the whole panel.
func (s *Service) List(ctx context.Context, prefix string) (map[types.FileCategory][]FileEntry, error) {
	if prefix == "" {
		return nil, goerr.New("storage prefix is required")
	}

	objects, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list files", goerr.V("prefix", prefix))
	}

	grouped := make(map[types.FileCategory][]FileEntry)
	for _, obj := range objects {
		name := strings.TrimPrefix(obj.Key, prefix)
		if name == "" || strings.Contains(name, "/") {
			// Nested prefixes belong to a different action
			continue
		}

		entry := FileEntry{
			Name:      name,
			Size:      obj.Size,
			UpdatedAt: obj.UpdatedAt,
		}

		if url, signErr := s.store.SignedURL(ctx, obj.Key, s.signTTL); signErr != nil {
			errutil.Handle(ctx, signErr, "failed to sign file URL")
		} else {
			entry.URL = url
		}

		category := types.ClassifyFilename(name)
		grouped[category] = append(grouped[category], entry)
	}

	return grouped, nil
}

// Delete removes a single file by exact name under the prefix. Only
// files that came in through the action's own upload channel may be
// deleted; system-generated documents are refused.
func (s *Service) Delete(ctx context.Context, prefix string, filename string) error {
	if prefix == "" {
		return goerr.New("storage prefix is required")
	}
	if filename == "" || strings.ContainsAny(filename, "/\\") {
		return goerr.Wrap(ErrInvalidFilename, "filename must be a bare name", goerr.V("filename", filename))
	}

	category := types.ClassifyFilename(filename)
	if !category.UserUploadable() {
		return goerr.Wrap(ErrNotDeletable, "cannot delete system-generated document",
			goerr.V("filename", filename), goerr.V("category", category))
	}

	key := prefix + filename
	if err := s.store.Delete(ctx, key); err != nil {
		return goerr.Wrap(err, "failed to delete file", goerr.V("key", key))
	}

	return nil
}
