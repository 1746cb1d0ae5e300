// Package upload accepts single-file uploads and stores them in an object
// store under unique, chronologically sortable keys.
package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/imgdrop/service/internal/storage"
)

// DefaultContentType is stored when the client declares none.
const DefaultContentType = "application/octet-stream"

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// StoreConfig names the destination of uploads.
type StoreConfig struct {
	AccountEndpoint string
	ContainerName   string
	// PublicRead creates a missing container with anonymous read access.
	PublicRead bool
}

// Container returns the configured container name or "uploads".
func (c StoreConfig) Container() string {
	if name := strings.TrimSpace(c.ContainerName); name != "" {
		return name
	}
	return "uploads"
}

// Access returns the access level a missing container is created with.
func (c StoreConfig) Access() storage.AccessLevel {
	if c.PublicRead {
		return storage.AccessPublicRead
	}
	return storage.AccessPrivate
}

// Request is one incoming file. Body is read exactly once.
type Request struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// Result describes a stored upload. It is never modified after creation.
type Result struct {
	Key         string    `json:"name"`
	Location    string    `json:"url"`
	FileName    string    `json:"-"`
	ContentType string    `json:"-"`
	Size        int64     `json:"-"`
	CreatedAt   time.Time `json:"-"`
}

// Observer receives the outcome of every write attempt.
type Observer interface {
	RecordUpload(duration time.Duration, sizeBytes int64, err error)
}

// Recorder keeps a record of completed uploads.
type Recorder interface {
	Record(ctx context.Context, res *Result) error
}

// Service runs the upload pipeline.
type Service struct {
	cfg      StoreConfig
	store    storage.ObjectStore
	keys     *KeyGenerator
	observer Observer
	recorder Recorder
	log      *slog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithKeyGenerator replaces the default key generator.
func WithKeyGenerator(g *KeyGenerator) Option {
	return func(s *Service) { s.keys = g }
}

// WithObserver reports write outcomes to o.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithRecorder records completed uploads with r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a Service writing to store. store may be nil when no
// endpoint is configured; Upload then fails with ErrConfiguration.
func NewService(cfg StoreConfig, store storage.ObjectStore, opts ...Option) *Service {
	s := &Service{
		cfg:   cfg,
		store: store,
		keys:  NewKeyGenerator(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload stores req.Body under a freshly derived key. Validation and
// configuration errors are returned before the backend is touched.
func (s *Service) Upload(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || req.Body == nil {
		return nil, fmt.Errorf("%w: missing or empty file", ErrInvalidRequest)
	}
	if err := s.checkConfig(); err != nil {
		return nil, err
	}

	container := s.cfg.Container()
	key := s.keys.Key(req.FileName)
	contentType := strings.TrimSpace(req.ContentType)
	if contentType == "" {
		contentType = DefaultContentType
	}

	if err := s.store.EnsureContainer(ctx, container, s.cfg.Access()); err != nil {
		return nil, fmt.Errorf("%w: ensure container %q: %w", ErrStorageWrite, container, err)
	}

	start := time.Now()
	written, err := s.store.WriteStream(ctx, container, key, req.Body, contentType)
	if s.observer != nil {
		var size int64
		if written != nil {
			size = written.Size
		}
		s.observer.RecordUpload(time.Since(start), size, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}

	res := &Result{
		Key:         key,
		Location:    written.Location,
		FileName:    SanitizeFileName(req.FileName),
		ContentType: contentType,
		Size:        written.Size,
		CreatedAt:   time.Now().UTC(),
	}

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, res); err != nil {
			s.log.WarnContext(ctx, "upload stored but not recorded in ledger", "key", key, "error", err)
		}
	}

	s.log.InfoContext(ctx, "upload stored", "key", key, "bytes", res.Size, "content_type", contentType)
	return res, nil
}

// List returns stored objects whose key starts with prefix, oldest first.
// A limit of zero selects the default.
func (s *Service) List(ctx context.Context, prefix string, limit int) ([]storage.ObjectInfo, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidRequest)
	}
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if err := s.checkConfig(); err != nil {
		return nil, err
	}

	objs, err := s.store.List(ctx, s.cfg.Container(), prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}
	if objs == nil {
		objs = []storage.ObjectInfo{}
	}
	return objs, nil
}

func (s *Service) checkConfig() error {
	if strings.TrimSpace(s.cfg.AccountEndpoint) == "" {
		return fmt.Errorf("%w: account endpoint is not set", ErrConfiguration)
	}
	if s.store == nil {
		return fmt.Errorf("%w: no object store", ErrConfiguration)
	}
	return nil
}
