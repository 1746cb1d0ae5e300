package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryObject is an object held by MemoryStorage.
type MemoryObject struct {
	Data        []byte
	ContentType string
	Modified    time.Time
}

// MemoryStorage is an in-process ObjectStore. An object becomes visible
// only after its stream has been read to completion.
type MemoryStorage struct {
	mu         sync.Mutex
	containers map[string]map[string]MemoryObject
	access     map[string]AccessLevel
	calls      int

	// WriteErr, when set, fails every WriteStream after the stream is drained.
	WriteErr error
	// EnsureErr, when set, fails every EnsureContainer.
	EnsureErr error
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		containers: make(map[string]map[string]MemoryObject),
		access:     make(map[string]AccessLevel),
	}
}

func (m *MemoryStorage) EnsureContainer(ctx context.Context, container string, access AccessLevel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.EnsureErr != nil {
		return m.EnsureErr
	}
	if _, ok := m.containers[container]; !ok {
		m.containers[container] = make(map[string]MemoryObject)
		m.access[container] = access
	}
	return nil
}

func (m *MemoryStorage) WriteStream(ctx context.Context, container, key string, r io.Reader, contentType string) (*WriteResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return nil, fmt.Errorf("put object %q: %w", key, m.WriteErr)
	}
	objects, ok := m.containers[container]
	if !ok {
		return nil, fmt.Errorf("put object %q: container %q does not exist", key, container)
	}
	objects[key] = MemoryObject{Data: data, ContentType: contentType, Modified: time.Now().UTC()}

	return &WriteResult{
		Location: "memory://" + container + "/" + key,
		Size:     int64(len(data)),
	}, nil
}

func (m *MemoryStorage) List(ctx context.Context, container, prefix string, limit int) ([]ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	var out []ObjectInfo
	for key, obj := range m.containers[container] {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.Data)),
			ContentType:  obj.ContentType,
			LastModified: obj.Modified,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Object returns the stored object under key.
func (m *MemoryStorage) Object(container, key string) (MemoryObject, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.containers[container][key]
	return obj, ok
}

// HasContainer reports whether container exists and with which access level.
func (m *MemoryStorage) HasContainer(container string) (AccessLevel, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.containers[container]
	return m.access[container], ok
}

// Len returns the number of objects in container.
func (m *MemoryStorage) Len(container string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.containers[container])
}

// Calls returns how many ObjectStore methods have been invoked.
func (m *MemoryStorage) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ ObjectStore = (*MemoryStorage)(nil)
