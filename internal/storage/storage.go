// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup;
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"io"
	"time"
)

// AccessLevel controls anonymous read access on a container.
type AccessLevel int

const (
	// AccessPrivate allows no anonymous access.
	AccessPrivate AccessLevel = iota
	// AccessPublicRead allows anonymous GET on objects.
	AccessPublicRead
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string    `json:"name"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// WriteResult is the outcome of a completed WriteStream call.
type WriteResult struct {
	Location string
	Size     int64
}

// ObjectStore is the interface for writing and listing objects.
type ObjectStore interface {
	// EnsureContainer creates the container if it does not exist. It is
	// idempotent; access is applied only when the container is created.
	EnsureContainer(ctx context.Context, container string, access AccessLevel) error
	// WriteStream consumes r once, front to back, and stores it under key.
	// On error nothing is retrievable under key.
	WriteStream(ctx context.Context, container, key string, r io.Reader, contentType string) (*WriteResult, error)
	// List returns up to limit objects whose key starts with prefix, in key order.
	List(ctx context.Context, container, prefix string, limit int) ([]ObjectInfo, error)
}
