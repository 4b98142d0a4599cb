package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
)

// Bucket streams objects to and from a single Cloud Storage bucket.
type Bucket struct {
	client *storage.Client
	name   string
}

// NewBucket wraps the given client for the named bucket.
func NewBucket(client *storage.Client, name string) (*Bucket, error) {
	if client == nil {
		return nil, errors.New("storage: client is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errInvalidBucket
	}
	return &Bucket{client: client, name: name}, nil
}

// Name returns the bucket name.
func (b *Bucket) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// Put streams the reader into the bucket under the given key.
func (b *Bucket) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errInvalidObject
	}

	w := b.client.Bucket(b.name).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("storage: write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("storage: finalise object %s: %w", key, err)
	}
	return nil
}

// Delete removes the object. A missing object is not an error.
func (b *Bucket) Delete(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errInvalidObject
	}

	err := b.client.Bucket(b.name).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("storage: delete object %s: %w", key, err)
	}
	return nil
}
