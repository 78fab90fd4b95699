// Package blob keeps fully buffered media in memory behind short-lived handles.
//
// A handle is the only way to reach the bytes. The owner revokes it when the media is no
// longer needed, after which the handle resolves to nothing.
package blob

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrRevoked is returned for handles that were revoked or never minted.
var ErrRevoked = errors.New("blob: handle revoked")

// Handle identifies one minted blob.
type Handle string

func (h Handle) String() string {
	return string(h)
}

// URL returns the address the blob is served at below base.
func (h Handle) URL(base string) string {
	return fmt.Sprintf("%s/blob/%s", strings.TrimRight(base, "/"), h)
}

type object struct {
	data        []byte
	contentType string
	minted      time.Time
}

// Object is a readable view of a blob.
type Object struct {
	*bytes.Reader
	ContentType string
	Minted      time.Time
	Size        int64
}

// Store holds minted blobs.
type Store struct {
	mu      sync.RWMutex
	objects map[Handle]*object
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{objects: make(map[Handle]*object)}
}

// Mint stores data and returns a fresh handle for it. The store takes ownership of data.
func (s *Store) Mint(data []byte, contentType string) Handle {
	handle := Handle(uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[handle] = &object{data: data, contentType: contentType, minted: time.Now()}
	return handle
}

// Revoke releases the blob behind handle. Revoking twice is a no-op.
func (s *Store) Revoke(handle Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, handle)
}

// Open returns a reader over the blob. Each call gets an independent reader.
func (s *Store) Open(handle Handle) (*Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[handle]
	if !ok {
		return nil, ErrRevoked
	}

	return &Object{
		Reader:      bytes.NewReader(obj.data),
		ContentType: obj.contentType,
		Minted:      obj.minted,
		Size:        int64(len(obj.data)),
	}, nil
}

// Bytes returns the blob's contents. The slice must not be modified.
func (s *Store) Bytes(handle Handle) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[handle]
	if !ok {
		return nil, ErrRevoked
	}
	return obj.data, nil
}

// Len returns the number of live handles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.objects)
}
