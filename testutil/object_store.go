// Package testutil provides shared test doubles and fixtures.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"keepsakes/enum"
)

var ErrStoreUnavailable = errors.New("object store unavailable")

// DeleteCall records one Delete invocation.
type DeleteCall struct {
	Key          string
	ResourceType enum.ResourceType
}

// ObjectStoreStub is an in-memory attachment.ObjectStore.
type ObjectStoreStub struct {
	mu         sync.Mutex
	Objects    map[string][]byte
	Deletes    []DeleteCall
	FailDelete map[string]bool
	FailUpload bool
	version    int
}

func NewObjectStoreStub() *ObjectStoreStub {
	return &ObjectStoreStub{Objects: make(map[string][]byte), FailDelete: make(map[string]bool)}
}

func (s *ObjectStoreStub) Upload(_ context.Context, content io.Reader, filename, folder string) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpload {
		return "", ErrStoreUnavailable
	}
	s.version++
	key := folder + "/" + filename
	s.Objects[key] = data
	return fmt.Sprintf("https://res.cloudinary.com/demo/image/upload/v%d/%s", 1700000000+s.version, key), nil
}

func (s *ObjectStoreStub) Delete(_ context.Context, key string, resourceType enum.ResourceType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deletes = append(s.Deletes, DeleteCall{Key: key, ResourceType: resourceType})
	if s.FailDelete[key] {
		return ErrStoreUnavailable
	}
	delete(s.Objects, key)
	return nil
}

// DeletedKeys returns the keys passed to Delete, in call order.
func (s *ObjectStoreStub) DeletedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.Deletes))
	for _, call := range s.Deletes {
		keys = append(keys, call.Key)
	}
	return keys
}

// AttachmentURL builds a delivery URL whose storage key is key.
func AttachmentURL(key string) string {
	return "https://res.cloudinary.com/demo/image/upload/v1751739552/" + key
}
