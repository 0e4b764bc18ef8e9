/*
   Copyright 2026 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package loader maps dotted path strings to registered classes so
// configurations can reference dependencies by name instead of value.
package loader

import (
	"errors"
	"fmt"
	"sync"

	"dirpx.dev/dcx/apis"
)

var (
	// ErrNilClass is returned when a nil class is registered.
	ErrNilClass = errors.New("dcx(loader): nil class")
	// ErrEmptyPath is returned when a path is empty.
	ErrEmptyPath = errors.New("dcx(loader): empty path")
	// ErrNotFound is returned when no class is registered at a path.
	ErrNotFound = errors.New("dcx(loader): path not found")
	// ErrConflictingPath is returned when a path is registered twice
	// with a different class.
	ErrConflictingPath = errors.New("dcx(loader): conflicting path registration")
)

// Store is a concurrency-safe path loader.
type Store struct {
	classes sync.Map // path -> apis.Class

	mu    sync.Mutex
	count int
}

var _ apis.Loader = (*Store)(nil)

// New returns an empty Store.
func New() *Store { return &Store{} }

// Register binds a class to a dotted path. Re-registering the same
// class at the same path is a no-op; a different class is a conflict.
func (s *Store) Register(path string, c apis.Class) error {
	if path == "" {
		return ErrEmptyPath
	}
	if c == nil {
		return fmt.Errorf("%w: path %q", ErrNilClass, path)
	}
	existing, loaded := s.classes.LoadOrStore(path, c)
	if loaded {
		if existing.(apis.Class) == c {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrConflictingPath, path)
	}
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	return nil
}

// Load resolves a dotted path to its class.
func (s *Store) Load(path string) (apis.Class, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	v, ok := s.classes.Load(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	return v.(apis.Class), nil
}

// Paths returns a snapshot of all registered entries.
func (s *Store) Paths() []apis.PathEntry {
	var out []apis.PathEntry
	s.classes.Range(func(k, v any) bool {
		out = append(out, apis.PathEntry{Path: k.(string), Class: v.(apis.Class)})
		return true
	})
	return out
}

// Count returns the number of registered paths.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
