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

// Package registry tracks which base classes have build configurations
// bound to them and which composites have been built, so recursive
// builds and explicit injection can find their way back.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"dirpx.dev/dcx/apis"
)

var (
	// ErrNilClass is returned when a nil class is bound or recorded.
	ErrNilClass = errors.New("dcx(registry): nil class")
	// ErrNilOrchestrator is returned when a nil orchestrator is bound.
	ErrNilOrchestrator = errors.New("dcx(registry): nil orchestrator")
)

// Store is a concurrency-safe registry.
type Store struct {
	orchs sync.Map // apis.Class -> apis.Orchestrator
	built sync.Map // apis.Class -> apis.BuildRecord

	mu    sync.Mutex
	count int
}

var _ apis.Registry = (*Store)(nil)

// New returns an empty Store.
func New() *Store { return &Store{} }

// Bind associates an orchestrator with a base class, replacing any
// previous binding.
func (s *Store) Bind(base apis.Class, o apis.Orchestrator) error {
	if base == nil {
		return ErrNilClass
	}
	if o == nil {
		return fmt.Errorf("%w: class %q", ErrNilOrchestrator, base.Name())
	}
	if _, loaded := s.orchs.Swap(base, o); !loaded {
		s.mu.Lock()
		s.count++
		s.mu.Unlock()
	}
	return nil
}

// Orchestrator returns the orchestrator bound to base.
func (s *Store) Orchestrator(base apis.Class) (apis.Orchestrator, bool) {
	v, ok := s.orchs.Load(base)
	if !ok {
		return nil, false
	}
	return v.(apis.Orchestrator), true
}

// RecordBuilt marks a composite class as built and stores its record.
func (s *Store) RecordBuilt(composite apis.Class, rec apis.BuildRecord) error {
	if composite == nil {
		return ErrNilClass
	}
	s.built.Store(composite, rec)
	return nil
}

// Built returns the build record of a composite class.
func (s *Store) Built(composite apis.Class) (apis.BuildRecord, bool) {
	v, ok := s.built.Load(composite)
	if !ok {
		return apis.BuildRecord{}, false
	}
	return v.(apis.BuildRecord), true
}

// Buildable reports whether c is a registered base that has not itself
// been produced by a build. Built composites are excluded so recursive
// composition terminates.
func (s *Store) Buildable(c apis.Class) bool {
	if _, ok := s.orchs.Load(c); !ok {
		return false
	}
	_, alreadyBuilt := s.built.Load(c)
	return !alreadyBuilt
}

// Entries returns a snapshot of all bindings.
func (s *Store) Entries() []apis.Entry {
	var out []apis.Entry
	s.orchs.Range(func(k, v any) bool {
		out = append(out, apis.Entry{
			Base:         k.(apis.Class),
			Orchestrator: v.(apis.Orchestrator),
		})
		return true
	})
	return out
}

// Count returns the number of bound base classes.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Reset drops all bindings and build records.
func (s *Store) Reset() {
	s.orchs.Range(func(k, _ any) bool {
		s.orchs.Delete(k)
		return true
	})
	s.built.Range(func(k, _ any) bool {
		s.built.Delete(k)
		return true
	})
	s.mu.Lock()
	s.count = 0
	s.mu.Unlock()
}
