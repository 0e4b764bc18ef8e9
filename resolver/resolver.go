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

// Package resolver turns class references into classes by delegating to
// an ordered chain of strategies.
package resolver

import (
	"errors"
	"fmt"

	"dirpx.dev/dcx/apis"
)

var (
	// ErrNilReference is returned when a nil reference is resolved.
	ErrNilReference = errors.New("dcx(resolver): nil class reference")
	// ErrUnresolvable is returned when no strategy can resolve a
	// reference, or when the handling strategy fails.
	ErrUnresolvable = errors.New("dcx(resolver): unresolvable class reference")
)

type chain struct {
	strategies []apis.Strategy
}

var _ apis.Resolver = (*chain)(nil)

// New builds a resolver from the given strategies, consulted in order.
func New(strategies ...apis.Strategy) apis.Resolver {
	return &chain{strategies: strategies}
}

// Resolve returns the class for ref, asking each strategy in turn. The
// first strategy that claims the reference decides the outcome.
func (c *chain) Resolve(ref apis.ClassRef, cfg apis.GlobalConfig) (apis.Class, error) {
	if ref == nil {
		return nil, ErrNilReference
	}
	for _, s := range c.strategies {
		cls, handled, err := s.TryResolve(ref, cfg)
		if !handled {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnresolvable, err)
		}
		return cls, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnresolvable, ref)
}
