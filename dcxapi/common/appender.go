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

package common

// Appender is the list-like aggregation contract for structured
// containers.
//
// # Overview
//
// When a dependency configuration declares a structured container type
// and no structured key, the fragment composer aggregates every fragment
// sharing the same attribute into a single container instance. The
// composer MUST prefer this interface when the container implements it,
// and MUST NOT fall back to reflection-based appending for that value.
//
// The container instance is created by the configured factory on first
// use and is then reused for every later fragment attached under the same
// attribute within the same build.
//
// # Usage
//
// A minimal ordered container:
//
//	type FragmentList struct {
//	    items []any
//	}
//
//	func (l *FragmentList) Append(v any) {
//	    l.items = append(l.items, v)
//	}
//
// Values that do not implement Appender can still aggregate when they are
// pointers to slices (for example *[]any); anything else fails the build
// with a structured-container error.
//
// # Contract
//
//   - Append MUST retain insertion order.
//   - Append MUST NOT perform blocking operations or I/O.
//   - Implementations are only ever called from the goroutine running
//     the build; they do not need to be concurrency-safe.
type Appender interface {
	// Append adds one aggregated fragment to the container.
	Append(v any)
}
