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

// Setter is the map/record-like aggregation contract for structured
// containers.
//
// # Overview
//
// When a dependency configuration declares both a structured container
// type and a structured key, the fragment composer stores each fragment
// under its key inside a single container instance shared by all
// fragments attached to the same attribute. The composer MUST prefer this
// interface when the container implements it, and MUST NOT fall back to
// reflection-based assignment for that value.
//
// # Usage
//
// A minimal keyed container:
//
//	type FragmentMap struct {
//	    items map[string]any
//	}
//
//	func (m *FragmentMap) Set(name string, v any) {
//	    if m.items == nil {
//	        m.items = make(map[string]any)
//	    }
//	    m.items[name] = v
//	}
//
// Values that do not implement Setter can still aggregate when they are
// maps with string-assignable keys (for example map[string]any) or
// pointers to structs with a matching exported field; anything else fails
// the build with a structured-container error.
//
// # Contract
//
//   - Set MUST overwrite a previously stored value for the same name.
//   - Set MUST NOT perform blocking operations or I/O.
//   - Implementations are only ever called from the goroutine running
//     the build; they do not need to be concurrency-safe.
type Setter interface {
	// Set stores one aggregated fragment under name.
	Set(name string, v any)
}
