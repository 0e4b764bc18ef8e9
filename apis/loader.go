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

package apis

// Loader resolves dotted path strings to live classes. It is the
// dynamic-loader collaborator of the type resolver: Go cannot import
// symbols at runtime, so classes are registered under their paths up
// front and looked up here.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Loader interface {
	// Register associates a dotted path with a class.
	// Implementations should be idempotent; conflicting re-registrations
	// must return an error.
	Register(path string, c Class) error

	// Load returns the class registered under path, or an error
	// satisfying errors.Is(err, ErrNotFound) of the implementation.
	Load(path string) (Class, error)

	// Paths returns a snapshot of registered paths for diagnostics
	// (order is unspecified).
	Paths() []PathEntry

	// Count returns the number of registered paths.
	Count() int
}

// PathEntry is a single (path, class) association in a Loader snapshot.
type PathEntry struct {
	Path  string
	Class Class
}
