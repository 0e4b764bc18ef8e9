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

// Resolver turns a class reference (live Class or dotted path string)
// into a live Class. Typical chain: ClassStrategy -> PathStrategy.
type Resolver interface {
	// Resolve returns the class referenced by ref, or an error when the
	// reference cannot be resolved.
	Resolve(ref ClassRef, cfg GlobalConfig) (Class, error)
}

// Strategy is a pluggable resolution step. A Resolver chains multiple
// strategies in order.
type Strategy interface {
	// TryResolve attempts to resolve ref according to cfg. It returns
	// (class, true, nil) if handled, (nil, false, nil) to fall through,
	// or (nil, true, err) when it owns the reference kind but resolution
	// failed.
	TryResolve(ref ClassRef, cfg GlobalConfig) (Class, bool, error)
}
