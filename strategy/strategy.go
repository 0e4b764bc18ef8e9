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

// Package strategy provides the individual class-reference resolution
// strategies composed by the resolver chain.
package strategy

import (
	"dirpx.dev/dcx/apis"
)

// classStrategy resolves references that already are classes.
type classStrategy struct{}

// NewClassStrategy returns a strategy that passes apis.Class references
// through unchanged.
func NewClassStrategy() apis.Strategy { return classStrategy{} }

func (classStrategy) TryResolve(ref apis.ClassRef, _ apis.GlobalConfig) (apis.Class, bool, error) {
	if c, ok := ref.(apis.Class); ok {
		return c, true, nil
	}
	return nil, false, nil
}

// pathStrategy resolves dotted string references through a loader.
type pathStrategy struct {
	loader apis.Loader
}

// NewPathStrategy returns a strategy that resolves string references as
// loader paths, prefixed with the configured base path when set.
func NewPathStrategy(ldr apis.Loader) apis.Strategy {
	return pathStrategy{loader: ldr}
}

func (s pathStrategy) TryResolve(ref apis.ClassRef, cfg apis.GlobalConfig) (apis.Class, bool, error) {
	path, ok := ref.(string)
	if !ok {
		return nil, false, nil
	}
	if cfg.BasePath != "" {
		path = cfg.BasePath + "." + path
	}
	c, err := s.loader.Load(path)
	if err != nil {
		return nil, true, err
	}
	return c, true, nil
}
