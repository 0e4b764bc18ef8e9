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

package config

import (
	"go.uber.org/zap"

	"dirpx.dev/dcx/apis"
)

const (
	// DefaultBuildRecursively represents the default for BuildRecursively.
	// Selected dependencies that are themselves registered are built with
	// the same option set before inclusion.
	DefaultBuildRecursively = true
	// DefaultStrictArgs represents the default for Defaults.StrictArgs.
	// Missing required constructor arguments fail the build.
	DefaultStrictArgs = true
	// DefaultAddAfterMethod represents the default for
	// Defaults.AddAfterMethod. Fragments inject before the method body.
	DefaultAddAfterMethod = false
)

// NewConfig constructs an apis.GlobalConfig from the given options.
func NewConfig(opts ...Option) apis.GlobalConfig {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.GlobalConfig {
	strict := DefaultStrictArgs
	after := DefaultAddAfterMethod
	return apis.GlobalConfig{
		Defaults: apis.Defaults{
			InjectionMethod: apis.ConstructorName,
			StrictArgs:      &strict,
			AddAfterMethod:  &after,
		},
		BuildRecursively: DefaultBuildRecursively,
		Logger:           zap.NewNop(),
	}
}

// Option is a functional option that mutates an apis.GlobalConfig during
// construction.
type Option func(*apis.GlobalConfig)

// WithBuildRecursively sets the BuildRecursively option.
func WithBuildRecursively(recursive bool) Option {
	return func(c *apis.GlobalConfig) {
		c.BuildRecursively = recursive
	}
}

// WithBasePath sets the dotted prefix prepended to path references.
func WithBasePath(base string) Option {
	return func(c *apis.GlobalConfig) {
		c.BasePath = base
	}
}

// WithOptionOrder fixes the evaluation order of dependency keys.
func WithOptionOrder(order ...string) Option {
	return func(c *apis.GlobalConfig) {
		c.OptionOrder = order
	}
}

// WithForceAdd adds every dependency regardless of the build options.
func WithForceAdd(force bool) Option {
	return func(c *apis.GlobalConfig) {
		c.ForceAdd = force
	}
}

// WithLogger sets the logger receiving debug-level build tracing.
// A nil logger resets to the no-op default.
func WithLogger(log *zap.Logger) Option {
	return func(c *apis.GlobalConfig) {
		if log == nil {
			log = zap.NewNop()
		}
		c.Logger = log
	}
}

// WithDefaultClass sets the global fallback class for unselected keys.
func WithDefaultClass(ref apis.ClassRef) Option {
	return func(c *apis.GlobalConfig) {
		c.Defaults.DefaultClass = ref
	}
}

// WithComponentAttr sets the global default attribute name for fragments.
func WithComponentAttr(attr string) Option {
	return func(c *apis.GlobalConfig) {
		c.Defaults.ComponentAttr = attr
	}
}

// WithInjectionMethod sets the global default injection method.
// An empty name resets to the constructor.
func WithInjectionMethod(method string) Option {
	return func(c *apis.GlobalConfig) {
		if method == "" {
			method = apis.ConstructorName
		}
		c.Defaults.InjectionMethod = method
	}
}

// WithAddAfterMethod sets the global default injection position.
func WithAddAfterMethod(after bool) Option {
	return func(c *apis.GlobalConfig) {
		c.Defaults.AddAfterMethod = &after
	}
}

// WithStructuredType sets the global default structured container factory.
func WithStructuredType(factory func() any) Option {
	return func(c *apis.GlobalConfig) {
		c.Defaults.StructuredType = factory
	}
}

// WithStructuredKey sets the global default structured container key.
func WithStructuredKey(key string) Option {
	return func(c *apis.GlobalConfig) {
		c.Defaults.StructuredKey = key
	}
}

// WithStrictArgs sets the global default argument strictness.
func WithStrictArgs(strict bool) Option {
	return func(c *apis.GlobalConfig) {
		c.Defaults.StrictArgs = &strict
	}
}
