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

// Package fileconf reads configuration units from TOML documents. Class
// references in files are always dotted path strings resolved through
// the loader at build time.
//
// Document shape:
//
//	[global]
//	base_path = "storage"
//	option_order = ["with_cache", "backend"]
//
//	[[dependency]]
//	option = "with_cache"
//	component_class = "cache.Memory"
//	component_attr = "cache"
//
//	[[dependency]]
//	option = "backend"
//	[[dependency.case]]
//	value = "postgres"
//	inherit_from = ["backend.Postgres"]
//	[[dependency.case]]
//	default = true
//	inherit_from = ["backend.Sqlite"]
package fileconf

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"dirpx.dev/dcx/apis"
	"dirpx.dev/dcx/config"
)

var (
	// ErrInvalidDocument is returned when a document cannot be decoded.
	ErrInvalidDocument = errors.New("dcx(fileconf): invalid document")
	// ErrUnknownStructuredType is returned for a structured_type other
	// than "list" or "map".
	ErrUnknownStructuredType = errors.New("dcx(fileconf): unknown structured type")
	// ErrMissingOption is returned when a dependency names no option.
	ErrMissingOption = errors.New("dcx(fileconf): dependency without option")
)

type document struct {
	Global       globalSection `toml:"global"`
	Dependencies []dependency  `toml:"dependency"`
}

type globalSection struct {
	BasePath         string   `toml:"base_path"`
	BuildRecursively *bool    `toml:"build_recursively"`
	OptionOrder      []string `toml:"option_order"`
	ForceAdd         *bool    `toml:"force_add"`
	DefaultClass     string   `toml:"default_class"`
	ComponentAttr    string   `toml:"component_attr"`
	InjectionMethod  string   `toml:"injection_method"`
	AddAfterMethod   *bool    `toml:"add_after_method"`
	StructuredType   string   `toml:"structured_type"`
	StructuredKey    string   `toml:"structured_key"`
	StrictArgs       *bool    `toml:"strict_args"`
}

type record struct {
	InheritFrom     []string          `toml:"inherit_from"`
	ComponentClass  string            `toml:"component_class"`
	DefaultClass    string            `toml:"default_class"`
	ComponentAttr   string            `toml:"component_attr"`
	InjectionMethod string            `toml:"injection_method"`
	AddAfterMethod  *bool             `toml:"add_after_method"`
	StructuredType  string            `toml:"structured_type"`
	StructuredKey   string            `toml:"structured_key"`
	ArgsFromSelf    []string          `toml:"args_from_self"`
	KwargsFromSelf  map[string]string `toml:"kwargs_from_self"`
	ArgsKeepFirst   *int              `toml:"args_keep_first"`
	ArgFromOption   *bool             `toml:"arg_from_option"`
	StrictArgs      *bool             `toml:"strict_args"`
}

type dependency struct {
	record
	Option string       `toml:"option"`
	Cases  []switchCase `toml:"case"`
}

type switchCase struct {
	record
	Value   any  `toml:"value"`
	Default bool `toml:"default"`
}

// Parse decodes a TOML document into a configuration unit and the
// global options it declares.
func Parse(data []byte) (apis.Unit, []config.Option, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return apis.Unit{}, nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	unit := apis.Unit{}
	for _, dep := range doc.Dependencies {
		if dep.Option == "" {
			return apis.Unit{}, nil, ErrMissingOption
		}
		entry := apis.UnitEntry{Key: apis.Key(dep.Option)}
		if len(dep.Cases) > 0 {
			sw := &apis.Switch{}
			for _, c := range dep.Cases {
				cfg, err := c.record.toClassConfig()
				if err != nil {
					return apis.Unit{}, nil, err
				}
				if c.Default {
					sw.Default = append(sw.Default, cfg)
					continue
				}
				sw.Cases = append(sw.Cases, apis.SwitchCase{Value: c.Value, Configs: []apis.ClassConfig{cfg}})
			}
			entry.Switch = sw
		} else {
			cfg, err := dep.record.toClassConfig()
			if err != nil {
				return apis.Unit{}, nil, err
			}
			entry.Configs = []apis.ClassConfig{cfg}
		}
		unit.Entries = append(unit.Entries, entry)
	}

	opts, err := doc.Global.toOptions()
	if err != nil {
		return apis.Unit{}, nil, err
	}
	return unit, opts, nil
}

// Load reads and parses a TOML document from disk.
func Load(path string) (apis.Unit, []config.Option, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return apis.Unit{}, nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return Parse(data)
}

func (r record) toClassConfig() (apis.ClassConfig, error) {
	structured, err := structuredFactory(r.StructuredType)
	if err != nil {
		return apis.ClassConfig{}, err
	}
	cfg := apis.ClassConfig{
		Defaults: apis.Defaults{
			ComponentAttr:   r.ComponentAttr,
			InjectionMethod: r.InjectionMethod,
			AddAfterMethod:  r.AddAfterMethod,
			StructuredType:  structured,
			StructuredKey:   r.StructuredKey,
			ArgsFromSelf:    r.ArgsFromSelf,
			KwargsFromSelf:  r.KwargsFromSelf,
			ArgsKeepFirst:   r.ArgsKeepFirst,
			ArgFromOption:   r.ArgFromOption,
			StrictArgs:      r.StrictArgs,
		},
	}
	if r.DefaultClass != "" {
		cfg.DefaultClass = r.DefaultClass
	}
	for _, ref := range r.InheritFrom {
		cfg.InheritFrom = append(cfg.InheritFrom, ref)
	}
	if r.ComponentClass != "" {
		cfg.ComponentClass = r.ComponentClass
	}
	return cfg, nil
}

func (g globalSection) toOptions() ([]config.Option, error) {
	var opts []config.Option
	if g.BasePath != "" {
		opts = append(opts, config.WithBasePath(g.BasePath))
	}
	if g.BuildRecursively != nil {
		opts = append(opts, config.WithBuildRecursively(*g.BuildRecursively))
	}
	if len(g.OptionOrder) > 0 {
		opts = append(opts, config.WithOptionOrder(g.OptionOrder...))
	}
	if g.ForceAdd != nil {
		opts = append(opts, config.WithForceAdd(*g.ForceAdd))
	}
	if g.DefaultClass != "" {
		opts = append(opts, config.WithDefaultClass(g.DefaultClass))
	}
	if g.ComponentAttr != "" {
		opts = append(opts, config.WithComponentAttr(g.ComponentAttr))
	}
	if g.InjectionMethod != "" {
		opts = append(opts, config.WithInjectionMethod(g.InjectionMethod))
	}
	if g.AddAfterMethod != nil {
		opts = append(opts, config.WithAddAfterMethod(*g.AddAfterMethod))
	}
	if g.StructuredType != "" {
		factory, err := structuredFactory(g.StructuredType)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithStructuredType(factory))
	}
	if g.StructuredKey != "" {
		opts = append(opts, config.WithStructuredKey(g.StructuredKey))
	}
	if g.StrictArgs != nil {
		opts = append(opts, config.WithStrictArgs(*g.StrictArgs))
	}
	return opts, nil
}

func structuredFactory(name string) (func() any, error) {
	switch name {
	case "":
		return nil, nil
	case "list":
		return func() any { s := []any{}; return &s }, nil
	case "map":
		return func() any { return map[string]any{} }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStructuredType, name)
	}
}
