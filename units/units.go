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

// Package units normalizes dependency units into the canonical form the
// build pipeline iterates: switches expand into synthetic option keys,
// method-level configurations fold into the first unit, per-record
// settings merge with unit and global defaults, and entries take the
// configured evaluation order.
package units

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"dirpx.dev/dcx/apis"
)

// switchKeySeparator joins a switch's option name with a rendered case
// value to form the synthetic option key a matching case turns on.
const switchKeySeparator = "_#=_"

// switchDefaultSuffix marks a switch's default branch. Its separator
// differs from switchKeySeparator so no rendered case value can form
// the same key.
const switchDefaultSuffix = "_#!_default"

var (
	// ErrMissingDependencyKind is returned when a record selects neither
	// supertypes nor a component class.
	ErrMissingDependencyKind = errors.New("dcx(units): record configures neither inheritance nor a component")
	// ErrConflictingDependencyKind is returned when a record selects
	// both supertypes and a component class.
	ErrConflictingDependencyKind = errors.New("dcx(units): record configures both inheritance and a component")
	// ErrSwitchOnPredicate is returned when a switch is keyed by a
	// predicate instead of a plain option name.
	ErrSwitchOnPredicate = errors.New("dcx(units): switch keyed by a predicate")
	// ErrConflictingEntry is returned when an entry carries both plain
	// records and a switch.
	ErrConflictingEntry = errors.New("dcx(units): entry carries both records and a switch")
)

// Entry is a normalized dependency entry: one key and its records, with
// unit and global defaults already folded in.
type Entry struct {
	key     apis.DependencyKey
	records []apis.ClassConfig
}

// Key returns the entry's dependency key.
func (e *Entry) Key() apis.DependencyKey { return e.key }

// Records returns the entry's effective records.
func (e *Entry) Records() []apis.ClassConfig { return e.records }

// Unit is an ordered list of normalized entries.
type Unit struct {
	entries []*Entry
}

// Entries returns the unit's entries in evaluation order.
func (u *Unit) Entries() []*Entry { return u.entries }

// Manager holds the normalized configuration of one registered base.
type Manager struct {
	units          []*Unit
	switchCases    map[string][]string
	switchDefaults map[string]bool
}

// NewManager normalizes units and per-method configurations against the
// global configuration. Validation failures across records aggregate
// into a single error.
func NewManager(cfg apis.GlobalConfig, units []apis.Unit, methods []apis.MethodConfig) (*Manager, error) {
	m := &Manager{
		switchCases:    map[string][]string{},
		switchDefaults: map[string]bool{},
	}

	if len(units) == 0 {
		units = []apis.Unit{{}}
	}

	var errs error
	for _, u := range units {
		nu, err := m.normalizeUnit(cfg, u, "")
		errs = multierr.Append(errs, err)
		m.units = append(m.units, nu)
	}
	for _, mc := range methods {
		nu, err := m.normalizeUnit(cfg, mc.Unit, mc.Method)
		errs = multierr.Append(errs, err)
		m.mergeInto(m.units[0], nu)
	}
	if errs != nil {
		return nil, errs
	}

	for _, u := range m.units {
		orderEntries(u, cfg.OptionOrder)
	}
	return m, nil
}

// Units returns the normalized units.
func (m *Manager) Units() []*Unit { return m.units }

func (m *Manager) normalizeUnit(cfg apis.GlobalConfig, u apis.Unit, injectionMethod string) (*Unit, error) {
	var errs error
	nu := &Unit{}
	for _, e := range u.Entries {
		if e.Switch != nil {
			if len(e.Configs) > 0 {
				errs = multierr.Append(errs, fmt.Errorf("%w: key %q", ErrConflictingEntry, e.Key.Option))
				continue
			}
			if e.Key.When != nil {
				errs = multierr.Append(errs, fmt.Errorf("%w: key %q", ErrSwitchOnPredicate, e.Key.Option))
				continue
			}
			errs = multierr.Append(errs, m.expandSwitch(cfg, nu, u.Defaults, e, injectionMethod))
			continue
		}
		recs, err := m.normalizeRecords(cfg, u.Defaults, e.Key.Option, e.Configs, injectionMethod)
		errs = multierr.Append(errs, err)
		nu.entries = append(nu.entries, &Entry{key: e.Key, records: recs})
	}
	return nu, errs
}

func (m *Manager) expandSwitch(cfg apis.GlobalConfig, nu *Unit, defaults *apis.Defaults, e apis.UnitEntry, injectionMethod string) error {
	var errs error
	opt := e.Key.Option
	for _, c := range e.Switch.Cases {
		render := fmt.Sprint(c.Value)
		m.switchCases[opt] = append(m.switchCases[opt], render)
		key := opt + switchKeySeparator + render
		recs, err := m.normalizeRecords(cfg, defaults, key, c.Configs, injectionMethod)
		errs = multierr.Append(errs, err)
		nu.entries = append(nu.entries, &Entry{key: apis.DependencyKey{Option: key}, records: recs})
	}
	if len(e.Switch.Default) > 0 {
		m.switchDefaults[opt] = true
		key := opt + switchDefaultSuffix
		recs, err := m.normalizeRecords(cfg, defaults, key, e.Switch.Default, injectionMethod)
		errs = multierr.Append(errs, err)
		nu.entries = append(nu.entries, &Entry{key: apis.DependencyKey{Option: key}, records: recs})
	} else if _, ok := m.switchCases[opt]; !ok {
		m.switchCases[opt] = nil
	}
	return errs
}

func (m *Manager) normalizeRecords(cfg apis.GlobalConfig, defaults *apis.Defaults, key string, configs []apis.ClassConfig, injectionMethod string) ([]apis.ClassConfig, error) {
	var errs error
	out := make([]apis.ClassConfig, 0, len(configs))
	for _, rec := range configs {
		hasInherit := len(rec.InheritFrom) > 0
		hasComponent := rec.ComponentClass != nil
		switch {
		case hasInherit && hasComponent:
			errs = multierr.Append(errs, fmt.Errorf("%w: key %q", ErrConflictingDependencyKind, key))
			continue
		case !hasInherit && !hasComponent:
			errs = multierr.Append(errs, fmt.Errorf("%w: key %q", ErrMissingDependencyKind, key))
			continue
		}
		if hasComponent && injectionMethod != "" {
			rec.InjectionMethod = injectionMethod
		}
		rec.Defaults = mergeDefaults(rec.Defaults, defaults, cfg.Defaults)
		out = append(out, rec)
	}
	return out, errs
}

// mergeDefaults resolves each setting record-first, then unit, then
// global.
func mergeDefaults(rec apis.Defaults, unit *apis.Defaults, global apis.Defaults) apis.Defaults {
	var layers []apis.Defaults
	if unit != nil {
		layers = append(layers, *unit)
	}
	layers = append(layers, global)
	for _, layer := range layers {
		if rec.DefaultClass == nil {
			rec.DefaultClass = layer.DefaultClass
		}
		if rec.ComponentAttr == "" {
			rec.ComponentAttr = layer.ComponentAttr
		}
		if rec.InjectionMethod == "" {
			rec.InjectionMethod = layer.InjectionMethod
		}
		if rec.AddAfterMethod == nil {
			rec.AddAfterMethod = layer.AddAfterMethod
		}
		if rec.StructuredType == nil {
			rec.StructuredType = layer.StructuredType
		}
		if rec.StructuredKey == "" {
			rec.StructuredKey = layer.StructuredKey
		}
		if rec.ArgsFromSelf == nil {
			rec.ArgsFromSelf = layer.ArgsFromSelf
		}
		if rec.KwargsFromSelf == nil {
			rec.KwargsFromSelf = layer.KwargsFromSelf
		}
		if rec.ArgsKeepFirst == nil {
			rec.ArgsKeepFirst = layer.ArgsKeepFirst
		}
		if rec.ArgFromOption == nil {
			rec.ArgFromOption = layer.ArgFromOption
		}
		if rec.StrictArgs == nil {
			rec.StrictArgs = layer.StrictArgs
		}
	}
	return rec
}

// mergeInto folds src's entries into dst, joining entries that share a
// key.
func (m *Manager) mergeInto(dst, src *Unit) {
	for _, se := range src.entries {
		merged := false
		for _, de := range dst.entries {
			if de.key.Option == se.key.Option && de.key.When == se.key.When {
				de.records = append(de.records, se.records...)
				merged = true
				break
			}
		}
		if !merged {
			dst.entries = append(dst.entries, se)
		}
	}
}

// orderEntries sorts entries so that keys named in order come first, in
// that order; unnamed keys keep their relative position after them.
// Synthetic switch keys sort by their base option name.
func orderEntries(u *Unit, order []string) {
	if len(order) == 0 {
		return
	}
	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}
	pos := func(e *Entry) int {
		opt := e.key.Option
		if i := strings.Index(opt, switchKeySeparator); i >= 0 {
			opt = opt[:i]
		} else if i := strings.Index(opt, switchDefaultSuffix); i >= 0 {
			opt = opt[:i]
		}
		if r, ok := rank[opt]; ok {
			return r
		}
		return len(order)
	}
	sort.SliceStable(u.entries, func(i, j int) bool {
		return pos(u.entries[i]) < pos(u.entries[j])
	})
}

// TransformOptions rewrites switch-bearing options into the synthetic
// keys the normalized entries test. A switch value matching a declared
// case turns its synthetic key on; any other value, or an absent one,
// turns the default key on when a default exists. The transform is
// idempotent, so already-transformed option sets pass through intact.
func (m *Manager) TransformOptions(opts apis.Options) apis.Options {
	out := make(apis.Options, len(opts))
	for k, v := range opts {
		out[k] = v
	}
	for opt, renders := range m.switchCases {
		if m.caseKeyPresent(out, opt, renders) {
			continue
		}
		defaultKey := opt + switchDefaultSuffix
		v, present := out[opt]
		if !present {
			if m.switchDefaults[opt] {
				out[defaultKey] = true
			}
			continue
		}
		delete(out, opt)
		render := fmt.Sprint(v)
		matched := false
		for _, r := range renders {
			if r == render {
				out[opt+switchKeySeparator+render] = true
				matched = true
				break
			}
		}
		if !matched && m.switchDefaults[opt] {
			out[defaultKey] = true
		}
	}
	return out
}

func (m *Manager) caseKeyPresent(opts apis.Options, opt string, renders []string) bool {
	if _, ok := opts[opt+switchDefaultSuffix]; ok {
		return true
	}
	for _, r := range renders {
		if _, ok := opts[opt+switchKeySeparator+r]; ok {
			return true
		}
	}
	return false
}
