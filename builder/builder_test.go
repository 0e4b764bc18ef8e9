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

package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/dcx/apis"
	"dirpx.dev/dcx/classdef"
	"dirpx.dev/dcx/config"
	"dirpx.dev/dcx/units"
)

type harness struct {
	bld apis.Builder
	cfg apis.GlobalConfig
	reg apis.Registry
	ldr apis.Loader
	res apis.Resolver
}

func newHarness(t *testing.T, opts ...config.Option) *harness {
	t.Helper()
	bld := New()
	cfg := config.NewConfig(opts...)
	ldr := bld.BuildLoader(cfg, nil)
	return &harness{
		bld: bld,
		cfg: cfg,
		reg: bld.BuildRegistry(cfg, nil),
		ldr: ldr,
		res: bld.BuildResolver(cfg, ldr, nil),
	}
}

func (h *harness) register(t *testing.T, base apis.Class, spec apis.BuildSpec) apis.Orchestrator {
	t.Helper()
	orch, err := h.bld.BuildOrchestrator(base, spec, h.cfg, h.reg, h.res)
	require.NoError(t, err)
	require.NoError(t, h.reg.Bind(base, orch))
	return orch
}

func namedMethod(result string) apis.Method {
	return apis.Method{
		Fn: func(apis.Instance, []any, map[string]any) (any, error) {
			return result, nil
		},
	}
}

func specOf(u *apis.Unit) apis.BuildSpec {
	return apis.BuildSpec{Units: []apis.Unit{*u}}
}

func TestBuildOrchestratorValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.bld.BuildOrchestrator(nil, apis.BuildSpec{}, h.cfg, h.reg, h.res)
	assert.ErrorIs(t, err, ErrNilBase)

	base := classdef.NewClass("Base", nil, nil)
	bad := apis.NewUnit().On("x", apis.ClassConfig{})
	_, err = h.bld.BuildOrchestrator(base, specOf(bad), h.cfg, h.reg, h.res)
	assert.ErrorIs(t, err, units.ErrMissingDependencyKind)
}

func TestBuildWithNoSelectionsMatchesBase(t *testing.T) {
	h := newHarness(t)
	base := classdef.NewClass("Base", nil, map[string]any{
		"who": namedMethod("base"),
	})
	extra := classdef.NewClass("Extra", nil, map[string]any{
		"who": namedMethod("extra"),
	})
	orch := h.register(t, base, specOf(apis.NewUnit().On("extra", apis.ClassConfig{
		InheritFrom: []apis.ClassRef{extra},
	})))

	built, err := orch.Build(apis.Options{})
	require.NoError(t, err)

	obj, err := built.New(nil, nil)
	require.NoError(t, err)
	got, err := obj.Call("who", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "base", got)
}

func TestInheritanceSelectionAndPrecedence(t *testing.T) {
	h := newHarness(t)
	base := classdef.NewClass("Base", nil, nil)
	first := classdef.NewClass("First", nil, map[string]any{
		"who": namedMethod("first"), "only_first": namedMethod("only_first"),
	})
	second := classdef.NewClass("Second", nil, map[string]any{
		"who": namedMethod("second"),
	})
	orch := h.register(t, base, specOf(apis.NewUnit().
		On("use_first", apis.ClassConfig{InheritFrom: []apis.ClassRef{first}}).
		On("use_second", apis.ClassConfig{InheritFrom: []apis.ClassRef{second}})))

	built, err := orch.Build(apis.Options{"use_first": true, "use_second": true})
	require.NoError(t, err)

	obj, err := built.New(nil, nil)
	require.NoError(t, err)

	got, err := obj.Call("who", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "second", got, "later-selected supertype wins on conflicts")

	got, err = obj.Call("only_first", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "only_first", got, "earlier selection still contributes unique members")
}

func TestConstructorStaysBaseFirst(t *testing.T) {
	h := newHarness(t)
	base := classdef.NewClass("Base", nil, map[string]any{
		apis.ConstructorName: apis.Method{
			Fn: func(self apis.Instance, args []any, kwargs map[string]any) (any, error) {
				self.Set("ctor", "base")
				return nil, nil
			},
		},
	})
	intruder := classdef.NewClass("Intruder", nil, map[string]any{
		apis.ConstructorName: apis.Method{
			Fn: func(self apis.Instance, args []any, kwargs map[string]any) (any, error) {
				self.Set("ctor", "intruder")
				return nil, nil
			},
		},
	})
	orch := h.register(t, base, specOf(apis.NewUnit().On("x", apis.ClassConfig{
		InheritFrom: []apis.ClassRef{intruder},
	})))

	built, err := orch.Build(apis.Options{"x": true})
	require.NoError(t, err)
	obj, err := built.New(nil, nil)
	require.NoError(t, err)

	v, _ := obj.Get("ctor")
	assert.Equal(t, "base", v, "the base constructor must keep precedence")
}

func TestDefaultClassWhenUnselected(t *testing.T) {
	h := newHarness(t)
	base := classdef.NewClass("Base", nil, nil)
	primary := classdef.NewClass("Primary", nil, map[string]any{"who": namedMethod("primary")})
	fallback := classdef.NewClass("Fallback", nil, map[string]any{"who": namedMethod("fallback")})

	orch := h.register(t, base, specOf(apis.NewUnit().On("x", apis.ClassConfig{
		Defaults:    apis.Defaults{DefaultClass: fallback},
		InheritFrom: []apis.ClassRef{primary},
	})))

	built, err := orch.Build(apis.Options{})
	require.NoError(t, err)
	obj, _ := built.New(nil, nil)
	got, err := obj.Call("who", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)

	built, err = orch.Build(apis.Options{"x": true})
	require.NoError(t, err)
	obj, _ = built.New(nil, nil)
	got, err = obj.Call("who", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "primary", got)
}

func TestForceAddSelectsEverything(t *testing.T) {
	h := newHarness(t, config.WithForceAdd(true))
	base := classdef.NewClass("Base", nil, nil)
	extra := classdef.NewClass("Extra", nil, map[string]any{"who": namedMethod("extra")})

	orch := h.register(t, base, specOf(apis.NewUnit().On("x", apis.ClassConfig{
		InheritFrom: []apis.ClassRef{extra},
	})))

	built, err := orch.Build(apis.Options{})
	require.NoError(t, err)
	obj, _ := built.New(nil, nil)
	got, err := obj.Call("who", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "extra", got)
}

func TestPredicateKeyWithAttributeFallback(t *testing.T) {
	h := newHarness(t)
	base := classdef.NewClass("Base", nil, map[string]any{"threshold": 10})
	extra := classdef.NewClass("Extra", nil, map[string]any{"who": namedMethod("extra")})

	u := apis.NewUnit().OnCond(
		[]string{"level", "threshold"},
		func(vs ...any) any {
			level, _ := vs[0].(int)
			threshold, _ := vs[1].(int)
			return level > threshold
		},
		apis.ClassConfig{InheritFrom: []apis.ClassRef{extra}},
	)
	orch := h.register(t, base, specOf(u))

	built, err := orch.Build(apis.Options{"level": 20})
	require.NoError(t, err)
	obj, _ := built.New(nil, nil)
	if _, err := obj.Call("who", nil, nil); err != nil {
		t.Errorf("predicate over option and class attribute should select: %v", err)
	}

	built, err = orch.Build(apis.Options{"level": 5})
	require.NoError(t, err)
	obj, _ = built.New(nil, nil)
	if _, err := obj.Call("who", nil, nil); err == nil {
		t.Error("below-threshold level must not select")
	}
}

func TestRecursiveBuild(t *testing.T) {
	h := newHarness(t)

	inner := classdef.NewClass("Inner", nil, nil)
	innerExtra := classdef.NewClass("InnerExtra", nil, map[string]any{"who": namedMethod("inner_extra")})
	h.register(t, inner, specOf(apis.NewUnit().On("opt", apis.ClassConfig{
		InheritFrom: []apis.ClassRef{innerExtra},
	})))

	outer := classdef.NewClass("Outer", nil, nil)
	orch := h.register(t, outer, specOf(apis.NewUnit().On("opt", apis.ClassConfig{
		InheritFrom: []apis.ClassRef{inner},
	})))

	built, err := orch.Build(apis.Options{"opt": true})
	require.NoError(t, err)
	obj, _ := built.New(nil, nil)
	got, err := obj.Call("who", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "inner_extra", got, "nested registered class must be composed with the same options")
}

func TestRecursionDisabled(t *testing.T) {
	h := newHarness(t, config.WithBuildRecursively(false))

	inner := classdef.NewClass("Inner", nil, nil)
	innerExtra := classdef.NewClass("InnerExtra", nil, map[string]any{"who": namedMethod("inner_extra")})
	h.register(t, inner, specOf(apis.NewUnit().On("opt", apis.ClassConfig{
		InheritFrom: []apis.ClassRef{innerExtra},
	})))

	outer := classdef.NewClass("Outer", nil, nil)
	orch := h.register(t, outer, specOf(apis.NewUnit().On("opt", apis.ClassConfig{
		InheritFrom: []apis.ClassRef{inner},
	})))

	built, err := orch.Build(apis.Options{"opt": true})
	require.NoError(t, err)
	obj, _ := built.New(nil, nil)
	if _, err := obj.Call("who", nil, nil); err == nil {
		t.Error("with recursion disabled the raw inner class must be used")
	}
}

func TestBuildRecordsComposite(t *testing.T) {
	h := newHarness(t)
	base := classdef.NewClass("Base", nil, nil)
	orch := h.register(t, base, apis.BuildSpec{})

	built, err := orch.Build(apis.Options{"x": 1})
	require.NoError(t, err)

	rec, ok := h.reg.Built(built)
	require.True(t, ok, "Build must record the composite")
	assert.Equal(t, apis.Class(base), rec.Base)
	assert.Equal(t, 1, rec.Options["x"])
	assert.NotNil(t, rec.Injector)
	assert.False(t, h.reg.Buildable(built), "a composite must not be buildable")

	configured, err := orch.Configure(apis.Options{})
	require.NoError(t, err)
	_, ok = h.reg.Built(configured)
	assert.False(t, ok, "Configure must not record")
}

func TestRegistryAndLoaderMigration(t *testing.T) {
	h := newHarness(t)
	base := classdef.NewClass("Base", nil, nil)
	orch := h.register(t, base, apis.BuildSpec{})
	require.NoError(t, h.ldr.Register("pkg.Base", base))

	reg2 := h.bld.BuildRegistry(h.cfg, h.reg)
	got, ok := reg2.Orchestrator(base)
	require.True(t, ok)
	assert.Equal(t, apis.Orchestrator(orch), got)

	ldr2 := h.bld.BuildLoader(h.cfg, h.ldr)
	cls, err := ldr2.Load("pkg.Base")
	require.NoError(t, err)
	assert.Equal(t, apis.Class(base), cls)
}

func TestPathReferencesResolveThroughLoader(t *testing.T) {
	h := newHarness(t, config.WithBasePath("pkg"))
	extra := classdef.NewClass("Extra", nil, map[string]any{"who": namedMethod("extra")})
	require.NoError(t, h.ldr.Register("pkg.Extra", extra))

	base := classdef.NewClass("Base", nil, nil)
	orch := h.register(t, base, specOf(apis.NewUnit().On("x", apis.ClassConfig{
		InheritFrom: []apis.ClassRef{"Extra"},
	})))

	built, err := orch.Build(apis.Options{"x": true})
	require.NoError(t, err)
	obj, _ := built.New(nil, nil)
	got, err := obj.Call("who", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "extra", got)
}
