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

package classdef

import (
	"errors"
	"testing"

	"dirpx.dev/dcx/apis"
)

func method(fn apis.Func) apis.Method {
	return apis.Method{Fn: fn}
}

func TestNewClassFillsMethodNames(t *testing.T) {
	c := NewClass("A", nil, map[string]any{
		"greet": method(func(self apis.Instance, args []any, kwargs map[string]any) (any, error) {
			return "hi", nil
		}),
	})
	m, ok := c.Method("greet")
	if !ok {
		t.Fatal("method not found")
	}
	if m.Name != "greet" {
		t.Errorf("Name = %q, want %q", m.Name, "greet")
	}
}

func TestLookupMethodPrecedence(t *testing.T) {
	gp := NewClass("GP", nil, map[string]any{
		"who": method(func(apis.Instance, []any, map[string]any) (any, error) { return "GP", nil }),
	})
	left := NewClass("Left", []apis.Class{gp}, map[string]any{
		"who": method(func(apis.Instance, []any, map[string]any) (any, error) { return "Left", nil }),
	})
	right := NewClass("Right", []apis.Class{gp}, map[string]any{
		"who":  method(func(apis.Instance, []any, map[string]any) (any, error) { return "Right", nil }),
		"only": method(func(apis.Instance, []any, map[string]any) (any, error) { return "only", nil }),
	})
	c := NewClass("C", []apis.Class{left, right}, nil)

	obj, err := c.New(nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := obj.Call("who", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Left" {
		t.Errorf("who = %v, want Left (first parent wins)", got)
	}

	got, err = obj.Call("only", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "only" {
		t.Errorf("only = %v", got)
	}
}

func TestAttributeLookupSkipsMethods(t *testing.T) {
	parent := NewClass("P", nil, map[string]any{"limit": 10})
	c := NewClass("C", []apis.Class{parent}, map[string]any{
		"limit": method(func(apis.Instance, []any, map[string]any) (any, error) { return nil, nil }),
	})
	v, ok := c.Attribute("limit")
	if !ok || v != 10 {
		t.Errorf("Attribute(limit) = %v, %v; want 10, true", v, ok)
	}
}

func TestNewRunsConstructor(t *testing.T) {
	c := NewClass("C", nil, map[string]any{
		apis.ConstructorName: method(func(self apis.Instance, args []any, kwargs map[string]any) (any, error) {
			self.Set("ready", true)
			return nil, nil
		}),
	})
	obj, err := c.New(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := obj.Get("ready")
	if !ok || v != true {
		t.Error("constructor did not run")
	}
}

func TestNewConstructorError(t *testing.T) {
	boom := errors.New("boom")
	c := NewClass("C", nil, map[string]any{
		apis.ConstructorName: method(func(apis.Instance, []any, map[string]any) (any, error) {
			return nil, boom
		}),
	})
	if _, err := c.New(nil, nil); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestInstanceGetFallsBackToClassAttribute(t *testing.T) {
	c := NewClass("C", nil, map[string]any{"threshold": 5})
	obj, err := c.New(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := obj.Get("threshold")
	if !ok || v != 5 {
		t.Errorf("Get(threshold) = %v, %v", v, ok)
	}
	obj.Set("threshold", 9)
	v, _ = obj.Get("threshold")
	if v != 9 {
		t.Errorf("instance attribute should shadow class attribute, got %v", v)
	}
}

func TestCallUnknownMethod(t *testing.T) {
	c := NewClass("C", nil, nil)
	obj, _ := c.New(nil, nil)
	_, err := obj.Call("missing", nil, nil)
	var nf *MethodNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected MethodNotFoundError, got %v", err)
	}
	if nf.Method != "missing" {
		t.Errorf("Method = %q", nf.Method)
	}
}

func TestSuperSkipsOwner(t *testing.T) {
	base := NewClass("Base", nil, map[string]any{
		"emit": method(func(apis.Instance, []any, map[string]any) (any, error) { return "base", nil }),
	})
	var derived *Class
	derived = NewClass("Derived", []apis.Class{base}, map[string]any{
		"emit": method(func(self apis.Instance, args []any, kwargs map[string]any) (any, error) {
			inner, err := self.Super(derived, "emit", args, kwargs)
			if err != nil {
				return nil, err
			}
			return "derived+" + inner.(string), nil
		}),
	})

	obj, _ := derived.New(nil, nil)
	got, err := obj.Call("emit", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "derived+base" {
		t.Errorf("emit = %v", got)
	}
}

func TestInstantiate(t *testing.T) {
	base := NewClass("Base", nil, nil)
	c := Instantiator{}.Instantiate("Composed", []apis.Class{base}, map[string]any{"k": 1})
	if c.Name() != "Composed" {
		t.Errorf("Name = %q", c.Name())
	}
	if len(c.Parents()) != 1 {
		t.Errorf("Parents = %v", c.Parents())
	}
	if v, _ := c.Attribute("k"); v != 1 {
		t.Errorf("Attribute(k) = %v", v)
	}
}
