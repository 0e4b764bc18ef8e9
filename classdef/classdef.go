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

// Package classdef implements the value-level class model behind
// apis.Class and apis.Instance. Classes are immutable descriptors built
// from a name, an ordered parent list, and a member map; method lookup
// walks a depth-first, first-occurrence-wins linearization of the
// inheritance graph.
package classdef

import (
	"fmt"
	"sync"

	"dirpx.dev/dcx/apis"
)

// MethodNotFoundError is returned when an instance is called through a
// method name that no class in the chain defines.
type MethodNotFoundError struct {
	Class  string
	Method string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("dcx(classdef): class %q has no method %q", e.Class, e.Method)
}

// Class is an immutable class descriptor.
type Class struct {
	name    string
	parents []apis.Class
	members map[string]any

	linOnce sync.Once
	lin     []apis.Class
}

var _ apis.Class = (*Class)(nil)

// NewClass builds a class from name, ordered supertypes, and members.
// Member values of type apis.Method have their Name filled from the map
// key when unset; all other values are plain class attributes.
func NewClass(name string, parents []apis.Class, members map[string]any) *Class {
	normalized := make(map[string]any, len(members))
	for k, v := range members {
		if m, ok := v.(apis.Method); ok && m.Name == "" {
			m.Name = k
			normalized[k] = m
			continue
		}
		normalized[k] = v
	}
	return &Class{
		name:    name,
		parents: append([]apis.Class(nil), parents...),
		members: normalized,
	}
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Parents returns the ordered direct supertypes.
func (c *Class) Parents() []apis.Class {
	return append([]apis.Class(nil), c.parents...)
}

// Members returns a copy of the class's own member map.
func (c *Class) Members() map[string]any {
	out := make(map[string]any, len(c.members))
	for k, v := range c.members {
		out[k] = v
	}
	return out
}

// Method returns the method defined directly on this class, without
// consulting supertypes.
func (c *Class) Method(name string) (apis.Method, bool) {
	m, ok := c.members[name].(apis.Method)
	return m, ok
}

// LookupMethod returns the first method named name along the class
// linearization.
func (c *Class) LookupMethod(name string) (apis.Method, bool) {
	for _, cls := range c.linearization() {
		if m, ok := cls.Method(name); ok {
			return m, true
		}
	}
	return apis.Method{}, false
}

// Attribute returns the first non-method member named name along the
// class linearization.
func (c *Class) Attribute(name string) (any, bool) {
	for _, cls := range c.linearization() {
		v, ok := cls.Members()[name]
		if !ok {
			continue
		}
		if _, isMethod := v.(apis.Method); isMethod {
			continue
		}
		return v, true
	}
	return nil, false
}

// New instantiates the class and runs its constructor, when one is
// defined anywhere along the chain.
func (c *Class) New(args []any, kwargs map[string]any) (apis.Instance, error) {
	obj := &Object{class: c, attrs: map[string]any{}}
	ctor, ok := c.LookupMethod(apis.ConstructorName)
	if !ok {
		return obj, nil
	}
	if _, err := ctor.Fn(obj, args, kwargs); err != nil {
		return nil, err
	}
	return obj, nil
}

// linearization flattens the inheritance graph depth-first, keeping the
// first occurrence of each class.
func (c *Class) linearization() []apis.Class {
	c.linOnce.Do(func() {
		seen := map[apis.Class]bool{}
		var walk func(cls apis.Class)
		walk = func(cls apis.Class) {
			if seen[cls] {
				return
			}
			seen[cls] = true
			c.lin = append(c.lin, cls)
			for _, p := range cls.Parents() {
				walk(p)
			}
		}
		walk(c)
	})
	return c.lin
}

// Object is a mutable instance of a Class.
type Object struct {
	mu    sync.RWMutex
	class apis.Class
	attrs map[string]any
}

var _ apis.Instance = (*Object)(nil)

// Class returns the instance's class.
func (o *Object) Class() apis.Class { return o.class }

// Get reads an instance attribute, falling back to class attributes.
func (o *Object) Get(name string) (any, bool) {
	o.mu.RLock()
	v, ok := o.attrs[name]
	o.mu.RUnlock()
	if ok {
		return v, true
	}
	return o.class.Attribute(name)
}

// Set writes an instance attribute.
func (o *Object) Set(name string, v any) {
	o.mu.Lock()
	o.attrs[name] = v
	o.mu.Unlock()
}

// Call dispatches method on the instance's class chain.
func (o *Object) Call(method string, args []any, kwargs map[string]any) (any, error) {
	m, ok := o.class.LookupMethod(method)
	if !ok {
		return nil, &MethodNotFoundError{Class: o.class.Name(), Method: method}
	}
	return m.Fn(o, args, kwargs)
}

// Super invokes the next definition of method after owner in the class
// linearization, mirroring cooperative supercalls.
func (o *Object) Super(owner apis.Class, method string, args []any, kwargs map[string]any) (any, error) {
	lin := linearizationOf(o.class)
	start := 0
	for i, cls := range lin {
		if cls == owner {
			start = i + 1
			break
		}
	}
	for _, cls := range lin[start:] {
		if m, ok := cls.Method(method); ok {
			return m.Fn(o, args, kwargs)
		}
	}
	return nil, &MethodNotFoundError{Class: o.class.Name(), Method: method}
}

func linearizationOf(c apis.Class) []apis.Class {
	if cc, ok := c.(*Class); ok {
		return cc.linearization()
	}
	// Foreign class implementations get a one-shot walk.
	var lin []apis.Class
	seen := map[apis.Class]bool{}
	var walk func(cls apis.Class)
	walk = func(cls apis.Class) {
		if seen[cls] {
			return
		}
		seen[cls] = true
		lin = append(lin, cls)
		for _, p := range cls.Parents() {
			walk(p)
		}
	}
	walk(c)
	return lin
}

// Instantiator builds classes for the orchestrator.
type Instantiator struct{}

var _ apis.Instantiator = Instantiator{}

// Instantiate assembles a composed class.
func (Instantiator) Instantiate(name string, supertypes []apis.Class, members map[string]any) apis.Class {
	return NewClass(name, supertypes, members)
}
