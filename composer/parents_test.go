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

package composer

import (
	"errors"
	"testing"

	"dirpx.dev/dcx/apis"
	"dirpx.dev/dcx/classdef"
)

// passthrough resolves live classes only.
func passthrough(ref apis.ClassRef) (apis.Class, error) {
	if c, ok := ref.(apis.Class); ok {
		return c, nil
	}
	return nil, errors.New("unresolvable reference")
}

func TestParentComposerSeedsBaseAndStatics(t *testing.T) {
	static := classdef.NewClass("Static", nil, nil)
	base := classdef.NewClass("Base", []apis.Class{static}, nil)

	pc := NewParentComposer(base, passthrough)
	got, err := pc.Configure()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != apis.Class(base) || got[1] != apis.Class(static) {
		t.Errorf("got %v", got)
	}
}

func TestParentComposerSelectionOrder(t *testing.T) {
	base := classdef.NewClass("Base", nil, nil)
	a := classdef.NewClass("A", nil, nil)
	b := classdef.NewClass("B", nil, nil)

	pc := NewParentComposer(base, passthrough)
	pc.Select(a)
	pc.Select(b, a) // duplicate dropped

	got, err := pc.Configure()
	if err != nil {
		t.Fatal(err)
	}
	want := []apis.Class{base, a, b}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParentComposerResolutionError(t *testing.T) {
	base := classdef.NewClass("Base", nil, nil)
	pc := NewParentComposer(base, passthrough)
	pc.Select("not.Resolvable")
	if _, err := pc.Configure(); err == nil {
		t.Error("expected resolution error")
	}
}
