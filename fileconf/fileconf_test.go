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

package fileconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/dcx/apis"
	"dirpx.dev/dcx/config"
)

const sampleDoc = `
[global]
base_path = "storage"
option_order = ["with_cache", "backend"]
strict_args = false

[[dependency]]
option = "with_cache"
component_class = "cache.Memory"
component_attr = "cache"
injection_method = "open"
add_after_method = true
args_keep_first = 1
arg_from_option = true
args_from_self = ["name"]

[dependency.kwargs_from_self]
level = "level_attr"

[[dependency]]
option = "backend"

[[dependency.case]]
value = "postgres"
inherit_from = ["backend.Postgres"]

[[dependency.case]]
value = 2
inherit_from = ["backend.Bolt"]

[[dependency.case]]
default = true
inherit_from = ["backend.Sqlite"]

[[dependency]]
option = "plugins"
component_class = "plugin.Audit"
component_attr = "plugins"
structured_type = "list"
`

func TestParse(t *testing.T) {
	unit, opts, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)
	require.Len(t, unit.Entries, 3)

	cache := unit.Entries[0]
	assert.Equal(t, "with_cache", cache.Key.Option)
	require.Len(t, cache.Configs, 1)
	rec := cache.Configs[0]
	assert.Equal(t, "cache.Memory", rec.ComponentClass)
	assert.Equal(t, "cache", rec.ComponentAttr)
	assert.Equal(t, "open", rec.InjectionMethod)
	require.NotNil(t, rec.AddAfterMethod)
	assert.True(t, *rec.AddAfterMethod)
	require.NotNil(t, rec.ArgsKeepFirst)
	assert.Equal(t, 1, *rec.ArgsKeepFirst)
	require.NotNil(t, rec.ArgFromOption)
	assert.True(t, *rec.ArgFromOption)
	assert.Equal(t, []string{"name"}, rec.ArgsFromSelf)
	assert.Equal(t, map[string]string{"level": "level_attr"}, rec.KwargsFromSelf)

	backend := unit.Entries[1]
	require.NotNil(t, backend.Switch)
	require.Len(t, backend.Switch.Cases, 2)
	assert.Equal(t, "postgres", backend.Switch.Cases[0].Value)
	assert.Equal(t, []apis.ClassRef{"backend.Postgres"}, backend.Switch.Cases[0].Configs[0].InheritFrom)
	require.Len(t, backend.Switch.Default, 1)
	assert.Equal(t, []apis.ClassRef{"backend.Sqlite"}, backend.Switch.Default[0].InheritFrom)

	plugins := unit.Entries[2]
	require.NotNil(t, plugins.Configs[0].StructuredType)
	container := plugins.Configs[0].StructuredType()
	_, isListPtr := container.(*[]any)
	assert.True(t, isListPtr, "list factory must yield a *[]any")

	cfg := config.NewConfig(opts...)
	assert.Equal(t, "storage", cfg.BasePath)
	assert.Equal(t, []string{"with_cache", "backend"}, cfg.OptionOrder)
	require.NotNil(t, cfg.Defaults.StrictArgs)
	assert.False(t, *cfg.Defaults.StrictArgs)
}

func TestParseErrors(t *testing.T) {
	_, _, err := Parse([]byte("not [ valid"))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, _, err = Parse([]byte("[[dependency]]\ncomponent_class = \"x.Y\"\n"))
	assert.ErrorIs(t, err, ErrMissingOption)

	_, _, err = Parse([]byte("[[dependency]]\noption = \"x\"\ncomponent_class = \"x.Y\"\nstructured_type = \"tree\"\n"))
	assert.ErrorIs(t, err, ErrUnknownStructuredType)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deps.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o600))

	unit, _, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, unit.Entries, 3)

	_, _, err = Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}
