// Copyright 2016 Google Inc. All rights reserved.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to writing, software distributed
// under the License is distributed on a "AS IS" BASIS, WITHOUT WARRANTIES OR
// CONDITIONS OF ANY KIND, either express or implied.
//
// See the License for the specific language governing permissions and
// limitations under the License.

package mdgolden

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlManifest = `
__default__:
  extensions:
    table: {align: style}
    strikethrough: true
    footnote: false
emphasis:
  extensions:
    strikethrough: false
broken: 3
`

const tomlManifest = `
[__default__.extensions]
table = { align = "style" }
strikethrough = true
footnote = false

[emphasis.extensions]
strikethrough = false
`

func TestLoadManifest(t *testing.T) {
	tc := []struct {
		name, path, content string
	}{
		{name: "yaml", path: "dir/tests.yml", content: yamlManifest},
		{name: "toml", path: "dir/tests.toml", content: tomlManifest},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFiles(t, fs, map[string]string{tt.path: tt.content})

			m, err := LoadManifest(fs, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.path, m.Path)

			exts, ok := m.Defaults.Sub("extensions")
			require.True(t, ok)
			assert.Equal(t, []string{"table", "strikethrough", "footnote"}, exts.Keys())
			assert.Equal(t, map[string]any{
				"extensions": map[string]any{
					"table":         map[string]any{"align": "style"},
					"strikethrough": true,
					"footnote":      false,
				},
			}, m.Defaults.Map())

			cfg, err := m.Resolve("emphasis")
			require.NoError(t, err)
			exts, _ = cfg.Sub("extensions")
			v, _ := exts.Get("strikethrough")
			assert.Equal(t, false, v)

			cfg, err = m.Resolve("no-override")
			require.NoError(t, err)
			assert.Equal(t, m.Defaults.Map(), cfg.Map())
		})
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tc := []struct {
		name, path, content string
		err                 string
	}{
		{name: "missing file", path: "tests.yml"},
		{name: "empty", path: "tests.yml", content: "\n",
			err: "invalid manifest: tests.yml: top level is not a mapping"},
		{name: "list", path: "tests.yml", content: "- a\n- b\n",
			err: "invalid manifest: tests.yml: top level is not a mapping"},
		{name: "no defaults", path: "tests.yml", content: "x: {}\n",
			err: "invalid manifest: tests.yml: missing __default__"},
		{name: "scalar defaults", path: "tests.yml", content: "__default__: 3\n",
			err: "invalid manifest: tests.yml: __default__ is not a mapping"},
		{name: "yaml syntax", path: "tests.yml", content: "__default__: {\n"},
		{name: "toml syntax", path: "tests.toml", content: "[__default__\n"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if tt.content != "" {
				writeFiles(t, fs, map[string]string{tt.path: tt.content})
			}
			_, err := LoadManifest(fs, tt.path)
			require.ErrorIs(t, err, ErrManifest)
			if tt.err != "" {
				assert.EqualError(t, err, tt.err)
			}
		})
	}
}

func TestResolveBadEntry(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"tests.yml": yamlManifest})
	m, err := LoadManifest(fs, "tests.yml")
	require.NoError(t, err)

	_, err = m.Resolve("broken")
	assert.ErrorIs(t, err, ErrNotMapping)

	_, err = m.Resolve("emphasis")
	assert.NoError(t, err)
}

func TestYAMLAliases(t *testing.T) {
	s := settingsFrom(t, `
__default__:
  extensions: &exts
    table: true
other:
  extensions: *exts
`)
	other, ok := s.Sub("other")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"extensions": map[string]any{"table": true}}, other.Map())
}
