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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureTree(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"tests/basic/tests.yml": `
__default__:
  extensions:
    a: true
two:
  extensions:
    b: true
bad:
  extensions: 3
weird:
  extensions:
    c: nope
`,
		"tests/basic/one.txt":   "one\n",
		"tests/basic/one.html":  "ONE\n",
		"tests/basic/two.txt":   "two\n",
		"tests/basic/bad.txt":   "bad\n",
		"tests/basic/weird.txt": "weird\n",
		"tests/basic/readme.md": "not a fixture\n",

		"tests/broken/tests.yml": "- not a mapping\n",
		"tests/broken/x.txt":     "x\n",

		"tests/nomanifest/z.txt": "z\n",

		"tests/nested/deeper/tests.toml": "[__default__.extensions]\ngfm = true\n",
		"tests/nested/deeper/c.txt":      "c\n",
		"tests/nested/deeper/c.html":     "C\n",
	})

	// golden files are newer than their fixtures
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, afero.Walk(fs, "tests", func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		mtime := base
		if filepath.Ext(path) == ".html" {
			mtime = base.Add(time.Hour)
		}
		return fs.Chtimes(path, mtime, mtime)
	}))
	return fs
}

func TestDiscover(t *testing.T) {
	h := New(WithFs(fixtureTree(t)))
	cases, err := h.Discover("tests")
	require.NoError(t, err)

	var names []string
	for _, c := range cases {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"basic/bad.txt",
		"basic/one.txt",
		"basic/two.txt",
		"basic/weird.txt",
		"broken/tests.yml",
		"nested/deeper/c.txt",
	}, names)

	bad, one, two, broken, c := cases[0], cases[1], cases[2], cases[4], cases[5]

	assert.ErrorIs(t, bad.Err, ErrNotMapping)

	require.NoError(t, one.Err)
	assert.Equal(t, "tests/basic", one.Dir)
	assert.Equal(t, "tests/basic/one.txt", one.Path)
	assert.Equal(t, "tests/basic/one.html", one.Golden)
	assert.Equal(t, map[string]any{"extensions": map[string]any{"a": true}}, one.Config.Map())

	require.NoError(t, two.Err)
	assert.Equal(t, map[string]any{"extensions": map[string]any{"a": true, "b": true}}, two.Config.Map())

	assert.ErrorIs(t, broken.Err, ErrManifest)
	assert.Equal(t, "tests/broken/tests.yml", broken.Path)

	require.NoError(t, c.Err)
	assert.Equal(t, map[string]any{"extensions": map[string]any{"gfm": true}}, c.Config.Map())
}

func TestDiscoverPattern(t *testing.T) {
	h := New(WithFs(fixtureTree(t)), WithFixturePattern("*.{md,nothing}"))
	cases, err := h.Discover("tests")
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "basic/readme.md", cases[0].Name)
	assert.Equal(t, "broken/tests.yml", cases[1].Name)
}

func TestDiscoverManifestNames(t *testing.T) {
	h := New(WithFs(fixtureTree(t)), WithManifestNames("tests.toml"))
	cases, err := h.Discover("tests")
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "nested/deeper/c.txt", cases[0].Name)
}

func TestDiscoverErrors(t *testing.T) {
	_, err := New(WithFs(fixtureTree(t))).Discover("missing")
	assert.ErrorContains(t, err, "could not read missing")

	_, err = New(WithFs(fixtureTree(t)), WithFixturePattern("[")).Discover("tests")
	assert.ErrorContains(t, err, `fixture pattern "["`)
}
