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
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// upperConverter upper-cases its input, so expected output is easy to
// write down. It records the sets it was called with.
type upperConverter struct {
	err  error
	sets []ExtensionSet
}

func (c *upperConverter) Convert(source []byte, set ExtensionSet) ([]byte, error) {
	c.sets = append(c.sets, set)
	if c.err != nil {
		return nil, c.err
	}
	return bytes.ToUpper(source), nil
}

var errConvert = errors.New("converter exploded")

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	b, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(b)
}

func setMtime(t *testing.T, fs afero.Fs, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, fs.Chtimes(path, mtime, mtime))
}

func settingsFrom(t *testing.T, doc string) *Settings {
	t.Helper()
	v, err := decodeYAML([]byte(doc))
	require.NoError(t, err)
	s, ok := v.(*Settings)
	require.True(t, ok, "not a mapping: %s", doc)
	return s
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}
