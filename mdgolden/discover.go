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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// Case is one fixture to run.
type Case struct {
	// Name is the fixture path relative to the discovery root, with
	// forward slashes.
	Name   string
	Dir    string
	Path   string
	Golden string
	// Config is the resolved configuration of the fixture.
	Config *Settings
	// Err is set for cases that failed before they could run. A directory
	// whose manifest can't be loaded yields a single case carrying the
	// error, with Path set to the manifest.
	Err error
}

// Discover walks root and returns a case for every fixture found in a
// directory holding a manifest. Problems with one directory or fixture are
// reported through the Err of the affected cases; only an unusable root
// or fixture pattern makes Discover fail.
func (h *Harness) Discover(root string) ([]Case, error) {
	if _, err := h.fs.Stat(root); err != nil {
		return nil, fmt.Errorf("could not read %s: %w", root, err)
	}
	if !doublestar.ValidatePattern(h.pattern) {
		return nil, fmt.Errorf("fixture pattern %q: %w", h.pattern, doublestar.ErrBadPattern)
	}

	var cases []Case
	err := afero.Walk(h.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			cases = append(cases, Case{Name: caseName(root, path), Dir: path, Path: path, Err: err})
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		cases = append(cases, h.discoverDir(root, path)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (h *Harness) discoverDir(root, dir string) []Case {
	manifest := h.findManifest(dir)
	if manifest == "" {
		return nil
	}
	fail := func(err error) []Case {
		return []Case{{Name: caseName(root, manifest), Dir: dir, Path: manifest, Err: err}}
	}

	m, err := LoadManifest(h.fs, manifest)
	if err != nil {
		return fail(err)
	}
	infos, err := afero.ReadDir(h.fs, dir)
	if err != nil {
		return fail(fmt.Errorf("could not read %s: %w", dir, err))
	}

	var cases []Case
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		// the pattern was validated by Discover
		if ok, _ := doublestar.Match(h.pattern, fi.Name()); !ok {
			continue
		}
		path := filepath.Join(dir, fi.Name())
		c := Case{
			Name:   caseName(root, path),
			Dir:    dir,
			Path:   path,
			Golden: GoldenPath(path),
		}
		c.Config, c.Err = m.Resolve(strings.TrimSuffix(fi.Name(), filepath.Ext(fi.Name())))
		cases = append(cases, c)
	}
	return cases
}

func (h *Harness) findManifest(dir string) string {
	for _, name := range h.manifests {
		path := filepath.Join(dir, name)
		if fi, err := h.fs.Stat(path); err == nil && !fi.IsDir() {
			return path
		}
	}
	return ""
}

func caseName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
