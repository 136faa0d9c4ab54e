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

// Package mdgolden runs a markdown converter over a tree of fixture files
// and compares the output with golden HTML files, or regenerates them.
//
// A fixture directory holds a manifest (tests.yml, tests.yaml or
// tests.toml), markdown fixtures (*.txt) and one golden file per fixture
// with the same base name and an .html extension. The manifest lists the
// extensions used by every fixture of the directory under __default__ and
// per fixture overrides under the fixture's base name:
//
//	__default__:
//	  extensions:
//	    table: {align: style}
//	    strikethrough: true
//	emphasis:
//	  extensions:
//	    table: {align: attribute}
//	    footnote: {id_prefix: emphasis-}
//
// Every extension listed is enabled. A mapping value holds its options,
// any other value enables it without options.
package mdgolden

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Harness discovers and runs fixtures.
type Harness struct {
	fs        afero.Fs
	conv      Converter
	pattern   string
	manifests []string
	update    bool
	force     bool
}

// Option configures a Harness.
type Option func(*Harness)

// WithFs makes the harness read and write fixtures through fs.
func WithFs(fs afero.Fs) Option { return func(h *Harness) { h.fs = fs } }

// WithConverter replaces the goldmark converter.
func WithConverter(c Converter) Option { return func(h *Harness) { h.conv = c } }

// WithFixturePattern sets the glob matched against file names to find
// fixtures. The default is *.txt.
func WithFixturePattern(p string) Option { return func(h *Harness) { h.pattern = p } }

// WithManifestNames sets the file names looked up, in order, to find the
// manifest of a directory.
func WithManifestNames(names ...string) Option { return func(h *Harness) { h.manifests = names } }

// WithUpdate switches the harness to regenerating stale golden files
// instead of comparing against them.
func WithUpdate(update bool) Option { return func(h *Harness) { h.update = update } }

// WithForce makes update mode regenerate every golden file, stale or not.
func WithForce(force bool) Option { return func(h *Harness) { h.force = force } }

// New returns a harness working on the OS file system with the goldmark
// converter, configured by opts.
func New(opts ...Option) *Harness {
	h := &Harness{
		fs:        afero.NewOsFs(),
		conv:      NewGoldmark(),
		pattern:   "*.txt",
		manifests: []string{"tests.yml", "tests.yaml", "tests.toml"},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GoldenPath returns the golden file of fixture.
func GoldenPath(fixture string) string {
	return strings.TrimSuffix(fixture, filepath.Ext(fixture)) + ".html"
}
