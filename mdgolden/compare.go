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
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// MismatchError is returned by Check when the converter output differs
// from the golden file.
type MismatchError struct {
	Fixture string
	Golden  string
	// Diff is a unified diff from the golden file to the output.
	Diff string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("output from %q failed to match expected output.\n\n%s", e.Fixture, e.Diff)
}

// Check converts fixture and compares the result with its golden file. A
// missing or unreadable golden file compares as empty, so it fails with a
// diff adding the whole output.
func (h *Harness) Check(fixture string, set ExtensionSet) error {
	source, err := readSource(h.fs, fixture)
	if err != nil {
		return err
	}
	actual, err := h.conv.Convert(source, set)
	if err != nil {
		return fmt.Errorf("%s: %w", fixture, err)
	}

	golden := GoldenPath(fixture)
	expected, err := afero.ReadFile(h.fs, golden)
	if err != nil {
		expected = nil
	}

	d, err := Diff(
		strings.ReplaceAll(string(expected), "\r\n", "\n"),
		string(actual),
		golden,
		filepath.Join(filepath.Dir(fixture), "results.html"),
	)
	if err != nil {
		return err
	}
	if d != "" {
		return &MismatchError{Fixture: fixture, Golden: golden, Diff: d}
	}
	return nil
}

// Update regenerates the golden file of fixture if it is missing or older
// than the fixture, or always when the harness forces updates. It reports
// whether the file was written.
func (h *Harness) Update(ctx context.Context, fixture string, set ExtensionSet) (bool, error) {
	golden := GoldenPath(fixture)
	if !h.force && !h.stale(fixture, golden) {
		return false, nil
	}
	if err := ConvertFile(h.fs, h.conv, fixture, golden, set); err != nil {
		return false, err
	}
	zerolog.Ctx(ctx).Info().Str("file", golden).Msg("updated")
	return true, nil
}

func (h *Harness) stale(fixture, golden string) bool {
	gi, err := h.fs.Stat(golden)
	if err != nil {
		return true
	}
	fi, err := h.fs.Stat(fixture)
	if err != nil {
		// let the conversion report it
		return true
	}
	return gi.ModTime().Before(fi.ModTime())
}

// Diff returns the unified diff, with three lines of context, turning
// expected into actual. It is empty when both are equal.
func Diff(expected, actual, fromFile, toFile string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(expected),
		B:        splitLines(actual),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  3,
	})
}

// splitLines splits after every newline. Unlike difflib.SplitLines it
// does not add a newline to the last line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
