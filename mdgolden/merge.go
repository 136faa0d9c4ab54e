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
	"errors"
	"fmt"
)

// ExtensionsKey is the settings category listing the enabled extensions.
const ExtensionsKey = "extensions"

// ErrMissingCategory is returned when an override names a category the
// defaults don't have. Categories are never created implicitly.
var ErrMissingCategory = errors.New("missing category")

// Merge layers override on top of a deep copy of defaults. Every leaf of
// every override category replaces the leaf of the same name in the copy;
// nothing is merged below that level. Neither argument is modified and the
// result shares no mappings or lists with them.
func Merge(defaults, override *Settings) (*Settings, error) {
	resolved := defaults.Clone()
	if _, ok := resolved.Get(ExtensionsKey); !ok {
		resolved.Set(ExtensionsKey, NewSettings())
	}

	for category, v := range override.All() {
		leaves, ok := v.(*Settings)
		if !ok {
			return nil, fmt.Errorf("override %q is %w", category, ErrNotMapping)
		}
		target, ok := resolved.Get(category)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingCategory, category)
		}
		dst, ok := target.(*Settings)
		if !ok {
			return nil, fmt.Errorf("default %q is %w", category, ErrNotMapping)
		}
		for leaf, lv := range leaves.All() {
			dst.Set(leaf, cloneValue(lv))
		}
	}
	return resolved, nil
}
