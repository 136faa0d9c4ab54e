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

import "fmt"

// ExtensionSet is what the converter gets to see of a resolved
// configuration.
type ExtensionSet struct {
	// Names of the enabled extensions, in manifest order.
	Names []string
	// Options per extension. Only extensions configured with a non-empty
	// mapping have an entry.
	Options map[string]*Settings
}

// Extract derives the extension set from a resolved configuration. Every
// listed extension is enabled, whatever its value. Only a non-empty
// mapping is recorded as options.
func Extract(cfg *Settings) (ExtensionSet, error) {
	set := ExtensionSet{Options: map[string]*Settings{}}

	v, _ := cfg.Get(ExtensionsKey)
	if v == nil {
		return set, nil
	}
	exts, ok := v.(*Settings)
	if !ok {
		return set, fmt.Errorf("%s is %w", ExtensionsKey, ErrNotMapping)
	}

	for name, v := range exts.All() {
		if opts, ok := v.(*Settings); ok && opts.Len() > 0 {
			set.Options[name] = opts
		}
		set.Names = append(set.Names, name)
	}
	return set, nil
}

