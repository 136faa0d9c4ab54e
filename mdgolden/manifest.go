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
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultKey is the manifest entry holding the settings shared by every
// fixture of a directory.
const DefaultKey = "__default__"

var (
	// ErrManifest is returned for manifests that can't be read or don't
	// have the expected shape.
	ErrManifest = errors.New("invalid manifest")
	// ErrNotMapping is returned when a value that must be a mapping isn't.
	ErrNotMapping = errors.New("not a mapping")
)

// Manifest is the parsed configuration file of a fixture directory.
type Manifest struct {
	Path string
	// Defaults is never modified after loading.
	Defaults *Settings
	entries  *Settings
}

// LoadManifest reads and parses the manifest at path. Files ending in
// .toml are parsed as TOML, anything else as YAML.
func LoadManifest(fs afero.Fs, path string) (*Manifest, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read %s: %v", ErrManifest, path, err)
	}

	var v any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		v, err = decodeTOML(b)
	default:
		v, err = decodeYAML(b)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifest, path, err)
	}

	entries, ok := v.(*Settings)
	if !ok {
		return nil, fmt.Errorf("%w: %s: top level is %s", ErrManifest, path, ErrNotMapping)
	}
	dv, ok := entries.Get(DefaultKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing %s", ErrManifest, path, DefaultKey)
	}
	defaults, ok := dv.(*Settings)
	if !ok {
		return nil, fmt.Errorf("%w: %s: %s is %s", ErrManifest, path, DefaultKey, ErrNotMapping)
	}

	return &Manifest{Path: path, Defaults: defaults, entries: entries}, nil
}

// Override returns the override block for the fixture key. Fixtures
// without one get an empty mapping.
func (m *Manifest) Override(key string) (*Settings, error) {
	if key == DefaultKey {
		return NewSettings(), nil
	}
	v, ok := m.entries.Get(key)
	if !ok || v == nil {
		return NewSettings(), nil
	}
	o, ok := v.(*Settings)
	if !ok {
		return nil, fmt.Errorf("%s: entry %q is %w", m.Path, key, ErrNotMapping)
	}
	return o, nil
}

// Resolve returns the configuration of the fixture key: the defaults with
// the fixture's override applied.
func (m *Manifest) Resolve(key string) (*Settings, error) {
	o, err := m.Override(key)
	if err != nil {
		return nil, err
	}
	cfg, err := Merge(m.Defaults, o)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", m.Path, key, err)
	}
	return cfg, nil
}

func decodeYAML(b []byte) (any, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(b, &n); err != nil {
		return nil, err
	}
	return fromYAML(&n)
}

func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		// empty document
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.MappingNode:
		s := NewSettings()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			v, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			s.Set(k.Value, v)
		}
		return s, nil
	case yaml.SequenceNode:
		l := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
		return l, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %v", n.Line, err)
		}
		return v, nil
	}
}

// decodeTOML keeps document order by replaying the keys reported by the
// decoder. Keys it does not report (inline tables) are added sorted.
func decodeTOML(b []byte) (any, error) {
	var raw map[string]any
	md, err := toml.Decode(string(b), &raw)
	if err != nil {
		return nil, err
	}

	s := NewSettings()
	for _, key := range md.Keys() {
		placeTOML(s, raw, key)
	}
	fillTOML(s, raw)
	return s, nil
}

func placeTOML(s *Settings, raw map[string]any, key toml.Key) {
	for _, k := range key {
		v, ok := raw[k]
		if !ok {
			return
		}
		m, isMap := v.(map[string]any)
		if !isMap {
			if _, exists := s.Get(k); !exists {
				s.Set(k, fromTOML(v))
			}
			return
		}
		sub, ok := s.Sub(k)
		if !ok {
			sub = NewSettings()
			s.Set(k, sub)
		}
		s, raw = sub, m
	}
}

func fillTOML(s *Settings, raw map[string]any) {
	for _, k := range sortedKeys(raw) {
		v := raw[k]
		existing, ok := s.Get(k)
		if !ok {
			s.Set(k, fromTOML(v))
			continue
		}
		sub, isSub := existing.(*Settings)
		m, isMap := v.(map[string]any)
		if isSub && isMap {
			fillTOML(sub, m)
		}
	}
}

func fromTOML(v any) any {
	switch v := v.(type) {
	case map[string]any:
		s := NewSettings()
		fillTOML(s, v)
		return s
	case []map[string]any:
		l := make([]any, len(v))
		for i, e := range v {
			l[i] = fromTOML(e)
		}
		return l
	case []any:
		l := make([]any, len(v))
		for i, e := range v {
			l[i] = fromTOML(e)
		}
		return l
	default:
		return v
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
