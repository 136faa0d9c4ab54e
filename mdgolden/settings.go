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
	"iter"

	"github.com/elliotchance/orderedmap/v3"
)

// Settings is an ordered mapping of configuration values. Keys keep the
// order in which they were first set, which for a loaded manifest is the
// order they appear in the file.
//
// Values are scalars (bool, string, numbers, nil), []any, or *Settings.
type Settings struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewSettings returns an empty mapping.
func NewSettings() *Settings {
	return &Settings{m: orderedmap.NewOrderedMap[string, any]()}
}

// Get returns the value stored under key.
func (s *Settings) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	return s.m.Get(key)
}

// Set stores v under key. Setting an existing key keeps its position.
func (s *Settings) Set(key string, v any) {
	s.m.Set(key, v)
}

// Sub returns the mapping stored under key, if there is one.
func (s *Settings) Sub(key string) (*Settings, bool) {
	v, ok := s.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Settings)
	return sub, ok
}

func (s *Settings) Len() int {
	if s == nil {
		return 0
	}
	return s.m.Len()
}

// Keys returns the keys in order.
func (s *Settings) Keys() []string {
	keys := make([]string, 0, s.Len())
	for k := range s.All() {
		keys = append(keys, k)
	}
	return keys
}

// All iterates over the entries in order.
func (s *Settings) All() iter.Seq2[string, any] {
	if s == nil {
		return func(func(string, any) bool) {}
	}
	return s.m.AllFromFront()
}

// Clone returns a deep copy of s. Nested mappings and lists are copied,
// scalars are shared.
func (s *Settings) Clone() *Settings {
	c := NewSettings()
	for k, v := range s.All() {
		c.Set(k, cloneValue(v))
	}
	return c
}

// Map converts s into plain nested maps, dropping the key order.
func (s *Settings) Map() map[string]any {
	out := make(map[string]any, s.Len())
	for k, v := range s.All() {
		out[k] = plainValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case *Settings:
		return v.Clone()
	case []any:
		c := make([]any, len(v))
		for i, e := range v {
			c[i] = cloneValue(e)
		}
		return c
	default:
		return v
	}
}

func plainValue(v any) any {
	switch v := v.(type) {
	case *Settings:
		return v.Map()
	case []any:
		c := make([]any, len(v))
		for i, e := range v {
			c[i] = plainValue(e)
		}
		return c
	default:
		return v
	}
}
