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

// Package goldentest runs mdgolden fixtures as Go subtests.
//
//	func TestExtensions(t *testing.T) {
//		goldentest.Run(t, "testdata")
//	}
//
// go test -mdgolden.update regenerates stale golden files,
// go test -mdgolden.force regenerates all of them.
package goldentest

import (
	"context"
	"flag"
	"testing"

	"github.com/rs/zerolog"
	"github.com/zeitlinger/mdgolden/mdgolden"
)

var (
	update = flag.Bool("mdgolden.update", false, "regenerate stale golden files instead of comparing")
	force  = flag.Bool("mdgolden.force", false, "regenerate every golden file, implies -mdgolden.update")
)

// Run discovers the fixtures under root and runs every one as a subtest of
// t named after the fixture path. opts are applied after the flags.
func Run(t *testing.T, root string, opts ...mdgolden.Option) {
	t.Helper()

	opts = append([]mdgolden.Option{
		mdgolden.WithUpdate(*update || *force),
		mdgolden.WithForce(*force),
	}, opts...)
	h := mdgolden.New(opts...)

	cases, err := h.Discover(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) == 0 {
		t.Fatalf("no fixtures under %s", root)
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			if res := h.Run(ctx, c); res.Err != nil {
				t.Error(res.Err)
			}
		})
	}
}
