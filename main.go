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

// mdgolden
//
// mdgolden converts markdown fixtures to HTML and compares the result with
// golden files, or regenerates the golden files.
//
// The command receives a list of directories to search for fixtures, if
// none is given it searches the current directory. Every directory holding
// a tests.yml, tests.yaml or tests.toml manifest is a fixture directory.
//
// mdgolden supports these flags:
// -u: regenerate golden files older than their fixture instead of comparing.
// -f: regenerate every golden file, implies -u.
// -p: glob matching fixture file names, *.txt by default.
// -l: log level.
//
// For the manifest format read the documentation of the
// github.com/zeitlinger/mdgolden/mdgolden package.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/zeitlinger/mdgolden/mdgolden"
)

// modified while building by -ldflags.
var version = "unknown"

func usage() {
	fmt.Fprintf(os.Stderr, "usage: mdgolden [flags] [dir ...]\n")
	flag.PrintDefaults()
}

func main() {
	update := flag.Bool("u", false, "regenerate stale golden files instead of comparing")
	force := flag.Bool("f", false, "regenerate every golden file, implies -u")
	pattern := flag.String("p", "*.txt", "glob matching fixture file names")
	logLevel := flag.String("l", "info", "log level")
	printVersion := flag.Bool("v", false, "display mdgolden version")
	flag.Usage = usage
	flag.Parse()

	if *printVersion {
		fmt.Println("mdgolden version: " + version)
		return
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %s\n", *logLevel)
		os.Exit(2)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
	ctx := logger.WithContext(context.Background())

	h := mdgolden.New(
		mdgolden.WithFixturePattern(*pattern),
		mdgolden.WithUpdate(*update || *force),
		mdgolden.WithForce(*force),
	)
	failed, err := run(ctx, h, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if failed {
		os.Exit(2)
	}
}

var stdout io.Writer = os.Stdout

func run(ctx context.Context, h *mdgolden.Harness, roots []string) (failed bool, err error) {
	if len(roots) == 0 {
		roots = []string{"."}
	}

	var cases []mdgolden.Case
	for _, root := range roots {
		c, err := h.Discover(root)
		if err != nil {
			return false, err
		}
		// names are relative to their root, keep them apart
		if len(roots) > 1 {
			for i := range c {
				c[i].Name = path.Join(filepath.ToSlash(root), c[i].Name)
			}
		}
		cases = append(cases, c...)
	}
	if len(cases) == 0 {
		return false, fmt.Errorf("error: no fixtures found")
	}

	rep := h.RunAll(ctx, cases)
	for _, res := range rep.Failures() {
		fmt.Fprintf(stdout, "FAIL %s\n%v\n", res.Case.Name, res.Err)
	}
	fmt.Fprintf(stdout, "%d passed, %d failed, %d updated\n", rep.Passed, rep.Failed, rep.Updated)
	return rep.Failed > 0, nil
}
