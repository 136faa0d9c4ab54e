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

	"github.com/rs/zerolog"
)

// Result is the outcome of running one case.
type Result struct {
	Case    Case
	Err     error
	Updated bool
}

// Report collects the results of a run.
type Report struct {
	Results []Result
	Passed  int
	Failed  int
	Updated int
}

// Failures returns the failed results in run order.
func (r *Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	if res.Err != nil {
		r.Failed++
	} else {
		r.Passed++
	}
	if res.Updated {
		r.Updated++
	}
}

// Run runs a single case: in update mode it refreshes the golden file,
// otherwise it checks the output against it.
func (h *Harness) Run(ctx context.Context, c Case) Result {
	res := Result{Case: c, Err: c.Err}
	if res.Err != nil {
		return res
	}

	set, err := Extract(c.Config)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", c.Path, err)
		return res
	}
	if h.update {
		res.Updated, res.Err = h.Update(ctx, c.Path, set)
	} else {
		res.Err = h.Check(c.Path, set)
	}
	return res
}

// RunAll runs every case once, in order. A failing case never stops the
// ones after it.
func (h *Harness) RunAll(ctx context.Context, cases []Case) *Report {
	log := zerolog.Ctx(ctx)

	rep := new(Report)
	for _, c := range cases {
		res := h.Run(ctx, c)
		log.Debug().Str("case", c.Name).Bool("updated", res.Updated).Err(res.Err).Msg("ran")
		rep.add(res)
	}
	log.Info().
		Int("passed", rep.Passed).
		Int("failed", rep.Failed).
		Int("updated", rep.Updated).
		Msg("done")
	return rep
}
