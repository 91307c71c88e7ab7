/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package constfold folds integer arithmetic and comparisons with constant
// operands, and propagates the results to every use within the function.
package constfold

import (
	"github.com/cloudwego/constfold/internal/opts"
	"github.com/cloudwego/constfold/ssa"
)

// Result describes what a single run of the pass did.
type Result struct {
	Changed    bool
	CFGChanged bool
	Folded     int
	Restarts   int
}

// RunOnFunction folds every foldable instruction of fn in place, and reports
// whether anything was changed.
func RunOnFunction(fn *ssa.Function, options ...Option) (bool, error) {
	ret, err := Run(fn, options...)
	return ret.Changed, err
}

// Run is like RunOnFunction, but returns the details of the run. The control
// flow graph is never modified, so CFGChanged is always false.
func Run(fn *ssa.Function, options ...Option) (Result, error) {
	o := opts.GetDefaultOptions()
	for _, opt := range options {
		opt(&o)
	}

	/* check the function before touching it */
	if o.Verify {
		if err := ssa.Verify(fn); err != nil {
			return Result{}, err
		}
	}

	/* run the pass, partial results are still reported */
	r, err := o.Pass().Run(fn)
	ret := Result{
		Changed:  r.Folded() != 0,
		Folded:   r.Folded(),
		Restarts: r.Restarts,
	}

	/* check the result as well */
	if err == nil && o.Verify {
		err = ssa.Verify(fn)
	}

	/* all done */
	return ret, err
}
