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

package constfold

import (
	"fmt"

	"github.com/cloudwego/constfold/internal/opts"
	"github.com/cloudwego/constfold/ssa"
	"github.com/sirupsen/logrus"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithStrategy selects how the pass reaches the fixpoint within a block.
//
// StrategyRestart rescans the block from the top after every fold, while
// StrategyWorklist only revisits the users of folded instructions. Both
// produce the same result.
//
// The default value of this option is "restart".
func WithStrategy(s ssa.Strategy) Option {
	if s != ssa.StrategyRestart && s != ssa.StrategyWorklist {
		panic(fmt.Sprintf("constfold: invalid strategy: %d", s))
	} else {
		return func(o *opts.Options) { o.Strategy = s }
	}
}

// WithDivZero selects what happens to a signed division by a constant zero.
//
// The default value of this option is "skip", which leaves the division in
// place.
func WithDivZero(p ssa.DivZeroPolicy) Option {
	if p != ssa.DivZeroSkip && p != ssa.DivZeroFail {
		panic(fmt.Sprintf("constfold: invalid division by zero policy: %d", p))
	} else {
		return func(o *opts.Options) { o.DivZero = p }
	}
}

// WithVerify runs the verifier before and after the pass.
func WithVerify(v bool) Option {
	return func(o *opts.Options) { o.Verify = v }
}

// WithMaxRestarts limits how many instructions may be folded in a single
// block. With the restart strategy each fold is one rescan of the block.
// A block that needs more folds stops the pass with a LimitError.
//
// Set this option to "0" disables this limit.
//
// The default value of this option is "0".
func WithMaxRestarts(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("constfold: invalid restart limit: %d", n))
	} else {
		return func(o *opts.Options) { o.MaxRestarts = n }
	}
}

// WithLogger sends the log of the pass to log instead of a new stderr logger.
func WithLogger(log *logrus.Entry) Option {
	return func(o *opts.Options) { o.Log = log }
}

// WithConfigFile loads options from a TOML file, see opts.LoadFile for the
// recognized keys. It panics if the file cannot be loaded.
func WithConfigFile(path string) Option {
	return func(o *opts.Options) {
		if err := opts.LoadFile(path, o); err != nil {
			panic("constfold: " + err.Error())
		}
	}
}

// SetStrategy sets the default strategy from now on.
//
// This value can also be configured with the `CFOLD_STRATEGY` environment
// variable.
//
// Returns the old opts.Strategy value.
func SetStrategy(s ssa.Strategy) ssa.Strategy {
	s, opts.Strategy = opts.Strategy, s
	return s
}

// SetDivZero sets the default division by zero policy from now on.
//
// This value can also be configured with the `CFOLD_DIVZERO` environment
// variable.
//
// Returns the old opts.DivZero value.
func SetDivZero(p ssa.DivZeroPolicy) ssa.DivZeroPolicy {
	p, opts.DivZero = opts.DivZero, p
	return p
}

// SetVerify turns the verifier on or off for all functions from now on.
//
// This value can also be configured with the `CFOLD_VERIFY` environment
// variable.
//
// Returns the old opts.Verify value.
func SetVerify(v bool) bool {
	v, opts.Verify = opts.Verify, v
	return v
}

// SetMaxRestarts sets the default restart limit from now on.
//
// Returns the old opts.MaxRestarts value.
func SetMaxRestarts(n int) int {
	n, opts.MaxRestarts = opts.MaxRestarts, n
	return n
}
