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

package opts

import (
	"github.com/cloudwego/constfold/ssa"
	"github.com/sirupsen/logrus"
	"github.com/xyproto/env/v2"
)

const (
	_DefaultStrategy    = "restart"
	_DefaultDivZero     = "skip"
	_DefaultMaxRestarts = 0 // unlimited
	_DefaultLogLevel    = "info"
)

var (
	Strategy    = parseStrategy("CFOLD_STRATEGY", env.Str("CFOLD_STRATEGY", _DefaultStrategy))
	DivZero     = parseDivZero("CFOLD_DIVZERO", env.Str("CFOLD_DIVZERO", _DefaultDivZero))
	Verify      = env.Bool("CFOLD_VERIFY")
	MaxRestarts = parseNonNegative("CFOLD_MAX_RESTARTS", env.Int("CFOLD_MAX_RESTARTS", _DefaultMaxRestarts))
	LogLevel    = parseLogLevel("CFOLD_LOG_LEVEL", env.Str("CFOLD_LOG_LEVEL", _DefaultLogLevel))
)

func parseStrategy(key string, val string) ssa.Strategy {
	if ret, ok := ssa.ParseStrategy(val); !ok {
		panic("constfold: invalid value for " + key)
	} else {
		return ret
	}
}

func parseDivZero(key string, val string) ssa.DivZeroPolicy {
	if ret, ok := ssa.ParseDivZeroPolicy(val); !ok {
		panic("constfold: invalid value for " + key)
	} else {
		return ret
	}
}

func parseNonNegative(key string, val int) int {
	if val < 0 {
		panic("constfold: value too small for " + key)
	} else {
		return val
	}
}

func parseLogLevel(key string, val string) logrus.Level {
	if ret, err := logrus.ParseLevel(val); err != nil {
		panic("constfold: invalid value for " + key)
	} else {
		return ret
	}
}
