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
	"os"

	"github.com/cloudwego/constfold/ssa"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Strategy    ssa.Strategy
	DivZero     ssa.DivZeroPolicy
	Verify      bool
	MaxRestarts int
	LogLevel    logrus.Level
	Log         *logrus.Entry
}

// Logger returns the configured logger, or a new stderr logger at LogLevel.
func (self *Options) Logger() *logrus.Entry {
	if self.Log != nil {
		return self.Log
	}

	/* create a dedicated logger so the global one is never reconfigured */
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(self.LogLevel)
	return logrus.NewEntry(log).WithField("pass", "constfold")
}

// Pass creates the folding pass described by these options.
func (self *Options) Pass() ssa.ConstFold {
	return ssa.ConstFold{
		Evaluator:   ssa.Evaluator{DivZero: self.DivZero},
		Strategy:    self.Strategy,
		MaxRestarts: self.MaxRestarts,
		Log:         self.Logger(),
	}
}

func GetDefaultOptions() Options {
	return Options{
		Strategy:    Strategy,
		DivZero:     DivZero,
		Verify:      Verify,
		MaxRestarts: MaxRestarts,
		LogLevel:    LogLevel,
	}
}
