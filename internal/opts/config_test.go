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
	"testing"

	"github.com/cloudwego/constfold/ssa"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	o := GetDefaultOptions()
	require.Equal(t, Strategy, o.Strategy)
	require.Equal(t, DivZero, o.DivZero)
	require.Equal(t, MaxRestarts, o.MaxRestarts)
	require.Nil(t, o.Log)
	require.Equal(t, o.LogLevel, o.Logger().Logger.GetLevel())
}

func TestOptions_Pass(t *testing.T) {
	log := logrus.NewEntry(logrus.New())
	o := Options{
		Strategy:    ssa.StrategyWorklist,
		DivZero:     ssa.DivZeroFail,
		MaxRestarts: 10,
		Log:         log,
	}
	p := o.Pass()
	require.Equal(t, ssa.StrategyWorklist, p.Strategy)
	require.Equal(t, ssa.DivZeroFail, p.DivZero)
	require.Equal(t, 10, p.MaxRestarts)
	require.Same(t, log, p.Log)
}

func TestConfig_LoadFile(t *testing.T) {
	o := GetDefaultOptions()
	require.NoError(t, LoadFile("testdata/config.toml", &o))
	require.Equal(t, ssa.StrategyWorklist, o.Strategy)
	require.Equal(t, ssa.DivZeroFail, o.DivZero)
	require.True(t, o.Verify)
	require.Equal(t, 64, o.MaxRestarts)
	require.Equal(t, logrus.DebugLevel, o.LogLevel)
}

func TestConfig_MissingFile(t *testing.T) {
	o := GetDefaultOptions()
	require.Error(t, LoadFile("testdata/nonexistent.toml", &o))
}

func TestConfig_PartialOverride(t *testing.T) {
	o := Options{
		Strategy:    ssa.StrategyRestart,
		DivZero:     ssa.DivZeroSkip,
		MaxRestarts: 3,
		LogLevel:    logrus.WarnLevel,
	}
	require.NoError(t, LoadString(`verify = true`, &o))
	require.True(t, o.Verify)
	require.Equal(t, ssa.StrategyRestart, o.Strategy)
	require.Equal(t, ssa.DivZeroSkip, o.DivZero)
	require.Equal(t, 3, o.MaxRestarts)
	require.Equal(t, logrus.WarnLevel, o.LogLevel)
}

func TestConfig_InvalidValues(t *testing.T) {
	for _, src := range []string{
		`strategy = "sideways"`,
		`strategy = 1`,
		`div_zero = "panic"`,
		`verify = "yes"`,
		`max_restarts = -1`,
		`max_restarts = "many"`,
		`log_level = "loud"`,
		`log_level = 3`,
		`strategy = `,
	} {
		o := GetDefaultOptions()
		require.Error(t, LoadString(src, &o), src)
	}
}

func TestDefaults_InvalidValues(t *testing.T) {
	require.Panics(t, func() { parseStrategy("CFOLD_STRATEGY", "sideways") })
	require.Panics(t, func() { parseDivZero("CFOLD_DIVZERO", "panic") })
	require.Panics(t, func() { parseNonNegative("CFOLD_MAX_RESTARTS", -1) })
	require.Panics(t, func() { parseLogLevel("CFOLD_LOG_LEVEL", "loud") })
	require.Equal(t, ssa.StrategyWorklist, parseStrategy("CFOLD_STRATEGY", "worklist"))
	require.Equal(t, logrus.ErrorLevel, parseLogLevel("CFOLD_LOG_LEVEL", "error"))
}
