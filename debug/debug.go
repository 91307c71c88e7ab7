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

package debug

import (
	"sync/atomic"

	"github.com/cloudwego/constfold/ssa"
)

// A Stats records statistics about the constant folding pass since the
// process started, or since the last call to ResetStats.
type Stats struct {
	Funcs    int
	Failures int
	Folded   FoldStats
	Restarts int
	Skipped  int
	Wrapped  int
}

// A FoldStats records how many instructions were folded, by kind.
type FoldStats struct {
	Binary  int
	Compare int
}

// GetStats returns statistics of the constant folding pass.
func GetStats() Stats {
	return Stats{
		Funcs:    int(atomic.LoadInt64(&ssa.FuncCount)),
		Failures: int(atomic.LoadInt64(&ssa.FailureCount)),
		Folded: FoldStats{
			Binary:  int(atomic.LoadInt64(&ssa.BinaryCount)),
			Compare: int(atomic.LoadInt64(&ssa.CompareCount)),
		},
		Restarts: int(atomic.LoadInt64(&ssa.RestartCount)),
		Skipped:  int(atomic.LoadInt64(&ssa.SkippedCount)),
		Wrapped:  int(atomic.LoadInt64(&ssa.WrappedCount)),
	}
}

// ResetStats clears all the statistics.
func ResetStats() {
	ssa.ResetStats()
}
