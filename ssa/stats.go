/*
 * Copyright 2022 ByteDance Inc.
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

package ssa

import (
    `sync/atomic`
)

// Process-wide counters, read by the debug package.
var (
    FuncCount     int64
    BinaryCount   int64
    CompareCount  int64
    RestartCount  int64
    SkippedCount  int64
    WrappedCount  int64
    FailureCount  int64
)

// FoldResult records what a single run of ConstFold did.
type FoldResult struct {
    Binary   int
    Compare  int
    Restarts int
    Skipped  int
    Wrapped  int
}

// Folded returns the number of instructions removed.
func (self FoldResult) Folded() int {
    return self.Binary + self.Compare
}

func (self FoldResult) record(err error) {
    atomic.AddInt64(&FuncCount, 1)
    atomic.AddInt64(&BinaryCount, int64(self.Binary))
    atomic.AddInt64(&CompareCount, int64(self.Compare))
    atomic.AddInt64(&RestartCount, int64(self.Restarts))
    atomic.AddInt64(&SkippedCount, int64(self.Skipped))
    atomic.AddInt64(&WrappedCount, int64(self.Wrapped))

    /* count the aborted functions */
    if err != nil {
        atomic.AddInt64(&FailureCount, 1)
    }
}

// ResetStats clears all the process-wide counters.
func ResetStats() {
    for _, p := range []*int64 { &FuncCount, &BinaryCount, &CompareCount, &RestartCount, &SkippedCount, &WrappedCount, &FailureCount } {
        atomic.StoreInt64(p, 0)
    }
}
