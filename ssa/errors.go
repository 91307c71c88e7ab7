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
    `fmt`
)

// StructureError occurs when the graph is inconsistent in a way the pass
// cannot recover from, e.g. an instruction is missing from its own block.
type StructureError struct {
    Block  int
    Ins    string
    Reason string
}

func (self StructureError) Error() string {
    if self.Ins == "" {
        return fmt.Sprintf("StructureError(bb_%d): %s", self.Block, self.Reason)
    } else {
        return fmt.Sprintf("StructureError(bb_%d, %s): %s", self.Block, self.Ins, self.Reason)
    }
}

// DivisionByZeroError occurs when folding a signed division by a constant
// zero while the DivZeroFail policy is in effect.
type DivisionByZeroError struct {
    Block int
    Ins   string
}

func (self DivisionByZeroError) Error() string {
    return fmt.Sprintf("DivisionByZero(bb_%d): %s", self.Block, self.Ins)
}

// LimitError occurs when a block needs more folds than ConstFold.MaxRestarts
// allows. Ins is the first instruction left unfolded.
type LimitError struct {
    Block int
    Ins   string
    Limit int
}

func (self LimitError) Error() string {
    return fmt.Sprintf("LimitError(bb_%d): more than %d folds needed, stopped at %s", self.Block, self.Limit, self.Ins)
}

// VerifyError describes the first well-formedness violation found by Verify.
type VerifyError struct {
    Pos    Pos
    Reason string
}

func (self VerifyError) Error() string {
    return fmt.Sprintf("VerifyError at %s: %s", self.Pos, self.Reason)
}

func blockid(bb *BasicBlock) int {
    if bb == nil {
        return -1
    } else {
        return bb.Id
    }
}
