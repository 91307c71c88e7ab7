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

package constfold

import (
    `fmt`

    `github.com/cloudwego/constfold/ssa`
)

type (
    // StructureError occurs when the function graph is inconsistent.
    StructureError = ssa.StructureError

    // DivisionByZeroError occurs when a division by a constant zero is
    // found while running with ssa.DivZeroFail.
    DivisionByZeroError = ssa.DivisionByZeroError

    // LimitError occurs when a block needs more folds than the limit set
    // with WithMaxRestarts.
    LimitError = ssa.LimitError

    // VerifyError occurs when the verifier is enabled and the function is
    // not well formed, either before or after folding.
    VerifyError = ssa.VerifyError
)

// SyntaxError occurs when a function description cannot be loaded.
type SyntaxError struct {
    Block  string
    Index  int
    Src    string
    Reason string
}

func (self SyntaxError) Error() string {
    if self.Index < 0 {
        return fmt.Sprintf("Syntax error in block %q: %s", self.Block, self.Reason)
    } else {
        return fmt.Sprintf("Syntax error in block %q, instruction %d (%s): %s", self.Block, self.Index, self.Src, self.Reason)
    }
}
