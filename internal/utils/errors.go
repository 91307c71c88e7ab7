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

package utils

import (
    `fmt`

    `github.com/cloudwego/constfold`
)

func ESyntax(block string, index int, src string, reason string) constfold.SyntaxError {
    return constfold.SyntaxError {
        Block  : block,
        Index  : index,
        Src    : src,
        Reason : reason,
    }
}

func EBlock(block string, reason string) constfold.SyntaxError {
    return ESyntax(block, -1, "", reason)
}

func EUnknownOp(block string, index int, op string) constfold.SyntaxError {
    return ESyntax(block, index, op, fmt.Sprintf("unknown operation %q", op))
}

func EUnknownValue(block string, index int, src string, name string) constfold.SyntaxError {
    return ESyntax(block, index, src, fmt.Sprintf("value %q is not defined before use", name))
}

func EArity(block string, index int, src string, want int, got int) constfold.SyntaxError {
    return ESyntax(block, index, src, fmt.Sprintf("expect %d operands, got %d", want, got))
}
