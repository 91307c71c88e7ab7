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

// Replace retargets every use of p to v, wherever in the function it lives,
// then removes p from bb. If p cannot be found in bb the graph is left as it
// was and a StructureError is returned.
func Replace(bb *BasicBlock, p IrDefinition, v Value) error {
    i := bb.indexOf(p)

    /* locate the instruction before touching anything */
    if i < 0 {
        return StructureError {
            Block  : bb.Id,
            Ins    : p.String(),
            Reason : "instruction is not in its owning block",
        }
    }

    /* an instruction can never be replaced by itself */
    if d, ok := v.(IrDefinition); ok && d == p {
        return StructureError {
            Block  : bb.Id,
            Ins    : p.String(),
            Reason : "instruction replaced by its own result",
        }
    }

    /* Use.Set modifies the list, iterate over a copy */
    users := make([]*Use, len(p.Users()))
    copy(users, p.Users())

    /* retarget every use edge */
    for _, u := range users {
        u.Set(v)
    }

    /* drop the operand edges of the removed instruction */
    if use, ok := p.(IrUsages); ok {
        for _, u := range use.Usages() {
            u.Set(nil)
        }
    }

    /* remove from the block */
    bb.removeAt(i)
    p.setBlock(nil)
    return nil
}
