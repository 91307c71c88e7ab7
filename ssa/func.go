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
    `strings`
)

// Function is an ordered list of basic blocks, the first one being the entry.
type Function struct {
    Name   string
    Blocks []*BasicBlock
}

func (self *Function) Root() *BasicBlock {
    if len(self.Blocks) == 0 {
        return nil
    } else {
        return self.Blocks[0]
    }
}

// Block finds a block by its ID.
func (self *Function) Block(id int) *BasicBlock {
    for _, bb := range self.Blocks {
        if bb.Id == id {
            return bb
        }
    }
    return nil
}

// Size returns the total number of non-terminator instructions.
func (self *Function) Size() (n int) {
    for _, bb := range self.Blocks {
        n += len(bb.Ins)
    }
    return
}

func (self *Function) String() string {
    buf := make([]string, 0, self.Size() + len(self.Blocks) * 2 + 2)
    buf = append(buf, fmt.Sprintf("func %s {", self.Name))

    /* print every block */
    for _, bb := range self.Blocks {
        buf = append(buf, fmt.Sprintf("bb_%d:", bb.Id))

        /* print every instruction */
        for _, ins := range bb.Ins {
            buf = append(buf, "    " + ins.String())
        }

        /* terminators may span multiple lines */
        if bb.Term == nil {
            buf = append(buf, "    <unterminated>")
        } else {
            for _, ss := range strings.Split(bb.Term.String(), "\n") {
                buf = append(buf, "    " + ss)
            }
        }
    }

    /* join them together */
    buf = append(buf, "}")
    return strings.Join(buf, "\n")
}
