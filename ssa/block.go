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

type BasicBlock struct {
    Id   int
    Ins  []IrNode
    Pred []*BasicBlock
    Term IrTerminator
}

func (self *BasicBlock) String() string {
    return fmt.Sprintf("bb_%d", self.Id)
}

// Successors returns the distinct successors of the block in branch order.
func (self *BasicBlock) Successors() []*BasicBlock {
    var ret []*BasicBlock
    var vis map[*BasicBlock]bool

    /* blocks under construction may not be terminated yet */
    if self.Term == nil {
        return nil
    }

    /* collect every target once */
    it := self.Term.Successors()
    vis = make(map[*BasicBlock]bool)

    /* scan all the branches */
    for it.Next() {
        if bb := it.Block(); !vis[bb] {
            vis[bb] = true
            ret = append(ret, bb)
        }
    }

    /* all done */
    return ret
}

func (self *BasicBlock) indexOf(p IrNode) int {
    for i, v := range self.Ins {
        if v == p {
            return i
        }
    }
    return -1
}

func (self *BasicBlock) append(p IrNode) {
    if d, ok := p.(IrDefinition); ok {
        d.setBlock(self)
    }
    self.Ins = append(self.Ins, p)
}

func (self *BasicBlock) removeAt(i int) {
    n := len(self.Ins) - 1
    copy(self.Ins[i:], self.Ins[i + 1:])
    self.Ins[n] = nil
    self.Ins = self.Ins[:n]
}

func (self *BasicBlock) addPred(p *BasicBlock) {
    for _, v := range self.Pred {
        if v == p {
            return
        }
    }
    self.Pred = append(self.Pred, p)
}
