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
    `github.com/oleiade/lane`
)

// BasicBlockIter walks the blocks reachable from the entry in post-order.
type BasicBlockIter struct {
    f *Function
    b *BasicBlock
    s *lane.Stack
    v map[int]struct{}
}

func newBasicBlockIter(fn *Function) *BasicBlockIter {
    ret := &BasicBlockIter {
        f: fn,
        s: lane.NewStack(),
        v: make(map[int]struct{}),
    }

    /* empty functions have nothing to iterate */
    if root := fn.Root(); root != nil {
        ret.from(root)
    }

    /* all done */
    return ret
}

// from continues the walk at bb, skipping every block visited so far.
func (self *BasicBlockIter) from(bb *BasicBlock) {
    self.s.Push(bb)
    self.v[bb.Id] = struct{}{}
}

func (self *BasicBlockIter) visited(bb *BasicBlock) bool {
    _, ok := self.v[bb.Id]
    return ok
}

func (self *BasicBlockIter) Next() bool {
    var tail bool
    var this *BasicBlock

    /* scan until the stack is empty */
    for !self.s.Empty() {
        tail = true
        this = self.s.Head().(*BasicBlock)

        /* add all the successors */
        for _, p := range this.Successors() {
            if _, ok := self.v[p.Id]; !ok {
                tail = false
                self.v[p.Id] = struct{}{}
                self.s.Push(p)
                break
            }
        }

        /* all the successors are visited, pop the current node */
        if tail {
            self.b = self.s.Pop().(*BasicBlock)
            return true
        }
    }

    /* clear the basic block pointer to indicate no more blocks */
    self.b = nil
    return false
}

func (self *BasicBlockIter) Block() *BasicBlock {
    return self.b
}

func (self *BasicBlockIter) ForEach(action func(bb *BasicBlock)) {
    for self.Next() {
        action(self.b)
    }
}

func (self *BasicBlockIter) Reversed() []*BasicBlock {
    nb := len(self.f.Blocks)
    ret := make([]*BasicBlock, 0, nb)

    /* dump all the blocks */
    for self.Next() {
        ret = append(ret, self.b)
    }

    /* reverse the order */
    blockreverse(ret)
    return ret
}

func (self *Function) PostOrder() *BasicBlockIter {
    return newBasicBlockIter(self)
}

func (self *Function) ReversePostOrder(action func(bb *BasicBlock)) {
    for _, bb := range self.PostOrder().Reversed() {
        action(bb)
    }
}

// blockorder lists every block of fn, definitions before uses: reachable
// blocks in reverse post-order, then the unreachable ones in the reverse
// post-order of the forest rooted at each of them in declaration order.
func blockorder(fn *Function) []*BasicBlock {
    var rest []*BasicBlock
    it := fn.PostOrder()
    ret := it.Reversed()

    /* walk from every block the entry cannot reach */
    for _, bb := range fn.Blocks {
        if !it.visited(bb) {
            for it.from(bb); it.Next(); {
                rest = append(rest, it.Block())
            }
        }
    }

    /* unreachable blocks go last */
    blockreverse(rest)
    return append(ret, rest...)
}

func blockreverse(s []*BasicBlock) {
    for i, j := 0, len(s) - 1; i < j; i, j = i + 1, j - 1 {
        s[i], s[j] = s[j], s[i]
    }
}
