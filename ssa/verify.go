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

package ssa

import (
    `fmt`

    `gonum.org/v1/gonum/graph/flow`
    `gonum.org/v1/gonum/graph/simple`
)

type _Verifier struct {
    fn  *Function
    dom flow.DominatorTree
    loc map[IrNode]Pos
    ord map[*BasicBlock]int
}

// Verify checks that fn is well formed: every block terminates inside the
// function, use edges and user lists agree with each other, and every
// operand is defined by a live instruction that dominates the use. Blocks the
// entry cannot reach have no dominators, so their operands must be defined
// in a block that comes earlier in folding order instead.
func Verify(fn *Function) error {
    v := &_Verifier {
        fn  : fn,
        loc : make(map[IrNode]Pos),
    }

    /* check the blocks first, the dominator tree depends on them */
    if err := v.blocks(); err != nil {
        return err
    }

    /* then every instruction */
    v.dom = dominators(fn)
    v.ord = make(map[*BasicBlock]int, len(fn.Blocks))

    /* unreachable code is checked against the folding order */
    for i, bb := range blockorder(fn) {
        v.ord[bb] = i
    }

    /* check every value */
    return v.values()
}

func dominators(fn *Function) flow.DominatorTree {
    g := simple.NewDirectedGraph()

    /* add every block as a node */
    for _, bb := range fn.Blocks {
        g.AddNode(simple.Node(bb.Id))
    }

    /* self loops never affect dominance */
    for _, bb := range fn.Blocks {
        for _, p := range bb.Successors() {
            if p.Id != bb.Id {
                g.SetEdge(g.NewEdge(simple.Node(bb.Id), simple.Node(p.Id)))
            }
        }
    }

    /* build the dominator tree */
    return flow.Dominators(simple.Node(fn.Root().Id), g)
}

func (self *_Verifier) dominates(a *BasicBlock, b *BasicBlock) bool {
    if a == b {
        return true
    }

    /* walk up the tree from b */
    for p := self.dom.DominatorOf(int64(b.Id)); p != nil; p = self.dom.DominatorOf(p.ID()) {
        if p.ID() == int64(a.Id) {
            return true
        }
    }

    /* not found */
    return false
}

func (self *_Verifier) reachable(bb *BasicBlock) bool {
    return bb == self.fn.Root() || self.dom.DominatorOf(int64(bb.Id)) != nil
}

func (self *_Verifier) fail(p Pos, format string, args ...interface{}) error {
    return VerifyError {
        Pos    : p,
        Reason : fmt.Sprintf(format, args...),
    }
}

func (self *_Verifier) blocks() error {
    ids := make(map[int]bool, len(self.fn.Blocks))
    own := make(map[*BasicBlock]bool, len(self.fn.Blocks))

    /* at least one block */
    if len(self.fn.Blocks) == 0 {
        return self.fail(Pos{}, "function %s has no blocks", self.fn.Name)
    }

    /* block IDs must be unique */
    for _, bb := range self.fn.Blocks {
        if ids[bb.Id] {
            return self.fail(pos(bb, _P_term), "duplicated block ID %d", bb.Id)
        }
        ids[bb.Id] = true
        own[bb] = true
    }

    /* every block terminates, and only to blocks of this function */
    for _, bb := range self.fn.Blocks {
        if bb.Term == nil {
            return self.fail(pos(bb, _P_term), "block does not terminate")
        }
        for _, p := range bb.Successors() {
            if !own[p] {
                return self.fail(pos(bb, _P_term), "branch to bb_%d outside of the function", p.Id)
            }
        }
    }

    /* record the position of every node */
    for _, bb := range self.fn.Blocks {
        for i, v := range bb.Ins {
            if _, ok := self.loc[v]; ok {
                return self.fail(pos(bb, i), "instruction appears more than once: %s", v)
            }
            self.loc[v] = pos(bb, i)
        }
        self.loc[bb.Term] = pos(bb, _P_term)
    }

    /* all done */
    return nil
}

func (self *_Verifier) values() error {
    for _, bb := range self.fn.Blocks {
        for i, v := range bb.Ins {
            if err := self.node(v, pos(bb, i)); err != nil {
                return err
            }
        }
        if err := self.node(bb.Term, pos(bb, _P_term)); err != nil {
            return err
        }
    }
    return nil
}

func (self *_Verifier) node(v IrNode, at Pos) error {
    if d, ok := v.(IrDefinition); ok {
        if d.Block() != at.B {
            return self.fail(at, "instruction claims to live in bb_%d: %s", blockid(d.Block()), v)
        }

        /* every user must point back at this definition */
        for _, u := range d.Users() {
            if u.V != d {
                return self.fail(at, "stale user %s[%d] of %s", u.User, u.Index, d.Name())
            } else if _, ok := self.loc[u.User]; !ok {
                return self.fail(at, "user of %s is not in the function: %s", d.Name(), u.User)
            }
        }
    }

    /* nodes without operands are done */
    use, ok := v.(IrUsages)
    if !ok {
        return nil
    }

    /* check every operand */
    for i, u := range use.Usages() {
        if u == nil || u.V == nil {
            return self.fail(at, "operand %d is missing: %s", i, v)
        } else if u.User != v || u.Index != i {
            return self.fail(at, "operand %d is owned by another node: %s", i, v)
        } else if err := self.operand(u, at); err != nil {
            return err
        }
    }

    /* all done */
    return nil
}

func (self *_Verifier) operand(u *Use, at Pos) error {
    d, ok := u.V.(IrDefinition)

    /* constants are always valid */
    if !ok {
        if c, ok := u.V.(Const); ok && !c.T.Valid() {
            return self.fail(at, "constant with invalid width %d", c.T)
        }
        return nil
    }

    /* the definition must be live */
    def, ok := self.loc[d]
    if !ok {
        return self.fail(at, "operand %s refers to a removed instruction: %s", d.Name(), u.User)
    }

    /* the use edge must be registered */
    found := false
    for _, p := range d.Users() {
        if p == u {
            found = true
            break
        }
    }

    /* check for the reverse edge */
    if !found {
        return self.fail(at, "use of %s is not registered with its definition", d.Name())
    }

    /* definitions must come before uses */
    if def.B == at.B {
        if !def.isPriorTo(at) {
            return self.fail(at, "%s is used before it is defined", d.Name())
        }
    } else if !self.reachable(at.B) {
        if self.ord[def.B] > self.ord[at.B] {
            return self.fail(at, "definition of %s in bb_%d does not precede its use in unreachable code", d.Name(), def.B.Id)
        }
    } else if !self.dominates(def.B, at.B) {
        return self.fail(at, "definition of %s in bb_%d does not dominate its use", d.Name(), def.B.Id)
    }

    /* all done */
    return nil
}
