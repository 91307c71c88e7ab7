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

// Builder constructs a Function block by block. Instructions are appended
// to the current block selected with At.
type Builder struct {
    id int
    fn *Function
    bb *BasicBlock
}

func CreateBuilder(name string) *Builder {
    return &Builder {
        fn: &Function { Name: name },
    }
}

// Block creates a new empty block. The first block created is the entry.
func (self *Builder) Block() *BasicBlock {
    bb := &BasicBlock { Id: len(self.fn.Blocks) }
    self.fn.Blocks = append(self.fn.Blocks, bb)
    return bb
}

// At selects the block that subsequent instructions are appended to.
func (self *Builder) At(bb *BasicBlock) *Builder {
    self.bb = bb
    return self
}

func (self *Builder) current() *BasicBlock {
    if self.bb == nil {
        panic("builder: no current block")
    } else if self.bb.Term != nil {
        panic(fmt.Sprintf("builder: bb_%d is already terminated", self.bb.Id))
    } else {
        return self.bb
    }
}

func (self *Builder) define(d *Def, t Type) {
    d.T = t
    d.Id = self.id
    self.id++
}

func (self *Builder) Arg(i int, t Type) *IrLoadArg {
    p := &IrLoadArg { Id: i }
    self.define(&p.Def, t)
    self.current().append(p)
    return p
}

// Binary appends an integer binary expression. The result has the type of x.
func (self *Builder) Binary(op IrBinaryOp, x Value, y Value) *IrBinaryExpr {
    p := &IrBinaryExpr { Op: op }
    p.X = newUse(p, 0, x)
    p.Y = newUse(p, 1, y)
    self.define(&p.Def, x.Type())
    self.current().append(p)
    return p
}

func (self *Builder) Add(x Value, y Value) *IrBinaryExpr  { return self.Binary(IrOpAdd, x, y) }
func (self *Builder) Sub(x Value, y Value) *IrBinaryExpr  { return self.Binary(IrOpSub, x, y) }
func (self *Builder) Mul(x Value, y Value) *IrBinaryExpr  { return self.Binary(IrOpMul, x, y) }
func (self *Builder) SDiv(x Value, y Value) *IrBinaryExpr { return self.Binary(IrOpSDiv, x, y) }

// Compare appends an integer comparison producing an i1.
func (self *Builder) Compare(pred IrPredicate, x Value, y Value) *IrCompare {
    p := &IrCompare { Pred: pred }
    p.X = newUse(p, 0, x)
    p.Y = newUse(p, 1, y)
    self.define(&p.Def, I1)
    self.current().append(p)
    return p
}

// Call appends a call to fn. Pass a zero Type for calls without results.
func (self *Builder) Call(fn string, t Type, args ...Value) *IrCall {
    p := &IrCall { Fn: fn }
    p.In = make([]*Use, len(args))

    /* link every argument */
    for i, v := range args {
        p.In[i] = newUse(p, i, v)
    }

    /* void calls do not consume a value ID */
    if t.Valid() {
        self.define(&p.Def, t)
    }

    /* add to the current block */
    self.current().append(p)
    return p
}

func (self *Builder) Jmp(to *BasicBlock) {
    self.current().Term = &IrSwitch { Ln: to }
}

// Br branches to t if cond holds, otherwise to f.
func (self *Builder) Br(cond Value, t *BasicBlock, f *BasicBlock) {
    self.Switch(cond, f, map[int64]*BasicBlock {
        ConstBool(cond.Type(), true).V: t,
    })
}

func (self *Builder) Switch(v Value, ln *BasicBlock, br map[int64]*BasicBlock) {
    p := &IrSwitch { Ln: ln, Br: br }
    p.V = newUse(p, 0, v)
    self.current().Term = p
}

func (self *Builder) Ret(vals ...Value) {
    p := &IrReturn { R: make([]*Use, len(vals)) }
    for i, v := range vals { p.R[i] = newUse(p, i, v) }
    self.current().Term = p
}

// Build finishes the function and links predecessors. Every block must be
// terminated.
func (self *Builder) Build() *Function {
    for _, bb := range self.fn.Blocks {
        if bb.Term == nil {
            panic(fmt.Sprintf("builder: bb_%d does not terminate", bb.Id))
        }
    }

    /* link all the predecessors */
    for _, bb := range self.fn.Blocks {
        for _, p := range bb.Successors() {
            p.addPred(bb)
        }
    }

    /* all done */
    return self.fn
}
