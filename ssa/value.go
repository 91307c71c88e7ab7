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
)

// Value is anything an operand can refer to: a Const or the result of an
// instruction.
type Value interface {
    Type() Type
    Name() string
}

// Const is an immutable integer constant. V is always kept sign-extended
// from T, so two constants of the same value and width compare equal.
type Const struct {
    T Type
    V int64
}

// ConstInt creates a constant of type t from a signed 64-bit value,
// truncating it to the width of t.
func ConstInt(t Type, v int64) Const {
    return Const {
        T: t,
        V: t.Trunc(v),
    }
}

// ConstBool creates the boolean constant v typed as t.
func ConstBool(t Type, v bool) Const {
    if v {
        return ConstInt(t, 1)
    } else {
        return ConstInt(t, 0)
    }
}

func (self Const) Type() Type {
    return self.T
}

func (self Const) Bool() bool {
    return self.V != 0
}

func (self Const) Name() string {
    if self.T != I1 {
        return fmt.Sprintf("%s %d", self.T, self.V)
    } else if self.V != 0 {
        return "true"
    } else {
        return "false"
    }
}

func (self Const) String() string {
    return self.Name()
}

// Use is a use edge: operand slot Index of User refers to V.
type Use struct {
    V     Value
    User  IrNode
    Index int
}

func newUse(user IrNode, index int, v Value) *Use {
    ret := &Use {
        User  : user,
        Index : index,
    }
    ret.Set(v)
    return ret
}

// Set retargets the edge to v, keeping the user lists of both the old and
// the new definition up to date.
func (self *Use) Set(v Value) {
    if d, ok := self.V.(IrDefinition); ok {
        d.unlink(self)
    }

    /* link to the new value if it's an instruction */
    if self.V = v; v != nil {
        if d, ok := v.(IrDefinition); ok {
            d.link(self)
        }
    }
}

// Const returns the referenced constant, if the operand is one.
func (self *Use) Const() (Const, bool) {
    v, ok := self.V.(Const)
    return v, ok
}

func (self *Use) String() string {
    if self.V == nil {
        return "<nil>"
    } else {
        return self.V.Name()
    }
}

// Def is the result part of an instruction. It records every use edge that
// refers to the instruction.
type Def struct {
    Id    int
    T     Type
    bb    *BasicBlock
    users []*Use
}

func (self *Def) Type() Type {
    return self.T
}

func (self *Def) Name() string {
    return fmt.Sprintf("%%%d", self.Id)
}

// Users returns the use edges currently referring to this result. The
// returned slice is owned by the definition and changes on every Use.Set.
func (self *Def) Users() []*Use {
    return self.users
}

// Block returns the owning block, or nil once the instruction is removed.
func (self *Def) Block() *BasicBlock {
    return self.bb
}

func (self *Def) link(u *Use) {
    self.users = append(self.users, u)
}

func (self *Def) unlink(u *Use) {
    for i, p := range self.users {
        if p == u {
            self.users = append(self.users[:i], self.users[i + 1:]...)
            return
        }
    }
}

func (self *Def) setBlock(bb *BasicBlock) {
    self.bb = bb
}
