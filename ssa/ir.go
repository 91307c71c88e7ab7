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
    `sort`
    `strings`
)

type IrNode interface {
    fmt.Stringer
    irnode()
}

func (*IrSwitch)     irnode() {}
func (*IrReturn)     irnode() {}
func (*IrLoadArg)    irnode() {}
func (*IrBinaryExpr) irnode() {}
func (*IrCompare)    irnode() {}
func (*IrCall)       irnode() {}

// IrUsages is implemented by every node that has operands.
type IrUsages interface {
    IrNode
    Usages() []*Use
}

// IrDefinition is implemented by every instruction that produces a result.
type IrDefinition interface {
    IrNode
    Value
    Users() []*Use
    Block() *BasicBlock
    link(u *Use)
    unlink(u *Use)
    setBlock(bb *BasicBlock)
}

type IrSuccessors interface {
    Next() bool
    Block() *BasicBlock
    Value() (int64, bool)
}

type IrTerminator interface {
    IrNode
    Successors() IrSuccessors
    irterminator()
}

func (*IrSwitch) irterminator() {}
func (*IrReturn) irterminator() {}

type _SwitchSuccessors struct {
    i int
    k []int64
    v *BasicBlock
    r *BasicBlock
    b map[int64]*BasicBlock
}

func (self *_SwitchSuccessors) Next() bool {
    if self.i < len(self.k) {
        self.v = self.b[self.k[self.i]]
        self.i++
        return true
    } else if self.r != nil {
        self.i++
        self.v = self.r
        self.r = nil
        return true
    } else {
        return false
    }
}

func (self *_SwitchSuccessors) Block() *BasicBlock {
    return self.v
}

func (self *_SwitchSuccessors) Value() (int64, bool) {
    if self.i == 0 || self.i > len(self.k) {
        return 0, false
    } else {
        return self.k[self.i - 1], true
    }
}

// IrSwitch transfers control to Br[V], or to Ln if V matches no case. A
// switch without any case is an unconditional jump and has no operand.
type IrSwitch struct {
    V  *Use
    Ln *BasicBlock
    Br map[int64]*BasicBlock
}

func (self *IrSwitch) keys() []int64 {
    ret := make([]int64, 0, len(self.Br))
    for k := range self.Br { ret = append(ret, k) }
    sort.Slice(ret, func(i int, j int) bool { return ret[i] < ret[j] })
    return ret
}

func (self *IrSwitch) String() string {
    nb := len(self.Br)
    ret := make([]string, 0, nb + 1)

    /* unconditional jumps */
    if self.V == nil {
        return fmt.Sprintf("goto bb_%d", self.Ln.Id)
    }

    /* add each case, printed in the type of the switch value */
    for _, k := range self.keys() {
        ret = append(ret, fmt.Sprintf("  %s => bb_%d,", caselabel(self.V, k), self.Br[k].Id))
    }

    /* default branch */
    ret = append(ret, fmt.Sprintf(
        "  _ => bb_%d,",
        self.Ln.Id,
    ))

    /* join them together */
    return fmt.Sprintf(
        "switch %s {\n%s\n}",
        self.V,
        strings.Join(ret, "\n"),
    )
}

func (self *IrSwitch) Usages() []*Use {
    if self.V == nil {
        return nil
    } else {
        return []*Use { self.V }
    }
}

func (self *IrSwitch) Successors() IrSuccessors {
    return &_SwitchSuccessors {
        k: self.keys(),
        r: self.Ln,
        b: self.Br,
    }
}

type _EmptySuccessor struct{}
func (_EmptySuccessor) Next()  bool          { return false }
func (_EmptySuccessor) Block() *BasicBlock   { return nil }
func (_EmptySuccessor) Value() (int64, bool) { return 0, false }

type IrReturn struct {
    R []*Use
}

func (self *IrReturn) String() string {
    nb := len(self.R)
    ret := make([]string, 0, nb)

    /* dump operands */
    for _, r := range self.R {
        ret = append(ret, r.String())
    }

    /* join them together */
    return fmt.Sprintf(
        "ret {%s}",
        strings.Join(ret, ", "),
    )
}

func (self *IrReturn) Usages() []*Use {
    return self.R
}

func (self *IrReturn) Successors() IrSuccessors {
    return _EmptySuccessor{}
}

// IrLoadArg produces the Id-th argument of the function.
type IrLoadArg struct {
    Def
    Id int
}

func (self *IrLoadArg) String() string {
    return fmt.Sprintf("%s = load.arg.%s #%d", self.Name(), self.T, self.Id)
}

type (
    IrBinaryOp  uint8
    IrPredicate uint8
)

const (
    IrOpAdd IrBinaryOp = iota
    IrOpSub
    IrOpMul
    IrOpSDiv
    IrOpUDiv
    IrOpAnd
    IrOpOr
    IrOpXor
    IrOpShl
    IrOpAShr
)

const (
    IrCmpEq IrPredicate = iota
    IrCmpNe
    IrCmpSgt
    IrCmpSge
    IrCmpSlt
    IrCmpSle
    IrCmpUgt
    IrCmpUge
    IrCmpUlt
    IrCmpUle
)

var _BinaryOpNames = [...]string {
    IrOpAdd  : "add",
    IrOpSub  : "sub",
    IrOpMul  : "mul",
    IrOpSDiv : "sdiv",
    IrOpUDiv : "udiv",
    IrOpAnd  : "and",
    IrOpOr   : "or",
    IrOpXor  : "xor",
    IrOpShl  : "shl",
    IrOpAShr : "ashr",
}

var _PredicateNames = [...]string {
    IrCmpEq  : "eq",
    IrCmpNe  : "ne",
    IrCmpSgt : "sgt",
    IrCmpSge : "sge",
    IrCmpSlt : "slt",
    IrCmpSle : "sle",
    IrCmpUgt : "ugt",
    IrCmpUge : "uge",
    IrCmpUlt : "ult",
    IrCmpUle : "ule",
}

func (self IrBinaryOp) String() string {
    if int(self) < len(_BinaryOpNames) {
        return _BinaryOpNames[self]
    } else {
        return fmt.Sprintf("binop(%d)", uint8(self))
    }
}

func (self IrPredicate) String() string {
    if int(self) < len(_PredicateNames) {
        return _PredicateNames[self]
    } else {
        return fmt.Sprintf("pred(%d)", uint8(self))
    }
}

// ParseBinaryOp looks up a binary operator by its textual name.
func ParseBinaryOp(s string) (IrBinaryOp, bool) {
    for i, v := range _BinaryOpNames {
        if v == s {
            return IrBinaryOp(i), true
        }
    }
    return 0, false
}

// ParsePredicate looks up a comparison predicate by its textual name.
func ParsePredicate(s string) (IrPredicate, bool) {
    for i, v := range _PredicateNames {
        if v == s {
            return IrPredicate(i), true
        }
    }
    return 0, false
}

type IrBinaryExpr struct {
    Def
    X  *Use
    Y  *Use
    Op IrBinaryOp
}

func (self *IrBinaryExpr) String() string {
    return fmt.Sprintf("%s = %s.%s %s, %s", self.Name(), self.Op, self.T, self.X, self.Y)
}

func (self *IrBinaryExpr) Usages() []*Use {
    return []*Use { self.X, self.Y }
}

type IrCompare struct {
    Def
    X    *Use
    Y    *Use
    Pred IrPredicate
}

func (self *IrCompare) String() string {
    return fmt.Sprintf("%s = icmp.%s %s, %s", self.Name(), self.Pred, self.X, self.Y)
}

func (self *IrCompare) Usages() []*Use {
    return []*Use { self.X, self.Y }
}

// IrCall calls an external function. It has a result only when T is a
// valid type.
type IrCall struct {
    Def
    Fn string
    In []*Use
}

func (self *IrCall) String() string {
    in := make([]string, 0, len(self.In))

    /* dump args */
    for _, r := range self.In {
        in = append(in, r.String())
    }

    /* calls without results */
    if !self.T.Valid() {
        return fmt.Sprintf("call %s(%s)", self.Fn, strings.Join(in, ", "))
    } else {
        return fmt.Sprintf("%s = call.%s %s(%s)", self.Name(), self.T, self.Fn, strings.Join(in, ", "))
    }
}

func (self *IrCall) Usages() []*Use {
    return self.In
}

func caselabel(v *Use, k int64) string {
    if v == nil || v.V == nil || !v.V.Type().Valid() {
        return fmt.Sprint(k)
    } else if t := v.V.Type(); t == I1 {
        return ConstInt(t, k).Name()
    } else {
        return fmt.Sprint(k)
    }
}
