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
    `math`
)

// DivZeroPolicy selects what happens when a signed division by a constant
// zero is found.
type DivZeroPolicy uint8

const (
    // DivZeroSkip leaves the division in place and moves on.
    DivZeroSkip DivZeroPolicy = iota

    // DivZeroFail aborts the pass with a DivisionByZeroError.
    DivZeroFail
)

func (self DivZeroPolicy) String() string {
    switch self {
        case DivZeroSkip : return "skip"
        case DivZeroFail : return "fail"
        default          : return fmt.Sprintf("DivZeroPolicy(%d)", uint8(self))
    }
}

func ParseDivZeroPolicy(s string) (DivZeroPolicy, bool) {
    switch s {
        case "skip" : return DivZeroSkip, true
        case "fail" : return DivZeroFail, true
        default     : return 0, false
    }
}

// Evaluator computes the constant value of foldable instructions. It never
// modifies the graph.
type Evaluator struct {
    DivZero DivZeroPolicy
}

func foldableBinary(v IrNode) (*IrBinaryExpr, bool) {
    if p, ok := v.(*IrBinaryExpr); !ok {
        return nil, false
    } else if _, ok = p.X.Const(); !ok {
        return nil, false
    } else if _, ok = p.Y.Const(); !ok {
        return nil, false
    } else {
        return p, true
    }
}

func foldableCompare(v IrNode) (*IrCompare, bool) {
    if p, ok := v.(*IrCompare); !ok {
        return nil, false
    } else if _, ok = p.X.Const(); !ok {
        return nil, false
    } else if _, ok = p.Y.Const(); !ok {
        return nil, false
    } else {
        return p, true
    }
}

// Binary folds p, whose operands must both be constants. The arithmetic is
// done on the sign-extended 64-bit values and wraps to the width of the
// left operand. ok is false when the operator is not one that folds, or on
// a division by zero under DivZeroSkip.
func (self Evaluator) Binary(p *IrBinaryExpr) (ret Const, ok bool, err error) {
    x, _ := p.X.Const()
    y, _ := p.Y.Const()

    /* check for operator */
    switch p.Op {
        case IrOpAdd : return ConstInt(x.T, x.V + y.V), true, nil
        case IrOpSub : return ConstInt(x.T, x.V - y.V), true, nil
        case IrOpMul : return ConstInt(x.T, x.V * y.V), true, nil
        case IrOpSDiv: break
        default      : return Const{}, false, nil
    }

    /* signed division, x / y truncates toward zero */
    if y.V != 0 {
        return ConstInt(x.T, x.V / y.V), true, nil
    } else if self.DivZero == DivZeroFail {
        return Const{}, false, DivisionByZeroError { Block: blockid(p.bb), Ins: p.String() }
    } else {
        return Const{}, false, nil
    }
}

// Compare folds p, whose operands must both be constants, using signed
// comparison. ok is false for predicates that do not fold.
func (self Evaluator) Compare(p *IrCompare) (Const, bool) {
    var r bool
    x, _ := p.X.Const()
    y, _ := p.Y.Const()

    /* check for predicate */
    switch p.Pred {
        case IrCmpEq  : r = x.V == y.V
        case IrCmpNe  : r = x.V != y.V
        case IrCmpSgt : r = x.V >  y.V
        case IrCmpSge : r = x.V >= y.V
        case IrCmpSlt : r = x.V <  y.V
        case IrCmpSle : r = x.V <= y.V
        default       : return Const{}, false
    }

    /* materialize in the declared result type */
    return ConstBool(p.T, r), true
}

// wraps reports whether folding p into r lost information, either in the
// 64-bit intermediate or when narrowing to the result width.
func wraps(p *IrBinaryExpr, r Const) bool {
    x, _ := p.X.Const()
    y, _ := p.Y.Const()

    /* check the 64-bit intermediate */
    switch p.Op {
        case IrOpAdd  : if v := x.V + y.V; (x.V >= 0) == (y.V >= 0) && (v >= 0) != (x.V >= 0) { return true }
        case IrOpSub  : if v := x.V - y.V; (x.V >= 0) != (y.V >= 0) && (v >= 0) != (x.V >= 0) { return true }
        case IrOpMul  : if x.V != 0 && ((x.V * y.V) / x.V != y.V || (x.V == -1 && y.V == math.MinInt64)) { return true }
        case IrOpSDiv : if x.V == math.MinInt64 && y.V == -1 { return true }
    }

    /* check the narrowing */
    switch p.Op {
        case IrOpAdd  : return r.V != x.V + y.V
        case IrOpSub  : return r.V != x.V - y.V
        case IrOpMul  : return r.V != x.V * y.V
        case IrOpSDiv : return y.V != 0 && r.V != x.V / y.V
        default       : return false
    }
}
