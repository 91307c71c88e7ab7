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
    `testing`

    `github.com/sirupsen/logrus`
    `github.com/sirupsen/logrus/hooks/test`
    `github.com/stretchr/testify/require`
)

func i32(v int64) Const {
    return ConstInt(I32, v)
}

func successors(fn *Function) map[int][]int {
    ret := make(map[int][]int)
    for _, bb := range fn.Blocks {
        for _, p := range bb.Successors() {
            ret[bb.Id] = append(ret[bb.Id], p.Id)
        }
    }
    return ret
}

func strategies(t *testing.T, fn func(t *testing.T, p ConstFold)) {
    t.Run("restart", func(t *testing.T) { fn(t, ConstFold { Strategy: StrategyRestart }) })
    t.Run("worklist", func(t *testing.T) { fn(t, ConstFold { Strategy: StrategyWorklist }) })
}

func TestConstFold_ChainInOneRun(t *testing.T) {
    strategies(t, func(t *testing.T, p ConstFold) {
        b := CreateBuilder("chain")
        b.At(b.Block())
        t1 := b.Add(i32(2), i32(3))
        t2 := b.Mul(t1, i32(4))
        b.Ret(t2)
        fn := b.Build()
        ret, err := p.Run(fn)
        require.NoError(t, err)
        require.Equal(t, 2, ret.Folded())
        require.Equal(t, 0, fn.Size())
        require.Equal(t, i32(20), fn.Root().Term.(*IrReturn).R[0].V)
        require.Nil(t, t1.Block())
        require.Nil(t, t2.Block())
        require.Empty(t, t1.Users())
        require.NoError(t, Verify(fn))
    })
}

func TestConstFold_CompareToBool(t *testing.T) {
    strategies(t, func(t *testing.T, p ConstFold) {
        b := CreateBuilder("cmp")
        b.At(b.Block())
        c1 := b.Compare(IrCmpSlt, i32(3), i32(7))
        call := b.Call("use", 0, c1)
        b.Ret()
        fn := b.Build()
        ok, err := p.Apply(fn)
        require.NoError(t, err)
        require.True(t, ok)
        require.Equal(t, []IrNode { call }, fn.Root().Ins)
        require.Equal(t, ConstBool(I1, true), call.In[0].V)
        require.Equal(t, "call use(true)", call.String())
    })
}

func TestConstFold_DivZeroSkip(t *testing.T) {
    strategies(t, func(t *testing.T, p ConstFold) {
        b := CreateBuilder("div")
        b.At(b.Block())
        d1 := b.SDiv(i32(10), i32(0))
        b.Ret(d1)
        fn := b.Build()
        ret, err := p.Run(fn)
        require.NoError(t, err)
        require.Equal(t, 0, ret.Folded())
        require.Equal(t, 1, ret.Skipped)
        require.Equal(t, []IrNode { d1 }, fn.Root().Ins)
        require.Equal(t, d1, fn.Root().Term.(*IrReturn).R[0].V)
    })
}

func TestConstFold_DivZeroFail(t *testing.T) {
    strategies(t, func(t *testing.T, p ConstFold) {
        b := CreateBuilder("div")
        b.At(b.Block())
        t1 := b.Add(i32(1), i32(2))
        d1 := b.SDiv(i32(10), i32(0))
        b.Ret(t1, d1)
        fn := b.Build()
        p.DivZero = DivZeroFail
        _, err := p.Run(fn)
        require.Error(t, err)
        require.IsType(t, DivisionByZeroError{}, err)
        require.Equal(t, "%1 = sdiv.i32 i32 10, i32 0", err.(DivisionByZeroError).Ins)

        /* folds made before the error stay, and the graph is still consistent */
        require.Equal(t, []IrNode { d1 }, fn.Root().Ins)
        require.Equal(t, i32(3), fn.Root().Term.(*IrReturn).R[0].V)
        require.NoError(t, Verify(fn))
    })
}

func TestConstFold_NonConstantOperand(t *testing.T) {
    strategies(t, func(t *testing.T, p ConstFold) {
        b := CreateBuilder("partial")
        b.At(b.Block())
        x := b.Arg(0, I32)
        t1 := b.Add(x, i32(3))
        t2 := b.Mul(t1, i32(2))
        b.Ret(t2)
        fn := b.Build()
        before := fn.String()
        ok, err := p.Apply(fn)
        require.NoError(t, err)
        require.False(t, ok)
        require.Equal(t, before, fn.String())
        require.Len(t, t1.Users(), 1)
        require.Equal(t, IrNode(t2), t1.Users()[0].User)
    })
}

func TestConstFold_UnsupportedPredicate(t *testing.T) {
    strategies(t, func(t *testing.T, p ConstFold) {
        b := CreateBuilder("unsigned")
        b.At(b.Block())
        c1 := b.Compare(IrCmpUlt, i32(3), i32(7))
        t1 := b.Binary(IrOpXor, i32(3), i32(7))
        b.Ret(c1, t1)
        fn := b.Build()
        ok, err := p.Apply(fn)
        require.NoError(t, err)
        require.False(t, ok)
        require.Equal(t, []IrNode { c1, t1 }, fn.Root().Ins)
    })
}

func TestConstFold_CrossBlockUses(t *testing.T) {
    strategies(t, func(t *testing.T, p ConstFold) {
        b := CreateBuilder("cross")
        bb0 := b.Block()
        bb1 := b.Block()
        bb2 := b.Block()
        b.At(bb0)
        t1 := b.Add(i32(1), i32(2))
        c1 := b.Compare(IrCmpEq, t1, i32(3))
        b.Br(c1, bb1, bb2)
        b.At(bb1)
        t2 := b.Mul(t1, i32(5))
        b.Ret(t2)
        b.At(bb2)
        b.Ret(t1)
        fn := b.Build()
        cfg := successors(fn)
        ret, err := p.Run(fn)
        require.NoError(t, err)
        require.Equal(t, 2, ret.Binary)
        require.Equal(t, 1, ret.Compare)
        require.Equal(t, 0, fn.Size())

        /* the terminator operand is retargeted, but the CFG stays as it was */
        sw := bb0.Term.(*IrSwitch)
        require.Equal(t, ConstBool(I1, true), sw.V.V)
        require.Equal(t, cfg, successors(fn))
        require.Equal(t, i32(15), bb1.Term.(*IrReturn).R[0].V)
        require.Equal(t, i32(3), bb2.Term.(*IrReturn).R[0].V)
        require.NoError(t, Verify(fn))
    })
}

func TestConstFold_Idempotent(t *testing.T) {
    strategies(t, func(t *testing.T, p ConstFold) {
        b := CreateBuilder("idem")
        bb0 := b.Block()
        bb1 := b.Block()
        b.At(bb0)
        x := b.Arg(0, I64)
        t1 := b.Sub(ConstInt(I64, 10), ConstInt(I64, 4))
        t2 := b.Add(x, t1)
        b.Jmp(bb1)
        b.At(bb1)
        t3 := b.SDiv(t1, ConstInt(I64, 0))
        b.Ret(t2, t3)
        fn := b.Build()
        ok, err := p.Apply(fn)
        require.NoError(t, err)
        require.True(t, ok)
        after := fn.String()
        ok, err = p.Apply(fn)
        require.NoError(t, err)
        require.False(t, ok)
        require.Equal(t, after, fn.String())
    })
}

func TestConstFold_IdempotentUnreachable(t *testing.T) {
    strategies(t, func(t *testing.T, p ConstFold) {
        fn := backward()
        require.NoError(t, Verify(fn))
        ret, err := p.Run(fn)
        require.NoError(t, err)
        require.Equal(t, 2, ret.Folded())
        require.Equal(t, 0, fn.Size())
        require.Equal(t, i32(20), fn.Blocks[1].Term.(*IrReturn).R[0].V)
        ok, err := p.Apply(fn)
        require.NoError(t, err)
        require.False(t, ok)
    })
}

func TestConstFold_StrategiesAgree(t *testing.T) {
    build := func() *Function {
        b := CreateBuilder("agree")
        b.At(b.Block())
        x := b.Arg(0, I16)
        t1 := b.Mul(ConstInt(I16, 300), ConstInt(I16, 300))
        t2 := b.Add(x, t1)
        t3 := b.Sub(t1, ConstInt(I16, 1))
        t4 := b.Compare(IrCmpSge, t3, ConstInt(I16, 0))
        t5 := b.SDiv(t3, ConstInt(I16, 0))
        b.Ret(t2, t4, t5)
        return b.Build()
    }
    f1, f2 := build(), build()
    r1, err := ConstFold { Strategy: StrategyRestart }.Run(f1)
    require.NoError(t, err)
    r2, err := ConstFold { Strategy: StrategyWorklist }.Run(f2)
    require.NoError(t, err)
    require.Equal(t, f1.String(), f2.String())
    require.Equal(t, r1.Folded(), r2.Folded())
    require.Equal(t, r1.Wrapped, r2.Wrapped)
    require.Equal(t, r1.Skipped, r2.Skipped)
}

func TestConstFold_Wraparound(t *testing.T) {
    b := CreateBuilder("wrap")
    b.At(b.Block())
    t1 := b.Add(ConstInt(I8, 127), ConstInt(I8, 1))
    b.Ret(t1)
    fn := b.Build()
    ret, err := ConstFold{}.Run(fn)
    require.NoError(t, err)
    require.Equal(t, 1, ret.Wrapped)
    require.Equal(t, ConstInt(I8, -128), fn.Root().Term.(*IrReturn).R[0].V)
}

func TestConstFold_MaxRestarts(t *testing.T) {
    strategies(t, func(t *testing.T, p ConstFold) {
        b := CreateBuilder("limit")
        b.At(b.Block())
        t1 := b.Add(i32(1), i32(1))
        t2 := b.Add(t1, i32(1))
        t3 := b.Add(t2, i32(1))
        b.Ret(t3)
        fn := b.Build()
        p.MaxRestarts = 2
        ret, err := p.Run(fn)
        require.Error(t, err)
        require.IsType(t, LimitError{}, err)
        require.Equal(t, LimitError { Block: 0, Ins: "%2 = add.i32 i32 3, i32 1", Limit: 2 }, err)
        require.Equal(t, 2, ret.Folded())
        require.Equal(t, []IrNode { t3 }, fn.Root().Ins)
        require.NoError(t, Verify(fn))

        /* a block that needs exactly the limit is fine */
        b = CreateBuilder("limit")
        b.At(b.Block())
        t1 = b.Add(i32(1), i32(1))
        t2 = b.Add(t1, i32(1))
        b.Ret(t2)
        fn = b.Build()
        ret, err = p.Run(fn)
        require.NoError(t, err)
        require.Equal(t, 2, ret.Folded())
        require.Equal(t, 0, fn.Size())
    })
}

func TestConstFold_MaxRestartsPerBlock(t *testing.T) {
    strategies(t, func(t *testing.T, p ConstFold) {
        b := CreateBuilder("blocks")
        bb0 := b.Block()
        bb1 := b.Block()
        b.At(bb0)
        t1 := b.Add(i32(1), i32(1))
        b.Jmp(bb1)
        b.At(bb1)
        t2 := b.Add(t1, i32(1))
        b.Ret(t2)
        fn := b.Build()
        p.MaxRestarts = 1
        ret, err := p.Run(fn)
        require.NoError(t, err)
        require.Equal(t, 2, ret.Folded())
    })
}

func TestConstFold_Logging(t *testing.T) {
    log, hook := test.NewNullLogger()
    log.SetLevel(logrus.DebugLevel)
    b := CreateBuilder("logged")
    b.At(b.Block())
    t1 := b.Add(i32(2), i32(3))
    b.Ret(t1)
    fn := b.Build()
    ok, err := ConstFold { Log: logrus.NewEntry(log) }.Apply(fn)
    require.NoError(t, err)
    require.True(t, ok)
    require.Len(t, hook.Entries, 1)
    e := hook.LastEntry()
    require.Equal(t, "folded", e.Message)
    require.Equal(t, logrus.DebugLevel, e.Level)
    require.Equal(t, "logged", e.Data["func"])
    require.Equal(t, "%0 = add.i32 i32 2, i32 3", e.Data["ins"])
    require.Equal(t, "i32 5", e.Data["value"])
}

func TestConstFold_Optimize(t *testing.T) {
    b := CreateBuilder("optimize")
    b.At(b.Block())
    t1 := b.Add(i32(2), i32(3))
    b.Ret(t1)
    fn := b.Build()
    require.Equal(t, "Constant Folding", Passes[0].Name)
    ok, err := Optimize(fn)
    require.NoError(t, err)
    require.True(t, ok)
    ok, err = Optimize(fn)
    require.NoError(t, err)
    require.False(t, ok)
}

func TestConstFold_EmptyFunction(t *testing.T) {
    ok, err := ConstFold{}.Apply(new(Function))
    require.NoError(t, err)
    require.False(t, ok)
}
