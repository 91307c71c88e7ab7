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
    `errors`
    `fmt`
    `testing`

    `github.com/brianvoe/gofakeit/v6`
    `github.com/davecgh/go-spew/spew`
    `github.com/stretchr/testify/require`
    `pgregory.net/rapid`
)

const (
    _MaxSteps = 1000
)

var (
    errTrap  = errors.New("division by zero")
    errSteps = errors.New("too many steps")
)

type _Generator struct {
    f    *gofakeit.Faker
    b    *Builder
    t    Type
    bb   []*BasicBlock
    ints []Value
    cond []Value
}

// generate creates a random function from seed. Every block only uses the
// values defined in the entry block or in itself, and only branches
// forward, so the result is always well formed and always terminates.
func generate(seed int64) *Function {
    f := gofakeit.New(seed)
    g := &_Generator {
        f: f,
        b: CreateBuilder(fmt.Sprintf("gen_%d", seed)),
        t: Type(f.RandomInt([]int { 8, 16, 32, 64 })),
    }

    /* create all the blocks */
    for i := f.Number(1, 5); i > 0; i-- {
        g.bb = append(g.bb, g.b.Block())
    }

    /* the entry block loads the arguments */
    g.b.At(g.bb[0])
    g.ints = append(g.ints, g.b.Arg(0, g.t), g.b.Arg(1, g.t))

    /* fill every block */
    for i, bb := range g.bb {
        ni, nc := len(g.ints), len(g.cond)
        g.block(i, bb)

        /* only the entry block shares its values */
        if i != 0 {
            g.ints, g.cond = g.ints[:ni], g.cond[:nc]
        }
    }

    /* all done */
    return g.b.Build()
}

func (self *_Generator) intval() Value {
    if self.f.Number(0, 2) == 0 {
        return self.ints[self.f.Number(0, len(self.ints) - 1)]
    }

    /* small constants make division by zero more likely */
    if self.f.Bool() {
        return ConstInt(self.t, int64(self.f.Number(-2, 2)))
    } else {
        return ConstInt(self.t, self.f.Int64())
    }
}

func (self *_Generator) condval() Value {
    if len(self.cond) != 0 && self.f.Number(0, 3) != 0 {
        return self.cond[self.f.Number(0, len(self.cond) - 1)]
    } else {
        return ConstBool(I1, self.f.Bool())
    }
}

func (self *_Generator) block(i int, bb *BasicBlock) {
    self.b.At(bb)

    /* random instructions */
    for n := self.f.Number(0, 8); n > 0; n-- {
        switch self.f.Number(0, 9) {
            case 0, 1, 2, 3 : self.ints = append(self.ints, self.b.Binary(arithmetic[self.f.Number(0, 3)], self.intval(), self.intval()))
            case 4          : self.ints = append(self.ints, self.b.Binary(IrOpXor, self.intval(), self.intval()))
            case 5, 6, 7    : self.cond = append(self.cond, self.b.Compare(predicates[self.f.Number(0, 5)], self.intval(), self.intval()))
            case 8          : self.cond = append(self.cond, self.b.Compare(IrCmpUlt, self.intval(), self.intval()))
            case 9          : self.b.Call("sink", 0, self.intval(), self.condval())
        }
    }

    /* the last block must return */
    if i == len(self.bb) - 1 {
        self.b.Ret(self.intval(), self.condval())
        return
    }

    /* branch forward */
    switch self.f.Number(0, 3) {
        case 0  : self.b.Jmp(self.target(i))
        case 1  : self.b.Br(self.condval(), self.target(i), self.target(i))
        case 2  : self.b.Switch(self.intval(), self.target(i), map[int64]*BasicBlock { 0: self.target(i), 1: self.target(i) })
        default : self.b.Ret(self.intval())
    }
}

func (self *_Generator) target(i int) *BasicBlock {
    return self.bb[self.f.Number(i + 1, len(self.bb) - 1)]
}

type _Trace struct {
    Ret   []int64
    Calls []string
    Err   error
}

// interpret runs fn on args without relying on the evaluator.
func interpret(fn *Function, args ...int64) (tr _Trace) {
    bb := fn.Root()
    env := make(map[IrNode]int64)

    /* operand lookup */
    load := func(u *Use) int64 {
        if c, ok := u.V.(Const); ok {
            return c.V
        } else if v, ok := env[u.V.(IrNode)]; ok {
            return v
        } else {
            panic("undefined value: " + u.V.Name())
        }
    }

    /* run until return */
    for steps := 0; steps < _MaxSteps; steps++ {
        for _, ins := range bb.Ins {
            switch p := ins.(type) {
                case *IrLoadArg: {
                    env[p] = p.T.Trunc(args[p.Id])
                }
                case *IrBinaryExpr: {
                    x, y := load(p.X), load(p.Y)
                    if p.Op == IrOpXor {
                        env[p] = p.T.Trunc(x ^ y)
                    } else if p.Op == IrOpSDiv && y == 0 {
                        tr.Err = errTrap
                        return
                    } else {
                        env[p] = nativeBinary(p.Op, p.T, x, y)
                    }
                }
                case *IrCompare: {
                    var r bool
                    x, y := load(p.X), load(p.Y)
                    t := p.X.V.Type()
                    if p.Pred == IrCmpUlt {
                        m := uint64(1) << uint(t) - 1
                        if t == I64 { m = ^uint64(0) }
                        r = uint64(x) & m < uint64(y) & m
                    } else {
                        r = nativeCompare(p.Pred, t, x, y)
                    }
                    env[p] = ConstBool(p.T, r).V
                }
                case *IrCall: {
                    tr.Calls = append(tr.Calls, fmt.Sprintf("%s(%d, %d)", p.Fn, load(p.In[0]), load(p.In[1])))
                }
                default: {
                    panic("unexpected instruction: " + ins.String())
                }
            }
        }

        /* follow the terminator */
        switch p := bb.Term.(type) {
            case *IrReturn: {
                for _, u := range p.R {
                    tr.Ret = append(tr.Ret, load(u))
                }
                return
            }
            case *IrSwitch: {
                if p.V == nil {
                    bb = p.Ln
                } else if to, ok := p.Br[load(p.V)]; ok {
                    bb = to
                } else {
                    bb = p.Ln
                }
            }
        }
    }

    /* should never happen for generated functions */
    tr.Err = errSteps
    return
}

// unfolded returns the instructions the pass should have folded.
func unfolded(fn *Function) (ret []IrNode) {
    for _, bb := range fn.Blocks {
        for _, ins := range bb.Ins {
            if p, ok := foldableBinary(ins); ok {
                if _, ok, _ := (Evaluator{}).Binary(p); ok {
                    ret = append(ret, p)
                }
            } else if p, ok := foldableCompare(ins); ok {
                if _, ok := (Evaluator{}).Compare(p); ok {
                    ret = append(ret, p)
                }
            }
        }
    }
    return
}

func checkGenerated(t require.TestingT, seed int64, strategy Strategy, args [][2]int64) {
    fn := generate(seed)
    ref := generate(seed)
    require.Equal(t, fn.String(), ref.String())
    require.NoError(t, Verify(fn), fn.String())

    /* fold the function */
    cfg := successors(fn)
    size := fn.Size()
    ret, err := ConstFold { Strategy: strategy }.Run(fn)
    require.NoError(t, err)
    require.LessOrEqual(t, ret.Restarts, size)

    /* every fold removes one instruction, and every restart follows a fold */
    require.Equal(t, size - fn.Size(), ret.Folded())
    if strategy == StrategyRestart {
        require.Equal(t, ret.Folded(), ret.Restarts)
    } else {
        require.Zero(t, ret.Restarts)
    }
    require.NoError(t, Verify(fn), fn.String())
    require.Empty(t, unfolded(fn), fn.String())
    require.Equal(t, cfg, successors(fn))

    /* folding again changes nothing */
    after := fn.String()
    ok, err := ConstFold { Strategy: strategy }.Apply(fn)
    require.NoError(t, err)
    require.False(t, ok)
    require.Equal(t, after, fn.String())

    /* and the behavior never changes */
    for _, a := range args {
        want := interpret(ref, a[0], a[1])
        have := interpret(fn, a[0], a[1])
        require.Equal(t, want, have, "args %v\nbefore: %s\nafter: %s\ntrace: %s", a, ref, fn, spew.Sdump(want))
    }
}

func TestGenerated_Fixed(t *testing.T) {
    args := [][2]int64 { { 0, 0 }, { 1, -1 }, { 127, 128 }, { -32768, 65535 } }
    for seed := int64(0); seed < 200; seed++ {
        checkGenerated(t, seed, StrategyRestart, args)
        checkGenerated(t, seed, StrategyWorklist, args)
    }
}

func TestGenerated_StrategiesAgree(t *testing.T) {
    rapid.Check(t, func(t *rapid.T) {
        seed := rapid.Int64().Draw(t, "seed")
        f1, f2 := generate(seed), generate(seed)
        r1, err := ConstFold { Strategy: StrategyRestart }.Run(f1)
        require.NoError(t, err)
        r2, err := ConstFold { Strategy: StrategyWorklist }.Run(f2)
        require.NoError(t, err)
        require.Equal(t, f1.String(), f2.String())
        require.Equal(t, r1.Folded(), r2.Folded())
    })
}

func TestGenerated_Semantics(t *testing.T) {
    rapid.Check(t, func(t *rapid.T) {
        seed := rapid.Int64().Draw(t, "seed")
        x := rapid.Int64().Draw(t, "x")
        y := rapid.Int64().Draw(t, "y")
        checkGenerated(t, seed, rapid.SampledFrom([]Strategy { StrategyRestart, StrategyWorklist }).Draw(t, "strategy"), [][2]int64 { { x, y } })
    })
}

func FuzzConstFold(f *testing.F) {
    f.Add(int64(0), int64(0), int64(0))
    f.Add(int64(42), int64(-1), int64(1))
    f.Add(int64(1 << 40), int64(127), int64(-128))
    f.Fuzz(func(t *testing.T, seed int64, x int64, y int64) {
        checkGenerated(t, seed, StrategyRestart, [][2]int64 { { x, y } })
    })
}
