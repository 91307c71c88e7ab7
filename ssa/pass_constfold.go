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

    `github.com/oleiade/lane`
    `github.com/sirupsen/logrus`
)

// Strategy selects how ConstFold reaches the per-block fixpoint.
type Strategy uint8

const (
    // StrategyRestart rescans the block from its first instruction after
    // every fold.
    StrategyRestart Strategy = iota

    // StrategyWorklist only revisits the users of folded instructions.
    StrategyWorklist
)

func (self Strategy) String() string {
    switch self {
        case StrategyRestart  : return "restart"
        case StrategyWorklist : return "worklist"
        default               : return fmt.Sprintf("Strategy(%d)", uint8(self))
    }
}

func ParseStrategy(s string) (Strategy, bool) {
    switch s {
        case "restart"  : return StrategyRestart, true
        case "worklist" : return StrategyWorklist, true
        default         : return 0, false
    }
}

// ConstFold folds integer arithmetic and comparisons whose operands are
// both constants, and propagates the results into their users. Folding is
// local to each block; it never changes the shape of the CFG.
//
// MaxRestarts, when positive, is the number of folds allowed in a single
// block. With StrategyRestart every fold rescans the block once, so it is
// also the limit of rescans. A block that needs more stops the pass with a
// LimitError, and the instruction that would exceed it is left unfolded.
type ConstFold struct {
    Evaluator
    Strategy    Strategy
    MaxRestarts int
    Log         *logrus.Entry
}

func (self ConstFold) logger(fn *Function) *logrus.Entry {
    if self.Log != nil {
        return self.Log.WithField("func", fn.Name)
    } else {
        return logrus.WithFields(logrus.Fields { "pass": "constfold", "func": fn.Name })
    }
}

// Apply runs the pass on fn and reports whether any instruction was folded.
func (self ConstFold) Apply(fn *Function) (bool, error) {
    ret, err := self.Run(fn)
    return ret.Folded() != 0, err
}

// Run runs the pass on fn. On error the function is left with every fold
// made so far applied, each of which is complete on its own.
func (self ConstFold) Run(fn *Function) (ret FoldResult, err error) {
    log := self.logger(fn)

    /* each block is folded on its own, definitions first */
    for _, bb := range blockorder(fn) {
        switch self.Strategy {
            case StrategyRestart  : err = self.restart(bb, &ret, log)
            case StrategyWorklist : err = self.worklist(bb, &ret, log)
            default               : panic(fmt.Sprintf("constfold: invalid strategy: %d", self.Strategy))
        }

        /* abort the whole function on errors */
        if err != nil {
            log.WithError(err).WithField("block", bb.Id).Error("constant folding aborted")
            break
        }

        /* count the divisions that were left alone */
        self.skipped(bb, &ret, log)
    }

    /* update the statistics */
    ret.record(err)
    return
}

func (self ConstFold) restart(bb *BasicBlock, r *FoldResult, log *logrus.Entry) error {
    n := 0
    i := 0

    /* scan until a full pass makes no progress */
    for i < len(bb.Ins) {
        if ok, err := self.fold(bb, bb.Ins[i], n, r, log); err != nil {
            return err
        } else if !ok {
            i++
            continue
        }

        /* restart from the first instruction of the block */
        i = 0
        n++
        r.Restarts++
    }

    /* all done */
    return nil
}

func (self ConstFold) worklist(bb *BasicBlock, r *FoldResult, log *logrus.Entry) error {
    n := 0
    q := lane.NewQueue()
    queued := make(map[IrNode]bool, len(bb.Ins))

    /* seed with every instruction of the block */
    for _, v := range bb.Ins {
        q.Enqueue(v)
        queued[v] = true
    }

    /* process until no more changes */
    for !q.Empty() {
        v := q.Dequeue().(IrNode)
        delete(queued, v)

        /* only instructions still in this block can fold */
        d, ok := v.(IrDefinition)
        if !ok || d.Block() != bb {
            continue
        }

        /* users lose their edge to v once folded */
        users := make([]*Use, len(d.Users()))
        copy(users, d.Users())

        /* try to fold the instruction */
        if ok, err := self.fold(bb, v, n, r, log); err != nil {
            return err
        } else if !ok {
            continue
        }

        /* one more fold in this block */
        n++

        /* revisit the users in this block, the others are handled with their own blocks */
        for _, u := range users {
            if p, ok := u.User.(IrDefinition); ok && p.Block() == bb && !queued[p] {
                q.Enqueue(p)
                queued[p] = true
            }
        }
    }

    /* all done */
    return nil
}

func (self ConstFold) skipped(bb *BasicBlock, r *FoldResult, log *logrus.Entry) {
    for _, v := range bb.Ins {
        if p, ok := foldableBinary(v); ok && p.Op == IrOpSDiv {
            if y, _ := p.Y.Const(); y.V == 0 {
                r.Skipped++
                log.WithField("block", bb.Id).Debugf("division by zero left unfolded: %s", p)
            }
        }
    }
}

// fold replaces v with its value if both operands are constants. n is the
// number of folds already made in bb.
func (self ConstFold) fold(bb *BasicBlock, v IrNode, n int, r *FoldResult, log *logrus.Entry) (bool, error) {
    var ok bool
    var wr bool
    var cc Const
    var err error

    /* evaluate the instruction */
    if p, yes := foldableBinary(v); yes {
        if cc, ok, err = self.Binary(p); err != nil {
            return false, err
        } else if !ok {
            return false, nil
        } else {
            wr = wraps(p, cc)
        }
    } else if p, yes := foldableCompare(v); yes {
        if cc, ok = self.Compare(p); !ok {
            return false, nil
        }
    } else {
        return false, nil
    }

    /* stop before exceeding the fold limit of the block */
    if self.MaxRestarts > 0 && n >= self.MaxRestarts {
        return false, LimitError {
            Block : bb.Id,
            Ins   : v.String(),
            Limit : self.MaxRestarts,
        }
    }

    /* results that do not fit are wrapped around */
    if wr {
        r.Wrapped++
        log.WithField("block", bb.Id).Debugf("result wraps around to %s: %s", cc, v)
    }

    /* keep the text for logging, the operands are gone after the rewrite */
    var desc string
    if log.Logger.IsLevelEnabled(logrus.DebugLevel) {
        desc = v.String()
    }

    /* replace with the constant */
    if err = Replace(bb, v.(IrDefinition), cc); err != nil {
        return false, err
    }

    /* update the counters */
    if _, yes := v.(*IrCompare); yes {
        r.Compare++
    } else {
        r.Binary++
    }

    /* log the fold */
    if desc != "" {
        log.WithFields(logrus.Fields {
            "block" : bb.Id,
            "ins"   : desc,
            "value" : cc.Name(),
        }).Debug("folded")
    }

    /* all done */
    return true, nil
}
