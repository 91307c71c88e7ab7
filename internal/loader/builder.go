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

package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudwego/constfold/internal/utils"
	"github.com/cloudwego/constfold/ssa"
)

type _Builder struct {
	fn   *_Func
	b    *ssa.Builder
	vals map[string]ssa.Value
	bbs  map[string]*ssa.BasicBlock
}

func newBuilder(fn *_Func) *_Builder {
	return &_Builder{
		fn:   fn,
		b:    ssa.CreateBuilder(fn.Name),
		vals: make(map[string]ssa.Value),
		bbs:  make(map[string]*ssa.BasicBlock),
	}
}

func (self *_Builder) build() (*ssa.Function, error) {
	if len(self.fn.Blocks) == 0 {
		return nil, utils.EBlock("", "function has no blocks")
	}

	/* create all the blocks first, branches may go forward */
	for _, blk := range self.fn.Blocks {
		if blk.Label == "" {
			return nil, utils.EBlock("", "block without label")
		} else if _, ok := self.bbs[blk.Label]; ok {
			return nil, utils.EBlock(blk.Label, "duplicated block label")
		} else {
			self.bbs[blk.Label] = self.b.Block()
		}
	}

	/* then fill them in declaration order */
	for _, blk := range self.fn.Blocks {
		self.b.At(self.bbs[blk.Label])

		/* add every instruction */
		for i := range blk.Ins {
			if err := self.ins(blk.Label, i, &blk.Ins[i]); err != nil {
				return nil, err
			}
		}

		/* every block must terminate */
		if err := self.term(blk.Label, len(blk.Ins), &blk.Term); err != nil {
			return nil, err
		}
	}

	/* all done */
	return self.b.Build(), nil
}

func (self *_Builder) ins(label string, i int, p *_Ins) error {
	var err error
	var hint ssa.Type

	/* parse the explicit type, if any */
	if p.Type != "" {
		if hint, err = ssa.ParseType(p.Type); err != nil {
			return utils.ESyntax(label, i, p.Op, err.Error())
		}
	}

	/* check for redefinitions */
	if _, ok := self.vals[p.Def]; ok {
		return utils.ESyntax(label, i, p.Op, fmt.Sprintf("value %q is defined more than once", p.Def))
	}

	/* function arguments */
	if p.Op == "arg" {
		if !hint.Valid() {
			return utils.ESyntax(label, i, p.Op, "argument requires a type")
		} else if len(p.Args) != 0 {
			return utils.EArity(label, i, p.Op, 0, len(p.Args))
		} else {
			return self.define(label, i, p, self.b.Arg(p.Index, hint))
		}
	}

	/* resolve all the operands */
	args, err := self.operands(label, i, p.Op, p.Args, hint)
	if err != nil {
		return err
	}

	/* calls may or may not have a result */
	if p.Op == "call" {
		if p.Fn == "" {
			return utils.ESyntax(label, i, p.Op, "call without function name")
		} else if !hint.Valid() && p.Def != "" {
			return utils.ESyntax(label, i, p.Op, "call without result type cannot be named")
		} else if v := self.b.Call(p.Fn, hint, args...); hint.Valid() {
			return self.define(label, i, p, v)
		} else {
			return nil
		}
	}

	/* the rest are all binary */
	if len(args) != 2 {
		return utils.EArity(label, i, p.Op, 2, len(args))
	} else if x, y := args[0].Type(), args[1].Type(); x != y {
		return utils.ESyntax(label, i, p.Op, fmt.Sprintf("operand types differ: %s and %s", x, y))
	}

	/* arithmetic or comparison */
	if op, ok := ssa.ParseBinaryOp(p.Op); ok {
		return self.define(label, i, p, self.b.Binary(op, args[0], args[1]))
	} else if pred, ok := ssa.ParsePredicate(p.Op); ok {
		return self.define(label, i, p, self.b.Compare(pred, args[0], args[1]))
	} else {
		return utils.EUnknownOp(label, i, p.Op)
	}
}

func (self *_Builder) define(label string, i int, p *_Ins, v ssa.Value) error {
	if p.Def == "" {
		return utils.ESyntax(label, i, p.Op, "result must be named")
	} else {
		self.vals[p.Def] = v
		return nil
	}
}

func (self *_Builder) term(label string, i int, p *_Term) error {
	var err error
	var hint ssa.Type

	/* parse the explicit type, if any */
	if p.Type != "" {
		if hint, err = ssa.ParseType(p.Type); err != nil {
			return utils.ESyntax(label, i, p.Op, err.Error())
		}
	}

	/* resolve the operands */
	args, err := self.operands(label, i, p.Op, p.Args, hint)
	if err != nil {
		return err
	}

	/* resolve the targets */
	bbs := make([]*ssa.BasicBlock, len(p.Targets))
	for j, s := range p.Targets {
		if bbs[j] = self.bbs[s]; bbs[j] == nil {
			return utils.ESyntax(label, i, p.Op, fmt.Sprintf("branch to undefined block %q", s))
		}
	}

	/* build the terminator */
	switch p.Op {
	case "jmp":
		return self.jmp(label, i, args, bbs)
	case "br":
		return self.br(label, i, args, bbs)
	case "switch":
		return self.sw(label, i, p.Cases, args, bbs)
	case "ret":
		return self.ret(label, i, args, bbs)
	case "":
		return utils.EBlock(label, "block does not terminate")
	default:
		return utils.EUnknownOp(label, i, p.Op)
	}
}

func (self *_Builder) jmp(label string, i int, args []ssa.Value, bbs []*ssa.BasicBlock) error {
	if len(args) != 0 {
		return utils.EArity(label, i, "jmp", 0, len(args))
	} else if len(bbs) != 1 {
		return utils.ESyntax(label, i, "jmp", fmt.Sprintf("expect 1 target, got %d", len(bbs)))
	} else {
		self.b.Jmp(bbs[0])
		return nil
	}
}

func (self *_Builder) br(label string, i int, args []ssa.Value, bbs []*ssa.BasicBlock) error {
	if len(args) != 1 {
		return utils.EArity(label, i, "br", 1, len(args))
	} else if len(bbs) != 2 {
		return utils.ESyntax(label, i, "br", fmt.Sprintf("expect 2 targets, got %d", len(bbs)))
	} else {
		self.b.Br(args[0], bbs[0], bbs[1])
		return nil
	}
}

func (self *_Builder) sw(label string, i int, cases []int64, args []ssa.Value, bbs []*ssa.BasicBlock) error {
	if len(args) != 1 {
		return utils.EArity(label, i, "switch", 1, len(args))
	} else if len(bbs) != len(cases)+1 {
		return utils.ESyntax(label, i, "switch", fmt.Sprintf("expect %d targets, got %d", len(cases)+1, len(bbs)))
	}

	/* the last target is the default */
	n := len(cases)
	br := make(map[int64]*ssa.BasicBlock, n)

	/* build the case table */
	for j, k := range cases {
		if _, ok := br[k]; ok {
			return utils.ESyntax(label, i, "switch", fmt.Sprintf("duplicated case %d", k))
		} else {
			br[k] = bbs[j]
		}
	}

	/* all done */
	self.b.Switch(args[0], bbs[n], br)
	return nil
}

func (self *_Builder) ret(label string, i int, args []ssa.Value, bbs []*ssa.BasicBlock) error {
	if len(bbs) != 0 {
		return utils.ESyntax(label, i, "ret", "return cannot have targets")
	} else {
		self.b.Ret(args...)
		return nil
	}
}

func (self *_Builder) operands(label string, i int, src string, names []string, hint ssa.Type) ([]ssa.Value, error) {
	var bare []int
	ret := make([]ssa.Value, len(names))

	/* resolve everything except bare integers */
	for j, s := range names {
		if v, ok, err := self.value(s); err != nil {
			return nil, utils.ESyntax(label, i, src, err.Error())
		} else if !ok {
			return nil, utils.EUnknownValue(label, i, src, s)
		} else if v != nil {
			ret[j] = v
		} else {
			bare = append(bare, j)
		}
	}

	/* bare integers take the explicit type, then the type of a typed operand */
	if !hint.Valid() {
		hint = ssa.I64
		for _, v := range ret {
			if v != nil {
				hint = v.Type()
				break
			}
		}
	}

	/* materialize the bare integers */
	for _, j := range bare {
		if v, err := strconv.ParseInt(strings.TrimSpace(names[j]), 0, 64); err != nil {
			panic("loader: operand is not a bare integer: " + names[j])
		} else if !hint.Fits(v) {
			return nil, utils.ESyntax(label, i, src, fmt.Sprintf("literal %d does not fit in %s", v, hint))
		} else {
			ret[j] = ssa.ConstInt(hint, v)
		}
	}

	/* all done */
	return ret, nil
}

// value resolves a single operand. A nil value with ok set means a bare
// integer whose type is not known yet.
func (self *_Builder) value(s string) (ssa.Value, bool, error) {
	s = strings.TrimSpace(s)

	/* boolean literals */
	switch s {
	case "true":
		return ssa.ConstBool(ssa.I1, true), true, nil
	case "false":
		return ssa.ConstBool(ssa.I1, false), true, nil
	}

	/* bare integers */
	if _, err := strconv.ParseInt(s, 0, 64); err == nil {
		return nil, true, nil
	}

	/* typed literals, e.g. "i8 -1" */
	if fv := strings.Fields(s); len(fv) == 2 {
		if t, err := ssa.ParseType(fv[0]); err != nil {
			return nil, false, err
		} else if v, err := strconv.ParseInt(fv[1], 0, 64); err != nil {
			return nil, false, fmt.Errorf("invalid literal: %q", s)
		} else if !t.Fits(v) {
			return nil, false, fmt.Errorf("literal %d does not fit in %s", v, t)
		} else {
			return ssa.ConstInt(t, v), true, nil
		}
	}

	/* named values */
	v, ok := self.vals[s]
	return v, ok, nil
}
