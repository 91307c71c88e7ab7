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

// Package loader builds ssa functions from their TOML description.
//
// A function is a list of blocks, the first one being the entry:
//
//	name = "f"
//
//	[[block]]
//	label = "entry"
//	ins = [
//	    { def = "a", op = "arg", type = "i32", index = 0 },
//	    { def = "b", op = "add", args = ["a", "3"] },
//	    { def = "c", op = "slt", args = ["b", "i32 10"] },
//	]
//	term = { op = "br", args = ["c"], targets = ["then", "else"] }
//
// Operands are either the name of an earlier definition, "true", "false",
// a typed literal such as "i8 -1", or a bare integer which takes the type
// of the instruction (or of the other operand when the instruction has no
// explicit type).
package loader

import (
	"os"

	"github.com/cloudwego/constfold/ssa"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

type _Func struct {
	Name   string   `toml:"name"`
	Blocks []_Block `toml:"block"`
}

type _Block struct {
	Label string `toml:"label"`
	Ins   []_Ins `toml:"ins"`
	Term  _Term  `toml:"term"`
}

type _Ins struct {
	Def   string   `toml:"def"`
	Op    string   `toml:"op"`
	Type  string   `toml:"type"`
	Fn    string   `toml:"fn"`
	Index int      `toml:"index"`
	Args  []string `toml:"args"`
}

type _Term struct {
	Op      string   `toml:"op"`
	Type    string   `toml:"type"`
	Args    []string `toml:"args"`
	Cases   []int64  `toml:"cases"`
	Targets []string `toml:"targets"`
}

// LoadFile loads the function described by the TOML file at path.
func LoadFile(path string) (*ssa.Function, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read function")
	}
	fn, err := Load(buf)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return fn, nil
}

// Load builds the function described by the TOML document src.
func Load(src []byte) (*ssa.Function, error) {
	var fn _Func
	if err := toml.Unmarshal(src, &fn); err != nil {
		return nil, errors.Wrap(err, "parse function")
	}
	return newBuilder(&fn).build()
}
