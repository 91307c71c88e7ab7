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

// Pass transforms a function in place and reports whether it changed
// anything.
type Pass interface {
    Apply(*Function) (bool, error)
}

type PassDescriptor struct {
    Pass Pass
    Name string
}

var Passes = [...]PassDescriptor {
    { Name: "Constant Folding", Pass: new(ConstFold) },
}

// Optimize runs every registered pass on fn with the default settings.
func Optimize(fn *Function) (changed bool, err error) {
    var ok bool
    for _, p := range Passes {
        if ok, err = p.Pass.Apply(fn); err != nil {
            return
        } else if ok {
            changed = true
        }
    }
    return
}
