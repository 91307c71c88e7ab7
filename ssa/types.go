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
    `strconv`
    `strings`
)

// Type is the bit width of an integer value, from 1 to 64.
type Type uint8

const (
    I1  Type = 1
    I8  Type = 8
    I16 Type = 16
    I32 Type = 32
    I64 Type = 64
)

// ParseType parses the textual form of a type, e.g. "i32".
func ParseType(s string) (Type, error) {
    if !strings.HasPrefix(s, "i") {
        return 0, fmt.Errorf("invalid integer type: %q", s)
    } else if v, err := strconv.ParseUint(s[1:], 10, 8); err != nil {
        return 0, fmt.Errorf("invalid integer type: %q", s)
    } else if t := Type(v); !t.Valid() {
        return 0, fmt.Errorf("integer width out of range: %q", s)
    } else {
        return t, nil
    }
}

func (self Type) Valid() bool {
    return self >= 1 && self <= 64
}

func (self Type) String() string {
    return "i" + strconv.Itoa(int(self))
}

// Trunc keeps the low bits of v that fit in this type, then sign-extends
// them back to 64 bits.
func (self Type) Trunc(v int64) int64 {
    if !self.Valid() {
        panic(fmt.Sprintf("invalid integer width: %d", self))
    } else if s := 64 - uint(self); s == 0 {
        return v
    } else {
        return (v << s) >> s
    }
}

// Fits reports whether v is representable as a signed integer of this type.
func (self Type) Fits(v int64) bool {
    return self.Trunc(v) == v
}
