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

package opts

import (
	"fmt"

	"github.com/cloudwego/constfold/ssa"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LoadFile overrides o with the keys present in the TOML file at path.
// Keys that are absent keep their current value.
func LoadFile(path string, o *Options) error {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return errors.Wrapf(err, "load config %s", path)
	}
	return errors.Wrapf(Apply(tree, o), "config %s", path)
}

// LoadString is like LoadFile, but reads the TOML document from s.
func LoadString(s string, o *Options) error {
	tree, err := toml.Load(s)
	if err != nil {
		return errors.Wrap(err, "parse config")
	}
	return Apply(tree, o)
}

// Apply overrides o with the keys present in tree.
func Apply(tree *toml.Tree, o *Options) error {
	if v, ok := tree.Get("strategy").(string); ok {
		if o.Strategy, ok = ssa.ParseStrategy(v); !ok {
			return fmt.Errorf("invalid strategy: %q", v)
		}
	} else if tree.Has("strategy") {
		return errors.New("strategy must be a string")
	}

	/* division by zero policy */
	if v, ok := tree.Get("div_zero").(string); ok {
		if o.DivZero, ok = ssa.ParseDivZeroPolicy(v); !ok {
			return fmt.Errorf("invalid div_zero policy: %q", v)
		}
	} else if tree.Has("div_zero") {
		return errors.New("div_zero must be a string")
	}

	/* verifier switch */
	if v, ok := tree.Get("verify").(bool); ok {
		o.Verify = v
	} else if tree.Has("verify") {
		return errors.New("verify must be a boolean")
	}

	/* restart limit */
	if v, ok := tree.Get("max_restarts").(int64); ok {
		if v < 0 {
			return fmt.Errorf("max_restarts must not be negative: %d", v)
		}
		o.MaxRestarts = int(v)
	} else if tree.Has("max_restarts") {
		return errors.New("max_restarts must be an integer")
	}

	/* log level */
	if v, ok := tree.Get("log_level").(string); ok {
		lv, err := logrus.ParseLevel(v)
		if err != nil {
			return errors.Wrap(err, "log_level")
		}
		o.LogLevel = lv
	} else if tree.Has("log_level") {
		return errors.New("log_level must be a string")
	}

	/* all done */
	return nil
}
