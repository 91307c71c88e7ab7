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

// Command cfold runs the constant folding pass over functions described in
// TOML and prints them before and after.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cloudwego/constfold"
	"github.com/cloudwego/constfold/debug"
	"github.com/cloudwego/constfold/internal/loader"
	"github.com/cloudwego/constfold/internal/opts"
	"github.com/cloudwego/constfold/ssa"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type foldOptions struct {
	strategy string
	divZero  string
	verify   bool
	config   string
	stats    bool
	logLevel string
	flags    *pflag.FlagSet
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cfold",
		Short:         "Constant folding for integer SSA functions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newFoldCommand())
	return cmd
}

func newFoldCommand() *cobra.Command {
	var o foldOptions

	cmd := &cobra.Command{
		Use:   "fold FILE...",
		Short: "Fold the functions described by the TOML files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.flags = cmd.Flags()
			return runFold(o, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.strategy, "strategy", opts.Strategy.String(), `Fixpoint strategy, "restart" or "worklist"`)
	flags.StringVar(&o.divZero, "div-zero", opts.DivZero.String(), `Division by zero policy, "skip" or "fail"`)
	flags.BoolVar(&o.verify, "verify", opts.Verify, "Verify the function before and after folding")
	flags.StringVarP(&o.config, "config", "c", "", "Configuration file")
	flags.BoolVar(&o.stats, "stats", false, "Dump the statistics after folding")
	flags.StringVar(&o.logLevel, "log-level", opts.LogLevel.String(), "Log level")
	return cmd
}

// options merges the defaults, the configuration file and the flags, in
// that order of precedence.
func (self foldOptions) options(stderr io.Writer) (opts.Options, error) {
	var ok bool
	ret := opts.GetDefaultOptions()

	/* load the configuration file */
	if self.config != "" {
		if err := opts.LoadFile(self.config, &ret); err != nil {
			return ret, err
		}
	}

	/* explicit flags override everything */
	if self.flags.Changed("strategy") {
		if ret.Strategy, ok = ssa.ParseStrategy(self.strategy); !ok {
			return ret, fmt.Errorf("invalid strategy: %q", self.strategy)
		}
	}
	if self.flags.Changed("div-zero") {
		if ret.DivZero, ok = ssa.ParseDivZeroPolicy(self.divZero); !ok {
			return ret, fmt.Errorf("invalid division by zero policy: %q", self.divZero)
		}
	}
	if self.flags.Changed("verify") {
		ret.Verify = self.verify
	}
	if self.flags.Changed("log-level") {
		lv, err := logrus.ParseLevel(self.logLevel)
		if err != nil {
			return ret, errors.Wrap(err, "log-level")
		}
		ret.LogLevel = lv
	}

	/* log to the command's stderr */
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetLevel(ret.LogLevel)
	ret.Log = logrus.NewEntry(log).WithField("pass", "constfold")
	return ret, nil
}

func runFold(o foldOptions, files []string, stdout io.Writer, stderr io.Writer) error {
	cfg, err := o.options(stderr)
	if err != nil {
		return err
	}

	/* use the merged options for every function */
	use := constfold.Option(func(p *opts.Options) { *p = cfg })
	debug.ResetStats()

	/* fold every file */
	for _, file := range files {
		fn, err := loader.LoadFile(file)
		if err != nil {
			return err
		}

		/* print the function before folding */
		fmt.Fprintf(stdout, "; %s\n%s\n", file, fn)
		ret, err := constfold.Run(fn, use)
		if err != nil {
			return errors.Wrapf(err, "fold %s", fn.Name)
		}

		/* and after */
		fmt.Fprintf(stdout, "; folded %d instructions, %d restarts, changed: %v\n%s\n", ret.Folded, ret.Restarts, ret.Changed, fn)
	}

	/* dump the statistics if needed */
	if o.stats {
		spew.Fdump(stdout, debug.GetStats())
	}

	/* all done */
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cfold: %s\n", err)
		os.Exit(1)
	}
}
