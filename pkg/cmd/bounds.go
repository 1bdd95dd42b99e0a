// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-bounds/pkg/bounds"
	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/util"
	"github.com/consensys/go-bounds/pkg/util/termio"
	"github.com/spf13/cobra"
)

var boundsCmd = &cobra.Command{
	Use:   "bounds [flags] file...",
	Short: "Compute the range of values of the given expressions.",
	Long: `Compute the range of values of the given expressions.
	Each file contains one or more expressions.  Variables are unbounded unless
	given bounds in a scope file, and calls are bounded by the values of any
	functions given.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			stats    = util.NewPerfStats()
			env      = environmentOf(cmd)
			constant = GetFlag(cmd, "const")
			exprs    []ir.Expr
		)
		//
		for _, filename := range args {
			exprs = append(exprs, env.ReadExprs(filename)...)
		}
		//
		table := termio.NewTablePrinter(2, uint(len(exprs)))
		table.AnsiEscapes(ansiEscapes(cmd))
		//
		for i, e := range exprs {
			r := bounds.BoundsOfExprInScope(e, env.Scope(), env.ValueBounds(), constant).Simplified()
			//
			table.SetRow(uint(i), e.String(), r.String())
			table.SetEscape(1, uint(i), intervalEscape(r))
		}
		//
		stats.Log("Inferring bounds")
		//
		if err := table.Print(os.Stdout); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(boundsCmd)
	addEnvironmentFlags(boundsCmd)
	boundsCmd.Flags().Bool("const", false, "only report bounds which are constants")
}
