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

	"github.com/consensys/go-bounds/pkg/function"
	"github.com/consensys/go-bounds/pkg/util"
	"github.com/consensys/go-bounds/pkg/util/termio"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

var valueBoundsCmd = &cobra.Command{
	Use:   "value-bounds [flags] file...",
	Short: "Compute the range of values of each function defined in the given files.",
	Long: `Compute the range of values of each function defined in the given files.
	Functions are processed in the order they are defined, such that the values
	of each function can be used when bounding those defined after it.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			stats = util.NewPerfStats()
			env   = environmentOf(cmd, args...)
			fn    = GetString(cmd, "func")
			rows  [][]string
		)
		//
		stats.Log("Computing value bounds")
		//
		if fn != "" && slices.IndexFunc(env.Functions(), func(f *function.Function) bool { return f.Name == fn }) < 0 {
			fmt.Printf("unknown function %s\n", fn)
			os.Exit(1)
		}
		//
		for _, f := range env.Functions() {
			if fn != "" && f.Name != fn {
				continue
			}
			//
			for j, t := range f.OutputTypes {
				name := f.Name
				if f.Outputs() > 1 {
					name = fmt.Sprintf("%s#%d", f.Name, j)
				}
				//
				r, _ := env.ValueBounds().Get(f.Name, j)
				rows = append(rows, []string{name, t.String(), r.String()})
			}
		}
		//
		table := termio.NewTablePrinter(3, uint(len(rows)))
		table.AnsiEscapes(ansiEscapes(cmd))
		//
		for i, row := range rows {
			table.SetRow(uint(i), row...)
			table.SetEscape(0, uint(i), termio.BoldAnsiEscape())
		}
		//
		if err := table.Print(os.Stdout); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(valueBoundsCmd)
	addEnvironmentFlags(valueBoundsCmd)
	valueBoundsCmd.Flags().String("func", "", "report only the values of a given function")
}
