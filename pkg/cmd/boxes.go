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
	"github.com/consensys/go-bounds/pkg/util"
	"github.com/consensys/go-bounds/pkg/util/termio"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var boxesCmd = &cobra.Command{
	Use:   "boxes [flags] file",
	Short: "Compute the regions of functions and images touched by a statement.",
	Long: `Compute the regions of functions and images touched by a statement.
	The file contains either a single expression, or one or more statements.
	By default, the regions both read (calls) and written (provides) are
	reported.  Regions touched only under some condition are reported along
	with that condition.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			stats    = util.NewPerfStats()
			env      = environmentOf(cmd)
			node     = env.ReadNode(args[0])
			calls    = GetFlag(cmd, "calls")
			provides = GetFlag(cmd, "provides")
			fn       = GetString(cmd, "func")
			boxes    map[string]bounds.Box
		)
		//
		if !calls && !provides {
			calls, provides = true, true
		}
		//
		if fn != "" {
			var box bounds.Box
			//
			switch {
			case calls && provides:
				box = bounds.BoxTouched(node, fn, env.Scope(), env.ValueBounds())
			case calls:
				box = bounds.BoxRequired(node, fn, env.Scope(), env.ValueBounds())
			default:
				box = bounds.BoxProvided(node, fn, env.Scope(), env.ValueBounds())
			}
			//
			boxes = make(map[string]bounds.Box)
			//
			if !box.Empty() {
				boxes[fn] = box
			}
		} else {
			switch {
			case calls && provides:
				boxes = bounds.BoxesTouched(node, env.Scope(), env.ValueBounds())
			case calls:
				boxes = bounds.BoxesRequired(node, env.Scope(), env.ValueBounds())
			default:
				boxes = bounds.BoxesProvided(node, env.Scope(), env.ValueBounds())
			}
		}
		//
		stats.Log("Inferring boxes")
		//
		if err := boxesTable(boxes, ansiEscapes(cmd)).Print(os.Stdout); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	},
}

// boxesTable lays out boxes by function name, with one column per dimension
// followed by the condition (if any) under which the box is touched.
func boxesTable(boxes map[string]bounds.Box, escapes bool) *termio.TablePrinter {
	var (
		names = maps.Keys(boxes)
		dims  = 0
	)
	//
	slices.Sort(names)
	//
	for _, box := range boxes {
		dims = max(dims, box.Size())
	}
	//
	table := termio.NewTablePrinter(uint(dims+2), uint(len(names)))
	table.AnsiEscapes(escapes)
	//
	for i, name := range names {
		box := boxes[name].Simplified()
		row := uint(i)
		//
		table.Set(0, row, name)
		table.SetEscape(0, row, termio.BoldAnsiEscape())
		//
		for j, r := range box.Bounds {
			table.Set(uint(j+1), row, r.String())
			table.SetEscape(uint(j+1), row, intervalEscape(r))
		}
		//
		if box.MaybeUnused() {
			table.Set(uint(dims+1), row, fmt.Sprintf("if %s", box.Used))
		}
	}
	//
	return table
}

func init() {
	rootCmd.AddCommand(boxesCmd)
	addEnvironmentFlags(boxesCmd)
	boxesCmd.Flags().Bool("calls", false, "report regions read")
	boxesCmd.Flags().Bool("provides", false, "report regions written")
	boxesCmd.Flags().String("func", "", "report only the region of a given function")
}
