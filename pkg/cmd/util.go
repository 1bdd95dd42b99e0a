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
	cmd_util "github.com/consensys/go-bounds/pkg/cmd/util"
	"github.com/consensys/go-bounds/pkg/util/termio"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetStringArray gets an expected string array flag, or exits if an error
// arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// ansiEscapes determines whether output should be highlighted, which is only
// the case when writing to a terminal.
func ansiEscapes(cmd *cobra.Command) bool {
	return GetFlag(cmd, "ansi-escapes") && term.IsTerminal(int(os.Stdout.Fd()))
}

// addEnvironmentFlags registers the flags understood by environmentOf.
func addEnvironmentFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("scope", "s", "", "read initial variable bounds and parameters from a TOML or YAML file")
	cmd.Flags().StringArrayP("funcs", "f", nil, "read function definitions from a file")
}

// environmentOf builds the environment configured by the flags of a given
// command, reading any additional function files after those flags name.
func environmentOf(cmd *cobra.Command, funcFiles ...string) cmd_util.Environment {
	return cmd_util.NewEnvironmentStacker().
		WithScopeFile(GetString(cmd, "scope")).
		WithFunctionFiles(GetStringArray(cmd, "funcs")...).
		WithFunctionFiles(funcFiles...).
		Build()
}

// intervalEscape highlights an interval according to how many of its sides are
// bounded.
func intervalEscape(r bounds.Interval) termio.AnsiEscape {
	switch {
	case r.IsBounded():
		return termio.NewAnsiEscape().FgColour(termio.TERM_GREEN)
	case r.IsEverything():
		return termio.NewAnsiEscape().FgColour(termio.TERM_RED)
	default:
		return termio.NewAnsiEscape().FgColour(termio.TERM_YELLOW)
	}
}
