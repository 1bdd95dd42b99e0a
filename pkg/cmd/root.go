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
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
)

// Version is filled when building with make, but *not* when installing via "go
// install".
var Version string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "go-bounds",
	Short: "Symbolic bounds inference for pipeline programs.",
	Long: `Symbolic bounds inference for pipeline programs.
	Computes the range of values expressions can take, and the regions of
	functions and images which statements read and write.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("go-bounds ")
			if Version != "" {
				// Built via "make"
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				// Built via "go install"
				fmt.Printf("%s", info.Main.Version)
			} else {
				// Unknown, perhaps "go run"
				fmt.Printf("(unknown version)")
			}
			fmt.Println()
		} else {
			fmt.Println(cmd.UsageString())
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(Main())
}

// Main runs the root command, returning the code for passing to os.Exit.
func Main() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	//
	return 0
}

// configureLogging sets the log level.  The default is taken from the
// GOBOUNDS_DEBUG environment variable (0 = warnings only, 1 = debug, 2 or more
// = trace), and is raised by the --verbose and --trace flags.
func configureLogging(cmd *cobra.Command) {
	level := env.Int("GOBOUNDS_DEBUG", 0)
	//
	if GetFlag(cmd, "verbose") {
		level = max(level, 1)
	}
	//
	if GetFlag(cmd, "trace") {
		level = max(level, 2)
	}
	//
	switch {
	case level >= 2:
		log.SetLevel(log.TraceLevel)
	case level == 1:
		log.SetLevel(log.DebugLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "Report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Bool("trace", false, "log every bound computed")
	rootCmd.PersistentFlags().Bool("ansi-escapes", true, "use ANSI escapes (when writing to a terminal)")
}
