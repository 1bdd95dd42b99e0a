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
	"strings"

	"github.com/consensys/go-bounds/pkg/bounds"
	"github.com/consensys/go-bounds/pkg/function"
	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/ir/reader"
	"github.com/consensys/go-bounds/pkg/sexp"
	"github.com/consensys/go-bounds/pkg/util/collection/scope"
	log "github.com/sirupsen/logrus"
)

// EnvironmentStacker is an abstraction for building the environment in which
// bounds are inferred.  It allows us to configure which scope and function
// files are read, and in what order.
type EnvironmentStacker struct {
	// Scope file giving the initial bounds of variables and parameters.
	scopeFile string
	// Files of function definitions, in order.
	funcFiles []string
}

// Environment holds everything read before the main input of a command: the
// parameters and initial scope, along with any functions and their value
// bounds.  The environment's reader is used for subsequent input, such that
// it can refer to the functions already read.
type Environment struct {
	reader      *reader.Reader
	scope       *scope.Scope[bounds.Interval]
	functions   []*function.Function
	valueBounds bounds.FuncValueBounds
}

// NewEnvironmentStacker constructs an empty stacker.
func NewEnvironmentStacker() EnvironmentStacker {
	return EnvironmentStacker{}
}

// WithScopeFile sets the scope file to read (if any).
func (p EnvironmentStacker) WithScopeFile(filename string) EnvironmentStacker {
	p.scopeFile = filename
	return p
}

// WithFunctionFiles adds files of function definitions to read.
func (p EnvironmentStacker) WithFunctionFiles(filenames ...string) EnvironmentStacker {
	p.funcFiles = append(p.funcFiles, filenames...)
	return p
}

// Build the environment, reading every configured file.  Any error is reported
// and causes termination.
func (p EnvironmentStacker) Build() Environment {
	var (
		env    Environment
		params []*ir.Parameter
		err    error
	)
	//
	env.scope = scope.NewScope[bounds.Interval](nil)
	//
	if p.scopeFile != "" {
		var file *ScopeFile
		//
		if file, err = ReadScopeFile(p.scopeFile); err == nil {
			if params, err = file.Parameters(); err == nil {
				env.scope, err = file.Intervals(params...)
			}
		}
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
	//
	env.reader = reader.NewReader(params...)
	//
	for _, filename := range p.funcFiles {
		fs, err := env.reader.ReadFunctions(ReadSourceFile(filename))
		//
		if err != nil {
			PrintSyntaxError(err)
			os.Exit(1)
		}
		//
		log.Debugf("read %d functions from %s", len(fs), filename)
		//
		env.functions = fs
	}
	//
	if len(env.functions) > 0 {
		order := make([]string, len(env.functions))
		for i, f := range env.functions {
			order[i] = f.Name
		}
		//
		env.valueBounds = bounds.ComputeFunctionValueBounds(order, env.reader.Functions())
	}
	//
	return env
}

// Scope returns the initial scope of this environment.
func (p Environment) Scope() *scope.Scope[bounds.Interval] {
	return p.scope
}

// Functions returns the functions of this environment, in the order they were
// defined.
func (p Environment) Functions() []*function.Function {
	return p.functions
}

// ValueBounds returns the value bounds of the functions in this environment.
func (p Environment) ValueBounds() bounds.FuncValueBounds {
	return p.valueBounds
}

// ReadExprs reads every expression in a given file.
func (p Environment) ReadExprs(filename string) []ir.Expr {
	exprs, err := p.reader.ReadExprs(ReadSourceFile(filename))
	//
	if err != nil {
		PrintSyntaxError(err)
		os.Exit(1)
	}
	//
	return exprs
}

// ReadNode reads the statement (or expression) held in a given file.
func (p Environment) ReadNode(filename string) ir.Node {
	node, err := p.reader.ReadNode(ReadSourceFile(filename))
	//
	if err != nil {
		PrintSyntaxError(err)
		os.Exit(1)
	}
	//
	return node
}

// ReadSourceFile reads a given source file, or terminates if it cannot be read.
func ReadSourceFile(filename string) *sexp.SourceFile {
	srcfile, err := reader.ReadFile(filename)
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return srcfile
}

// PrintSyntaxError prints a syntax error with appropriate highlighting.
func PrintSyntaxError(err *sexp.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(strings.Repeat("^", length))
}
