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
package function

import (
	"fmt"

	"github.com/consensys/go-bounds/pkg/ir"
)

// Function describes a named stage of a pipeline.  A function has a pure
// definition giving one or more output values at each point of its domain, and
// may be refined by a sequence of update definitions.  Functions implemented
// outside the pipeline are marked as extern, in which case their definitions
// are unknown.
type Function struct {
	Name string
	// Args are the names of the pure arguments of this function.
	Args []string
	// OutputTypes gives the type of each output value.
	OutputTypes []ir.Type
	// Definition is the pure definition of this function.
	Definition Definition
	// Updates are the update definitions applied, in order, after the pure
	// definition.
	Updates []Definition
	// Extern marks functions whose values are computed externally.
	Extern bool
}

// Definition gives the values of a function at a point, optionally
// specialised for particular conditions.
type Definition struct {
	// Args are the coordinates at which the values are defined.  For a pure
	// definition these are exactly the argument variables of the function.
	Args []ir.Expr
	// Values computed at each point, one per output.
	Values []ir.Expr
	// Specializations are alternative definitions which apply when their
	// conditions hold.
	Specializations []Specialization
}

// Specialization is an alternative definition which is used instead of the
// enclosing one whenever its condition holds.
type Specialization struct {
	Condition  ir.Expr
	Definition Definition
	// Failure is non-empty when reaching this specialization is an error.
	// Such specializations never produce values.
	Failure string
}

// NewFunction constructs a function with a pure definition over the given
// arguments.  Argument variables are int32.
func NewFunction(name string, args []string, values ...ir.Expr) *Function {
	if len(values) == 0 {
		panic(fmt.Sprintf("function %s has no values", name))
	}
	//
	types := make([]ir.Type, len(values))
	for i, v := range values {
		types[i] = v.Type()
	}
	//
	vars := make([]ir.Expr, len(args))
	for i, arg := range args {
		vars[i] = ir.NewVar(arg, ir.Int(32))
	}
	//
	return &Function{
		Name:        name,
		Args:        args,
		OutputTypes: types,
		Definition:  Definition{Args: vars, Values: values},
	}
}

// NewExternFunction constructs a function computed outside the pipeline, with
// the given output types.
func NewExternFunction(name string, args []string, types ...ir.Type) *Function {
	return &Function{Name: name, Args: args, OutputTypes: types, Extern: true}
}

// Outputs returns the number of output values of this function.
func (p *Function) Outputs() int {
	return len(p.OutputTypes)
}

// IsPure checks whether this function is defined only by its pure definition,
// such that its values are entirely determined by that definition.
func (p *Function) IsPure() bool {
	return !p.Extern && len(p.Updates) == 0
}

// Specialize adds a specialization of the pure definition which applies when a
// given condition holds, and which computes the given values instead.
func (p *Function) Specialize(condition ir.Expr, values ...ir.Expr) {
	if len(values) != len(p.OutputTypes) {
		panic(fmt.Sprintf("specialization of %s has %d values, expected %d", p.Name, len(values),
			len(p.OutputTypes)))
	}
	//
	def := Definition{Args: p.Definition.Args, Values: values}
	p.Definition.Specializations = append(p.Definition.Specializations, Specialization{condition, def, ""})
}

// SpecializeFail adds a specialization of the pure definition which reports an
// error whenever the given condition holds.
func (p *Function) SpecializeFail(condition ir.Expr, message string) {
	p.Definition.Specializations = append(p.Definition.Specializations,
		Specialization{condition, Definition{}, message})
}

// Update adds an update definition to this function.
func (p *Function) Update(args []ir.Expr, values ...ir.Expr) {
	p.Updates = append(p.Updates, Definition{Args: args, Values: values})
}

// Call constructs a call to a given output of this function.
func (p *Function) Call(index int, args ...ir.Expr) *ir.Call {
	if index < 0 || index >= len(p.OutputTypes) {
		panic(fmt.Sprintf("function %s has no output %d", p.Name, index))
	} else if len(args) != len(p.Args) {
		panic(fmt.Sprintf("function %s called with %d arguments, expected %d", p.Name, len(args), len(p.Args)))
	}
	//
	return ir.NewFuncCall(p.OutputTypes[index], p.Name, args, index)
}

func (p *Function) String() string {
	var s string
	//
	if p.Extern {
		return fmt.Sprintf("extern %s(%d)", p.Name, len(p.Args))
	}
	//
	s = fmt.Sprintf("%s(", p.Name)
	for i, a := range p.Args {
		if i != 0 {
			s += ", "
		}
		//
		s += a
	}
	//
	s += ") ="
	for _, v := range p.Definition.Values {
		s += fmt.Sprintf(" %s", v)
	}
	//
	return s
}
