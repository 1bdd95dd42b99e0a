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
package bounds

import (
	"fmt"

	"github.com/consensys/go-bounds/pkg/cse"
	"github.com/consensys/go-bounds/pkg/function"
	"github.com/consensys/go-bounds/pkg/simplify"
	"github.com/consensys/go-bounds/pkg/util/collection/scope"
	log "github.com/sirupsen/logrus"
)

// FuncKey identifies one output of a (possibly multi-valued) function.
type FuncKey struct {
	Name  string
	Index int
}

// FuncValueBounds maps each function output to an interval enclosing every
// value it can produce.
type FuncValueBounds map[FuncKey]Interval

// Get returns the value bounds of a given function output, if known.
func (p FuncValueBounds) Get(name string, index int) (Interval, bool) {
	i, ok := p[FuncKey{name, index}]
	return i, ok
}

// ComputeFunctionValueBounds computes the value bounds of every output of the
// functions in a given order.  Functions must appear after those they call,
// since the bounds of each are used when computing those of its callers.
func ComputeFunctionValueBounds(order []string, env map[string]*function.Function) FuncValueBounds {
	return NewContext(nil, nil).ComputeFunctionValueBounds(order, env)
}

// ComputeFunctionValueBounds computes the value bounds of every output of the
// functions in a given order, within this context.  The result extends any
// bounds already held by the context.
func (p *Context) ComputeFunctionValueBounds(order []string, env map[string]*function.Function) FuncValueBounds {
	if p.funcBounds == nil {
		p.funcBounds = make(FuncValueBounds)
	}
	//
	for _, name := range order {
		f, ok := env[name]
		//
		if !ok {
			panic(fmt.Sprintf("function %s not in environment", name))
		}
		//
		for j := 0; j < f.Outputs(); j++ {
			var r Interval
			//
			if f.IsPure() {
				r = p.pureValueBounds(f, j)
			} else {
				r = boundsOfType(f.OutputTypes[j])
			}
			// Make available to subsequent functions.
			p.funcBounds[FuncKey{name, j}] = r
			//
			log.Debugf("value bounds of %s.%d are %s", name, j, r)
		}
	}
	//
	return p.funcBounds
}

// pureValueBounds computes the bounds of one output of a pure function, as the
// union of those of its definition and every specialisation which can run.
func (p *Context) pureValueBounds(f *function.Function, index int) Interval {
	args := scope.NewScope[Interval](nil)
	// Arguments can take any value.
	for _, arg := range f.Args {
		args.Push(arg, Everything())
	}
	//
	r := p.definitionBounds(f.Definition, index, args)
	//
	if r.HasLowerBound() {
		r.Min = simplify.Simplify(cse.CommonSubexpressionElimination(simplify.Simplify(r.Min), p.names))
	}
	//
	if r.HasUpperBound() {
		r.Max = simplify.Simplify(cse.CommonSubexpressionElimination(simplify.Simplify(r.Max), p.names))
	}
	//
	return r
}

func (p *Context) definitionBounds(def function.Definition, index int, args *scope.Scope[Interval]) Interval {
	r := p.BoundsOfExprInScope(def.Values[index], args, false)
	//
	for _, s := range def.Specializations {
		// Failing specialisations never produce a value.
		if s.Failure == "" {
			r = MakeUnion(r, p.definitionBounds(s.Definition, index, args))
		}
	}
	//
	return r
}
