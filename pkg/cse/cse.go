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
package cse

import (
	"cmp"
	"slices"

	"github.com/consensys/go-bounds/pkg/ir"
)

type binding struct {
	name  string
	value ir.Expr
}

type candidate struct {
	expr ir.Expr
	size int
}

// CommonSubexpressionElimination lifts every non-trivial subexpression which
// occurs more than once into a let binding, such that it is computed only
// once.  Larger subexpressions are lifted first, and the bindings are ordered so
// that each is in scope wherever it is used.  Subexpressions referring to
// variables bound by lets within the expression are never lifted.
func CommonSubexpressionElimination(e ir.Expr, names *ir.NameGenerator) ir.Expr {
	var (
		bound      = boundNames(e)
		candidates = findCandidates(e, bound)
		bindings   []binding
		body       = e
	)
	//
	for _, c := range candidates {
		// Earlier rewrites may have absorbed some occurrences.
		uses := countOccurrences(body, c.expr)
		for _, b := range bindings {
			uses += countOccurrences(b.value, c.expr)
		}
		//
		if uses < 2 {
			continue
		}
		//
		v := names.FreshVar("t", c.expr.Type())
		body = replace(body, c.expr, v)
		//
		for i := range bindings {
			bindings[i].value = replace(bindings[i].value, c.expr, v)
		}
		//
		bindings = append(bindings, binding{v.Name, c.expr})
	}
	// Later bindings are smaller, and used by earlier ones.
	for _, b := range bindings {
		body = ir.NewLet(b.name, b.value, body)
	}
	//
	return body
}

func boundNames(e ir.Expr) map[string]bool {
	names := make(map[string]bool)
	//
	ir.Walk(e, func(n ir.Node) bool {
		if l, ok := n.(*ir.Let); ok {
			names[l.Name] = true
		}
		//
		return true
	})
	//
	return names
}

// findCandidates returns the distinct subexpressions occurring at least twice,
// largest first.
func findCandidates(e ir.Expr, bound map[string]bool) []candidate {
	var (
		counts = make(map[string]int)
		exprs  = make(map[string]candidate)
	)
	//
	var count func(ir.Expr) int
	// count records each subexpression, returning the size of the given one.
	count = func(e ir.Expr) int {
		size := 1
		for _, c := range ir.Children(e) {
			size += count(c)
		}
		//
		if isCandidate(e, bound) {
			key := e.String()
			counts[key]++
			exprs[key] = candidate{e, size}
		}
		//
		return size
	}
	//
	count(e)
	//
	var result []candidate
	//
	for key, n := range counts {
		if n > 1 {
			result = append(result, exprs[key])
		}
	}
	//
	slices.SortFunc(result, func(a, b candidate) int {
		if c := cmp.Compare(b.size, a.size); c != 0 {
			return c
		}
		//
		return cmp.Compare(a.expr.String(), b.expr.String())
	})
	//
	return result
}

func isCandidate(e ir.Expr, bound map[string]bool) bool {
	switch e := e.(type) {
	case *ir.IntImm, *ir.UIntImm, *ir.FloatImm, *ir.StringImm, *ir.Variable, *ir.Let:
		return false
	case *ir.Broadcast:
		if ir.IsConst(e.Value) {
			return false
		}
	case *ir.Call:
		if !e.IsPure() {
			return false
		}
	}
	//
	if e.Type().IsHandle() {
		return false
	}
	//
	return !ir.ExprUsesVars(e, func(n string) bool { return bound[n] }) && pure(e)
}

func pure(e ir.Expr) bool {
	ok := true
	//
	ir.Walk(e, func(n ir.Node) bool {
		if c, isCall := n.(*ir.Call); isCall && !c.IsPure() {
			ok = false
		} else if _, isLoad := n.(*ir.Load); isLoad {
			ok = false
		}
		//
		return ok
	})
	//
	return ok
}

func countOccurrences(e ir.Expr, target ir.Expr) int {
	n := 0
	//
	ir.Walk(e, func(node ir.Node) bool {
		if x, ok := node.(ir.Expr); ok && ir.Equal(x, target) {
			n++
			return false
		}
		//
		return true
	})
	//
	return n
}

func replace(e ir.Expr, target ir.Expr, v ir.Expr) ir.Expr {
	m := ir.Mutator{
		Expr: func(_ *ir.Mutator, x ir.Expr) (ir.Expr, bool) {
			if ir.Equal(x, target) {
				return v, true
			}
			//
			return nil, false
		},
	}
	//
	return m.MutateExpr(e)
}
