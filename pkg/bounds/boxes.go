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

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/util/collection/scope"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// BoxesRequired computes the region of each function read by an expression or
// statement, given the bounds of the variables in scope.
func BoxesRequired(n ir.Node, s *scope.Scope[Interval], fb FuncValueBounds) map[string]Box {
	return NewContext(fb, nil).BoxesTouched(n, s, true, false, "")
}

// BoxesProvided computes the region of each function written by an expression
// or statement, given the bounds of the variables in scope.
func BoxesProvided(n ir.Node, s *scope.Scope[Interval], fb FuncValueBounds) map[string]Box {
	return NewContext(fb, nil).BoxesTouched(n, s, false, true, "")
}

// BoxesTouched computes the region of each function read or written by an
// expression or statement, given the bounds of the variables in scope.
func BoxesTouched(n ir.Node, s *scope.Scope[Interval], fb FuncValueBounds) map[string]Box {
	return NewContext(fb, nil).BoxesTouched(n, s, true, true, "")
}

// BoxRequired computes the region of a single function read by an expression
// or statement.  The result is empty if the function is not read.
func BoxRequired(n ir.Node, fn string, s *scope.Scope[Interval], fb FuncValueBounds) Box {
	return single(NewContext(fb, nil).BoxesTouched(n, s, true, false, fn), fn)
}

// BoxProvided computes the region of a single function written by an
// expression or statement.  The result is empty if the function is not written.
func BoxProvided(n ir.Node, fn string, s *scope.Scope[Interval], fb FuncValueBounds) Box {
	return single(NewContext(fb, nil).BoxesTouched(n, s, false, true, fn), fn)
}

// BoxTouched computes the region of a single function read or written by an
// expression or statement.  The result is empty if the function is untouched.
func BoxTouched(n ir.Node, fn string, s *scope.Scope[Interval], fb FuncValueBounds) Box {
	return single(NewContext(fb, nil).BoxesTouched(n, s, true, true, fn), fn)
}

func single(boxes map[string]Box, fn string) Box {
	if len(boxes) > 1 {
		panic(fmt.Sprintf("boxes of %d functions found when looking for %s", len(boxes), fn))
	}
	//
	return boxes[fn]
}

// BoxesTouched computes the region of each function read (calls) and/or written
// (provides) by an expression or statement, within this context.  When fn is
// non-empty only that function is considered.  Reads and writes are computed
// separately and then merged.
func (p *Context) BoxesTouched(n ir.Node, s *scope.Scope[Interval], calls, provides bool, fn string) map[string]Box {
	var stmt ir.Stmt
	// Expressions are treated as statements evaluating them.
	switch n := n.(type) {
	case nil:
		return make(map[string]Box)
	case ir.Expr:
		stmt = ir.NewEvaluate(n)
	case ir.Stmt:
		stmt = n
	default:
		panic(fmt.Sprintf("unknown node %T", n))
	}
	//
	if fn != "" {
		if stmt = filterStmt(stmt, fn); stmt == nil {
			return make(map[string]Box)
		}
	}
	//
	r := newRenamer(p.names, s)
	stmt = solveConditions(r.stmt(stmt), nil)
	//
	var boxes map[string]Box
	//
	switch {
	case calls && provides:
		boxes = p.boxesTouched(stmt, s, true, false, fn, r.original)
		//
		for name, box := range p.boxesTouched(stmt, s, false, true, fn, r.original) {
			if existing, ok := boxes[name]; ok {
				MergeBoxes(&existing, box)
				box = existing
			}
			//
			boxes[name] = box
		}
	default:
		boxes = p.boxesTouched(stmt, s, calls, provides, fn, r.original)
	}
	//
	purify(boxes)
	//
	if log.IsLevelEnabled(log.DebugLevel) {
		for _, name := range sortedKeys(boxes) {
			log.Debugf("box of %s is %s", name, boxes[name])
		}
	}
	//
	return boxes
}

func (p *Context) boxesTouched(stmt ir.Stmt, s *scope.Scope[Interval], calls, provides bool, fn string,
	original map[string]string) map[string]Box {
	visitor := newBoxesTouched(p, fn, calls, provides, s, original)
	visitor.visitStmt(stmt)
	//
	return visitor.boxes
}

// sortedKeys returns the keys of a map in sorted order.
func sortedKeys[T any](m map[string]T) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	//
	return keys
}
