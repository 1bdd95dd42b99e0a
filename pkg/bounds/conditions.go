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
	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/simplify"
	"github.com/consensys/go-bounds/pkg/solve"
	log "github.com/sirupsen/logrus"
)

// visitIfThenElse handles a conditional in one of two ways.  When the condition
// constrains variables in scope (or is impure), each branch is visited with the
// bounds of those variables narrowed.  Otherwise, the boxes of each branch are
// guarded by the condition.
func (p *boxesTouched) visitIfThenElse(s *ir.IfThenElse) {
	p.visitExpr(s.Condition)
	//
	if ir.ExprUsesVars(s.Condition, p.scope.Contains) || !isPure(s.Condition) {
		p.visitNarrowed(s)
	} else {
		p.visitGuarded(s)
	}
}

func (p *boxesTouched) visitNarrowed(s *ir.IfThenElse) {
	var (
		condition   = simplify.Simplify(s.Condition)
		unreachable = p.inUnreachable
	)
	//
	p.inUnreachable = false
	p.visitBranch(condition, s.ThenCase)
	thenUnreachable := p.inUnreachable
	//
	p.inUnreachable = false
	//
	if s.ElseCase != nil {
		p.visitBranch(simplify.Simplify(ir.NewNot(condition)), s.ElseCase)
	}
	//
	p.inUnreachable = unreachable || (thenUnreachable && p.inUnreachable)
}

// visitBranch visits a statement with the bounds of variables narrowed by a
// condition known to hold.
func (p *boxesTouched) visitBranch(condition ir.Expr, s ir.Stmt) {
	narrowed := p.narrow(condition)
	//
	defer func() {
		for i := len(narrowed) - 1; i >= 0; i-- {
			p.scope.Pop(narrowed[i])
		}
	}()
	//
	p.visitStmt(s)
}

// narrow pushes narrower bounds for each variable constrained by a condition,
// along with updated bounds for every let which depends on them.  This returns
// the names pushed, in order.
func (p *boxesTouched) narrow(condition ir.Expr) []string {
	var pushed []string
	// Likely conditions are hints, not constraints worth narrowing on.
	if call, ok := condition.(*ir.Call); ok && call.IsIntrinsic(ir.Likely, ir.LikelyIfInnermost) {
		return nil
	}
	//
	for _, c := range conjuncts(condition) {
		for _, v := range ir.FreeVariables(c) {
			if !p.scope.Contains(v) {
				continue
			}
			//
			r := solve.SolveExpression(c, v)
			//
			if !r.FullySolved {
				continue
			}
			//
			i, ok := p.narrowedInterval(r.Expr, v)
			//
			if !ok {
				continue
			}
			//
			p.scope.Push(v, i)
			pushed = append(pushed, v)
			//
			log.Tracef("narrowed %s to %s", v, i)
			//
			if id, ok := p.current[v]; ok {
				pushed = append(pushed, p.updateDependents(id)...)
			}
		}
	}
	//
	return pushed
}

// updateDependents recomputes the bounds of every let depending on a given
// binding, keeping any narrowing already applied to them.
func (p *boxesTouched) updateDependents(id int) []string {
	var pushed []string
	//
	for _, d := range p.dependents(id) {
		b := p.bindings[d]
		//
		if b.value == nil {
			continue
		}
		//
		i := MakeIntersection(p.scope.Get(b.name), p.boundsOf(b.value)).Simplified()
		p.scope.Push(b.name, i)
		pushed = append(pushed, b.name)
	}
	//
	return pushed
}

// narrowedInterval computes the bounds of a variable, given a comparison with
// the variable alone on the left.
func (p *boxesTouched) narrowedInterval(c ir.Expr, v string) (Interval, bool) {
	var (
		i        = p.scope.Get(v)
		lhs, rhs ir.Expr
	)
	//
	switch c := c.(type) {
	case *ir.LT:
		lhs, rhs = c.A, c.B
	case *ir.LE:
		lhs, rhs = c.A, c.B
	case *ir.GT:
		lhs, rhs = c.A, c.B
	case *ir.GE:
		lhs, rhs = c.A, c.B
	case *ir.EQ:
		lhs, rhs = c.A, c.B
	default:
		return i, false
	}
	//
	if x, ok := lhs.(*ir.Variable); !ok || x.Name != v || !x.Type().IsIntOrUInt() {
		return i, false
	}
	//
	var (
		one   = ir.MakeOne(rhs.Type())
		bound Interval
	)
	//
	switch c.(type) {
	case *ir.LT:
		bound = Interval{NegInf, p.boundsOf(ir.NewSub(rhs, one)).Max}
	case *ir.LE:
		bound = Interval{NegInf, p.boundsOf(rhs).Max}
	case *ir.GT:
		bound = Interval{p.boundsOf(ir.NewAdd(rhs, one)).Min, PosInf}
	case *ir.GE:
		bound = Interval{p.boundsOf(rhs).Min, PosInf}
	default:
		bound = p.boundsOf(rhs)
	}
	//
	if !compatible(i.Min, bound.Min) || !compatible(i.Max, bound.Max) {
		return i, false
	}
	//
	return MakeIntersection(i, bound).Simplified(), true
}

// conjuncts splits a condition into the terms of a conjunction.
func conjuncts(e ir.Expr) []ir.Expr {
	if and, ok := e.(*ir.And); ok {
		return append(conjuncts(and.A), conjuncts(and.B)...)
	}
	//
	return []ir.Expr{e}
}

// visitGuarded visits each branch separately, guarding the boxes it touches
// by the condition under which it runs.
func (p *boxesTouched) visitGuarded(s *ir.IfThenElse) {
	var (
		condition   = simplify.Simplify(s.Condition)
		boxes       = p.boxes
		unreachable = p.inUnreachable
	)
	//
	p.boxes, p.inUnreachable = make(map[string]Box), false
	p.visitStmt(s.ThenCase)
	thenBoxes, thenUnreachable := p.boxes, p.inUnreachable
	//
	p.boxes, p.inUnreachable = make(map[string]Box), false
	p.visitStmt(s.ElseCase)
	elseBoxes, elseUnreachable := p.boxes, p.inUnreachable
	//
	p.boxes, p.inUnreachable = boxes, unreachable
	//
	switch {
	case thenUnreachable || elseUnreachable:
		// A branch which cannot complete implies the other is taken, though
		// anything it touched before failing was still touched.
		p.inUnreachable = p.inUnreachable || (thenUnreachable && elseUnreachable)
		p.mergeAll(thenBoxes, nil)
		p.mergeAll(elseBoxes, nil)
	default:
		p.mergeAll(thenBoxes, condition)
		p.mergeAll(elseBoxes, simplify.Simplify(ir.NewNot(condition)))
	}
}

// mergeAll merges a set of boxes into those touched so far, guarding each by a
// given condition (if not nil).
func (p *boxesTouched) mergeAll(boxes map[string]Box, guard ir.Expr) {
	for _, name := range sortedKeys(boxes) {
		box := boxes[name]
		//
		if guard != nil && box.Used != nil {
			box.Used = simplify.Simplify(ir.NewAnd(guard, box.Used))
		} else if guard != nil {
			box.Used = guard
		}
		//
		if box.Used != nil && ir.IsConstTrue(box.Used) {
			box.Used = nil
		}
		//
		p.merge(name, box)
	}
}
