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
	"math"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/simplify"
	"github.com/consensys/go-bounds/pkg/util/collection/scope"
	log "github.com/sirupsen/logrus"
)

// Context holds the state shared by all analyses arising from a single query.
// Nested analyses (for example, the bounds computed for each site found while
// looking for the boxes touched by a statement) must share one context, so
// that the names they generate never collide.
type Context struct {
	names      *ir.NameGenerator
	funcBounds FuncValueBounds
}

// NewContext constructs a new analysis context using a given table of function
// value bounds (which may be nil) and a given name generator.  If the name
// generator is nil, a fresh one is created.
func NewContext(fb FuncValueBounds, names *ir.NameGenerator) *Context {
	if names == nil {
		names = ir.NewNameGenerator()
	}
	//
	return &Context{names, fb}
}

// BoundsOfExprInScope computes an interval enclosing every value an expression
// can take, given intervals for the variables in scope.  Variables which are
// not in scope are treated as unknown (but fixed) values, and may appear in the
// resulting bounds.  In constant mode, only literal bounds are produced and
// anything else is replaced by an infinite bound.
func (p *Context) BoundsOfExprInScope(e ir.Expr, s *scope.Scope[Interval], constBound bool) Interval {
	visitor := &boundsVisitor{p, scope.NewScope(s), constBound}
	r := visitor.bounds(e)
	//
	log.Tracef("bounds of %s are %s", e, r)
	//
	return r
}

// boundsVisitor computes the bounds of an expression, node by node.  Each
// handler returns the interval of its node.
type boundsVisitor struct {
	ctx        *Context
	scope      *scope.Scope[Interval]
	constBound bool
}

func (p *boundsVisitor) bounds(e ir.Expr) Interval {
	r := p.visit(e)
	//
	if p.constBound {
		if !isInf(r.Min) && !ir.IsConst(r.Min) {
			r.Min = NegInf
		}
		//
		if !isInf(r.Max) && !ir.IsConst(r.Max) {
			r.Max = PosInf
		}
	}
	//
	return r
}

// boundsWith computes the bounds of an expression with an additional binding
// in scope.
func (p *boundsVisitor) boundsWith(name string, i Interval, e ir.Expr) Interval {
	defer p.scope.Bind(name, i)()
	//
	return p.bounds(e)
}

func (p *boundsVisitor) visit(n ir.Node) Interval {
	switch e := n.(type) {
	case *ir.IntImm, *ir.UIntImm, *ir.FloatImm, *ir.StringImm:
		return SinglePoint(e.(ir.Expr))
	case *ir.Variable:
		return p.visitVariable(e)
	case *ir.Cast:
		return p.visitCast(e)
	case *ir.Reinterpret:
		return p.visitReinterpret(e)
	case *ir.Add:
		return p.visitAdd(e)
	case *ir.Sub:
		return p.visitSub(e)
	case *ir.Mul:
		return p.visitMul(e)
	case *ir.Div:
		return p.visitDiv(e)
	case *ir.Mod:
		return p.visitMod(e)
	case *ir.Min:
		return p.visitMinMax(e, e.A, e.B, MakeMin)
	case *ir.Max:
		return p.visitMinMax(e, e.A, e.B, MakeMax)
	case *ir.LT:
		return p.visitOrdering(e, e.A, e.B, true)
	case *ir.LE:
		return p.visitOrdering(e, e.A, e.B, false)
	case *ir.GT:
		return p.visitOrdering(e, e.B, e.A, true)
	case *ir.GE:
		return p.visitOrdering(e, e.B, e.A, false)
	case *ir.EQ:
		return p.visitEquality(e, e.A, e.B, true)
	case *ir.NE:
		return p.visitEquality(e, e.A, e.B, false)
	case *ir.And:
		return p.visitLogical(e, e.A, e.B, true)
	case *ir.Or:
		return p.visitLogical(e, e.A, e.B, false)
	case *ir.Not:
		return p.visitNot(e)
	case *ir.Select:
		return p.visitSelect(e)
	case *ir.Let:
		return p.visitLet(e)
	case *ir.Load:
		return p.visitLoad(e)
	case *ir.Ramp:
		return p.visitRamp(e)
	case *ir.Broadcast:
		return p.bounds(e.Value)
	case *ir.Shuffle:
		return p.visitShuffle(e)
	case *ir.VectorReduce:
		return p.visitVectorReduce(e)
	case *ir.Call:
		return p.visitCall(e)
	case ir.Stmt:
		panic(fmt.Sprintf("bounds of statement encountered (%s)", e))
	default:
		panic(fmt.Sprintf("unknown expression encountered (%T)", e))
	}
}

// boundsOfType returns the interval of all values representable in a given
// type.  Floating point and handle types are unbounded.
func boundsOfType(t ir.Type) Interval {
	t = t.ElementOf()
	//
	switch {
	case t.IsHandle() || t.IsFloat():
		return Everything()
	case t.IsBool():
		return Interval{ir.ConstFalse(1), ir.ConstTrue(1)}
	default:
		return Interval{t.Min(), t.Max()}
	}
}

// withinType replaces any infinite side of an integer interval with the
// corresponding extreme of the type.  This is always sound, since no value of
// the type lies beyond its extremes.
func withinType(i Interval, t ir.Type) Interval {
	if !t.IsIntOrUInt() || t.IsBool() {
		return i
	}
	//
	bounds := boundsOfType(t)
	//
	if !i.HasLowerBound() {
		i.Min = bounds.Min
	}
	//
	if !i.HasUpperBound() {
		i.Max = bounds.Max
	}
	//
	return i
}

func (p *boundsVisitor) visitVariable(e *ir.Variable) Interval {
	t := e.Type()
	//
	if p.constBound {
		r := boundsOfType(t)
		//
		if b, ok := p.scope.TryGet(e.Name); ok {
			if ir.IsConst(b.Min) && compatible(b.Min, r.Min) {
				r.Min = MakeMax(r.Min, b.Min)
			}
			//
			if ir.IsConst(b.Max) && compatible(b.Max, r.Max) {
				r.Max = MakeMin(r.Max, b.Max)
			}
		}
		//
		if e.Param != nil && !e.Param.IsBuffer {
			if ir.IsConst(e.Param.Min) && compatible(e.Param.Min, r.Min) {
				r.Min = MakeMax(r.Min, e.Param.Min)
			}
			//
			if ir.IsConst(e.Param.Max) && compatible(e.Param.Max, r.Max) {
				r.Max = MakeMin(r.Max, e.Param.Max)
			}
		}
		//
		return r
	} else if b, ok := p.scope.TryGet(e.Name); ok {
		return b
	} else if t.IsVector() {
		// Lanes may differ, so no scalar bound describes them all.
		return boundsOfType(t)
	}
	//
	return SinglePoint(e)
}

// compatible checks whether two bounds can be combined, i.e. they are both
// infinite or have the same type.
func compatible(a, b ir.Expr) bool {
	return isInf(a) || isInf(b) || a.Type() == b.Type()
}

func (p *boundsVisitor) visitCast(e *ir.Cast) Interval {
	a := p.bounds(e.Value)
	//
	if a.IsSinglePointOf(e.Value) {
		return SinglePoint(e)
	}
	//
	to, from := e.Type().ElementOf(), e.Value.Type().ElementOf()
	//
	if a.IsSinglePoint() {
		return SinglePoint(fold(ir.NewCast(to, a.Min)))
	}
	//
	a = withinType(a, from)
	//
	if !castPreserves(a, from, to) {
		return boundsOfType(to)
	}
	//
	r := boundsOfType(to)
	//
	if a.HasLowerBound() {
		r.Min = fold(ir.NewCast(to, a.Min))
	}
	//
	if a.HasUpperBound() {
		r.Max = fold(ir.NewCast(to, a.Max))
	}
	//
	return r
}

// castPreserves determines whether casting every value in an interval from one
// type to another preserves its value (up to rounding), such that casting the
// bounds gives bounds on the result.
func castPreserves(a Interval, from, to ir.Type) bool {
	switch {
	case to.CanRepresent(from) || to.IsFloat():
		return true
	case to.IsInt() && !to.CanOverflowInt() && from.IsIntOrUInt():
		// Signed integer overflow is assumed not to happen.
		return true
	case !a.IsBounded():
		return false
	}
	//
	return provablyWithin(a, from, to)
}

// provablyWithin attempts to show that every value of an interval is within
// the range of a given type.
func provablyWithin(a Interval, from, to ir.Type) bool {
	if !to.IsIntOrUInt() {
		return false
	} else if from.IsFloat() {
		lo, lok := ir.AsConstFloat(a.Min)
		hi, hok := ir.AsConstFloat(a.Max)
		//
		if lok && hok {
			return to.CanRepresentFloat(math.Trunc(lo)) && to.CanRepresentFloat(math.Trunc(hi))
		}
	} else if ir.IsConst(a.Min) && ir.IsConst(a.Max) {
		r := simplify.ConstantInterval(a.Min)
		r.Insert(simplify.ConstantInterval(a.Max))
		//
		return r.Within(simplify.TypeInterval(to))
	}
	//
	var wide ir.Type
	//
	switch {
	case from.IsFloat():
		wide = ir.Float(64)
	case from.Bits <= 32 && to.Bits <= 32:
		wide = ir.Int(64)
	default:
		return false
	}
	//
	condition := ir.NewAnd(
		ir.NewLE(fold(ir.NewCast(wide, to.Min())), ir.NewCast(wide, a.Min)),
		ir.NewLE(ir.NewCast(wide, a.Max), fold(ir.NewCast(wide, to.Max()))))
	//
	return simplify.CanProve(condition)
}

func (p *boundsVisitor) visitReinterpret(e *ir.Reinterpret) Interval {
	a := p.bounds(e.Value)
	//
	if a.IsSinglePointOf(e.Value) {
		return SinglePoint(e)
	} else if a.IsSinglePoint() {
		return SinglePoint(ir.NewReinterpret(e.Type().ElementOf(), a.Min))
	}
	//
	return boundsOfType(e.Type())
}

func (p *boundsVisitor) visitLet(e *ir.Let) Interval {
	var (
		val              = p.bounds(e.Value)
		bound            = val
		minName, maxName string
	)
	//
	switch {
	case p.constBound || (isConstOrInf(val.Min) && isConstOrInf(val.Max)):
		// Constant bounds are substituted directly.
	case val.IsSinglePoint():
		minName = p.ctx.names.Fresh(e.Name)
		maxName = minName
		bound = SinglePoint(ir.NewVar(minName, val.Min.Type()))
	default:
		if val.HasLowerBound() {
			minName = p.ctx.names.Fresh(e.Name + ".min")
			bound.Min = ir.NewVar(minName, val.Min.Type())
		}
		//
		if val.HasUpperBound() {
			maxName = p.ctx.names.Fresh(e.Name + ".max")
			bound.Max = ir.NewVar(maxName, val.Max.Type())
		}
	}
	//
	r := p.boundsWith(e.Name, bound, e.Body)
	// Bind the names used by the result.
	r.Min = wrapLet(wrapLet(r.Min, maxName, val.Max), minName, val.Min)
	r.Max = wrapLet(wrapLet(r.Max, maxName, val.Max), minName, val.Min)
	//
	return r
}

// wrapLet binds a name around a bound, provided the bound uses it.
func wrapLet(bound ir.Expr, name string, value ir.Expr) ir.Expr {
	if name == "" || isInf(bound) || !ir.ExprUsesVar(bound, name) {
		return bound
	}
	//
	return ir.NewLet(name, value, bound)
}

func isConstOrInf(e ir.Expr) bool {
	return isInf(e) || ir.IsConst(e)
}
