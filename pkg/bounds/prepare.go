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
	"github.com/consensys/go-bounds/pkg/solve"
	"github.com/consensys/go-bounds/pkg/util/collection/scope"
)

// bufferSuffix is appended to the name of a function to give the variable
// holding its buffer.
const bufferSuffix = ".buffer"

// mentions checks whether a node refers to a given function, either by calling
// it, by providing to it or through its buffer.
func mentions(n ir.Node, fn string) bool {
	found := false
	//
	ir.Walk(n, func(n ir.Node) bool {
		switch n := n.(type) {
		case *ir.Call:
			found = found || n.Name == fn
		case *ir.Variable:
			found = found || n.Name == fn+bufferSuffix
		case *ir.Provide:
			found = found || n.Name == fn
		}
		//
		return !found
	})
	//
	return found
}

// filterStmt discards the parts of a statement which cannot touch a given
// function, returning nil when nothing relevant remains.  Assertions are kept
// since they determine which code is reachable.
func filterStmt(s ir.Stmt, fn string) ir.Stmt {
	// keep rebuilds a statement around a filtered body, if anything remains.
	keep := func(body ir.Stmt, header bool, rebuild func(ir.Stmt) ir.Stmt) ir.Stmt {
		switch {
		case body == nil && !header:
			return nil
		case body == nil:
			body = ir.NewEvaluate(ir.I32(0))
		}
		//
		return rebuild(body)
	}
	//
	switch s := s.(type) {
	case nil:
		return nil
	case *ir.Block:
		return ir.NewBlock(filterStmt(s.First, fn), filterStmt(s.Rest, fn))
	case *ir.AssertStmt:
		return s
	case *ir.LetStmt:
		return keep(filterStmt(s.Body, fn), mentions(s.Value, fn), func(body ir.Stmt) ir.Stmt {
			return ir.NewLetStmt(s.Name, s.Value, body)
		})
	case *ir.For:
		return keep(filterStmt(s.Body, fn), mentions(s.Min, fn) || mentions(s.Extent, fn), func(body ir.Stmt) ir.Stmt {
			return &ir.For{Name: s.Name, Min: s.Min, Extent: s.Extent, Kind: s.Kind, Body: body}
		})
	case *ir.IfThenElse:
		thenCase, elseCase := filterStmt(s.ThenCase, fn), filterStmt(s.ElseCase, fn)
		//
		if thenCase == nil && elseCase == nil && !mentions(s.Condition, fn) {
			return nil
		} else if thenCase == nil {
			thenCase = ir.NewEvaluate(ir.I32(0))
		}
		//
		return ir.NewIfThenElse(s.Condition, thenCase, elseCase)
	case *ir.ProducerConsumer, *ir.Allocate, *ir.Realize:
		es, ss := ir.StmtChildren(s)
		//
		return keep(filterStmt(ss[0], fn), false, func(body ir.Stmt) ir.Stmt {
			return ir.WithStmtChildren(s, es, []ir.Stmt{body})
		})
	default:
		if mentions(s, fn) {
			return s
		}
		//
		return nil
	}
}

// renamer gives fresh names to any binder which shadows an enclosing binder,
// or which would capture a name used by the caller's scope.  This ensures each
// name in scope identifies exactly one binding.
type renamer struct {
	names    *ir.NameGenerator
	reserved map[string]bool
	current  map[string]string
	// original maps each fresh name back to the name it replaced.
	original map[string]string
}

func newRenamer(names *ir.NameGenerator, s *scope.Scope[Interval]) *renamer {
	reserved := make(map[string]bool)
	//
	for _, name := range s.Names() {
		reserved[name] = true
		//
		for _, bound := range []ir.Expr{s.Get(name).Min, s.Get(name).Max} {
			if !isInf(bound) {
				for _, v := range ir.FreeVariables(bound) {
					reserved[v] = true
				}
			}
		}
	}
	//
	return &renamer{names, reserved, make(map[string]string), make(map[string]string)}
}

// bind enters a binder, returning its (possibly fresh) name and a function to
// leave it again.
func (p *renamer) bind(name string) (string, func()) {
	var (
		prev, shadows = p.current[name]
		renamed       = name
	)
	//
	if shadows || p.reserved[name] {
		renamed = p.names.Fresh(name)
		p.original[renamed] = name
	}
	//
	p.current[name] = renamed
	//
	return renamed, func() {
		if shadows {
			p.current[name] = prev
		} else {
			delete(p.current, name)
		}
	}
}

func (p *renamer) stmt(s ir.Stmt) ir.Stmt {
	switch s := s.(type) {
	case nil:
		return nil
	case *ir.LetStmt:
		value := p.expr(s.Value)
		name, leave := p.bind(s.Name)
		body := p.stmt(s.Body)
		leave()
		//
		if name == s.Name && value == s.Value && body == s.Body {
			return s
		}
		//
		return ir.NewLetStmt(name, value, body)
	case *ir.For:
		lo, extent := p.expr(s.Min), p.expr(s.Extent)
		name, leave := p.bind(s.Name)
		body := p.stmt(s.Body)
		leave()
		//
		if name == s.Name && lo == s.Min && extent == s.Extent && body == s.Body {
			return s
		}
		//
		return &ir.For{Name: name, Min: lo, Extent: extent, Kind: s.Kind, Body: body}
	default:
		es, ss := ir.StmtChildren(s)
		//
		for i, e := range es {
			es[i] = p.expr(e)
		}
		//
		for i, c := range ss {
			ss[i] = p.stmt(c)
		}
		//
		return ir.WithStmtChildren(s, es, ss)
	}
}

func (p *renamer) expr(e ir.Expr) ir.Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *ir.Variable:
		if name, ok := p.current[e.Name]; ok && name != e.Name {
			v := *e
			v.Name = name
			//
			return &v
		}
		//
		return e
	case *ir.Let:
		value := p.expr(e.Value)
		name, leave := p.bind(e.Name)
		body := p.expr(e.Body)
		leave()
		//
		if name == e.Name && value == e.Value && body == e.Body {
			return e
		}
		//
		return ir.NewLet(name, value, body)
	default:
		cs := ir.Children(e)
		ncs := make([]ir.Expr, len(cs))
		//
		for i, c := range cs {
			ncs[i] = p.expr(c)
		}
		//
		return ir.WithChildren(e, ncs)
	}
}

// solveConditions rewrites the condition of each conditional so that the
// innermost enclosing binder it uses appears alone on one side of each
// comparison.  This exposes conditions from which intervals can be narrowed.
func solveConditions(s ir.Stmt, binders []string) ir.Stmt {
	switch s := s.(type) {
	case nil:
		return nil
	case *ir.LetStmt:
		body := solveConditions(s.Body, append(binders, s.Name))
		//
		return ir.WithStmtChildren(s, []ir.Expr{s.Value}, []ir.Stmt{body})
	case *ir.For:
		body := solveConditions(s.Body, append(binders, s.Name))
		//
		return ir.WithStmtChildren(s, []ir.Expr{s.Min, s.Extent}, []ir.Stmt{body})
	case *ir.IfThenElse:
		condition := s.Condition
		//
		for i := len(binders) - 1; i >= 0; i-- {
			if ir.ExprUsesVar(condition, binders[i]) {
				if r := solve.SolveExpression(condition, binders[i]); r.FullySolved {
					condition = r.Expr
				}
				//
				break
			}
		}
		//
		thenCase := solveConditions(s.ThenCase, binders)
		elseCase := solveConditions(s.ElseCase, binders)
		//
		return ir.WithStmtChildren(s, []ir.Expr{condition}, []ir.Stmt{thenCase, elseCase})
	default:
		es, ss := ir.StmtChildren(s)
		//
		for i, c := range ss {
			ss[i] = solveConditions(c, binders)
		}
		//
		return ir.WithStmtChildren(s, es, ss)
	}
}

// isPure checks that an expression has no side effects.
func isPure(e ir.Expr) bool {
	if isInf(e) {
		return true
	}
	//
	pure := true
	//
	ir.Walk(e, func(n ir.Node) bool {
		if call, ok := n.(*ir.Call); ok && !call.IsPure() {
			pure = false
		}
		//
		return pure
	})
	//
	return pure
}

// purify removes any impure bounds from a set of boxes, since these cannot be
// evaluated outside the code they came from.
func purify(boxes map[string]Box) {
	for name, box := range boxes {
		for i, bound := range box.Bounds {
			if !isPure(bound.Min) {
				box.Bounds[i].Min = NegInf
			}
			//
			if !isPure(bound.Max) {
				box.Bounds[i].Max = PosInf
			}
		}
		//
		if box.Used != nil && !isPure(box.Used) {
			box.Used = nil
		}
		//
		boxes[name] = box
	}
}
