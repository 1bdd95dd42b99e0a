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
package ir

import (
	"fmt"
	"slices"
)

// Children returns the immediate subexpressions of an expression, in a fixed
// order understood by WithChildren.
func Children(e Expr) []Expr {
	switch e := e.(type) {
	case *IntImm, *UIntImm, *FloatImm, *StringImm, *Variable:
		return nil
	case *Cast:
		return []Expr{e.Value}
	case *Reinterpret:
		return []Expr{e.Value}
	case *Add:
		return []Expr{e.A, e.B}
	case *Sub:
		return []Expr{e.A, e.B}
	case *Mul:
		return []Expr{e.A, e.B}
	case *Div:
		return []Expr{e.A, e.B}
	case *Mod:
		return []Expr{e.A, e.B}
	case *Min:
		return []Expr{e.A, e.B}
	case *Max:
		return []Expr{e.A, e.B}
	case *EQ:
		return []Expr{e.A, e.B}
	case *NE:
		return []Expr{e.A, e.B}
	case *LT:
		return []Expr{e.A, e.B}
	case *LE:
		return []Expr{e.A, e.B}
	case *GT:
		return []Expr{e.A, e.B}
	case *GE:
		return []Expr{e.A, e.B}
	case *And:
		return []Expr{e.A, e.B}
	case *Or:
		return []Expr{e.A, e.B}
	case *Not:
		return []Expr{e.A}
	case *Select:
		return []Expr{e.Condition, e.TrueValue, e.FalseValue}
	case *Let:
		return []Expr{e.Value, e.Body}
	case *Load:
		return []Expr{e.Index, e.Predicate}
	case *Ramp:
		return []Expr{e.Base, e.Stride}
	case *Broadcast:
		return []Expr{e.Value}
	case *Shuffle:
		return e.Vectors
	case *VectorReduce:
		return []Expr{e.Value}
	case *Call:
		return e.Args
	default:
		panic(fmt.Sprintf("unknown expression %T", e))
	}
}

// WithChildren reconstructs an expression with replacement children (in the
// order given by Children).  If every child is unchanged, the original node is
// returned.
func WithChildren(e Expr, cs []Expr) Expr {
	if slices.EqualFunc(Children(e), cs, func(a, b Expr) bool { return a == b }) {
		return e
	}
	//
	switch e := e.(type) {
	case *Cast:
		return NewCast(e.typ, cs[0])
	case *Reinterpret:
		return NewReinterpret(e.typ, cs[0])
	case *Add:
		return NewAdd(cs[0], cs[1])
	case *Sub:
		return NewSub(cs[0], cs[1])
	case *Mul:
		return NewMul(cs[0], cs[1])
	case *Div:
		return NewDiv(cs[0], cs[1])
	case *Mod:
		return NewMod(cs[0], cs[1])
	case *Min:
		return NewMin(cs[0], cs[1])
	case *Max:
		return NewMax(cs[0], cs[1])
	case *EQ:
		return NewEQ(cs[0], cs[1])
	case *NE:
		return NewNE(cs[0], cs[1])
	case *LT:
		return NewLT(cs[0], cs[1])
	case *LE:
		return NewLE(cs[0], cs[1])
	case *GT:
		return NewGT(cs[0], cs[1])
	case *GE:
		return NewGE(cs[0], cs[1])
	case *And:
		return NewAnd(cs[0], cs[1])
	case *Or:
		return NewOr(cs[0], cs[1])
	case *Not:
		return NewNot(cs[0])
	case *Select:
		return NewSelect(cs[0], cs[1], cs[2])
	case *Let:
		return NewLet(e.Name, cs[0], cs[1])
	case *Load:
		return NewPredicatedLoad(e.typ, e.Name, cs[0], cs[1], e.Param)
	case *Ramp:
		return NewRamp(cs[0], cs[1], e.Lanes)
	case *Broadcast:
		return NewBroadcast(cs[0], e.Lanes)
	case *Shuffle:
		return NewShuffle(cs, e.Indices)
	case *VectorReduce:
		return NewVectorReduce(e.Op, cs[0], e.Lanes)
	case *Call:
		return &Call{e.typ, e.Name, cs, e.CallType, e.ValueIndex, e.Param}
	default:
		panic(fmt.Sprintf("cannot rebuild expression %T", e))
	}
}

// Walk traverses an expression or statement in pre-order, calling visit on
// each node.  When visit returns false, the children of that node are skipped.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	//
	switch n := n.(type) {
	case Expr:
		for _, c := range Children(n) {
			Walk(c, visit)
		}
	case Stmt:
		exprs, stmts := StmtChildren(n)
		//
		for _, c := range exprs {
			Walk(c, visit)
		}
		//
		for _, c := range stmts {
			Walk(c, visit)
		}
	}
}

// StmtChildren returns the immediate subexpressions and substatements of a
// statement.  Absent (nil) children are included, so that the result can be
// passed back to WithStmtChildren.
func StmtChildren(s Stmt) ([]Expr, []Stmt) {
	switch s := s.(type) {
	case *LetStmt:
		return []Expr{s.Value}, []Stmt{s.Body}
	case *AssertStmt:
		return []Expr{s.Condition, s.Message}, nil
	case *ProducerConsumer:
		return nil, []Stmt{s.Body}
	case *For:
		return []Expr{s.Min, s.Extent}, []Stmt{s.Body}
	case *Store:
		return []Expr{s.Value, s.Index, s.Predicate}, nil
	case *Provide:
		exprs := append(slices.Clone(s.Values), s.Args...)
		return append(exprs, s.Predicate), nil
	case *Allocate:
		return append(slices.Clone(s.Extents), s.Condition), []Stmt{s.Body}
	case *Free:
		return nil, nil
	case *Realize:
		exprs := make([]Expr, 0, 2*len(s.Bounds)+1)
		for _, r := range s.Bounds {
			exprs = append(exprs, r.Min, r.Extent)
		}
		//
		return append(exprs, s.Condition), []Stmt{s.Body}
	case *Block:
		return nil, []Stmt{s.First, s.Rest}
	case *IfThenElse:
		return []Expr{s.Condition}, []Stmt{s.ThenCase, s.ElseCase}
	case *Evaluate:
		return []Expr{s.Value}, nil
	default:
		panic(fmt.Sprintf("unknown statement %T", s))
	}
}

// WithStmtChildren reconstructs a statement with replacement children (in the
// order given by StmtChildren).  If every child is unchanged, the original node
// is returned.
func WithStmtChildren(s Stmt, es []Expr, ss []Stmt) Stmt {
	oldExprs, oldStmts := StmtChildren(s)
	//
	if slices.EqualFunc(oldExprs, es, func(a, b Expr) bool { return a == b }) &&
		slices.EqualFunc(oldStmts, ss, func(a, b Stmt) bool { return a == b }) {
		return s
	}
	//
	switch s := s.(type) {
	case *LetStmt:
		return &LetStmt{s.Name, es[0], ss[0]}
	case *AssertStmt:
		return &AssertStmt{es[0], es[1]}
	case *ProducerConsumer:
		return &ProducerConsumer{s.Name, s.IsProducer, ss[0]}
	case *For:
		return &For{s.Name, es[0], es[1], s.Kind, ss[0]}
	case *Store:
		return &Store{s.Name, es[0], es[1], es[2]}
	case *Provide:
		n := len(s.Values)
		return &Provide{s.Name, es[:n], es[n : len(es)-1], es[len(es)-1]}
	case *Allocate:
		n := len(s.Extents)
		return &Allocate{s.Name, s.Type, es[:n], es[n], ss[0]}
	case *Realize:
		bounds := make([]Range, len(s.Bounds))
		for i := range bounds {
			bounds[i] = Range{es[2*i], es[2*i+1]}
		}
		//
		return &Realize{s.Name, s.Types, bounds, es[len(es)-1], ss[0]}
	case *Block:
		return NewBlock(ss[0], ss[1])
	case *IfThenElse:
		return &IfThenElse{es[0], ss[0], ss[1]}
	case *Evaluate:
		return &Evaluate{es[0]}
	default:
		panic(fmt.Sprintf("cannot rebuild statement %T", s))
	}
}

// Mutator rewrites expressions and statements bottom-up.  The optional Expr and
// Stmt hooks are consulted for each node first: when a hook reports the node
// as handled, its result is used as is; otherwise the node's children are
// mutated and the node rebuilt.
type Mutator struct {
	Expr func(m *Mutator, e Expr) (Expr, bool)
	Stmt func(m *Mutator, s Stmt) (Stmt, bool)
}

// MutateExpr applies this mutator to an expression.
func (m *Mutator) MutateExpr(e Expr) Expr {
	if e == nil {
		return nil
	} else if m.Expr != nil {
		if r, ok := m.Expr(m, e); ok {
			return r
		}
	}
	//
	return m.DefaultExpr(e)
}

// DefaultExpr mutates the children of an expression, without consulting the
// hook on the expression itself.
func (m *Mutator) DefaultExpr(e Expr) Expr {
	children := Children(e)
	if len(children) == 0 {
		return e
	}
	//
	ncs := make([]Expr, len(children))
	for i, c := range children {
		ncs[i] = m.MutateExpr(c)
	}
	//
	return WithChildren(e, ncs)
}

// MutateStmt applies this mutator to a statement.
func (m *Mutator) MutateStmt(s Stmt) Stmt {
	if s == nil {
		return nil
	} else if m.Stmt != nil {
		if r, ok := m.Stmt(m, s); ok {
			return r
		}
	}
	//
	return m.DefaultStmt(s)
}

// DefaultStmt mutates the children of a statement, without consulting the
// hook on the statement itself.
func (m *Mutator) DefaultStmt(s Stmt) Stmt {
	exprs, stmts := StmtChildren(s)
	nexprs := make([]Expr, len(exprs))
	nstmts := make([]Stmt, len(stmts))
	//
	for i, e := range exprs {
		nexprs[i] = m.MutateExpr(e)
	}
	//
	for i, c := range stmts {
		nstmts[i] = m.MutateStmt(c)
	}
	//
	return WithStmtChildren(s, nexprs, nstmts)
}
