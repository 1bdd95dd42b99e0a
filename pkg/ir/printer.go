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
	"strconv"
	"strings"
)

func (p *IntImm) String() string {
	if p.typ == Int(32) {
		return strconv.FormatInt(p.Value, 10)
	}
	//
	return fmt.Sprintf("(%s)%d", p.typ, p.Value)
}

func (p *UIntImm) String() string {
	if p.typ.IsBool() {
		if p.Value == 0 {
			return "false"
		}
		//
		return "true"
	}
	//
	return fmt.Sprintf("(%s)%d", p.typ, p.Value)
}

func (p *FloatImm) String() string {
	s := strconv.FormatFloat(p.Value, 'g', -1, int(p.typ.Bits))
	//
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	//
	if p.typ.Bits == 32 {
		return s + "f"
	}
	//
	return s
}

func (p *StringImm) String() string { return strconv.Quote(p.Value) }
func (p *Variable) String() string  { return p.Name }

func (p *Cast) String() string {
	return fmt.Sprintf("%s(%s)", p.typ, p.Value)
}

func (p *Reinterpret) String() string {
	return fmt.Sprintf("reinterpret<%s>(%s)", p.typ, p.Value)
}

func (p *Add) String() string { return binary("+", p.A, p.B) }
func (p *Sub) String() string { return binary("-", p.A, p.B) }
func (p *Mul) String() string { return binary("*", p.A, p.B) }
func (p *Div) String() string { return binary("/", p.A, p.B) }
func (p *Mod) String() string { return binary("%", p.A, p.B) }
func (p *EQ) String() string  { return binary("==", p.A, p.B) }
func (p *NE) String() string  { return binary("!=", p.A, p.B) }
func (p *LT) String() string  { return binary("<", p.A, p.B) }
func (p *LE) String() string  { return binary("<=", p.A, p.B) }
func (p *GT) String() string  { return binary(">", p.A, p.B) }
func (p *GE) String() string  { return binary(">=", p.A, p.B) }
func (p *And) String() string { return binary("&&", p.A, p.B) }
func (p *Or) String() string  { return binary("||", p.A, p.B) }
func (p *Not) String() string { return fmt.Sprintf("!%s", p.A) }

func (p *Min) String() string { return fmt.Sprintf("min(%s, %s)", p.A, p.B) }
func (p *Max) String() string { return fmt.Sprintf("max(%s, %s)", p.A, p.B) }

func (p *Select) String() string {
	return fmt.Sprintf("select(%s, %s, %s)", p.Condition, p.TrueValue, p.FalseValue)
}

func (p *Let) String() string {
	return fmt.Sprintf("(let %s = %s in %s)", p.Name, p.Value, p.Body)
}

func (p *Load) String() string {
	if IsConstTrue(p.Predicate) {
		return fmt.Sprintf("%s[%s]", p.Name, p.Index)
	}
	//
	return fmt.Sprintf("(%s[%s] if %s)", p.Name, p.Index, p.Predicate)
}

func (p *Ramp) String() string {
	return fmt.Sprintf("ramp(%s, %s, %d)", p.Base, p.Stride, p.Lanes)
}

func (p *Broadcast) String() string {
	return fmt.Sprintf("x%d(%s)", p.Lanes, p.Value)
}

func (p *Shuffle) String() string {
	indices := make([]string, len(p.Indices))
	for i, index := range p.Indices {
		indices[i] = strconv.Itoa(index)
	}
	//
	return fmt.Sprintf("shuffle(%s, [%s])", exprList(p.Vectors), strings.Join(indices, ", "))
}

func (p *VectorReduce) String() string {
	return fmt.Sprintf("vector_reduce_%s<%d>(%s)", p.Op, p.Lanes, p.Value)
}

func (p *Call) String() string {
	if p.CallType == CallHalide && p.ValueIndex != 0 {
		return fmt.Sprintf("%s(%s)[%d]", p.Name, exprList(p.Args), p.ValueIndex)
	}
	//
	return fmt.Sprintf("%s(%s)", p.Name, exprList(p.Args))
}

func binary(op string, a, b Expr) string {
	return fmt.Sprintf("(%s %s %s)", a, op, b)
}

func exprList(exprs []Expr) string {
	var builder strings.Builder
	//
	for i, e := range exprs {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(e.String())
	}
	//
	return builder.String()
}

// ===================================================================
// Statements
// ===================================================================

func (p *LetStmt) String() string          { return printStmt(p) }
func (p *AssertStmt) String() string       { return printStmt(p) }
func (p *ProducerConsumer) String() string { return printStmt(p) }
func (p *For) String() string              { return printStmt(p) }
func (p *Store) String() string            { return printStmt(p) }
func (p *Provide) String() string          { return printStmt(p) }
func (p *Allocate) String() string         { return printStmt(p) }
func (p *Free) String() string             { return printStmt(p) }
func (p *Realize) String() string          { return printStmt(p) }
func (p *Block) String() string            { return printStmt(p) }
func (p *IfThenElse) String() string       { return printStmt(p) }
func (p *Evaluate) String() string         { return printStmt(p) }

func printStmt(s Stmt) string {
	var printer stmtPrinter
	//
	printer.print(s)
	//
	return printer.builder.String()
}

type stmtPrinter struct {
	builder strings.Builder
	indent  int
}

func (p *stmtPrinter) line(format string, args ...any) {
	p.builder.WriteString(strings.Repeat("  ", p.indent))
	p.builder.WriteString(fmt.Sprintf(format, args...))
	p.builder.WriteString("\n")
}

func (p *stmtPrinter) nested(s Stmt) {
	p.indent++
	p.print(s)
	p.indent--
}

func (p *stmtPrinter) print(s Stmt) {
	switch s := s.(type) {
	case *LetStmt:
		p.line("let %s = %s", s.Name, s.Value)
		p.print(s.Body)
	case *AssertStmt:
		p.line("assert(%s, %s)", s.Condition, s.Message)
	case *ProducerConsumer:
		if s.IsProducer {
			p.line("produce %s {", s.Name)
		} else {
			p.line("consume %s {", s.Name)
		}
		//
		p.nested(s.Body)
		p.line("}")
	case *For:
		p.line("for<%s> (%s, %s, %s) {", s.Kind, s.Name, s.Min, s.Extent)
		p.nested(s.Body)
		p.line("}")
	case *Store:
		if IsConstTrue(s.Predicate) {
			p.line("%s[%s] = %s", s.Name, s.Index, s.Value)
		} else {
			p.line("predicate (%s) %s[%s] = %s", s.Predicate, s.Name, s.Index, s.Value)
		}
	case *Provide:
		if IsConstTrue(s.Predicate) {
			p.line("%s(%s) = {%s}", s.Name, exprList(s.Args), exprList(s.Values))
		} else {
			p.line("predicate (%s) %s(%s) = {%s}", s.Predicate, s.Name, exprList(s.Args), exprList(s.Values))
		}
	case *Allocate:
		p.line("allocate %s[%s * %s] if %s", s.Name, s.Type, exprList(s.Extents), s.Condition)
		p.print(s.Body)
	case *Free:
		p.line("free %s", s.Name)
	case *Realize:
		bounds := make([]string, len(s.Bounds))
		for i, b := range s.Bounds {
			bounds[i] = fmt.Sprintf("[%s, %s]", b.Min, b.Extent)
		}
		//
		p.line("realize %s(%s) if %s {", s.Name, strings.Join(bounds, ", "), s.Condition)
		p.nested(s.Body)
		p.line("}")
	case *Block:
		p.print(s.First)
		p.print(s.Rest)
	case *IfThenElse:
		p.line("if (%s) {", s.Condition)
		p.nested(s.ThenCase)
		//
		if s.ElseCase != nil {
			p.line("} else {")
			p.nested(s.ElseCase)
		}
		//
		p.line("}")
	case *Evaluate:
		p.line("%s", s.Value)
	default:
		panic(fmt.Sprintf("unknown statement %T", s))
	}
}
