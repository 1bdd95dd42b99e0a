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

// Stmt is a statement node.  Statements are immutable once constructed.
type Stmt interface {
	Node
	stmtNode()
}

// Range is an interval of values given by its minimum and extent.
type Range struct {
	Min    Expr
	Extent Expr
}

// LetStmt binds a name to a value within a body statement.
type LetStmt struct {
	Name  string
	Value Expr
	Body  Stmt
}

// AssertStmt checks that a condition holds, otherwise failing with a message.
type AssertStmt struct {
	Condition Expr
	Message   Expr
}

// ProducerConsumer marks the region of code which computes a given function
// (when IsProducer holds) or which consumes it (otherwise).
type ProducerConsumer struct {
	Name       string
	IsProducer bool
	Body       Stmt
}

// ForKind determines how the iterations of a loop are executed.
type ForKind uint8

const (
	// Serial loops execute iterations in order.
	Serial ForKind = iota
	// Parallel loops execute iterations concurrently.
	Parallel
	// Vectorized loops are converted into vector operations.
	Vectorized
	// Unrolled loops are fully unrolled.
	Unrolled
)

var forKindNames = []string{"serial", "parallel", "vectorized", "unrolled"}

func (k ForKind) String() string {
	return forKindNames[k]
}

// For executes its body once for each value of the loop variable in [min,
// min+extent).
type For struct {
	Name   string
	Min    Expr
	Extent Expr
	Kind   ForKind
	Body   Stmt
}

// Store writes a value to a named buffer at a given (flat) index, provided the
// predicate holds.
type Store struct {
	Name      string
	Value     Expr
	Index     Expr
	Predicate Expr
}

// Provide writes one or more values to a multi-dimensional function at given
// coordinates, provided the predicate holds.
type Provide struct {
	Name      string
	Values    []Expr
	Args      []Expr
	Predicate Expr
}

// Allocate allocates a named buffer for the duration of its body.
type Allocate struct {
	Name      string
	Type      Type
	Extents   []Expr
	Condition Expr
	Body      Stmt
}

// Free releases a named buffer.
type Free struct {
	Name string
}

// Realize allocates storage for a multi-dimensional function over a given
// region for the duration of its body.
type Realize struct {
	Name      string
	Types     []Type
	Bounds    []Range
	Condition Expr
	Body      Stmt
}

// Block executes two statements in sequence.
type Block struct {
	First Stmt
	Rest  Stmt
}

// IfThenElse executes ThenCase when the condition holds, and ElseCase (which
// may be nil) otherwise.
type IfThenElse struct {
	Condition Expr
	ThenCase  Stmt
	ElseCase  Stmt
}

// Evaluate evaluates an expression for its side effects.
type Evaluate struct {
	Value Expr
}

// NewLetStmt constructs a let statement.
func NewLetStmt(name string, value Expr, body Stmt) *LetStmt {
	return &LetStmt{name, value, body}
}

// NewAssert constructs an assertion.
func NewAssert(condition, message Expr) *AssertStmt {
	checkBool("assert", condition)
	return &AssertStmt{condition, message}
}

// NewProducer constructs a producer node.
func NewProducer(name string, body Stmt) *ProducerConsumer {
	return &ProducerConsumer{name, true, body}
}

// NewConsumer constructs a consumer node.
func NewConsumer(name string, body Stmt) *ProducerConsumer {
	return &ProducerConsumer{name, false, body}
}

// NewFor constructs a serial loop.
func NewFor(name string, min, extent Expr, body Stmt) *For {
	return &For{name, min, extent, Serial, body}
}

// NewStore constructs an unconditional store.
func NewStore(name string, value, index Expr) *Store {
	return &Store{name, value, index, ConstTrue(index.Type().Lanes)}
}

// NewProvide constructs an unconditional provide.
func NewProvide(name string, values []Expr, args []Expr) *Provide {
	return &Provide{name, values, args, ConstTrue(1)}
}

// NewBlock sequences a number of statements, ignoring any which are nil.
// This returns nil if no statements are given.
func NewBlock(stmts ...Stmt) Stmt {
	var result Stmt
	//
	for i := len(stmts) - 1; i >= 0; i-- {
		if stmts[i] == nil {
			continue
		} else if result == nil {
			result = stmts[i]
		} else {
			result = &Block{stmts[i], result}
		}
	}
	//
	return result
}

// NewIfThenElse constructs a conditional statement.  The else case may be nil.
func NewIfThenElse(condition Expr, thenCase, elseCase Stmt) *IfThenElse {
	checkBool("if", condition)
	return &IfThenElse{condition, thenCase, elseCase}
}

// NewEvaluate constructs an evaluation statement.
func NewEvaluate(value Expr) *Evaluate {
	return &Evaluate{value}
}

func (p *LetStmt) stmtNode()          {}
func (p *AssertStmt) stmtNode()       {}
func (p *ProducerConsumer) stmtNode() {}
func (p *For) stmtNode()              {}
func (p *Store) stmtNode()            {}
func (p *Provide) stmtNode()          {}
func (p *Allocate) stmtNode()         {}
func (p *Free) stmtNode()             {}
func (p *Realize) stmtNode()          {}
func (p *Block) stmtNode()            {}
func (p *IfThenElse) stmtNode()       {}
func (p *Evaluate) stmtNode()         {}
