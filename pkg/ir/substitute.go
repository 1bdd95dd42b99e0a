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
	"maps"
	"slices"
)

// Substitute replaces every free occurrence of a named variable within an
// expression.  Occurrences shadowed by an inner binding of the same name are
// left alone.
func Substitute(name string, replacement Expr, e Expr) Expr {
	return SubstituteMap(map[string]Expr{name: replacement}, e)
}

// SubstituteMap replaces every free occurrence of the given variables within
// an expression.
func SubstituteMap(replacements map[string]Expr, e Expr) Expr {
	if len(replacements) == 0 {
		return e
	}
	//
	return substituter(replacements).MutateExpr(e)
}

// SubstituteInStmt replaces every free occurrence of a named variable within a
// statement.
func SubstituteInStmt(name string, replacement Expr, s Stmt) Stmt {
	return SubstituteMapInStmt(map[string]Expr{name: replacement}, s)
}

// SubstituteMapInStmt replaces every free occurrence of the given variables
// within a statement.
func SubstituteMapInStmt(replacements map[string]Expr, s Stmt) Stmt {
	if len(replacements) == 0 {
		return s
	}
	//
	return substituter(replacements).MutateStmt(s)
}

func substituter(replacements map[string]Expr) *Mutator {
	// without returns the replacements with a given name shadowed.
	without := func(name string) map[string]Expr {
		inner := maps.Clone(replacements)
		delete(inner, name)
		//
		return inner
	}
	//
	return &Mutator{
		Expr: func(m *Mutator, e Expr) (Expr, bool) {
			switch e := e.(type) {
			case *Variable:
				if r, ok := replacements[e.Name]; ok {
					return r, true
				}
			case *Let:
				if _, ok := replacements[e.Name]; ok {
					value := m.MutateExpr(e.Value)
					body := SubstituteMap(without(e.Name), e.Body)
					//
					return WithChildren(e, []Expr{value, body}), true
				}
			}
			//
			return nil, false
		},
		Stmt: func(m *Mutator, s Stmt) (Stmt, bool) {
			switch s := s.(type) {
			case *LetStmt:
				if _, ok := replacements[s.Name]; ok {
					value := m.MutateExpr(s.Value)
					body := SubstituteMapInStmt(without(s.Name), s.Body)
					//
					return WithStmtChildren(s, []Expr{value}, []Stmt{body}), true
				}
			case *For:
				if _, ok := replacements[s.Name]; ok {
					es := []Expr{m.MutateExpr(s.Min), m.MutateExpr(s.Extent)}
					body := SubstituteMapInStmt(without(s.Name), s.Body)
					//
					return WithStmtChildren(s, es, []Stmt{body}), true
				}
			}
			//
			return nil, false
		},
	}
}

// ExprUsesVar determines whether a named variable occurs free within an
// expression.
func ExprUsesVar(e Expr, name string) bool {
	return usesAny(e, func(n string) bool { return n == name })
}

// ExprUsesVars determines whether any variable accepted by a given predicate
// occurs free within an expression.
func ExprUsesVars(e Expr, names func(string) bool) bool {
	return usesAny(e, names)
}

// StmtUsesVar determines whether a named variable occurs free within a
// statement.
func StmtUsesVar(s Stmt, name string) bool {
	return usesAny(s, func(n string) bool { return n == name })
}

// StmtUsesVars determines whether any variable accepted by a given predicate
// occurs free within a statement.
func StmtUsesVars(s Stmt, names func(string) bool) bool {
	return usesAny(s, names)
}

func usesAny(n Node, names func(string) bool) bool {
	found := false
	//
	Walk(n, func(n Node) bool {
		if found {
			return false
		}
		//
		switch n := n.(type) {
		case *Variable:
			found = names(n.Name)
		case *Let:
			found = usesAny(n.Value, names) || usesAny(n.Body, shadow(names, n.Name))
			return false
		case *LetStmt:
			found = usesAny(n.Value, names) || usesAny(n.Body, shadow(names, n.Name))
			return false
		case *For:
			found = usesAny(n.Min, names) || usesAny(n.Extent, names) || usesAny(n.Body, shadow(names, n.Name))
			return false
		}
		//
		return true
	})
	//
	return found
}

func shadow(names func(string) bool, name string) func(string) bool {
	return func(n string) bool {
		return n != name && names(n)
	}
}

// FreeVariables returns the sorted names of all variables occurring free
// within an expression.
func FreeVariables(e Expr) []string {
	vars := make(map[string]bool)
	collectFree(e, make(map[string]int), vars)
	//
	return slices.Sorted(maps.Keys(vars))
}

func collectFree(e Expr, bound map[string]int, vars map[string]bool) {
	Walk(e, func(n Node) bool {
		switch n := n.(type) {
		case *Variable:
			if bound[n.Name] == 0 {
				vars[n.Name] = true
			}
		case *Let:
			collectFree(n.Value, bound, vars)
			bound[n.Name]++
			collectFree(n.Body, bound, vars)
			bound[n.Name]--
			//
			return false
		}
		//
		return true
	})
}

// CountVariableUses counts the number of free occurrences of a named variable
// within an expression.
func CountVariableUses(e Expr, name string) int {
	count := 0
	//
	Walk(e, func(n Node) bool {
		switch n := n.(type) {
		case *Variable:
			if n.Name == name {
				count++
			}
		case *Let:
			count += CountVariableUses(n.Value, name)
			//
			if n.Name != name {
				count += CountVariableUses(n.Body, name)
			}
			//
			return false
		}
		//
		return true
	})
	//
	return count
}
