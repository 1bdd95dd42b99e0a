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
package scope

import (
	"fmt"
	"slices"
)

// Scope is a symbol table mapping names to values, where each name may be
// bound several times.  Binding a name shadows any earlier binding of that
// name until it is popped again.  Lookups which fail in a scope continue
// through its containing scope (if any), thus allowing a nested analysis to see
// bindings established by an outer one.  A nil scope is a valid, empty scope.
type Scope[T any] struct {
	table      map[string][]T
	containing *Scope[T]
}

// NewScope constructs an empty scope nested within a given containing scope,
// which may be nil.
func NewScope[T any](containing *Scope[T]) *Scope[T] {
	return &Scope[T]{make(map[string][]T), containing}
}

// Containing returns the scope within which this scope is nested (or nil).
func (p *Scope[T]) Containing() *Scope[T] {
	if p == nil {
		return nil
	}
	//
	return p.containing
}

// Push a new binding for a given name, shadowing any existing binding.
func (p *Scope[T]) Push(name string, value T) {
	if p.table == nil {
		p.table = make(map[string][]T)
	}
	//
	p.table[name] = append(p.table[name], value)
}

// Pop the most recent binding of a given name.  This panics if no such binding
// exists in this scope, since that indicates unbalanced push/pop pairs.
func (p *Scope[T]) Pop(name string) {
	stack := p.table[name]
	//
	if len(stack) == 0 {
		panic(fmt.Sprintf("name \"%s\" popped from scope which does not contain it", name))
	} else if len(stack) == 1 {
		delete(p.table, name)
	} else {
		p.table[name] = stack[:len(stack)-1]
	}
}

// Bind pushes a binding for a given name and returns the function which pops
// it again.  This is intended for use with defer.
func (p *Scope[T]) Bind(name string, value T) func() {
	p.Push(name, value)
	//
	return func() { p.Pop(name) }
}

// TryGet returns the innermost binding of a given name, searching containing
// scopes as necessary.
func (p *Scope[T]) TryGet(name string) (T, bool) {
	for s := p; s != nil; s = s.containing {
		if stack := s.table[name]; len(stack) > 0 {
			return stack[len(stack)-1], true
		}
	}
	//
	var zero T
	//
	return zero, false
}

// Get returns the innermost binding of a given name, and panics if there is
// none.
func (p *Scope[T]) Get(name string) T {
	if v, ok := p.TryGet(name); ok {
		return v
	}
	//
	panic(fmt.Sprintf("name \"%s\" not in scope", name))
}

// Contains checks whether a given name is bound in this scope, or any
// containing scope.
func (p *Scope[T]) Contains(name string) bool {
	_, ok := p.TryGet(name)
	return ok
}

// ContainsLocal checks whether a given name is bound in this scope, ignoring
// containing scopes.
func (p *Scope[T]) ContainsLocal(name string) bool {
	return p != nil && len(p.table[name]) > 0
}

// IsEmpty checks whether this scope (excluding containing scopes) has no
// bindings.
func (p *Scope[T]) IsEmpty() bool {
	return p == nil || len(p.table) == 0
}

// Names returns the (sorted) names bound in this scope or any containing scope.
func (p *Scope[T]) Names() []string {
	var names []string
	//
	for s := p; s != nil; s = s.containing {
		for name := range s.table {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	//
	slices.Sort(names)
	//
	return names
}
