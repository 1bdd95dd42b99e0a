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
package reader

import (
	"fmt"
	"strconv"

	"github.com/consensys/go-bounds/pkg/function"
	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/sexp"
)

func (p *Reader) addFunctionRules() {
	p.defs.AddListRule("func", p.funcRule)
	p.defs.AddListRule("extern", p.externRule)
	p.defs.AddListRule("specialize", p.specializeRule)
	p.defs.AddListRule("specialize_fail", p.specializeFailRule)
	p.defs.AddListRule("update", p.updateRule)
}

// funcRule translates (func name (args...) values...).
func (p *Reader) funcRule(l *sexp.List) (*function.Function, error) {
	name, args, err := p.signature(l, "(func name (args...) values...)")
	if err != nil {
		return nil, err
	}
	//
	defer p.bindArgs(args)()
	//
	values, err := p.exprList(l.Elements[3:])
	if err != nil {
		return nil, err
	}
	//
	return p.define(function.NewFunction(name, args, values...)), nil
}

// externRule translates (extern name (args...) types...).
func (p *Reader) externRule(l *sexp.List) (*function.Function, error) {
	name, args, err := p.signature(l, "(extern name (args...) types...)")
	if err != nil {
		return nil, err
	}
	//
	types := make([]ir.Type, l.Len()-3)
	//
	for i, s := range l.Elements[3:] {
		if types[i], err = p.typeOf(s); err != nil {
			return nil, err
		}
	}
	//
	return p.define(function.NewExternFunction(name, args, types...)), nil
}

// specializeRule translates (specialize name condition values...).
func (p *Reader) specializeRule(l *sexp.List) (*function.Function, error) {
	f, err := p.function(l, 4, "(specialize name condition values...)")
	if err != nil {
		return nil, err
	}
	//
	defer p.bindArgs(f.Args)()
	//
	cond, err := p.condition(l.Get(2))
	if err != nil {
		return nil, err
	}
	//
	values, err := p.exprList(l.Elements[3:])
	if err != nil {
		return nil, err
	} else if err := p.checkValues(f, values); err != nil {
		return nil, err
	}
	//
	f.Specialize(cond, values...)
	//
	return f, nil
}

// specializeFailRule translates (specialize_fail name condition "message").
func (p *Reader) specializeFailRule(l *sexp.List) (*function.Function, error) {
	f, err := p.function(l, 4, "(specialize_fail name condition message)")
	if err != nil {
		return nil, err
	} else if l.Len() != 4 || !l.Get(3).IsSymbol() {
		return nil, fmt.Errorf("expected (specialize_fail name condition message)")
	}
	//
	defer p.bindArgs(f.Args)()
	//
	cond, err := p.condition(l.Get(2))
	if err != nil {
		return nil, err
	}
	//
	msg, err := strconv.Unquote(l.Get(3).String())
	if err != nil {
		return nil, fmt.Errorf("invalid message %s", l.Get(3))
	}
	//
	f.SpecializeFail(cond, msg)
	//
	return f, nil
}

// updateRule translates (update name (args...) values...), where the args are
// arbitrary expressions over the pure arguments of the function.
func (p *Reader) updateRule(l *sexp.List) (*function.Function, error) {
	f, err := p.function(l, 4, "(update name (args...) values...)")
	if err != nil {
		return nil, err
	}
	//
	defer p.bindArgs(f.Args)()
	//
	args, err := p.exprSequence(l.Get(2))
	if err != nil {
		return nil, err
	} else if len(args) != len(f.Args) {
		return nil, fmt.Errorf("update of %s has %d arguments, expected %d", f.Name, len(args), len(f.Args))
	}
	//
	values, err := p.exprList(l.Elements[3:])
	if err != nil {
		return nil, err
	} else if err := p.checkValues(f, values); err != nil {
		return nil, err
	}
	//
	f.Update(args, values...)
	//
	return f, nil
}

// ============================================================================
// Helpers
// ============================================================================

// signature reads the name and argument names of a function definition, which
// must not already be defined.
func (p *Reader) signature(l *sexp.List, form string) (string, []string, error) {
	if l.Len() < 4 || !l.MatchSymbols(2) || !l.Get(2).IsList() {
		return "", nil, fmt.Errorf("expected %s", form)
	}
	//
	name := l.Get(1).String()
	//
	if err := checkName(name); err != nil {
		return "", nil, err
	} else if _, ok := p.funcs[name]; ok {
		return "", nil, fmt.Errorf("function %s already defined", name)
	}
	//
	params := l.Get(2).(*sexp.List)
	args := make([]string, params.Len())
	//
	for i, s := range params.Elements {
		if !s.IsSymbol() {
			return "", nil, fmt.Errorf("invalid argument %s", s)
		} else if err := checkName(s.String()); err != nil {
			return "", nil, err
		}
		//
		args[i] = s.String()
	}
	//
	return name, args, nil
}

// function looks up the (non-extern) function being refined by a definition.
func (p *Reader) function(l *sexp.List, n int, form string) (*function.Function, error) {
	if l.Len() < n || !l.MatchSymbols(2) {
		return nil, fmt.Errorf("expected %s", form)
	}
	//
	f, ok := p.funcs[l.Get(1).String()]
	//
	switch {
	case !ok:
		return nil, fmt.Errorf("unknown function %s", l.Get(1))
	case f.Extern:
		return nil, fmt.Errorf("cannot define extern function %s", f.Name)
	}
	//
	return f, nil
}

func (p *Reader) define(f *function.Function) *function.Function {
	p.funcs[f.Name] = f
	p.order = append(p.order, f)
	//
	return f
}

// bindArgs binds the pure arguments of a function as int32 variables, returning
// a function which unbinds them again.
func (p *Reader) bindArgs(args []string) func() {
	for _, arg := range args {
		p.env.Push(arg, ir.Int(32))
	}
	//
	return func() {
		for _, arg := range args {
			p.env.Pop(arg)
		}
	}
}

// checkValues checks the values of a definition match the outputs of its
// function.  Untyped literals adopt the type of their output.
func (p *Reader) checkValues(f *function.Function, values []ir.Expr) error {
	var err error
	//
	if len(values) != f.Outputs() {
		return fmt.Errorf("function %s has %d outputs, found %d values", f.Name, f.Outputs(), len(values))
	}
	//
	for i, v := range values {
		if p.untyped[v] && v.Type() != f.OutputTypes[i] {
			if values[i], err = retype(v, f.OutputTypes[i]); err != nil {
				return err
			}
		} else if v.Type() != f.OutputTypes[i] {
			return fmt.Errorf("output %d of %s has type %s, found %s", i, f.Name, f.OutputTypes[i], v.Type())
		}
	}
	//
	return nil
}
