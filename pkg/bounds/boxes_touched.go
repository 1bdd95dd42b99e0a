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
	"strings"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/simplify"
	"github.com/consensys/go-bounds/pkg/util/collection/scope"
	"github.com/consensys/go-bounds/pkg/util/collection/set"
	"github.com/consensys/go-bounds/pkg/util/collection/stack"
	log "github.com/sirupsen/logrus"
)

// smallBoundsLimit is the number of variables above which the bounds of a let
// are bound to fresh names, rather than substituted into every use.
const smallBoundsLimit = 10

// binding records a name introduced by a let or loop (or referenced from the
// enclosing scope), along with the bindings its value was computed from.
// Bindings are numbered in order of introduction, so any binding has a larger
// number than those it depends on.
type binding struct {
	name    string
	value   ir.Expr
	parents []int
	prev    int
}

// boxesTouched walks a statement, recording the region of each function which
// is read (calls) or written (provides).
type boxesTouched struct {
	ctx              *Context
	fn               string
	considerCalls    bool
	considerProvides bool
	// scope holds the bounds of each variable.
	scope *scope.Scope[Interval]
	// letValues holds the value of each enclosing let.
	letValues *scope.Scope[ir.Expr]
	// bufferLets holds the enclosing lets defining buffers.
	bufferLets map[string]ir.Expr
	// original maps any names given by renaming back to the originals.
	original map[string]string
	// boxes touched so far.
	boxes         map[string]Box
	inProducer    bool
	inUnreachable bool
	// The dependency graph between bindings.
	bindings []binding
	current  map[string]int
	children map[int]*set.SortedSet[int]
}

func newBoxesTouched(ctx *Context, fn string, calls, provides bool, s *scope.Scope[Interval],
	original map[string]string) *boxesTouched {
	return &boxesTouched{
		ctx:              ctx,
		fn:               fn,
		considerCalls:    calls,
		considerProvides: provides,
		scope:            scope.NewScope(s),
		letValues:        scope.NewScope[ir.Expr](nil),
		bufferLets:       make(map[string]ir.Expr),
		original:         original,
		boxes:            make(map[string]Box),
		current:          make(map[string]int),
		children:         make(map[int]*set.SortedSet[int]),
	}
}

func (p *boxesTouched) boundsOf(e ir.Expr) Interval {
	return p.ctx.BoundsOfExprInScope(e, p.scope, false)
}

func (p *boxesTouched) originalName(name string) string {
	if orig, ok := p.original[name]; ok {
		return orig
	}
	//
	return name
}

func (p *boxesTouched) matches(name string) bool {
	return p.fn == "" || p.fn == name
}

// merge a box into those touched so far.
func (p *boxesTouched) merge(name string, box Box) {
	if existing, ok := p.boxes[name]; ok {
		MergeBoxes(&existing, box)
		box = existing
	}
	//
	p.boxes[name] = box
	//
	log.Tracef("touched %s%s", name, box)
}

// boxOfArgs constructs the box covering a given set of coordinates.
func (p *boxesTouched) boxOfArgs(args []ir.Expr) Box {
	box := Box{Bounds: make([]Interval, len(args))}
	//
	for i, arg := range args {
		box.Bounds[i] = p.boundsOf(arg)
	}
	//
	return box
}

// ============================================================================
// Dependency graph
// ============================================================================

// bindingOf returns the current binding of a name, introducing one for names
// bound outside the statement being analysed.
func (p *boxesTouched) bindingOf(name string) int {
	if id, ok := p.current[name]; ok {
		return id
	}
	//
	id, _ := p.pushBinding(name, nil)
	//
	return id
}

// pushBinding introduces a new binding, which depends on the free variables of
// its value (if any).
func (p *boxesTouched) pushBinding(name string, value ir.Expr) (int, int) {
	var parents []int
	//
	if value != nil {
		for _, v := range ir.FreeVariables(value) {
			parent := p.bindingOf(v)
			parents = append(parents, parent)
			//
			if p.children[parent] == nil {
				p.children[parent] = set.NewSortedSet[int]()
			}
			//
			p.children[parent].Insert(len(p.bindings))
		}
	}
	//
	prev, ok := p.current[name]
	//
	if !ok {
		prev = -1
	}
	//
	id := len(p.bindings)
	p.bindings = append(p.bindings, binding{name, value, parents, prev})
	p.current[name] = id
	//
	return id, prev
}

// popBinding removes a binding, restoring whatever binding it shadowed.
func (p *boxesTouched) popBinding(id int) {
	b := p.bindings[id]
	//
	for _, parent := range b.parents {
		p.children[parent].Remove(id)
	}
	//
	if b.prev >= 0 {
		p.current[b.name] = b.prev
	} else {
		delete(p.current, b.name)
	}
}

// dependents returns every binding which (transitively) depends on a given
// binding, in order of introduction.
func (p *boxesTouched) dependents(id int) []int {
	var (
		seen     = set.NewSortedSet[int]()
		worklist = []int{id}
	)
	//
	for len(worklist) > 0 {
		next := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		//
		if children, ok := p.children[next]; ok {
			for child := range children.All() {
				if !seen.Contains(child) {
					seen.Insert(child)
					worklist = append(worklist, child)
				}
			}
		}
	}
	//
	return *seen
}

// ============================================================================
// Lets
// ============================================================================

// letFrame records what was done on entering a let, so it can be undone.
type letFrame struct {
	name             string
	id               int
	bounds           Interval
	minName, maxName string
}

func (p *boxesTouched) pushLet(name string, value ir.Expr) letFrame {
	var (
		frame  = letFrame{name: name, bounds: p.boundsOf(value).Simplified()}
		pushed = frame.bounds
	)
	//
	frame.id, _ = p.pushBinding(name, value)
	p.letValues.Push(name, value)
	//
	if value.Type().IsHandle() {
		p.bufferLets[name] = value
	}
	// Large bounds are referred to by name, to avoid blowing up the size of
	// the bounds of everything which uses them.
	if countVariables(frame.bounds) >= smallBoundsLimit {
		if frame.bounds.HasLowerBound() {
			frame.minName = p.ctx.names.Fresh(name + ".min")
			pushed.Min = ir.NewVar(frame.minName, frame.bounds.Min.Type())
		}
		//
		if frame.bounds.HasUpperBound() {
			frame.maxName = p.ctx.names.Fresh(name + ".max")
			pushed.Max = ir.NewVar(frame.maxName, frame.bounds.Max.Type())
		}
	}
	//
	p.scope.Push(name, pushed)
	//
	return frame
}

func (p *boxesTouched) popLet(frame letFrame) {
	p.scope.Pop(frame.name)
	p.letValues.Pop(frame.name)
	delete(p.bufferLets, frame.name)
	p.popBinding(frame.id)
	// Bind any names used for the bounds of this let.
	if frame.minName == "" && frame.maxName == "" {
		return
	}
	//
	wrap := func(e ir.Expr) ir.Expr {
		if e == nil {
			return nil
		}
		//
		e = wrapLet(e, frame.maxName, frame.bounds.Max)
		//
		return wrapLet(e, frame.minName, frame.bounds.Min)
	}
	//
	for name, box := range p.boxes {
		for i, bound := range box.Bounds {
			box.Bounds[i] = Interval{wrap(bound.Min), wrap(bound.Max)}
		}
		//
		box.Used = wrap(box.Used)
		p.boxes[name] = box
	}
}

// countVariables counts the variable occurrences in the bounds of an interval.
func countVariables(i Interval) int {
	count := 0
	//
	for _, bound := range []ir.Expr{i.Min, i.Max} {
		if !isInf(bound) {
			ir.Walk(bound, func(n ir.Node) bool {
				if _, ok := n.(*ir.Variable); ok {
					count++
				}
				//
				return true
			})
		}
	}
	//
	return count
}

// ============================================================================
// Statements
// ============================================================================

func (p *boxesTouched) visitStmt(s ir.Stmt) {
	switch s := s.(type) {
	case nil:
		return
	case *ir.LetStmt:
		p.visitLetStmt(s)
	case *ir.For:
		p.visitFor(s)
	case *ir.IfThenElse:
		p.visitIfThenElse(s)
	case *ir.Block:
		p.visitStmt(s.First)
		p.visitStmt(s.Rest)
	case *ir.AssertStmt:
		p.visitExpr(s.Condition)
		p.visitExpr(s.Message)
		//
		if ir.IsConstFalse(simplify.Simplify(s.Condition)) {
			p.inUnreachable = true
		}
	case *ir.ProducerConsumer:
		inProducer := p.inProducer
		p.inProducer = s.IsProducer && p.matches(s.Name)
		p.visitStmt(s.Body)
		p.inProducer = inProducer
	case *ir.Provide:
		p.visitProvide(s)
	default:
		es, ss := ir.StmtChildren(s)
		//
		for _, e := range es {
			p.visitExpr(e)
		}
		//
		for _, c := range ss {
			p.visitStmt(c)
		}
	}
}

func (p *boxesTouched) visitLetStmt(s *ir.LetStmt) {
	var (
		frames = stack.NewStack[letFrame]()
		body   ir.Stmt
	)
	//
	defer frames.Unwind(p.popLet)
	// Chains of lets are common, and are handled without recursion.
	for body = s; ; {
		let, ok := body.(*ir.LetStmt)
		//
		if !ok {
			break
		}
		//
		p.visitExpr(let.Value)
		frames.Push(p.pushLet(let.Name, let.Value))
		body = let.Body
	}
	//
	p.visitStmt(body)
}

func (p *boxesTouched) visitFor(s *ir.For) {
	p.visitExpr(s.Min)
	p.visitExpr(s.Extent)
	//
	var (
		lo     = p.boundsOf(s.Min)
		extent = p.boundsOf(s.Extent)
		loop   = Interval{lo.Min, PosInf}
		name   = p.originalName(s.Name)
	)
	//
	if lo.HasUpperBound() && extent.HasUpperBound() {
		if last := add(lo.Max, extent.Max); last != nil {
			loop.Max = orElse(sub(last, ir.MakeOne(last.Type())), PosInf)
		}
	}
	// The caller may know better.
	if i, ok := p.scope.TryGet(name + ".loop_min"); ok {
		loop.Min = i.Min
	}
	//
	if i, ok := p.scope.TryGet(name + ".loop_max"); ok {
		loop.Max = i.Max
	}
	//
	loop = loop.Simplified()
	id, _ := p.pushBinding(s.Name, nil)
	//
	defer p.popBinding(id)
	defer p.scope.Bind(s.Name, loop)()
	//
	p.visitStmt(s.Body)
}

func (p *boxesTouched) visitProvide(s *ir.Provide) {
	if p.considerProvides && p.matches(s.Name) {
		// A predicated provide only happens when its predicate holds.
		if s.Predicate != nil && !ir.IsConstTrue(s.Predicate) {
			unpredicated := ir.NewProvide(s.Name, s.Values, s.Args)
			p.visitStmt(ir.NewIfThenElse(s.Predicate, unpredicated, nil))
			//
			return
		}
		//
		p.merge(s.Name, p.boxOfArgs(s.Args))
	}
	//
	if p.considerCalls {
		for _, e := range s.Args {
			p.visitExpr(e)
		}
		//
		for _, e := range s.Values {
			p.visitExpr(e)
		}
		//
		p.visitExpr(s.Predicate)
	}
}

// ============================================================================
// Expressions
// ============================================================================

func (p *boxesTouched) visitExpr(e ir.Expr) {
	switch e := e.(type) {
	case nil:
		return
	case *ir.Call:
		p.visitCall(e)
	case *ir.Let:
		p.visitLetExpr(e)
	default:
		for _, c := range ir.Children(e) {
			p.visitExpr(c)
		}
	}
}

func (p *boxesTouched) visitLetExpr(e *ir.Let) {
	var (
		frames = stack.NewStack[letFrame]()
		body   ir.Expr
	)
	//
	defer frames.Unwind(p.popLet)
	//
	for body = e; ; {
		let, ok := body.(*ir.Let)
		//
		if !ok {
			break
		}
		//
		p.visitExpr(let.Value)
		frames.Push(p.pushLet(let.Name, let.Value))
		body = let.Body
	}
	//
	p.visitExpr(body)
}

func (p *boxesTouched) visitCall(e *ir.Call) {
	switch {
	case e.IsIntrinsic(ir.DeclareBoxTouched):
		p.declareBoxTouched(e)
		return
	case e.IsIntrinsic(ir.IfThenElseIntrinsic):
		// Treat as the equivalent statement, so the condition is used.
		var elseCase ir.Stmt
		//
		if len(e.Args) > 2 {
			elseCase = ir.NewEvaluate(e.Args[2])
		}
		//
		p.visitStmt(ir.NewIfThenElse(e.Args[0], ir.NewEvaluate(e.Args[1]), elseCase))
		//
		return
	}
	//
	for _, arg := range e.Args {
		p.visitExpr(arg)
	}
	//
	switch {
	case e.IsExtern() && e.Name == ir.BufferCopy:
		p.visitBufferCopy(e)
	case !p.considerCalls || !p.matches(e.Name):
		return
	case e.CallType == ir.CallHalide || e.CallType == ir.CallImage:
		p.merge(e.Name, p.boxOfArgs(e.Args))
	}
}

// declareBoxTouched handles an explicit declaration that a box of a buffer is
// read, given as the buffer followed by the min and max of each dimension.
func (p *boxesTouched) declareBoxTouched(e *ir.Call) {
	buffer, ok := e.Args[0].(*ir.Variable)
	//
	if !ok || len(e.Args)%2 != 1 {
		panic(fmt.Sprintf("malformed %s", e))
	}
	//
	name := strings.TrimSuffix(p.originalName(buffer.Name), bufferSuffix)
	//
	if !p.considerCalls || !p.matches(name) {
		return
	}
	//
	box := Box{Bounds: make([]Interval, len(e.Args)/2)}
	//
	for i := range box.Bounds {
		lo, hi := e.Args[2*i+1], e.Args[2*i+2]
		p.visitExpr(lo)
		p.visitExpr(hi)
		box.Bounds[i] = Interval{p.boundsOf(lo).Min, p.boundsOf(hi).Max}
	}
	//
	p.merge(name, box)
}

// visitBufferCopy handles a copy between buffers, given as the source, the
// device interface and the destination.  The regions copied are recovered
// from the crops which defined the buffers.
func (p *boxesTouched) visitBufferCopy(e *ir.Call) {
	if len(e.Args) != 3 {
		panic(fmt.Sprintf("malformed %s", e))
	}
	//
	if p.considerCalls {
		p.bufferCopyBox(e.Args[0])
	}
	//
	if p.considerProvides && p.inProducer {
		p.bufferCopyBox(e.Args[2])
	}
}

func (p *boxesTouched) bufferCopyBox(buffer ir.Expr) {
	v, ok := buffer.(*ir.Variable)
	//
	if !ok {
		return
	}
	//
	name := strings.TrimSuffix(p.originalName(v.Name), bufferSuffix)
	value, ok := p.bufferLets[v.Name]
	//
	if !ok || !p.matches(name) {
		return
	}
	//
	box := boxFromExtendedCrop(value)
	//
	if box.Empty() {
		return
	}
	// The crop is given in terms of the enclosing variables.
	for i, b := range box.Bounds {
		if b.HasLowerBound() {
			box.Bounds[i].Min = p.boundsOf(b.Min).Min
		}
		//
		if b.HasUpperBound() {
			box.Bounds[i].Max = p.boundsOf(b.Max).Max
		}
	}
	//
	p.merge(name, box)
}

// boxFromExtendedCrop recovers the box of a buffer defined by (a chain of)
// crops.
func boxFromExtendedCrop(e ir.Expr) Box {
	call, ok := e.(*ir.Call)
	//
	if !ok {
		return Box{}
	}
	//
	switch call.Name {
	case ir.BufferCrop:
		// buffer_crop(dst, storage, src, mins, extents)
		if len(call.Args) != 5 {
			return Box{}
		}
		//
		box := boxFromExtendedCrop(call.Args[2])
		mins, ok1 := call.Args[3].(*ir.Call)
		extents, ok2 := call.Args[4].(*ir.Call)
		//
		if !ok1 || !ok2 || !mins.IsIntrinsic(ir.MakeStruct) || !extents.IsIntrinsic(ir.MakeStruct) {
			return box
		} else if len(mins.Args) != len(extents.Args) {
			return Box{}
		}
		//
		box.Resize(len(mins.Args))
		//
		for i, lo := range mins.Args {
			box.Bounds[i] = rangeInterval(lo, extents.Args[i])
		}
		//
		return box
	case ir.BufferSetBounds:
		// buffer_set_bounds(buffer, dim, min, extent)
		if len(call.Args) != 4 {
			return Box{}
		}
		//
		box := boxFromExtendedCrop(call.Args[0])
		//
		if dim, ok := ir.AsConstInt(call.Args[1]); ok && dim >= 0 {
			if int(dim) >= box.Size() {
				box.Resize(int(dim) + 1)
			}
			//
			box.Bounds[dim] = rangeInterval(call.Args[2], call.Args[3])
		}
		//
		return box
	default:
		return Box{}
	}
}

// rangeInterval gives the interval covered by a range [min, min+extent).
func rangeInterval(lo, extent ir.Expr) Interval {
	return Interval{lo, simplify.Simplify(ir.NewSub(ir.NewAdd(lo, extent), ir.MakeOne(lo.Type())))}
}
