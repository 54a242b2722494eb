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
package solver

import (
	"context"
	"math"

	"github.com/consensys/go-treesynth/pkg/smt"
	log "github.com/sirupsen/logrus"
)

// Search is a simple solver for formulas in which every integer constant is
// either range-bounded at the top level (a decision variable), or is
// determined by equalities once the decision variables are fixed.  Arrays are
// supported only through equalities on individual elements, and quantifiers
// only at the top level.  This is exactly the shape of formulas arising from
// synthesis, and allows them to be decided without an external solver.
//
// Decision variables are branched on in declaration order, with each choice
// followed by unit propagation of equalities to a fixed point.  Formulas
// outside this fragment are reported as an *Error.
type Search struct {
	// MaxDecisions limits the number of decisions made before giving up, where
	// zero means unlimited.
	MaxDecisions uint
}

// NewSearch constructs a search solver without any decision limit.
func NewSearch() *Search {
	return &Search{}
}

// Solve implementation for the Solver interface.
func (s *Search) Solve(ctx context.Context, formula *smt.Formula) (Result, error) {
	var (
		constraints = formula.Constraints()
		st          = newSearchState(s.MaxDecisions)
		decisions   = decisionVariables(formula.Declarations(), constraints)
	)
	//
	sat, err := st.search(ctx, constraints, decisions)
	//
	log.Debugf("search solver made %d decisions over %d variables", st.decisions, len(decisions))
	//
	if err != nil {
		return Result{}, err
	} else if !sat {
		return Result{Status: Unsat}, nil
	}
	//
	return Result{Sat, st.model}, nil
}

// bounds on a decision variable (inclusive).
type bounds struct {
	v      *smt.Var
	lo, hi int64
}

// Identify variables which are bounded above and below by top-level
// constraints.  These are returned in order of declaration.
func decisionVariables(decls []*smt.Var, constraints []smt.Term) []bounds {
	var (
		lower = make(map[*smt.Var]int64)
		upper = make(map[*smt.Var]int64)
		vars  []bounds
	)
	//
	for _, c := range constraints {
		cmp, ok := c.(*smt.Cmp)
		if !ok {
			continue
		}
		//
		v, lhsVar := cmp.Lhs.(*smt.Var)
		k, rhsConst := cmp.Rhs.(*smt.Const)
		isUpper := cmp.Op == smt.LE
		// Normalise "k <= v" into "v >= k"
		if !lhsVar || !rhsConst {
			v, lhsVar = cmp.Rhs.(*smt.Var)
			k, rhsConst = cmp.Lhs.(*smt.Const)
			isUpper = !isUpper
		}
		//
		switch {
		case !lhsVar || !rhsConst:
			continue
		case isUpper:
			if hi, ok := upper[v]; !ok || k.Value < hi {
				upper[v] = k.Value
			}
		default:
			if lo, ok := lower[v]; !ok || k.Value > lo {
				lower[v] = k.Value
			}
		}
	}
	//
	for _, v := range decls {
		lo, ok1 := lower[v]
		hi, ok2 := upper[v]
		//
		if ok1 && ok2 {
			vars = append(vars, bounds{v, lo, hi})
		}
	}
	//
	return vars
}

// ============================================================================
// Search state
// ============================================================================

// truth is a three-valued truth value
type truth int8

const (
	unknown truth = iota
	holds
	fails
)

func truthOf(b bool) truth {
	if b {
		return holds
	}
	//
	return fails
}

// binding records a single assignment made during search, such that it can be
// undone on backtracking.
type binding struct {
	name  string
	index int64
	array bool
}

type searchState struct {
	ints         map[string]int64
	arrays       map[string]map[int64]int64
	trail        []binding
	decisions    uint
	maxDecisions uint
	model        Assignment
}

func newSearchState(maxDecisions uint) *searchState {
	return &searchState{
		ints:         make(map[string]int64),
		arrays:       make(map[string]map[int64]int64),
		maxDecisions: maxDecisions,
	}
}

func (p *searchState) search(ctx context.Context, constraints []smt.Term, vars []bounds) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, &Error{"search", "interrupted", err}
	}
	//
	p.decisions++
	//
	if p.maxDecisions != 0 && p.decisions > p.maxDecisions {
		return false, Errorf("search", "decision limit (%d) exceeded", p.maxDecisions)
	}
	//
	switch p.propagate(constraints) {
	case fails:
		return false, nil
	case holds:
		p.model = p.snapshot(vars)
		return true, nil
	}
	// Pick next decision variable
	for _, b := range vars {
		if _, ok := p.ints[b.v.Name()]; ok {
			continue
		}
		//
		for val := b.lo; val <= b.hi; val++ {
			mark := len(p.trail)
			p.bind(b.v.Name(), val)
			//
			if sat, err := p.search(ctx, constraints, vars); err != nil || sat {
				return sat, err
			}
			//
			p.undo(mark)
			// Guard against overflow for domains ending at MaxInt64
			if val == math.MaxInt64 {
				break
			}
		}
		//
		return false, nil
	}
	//
	return false, Errorf("search", "formula not decided by its bounded variables")
}

// Propagate equalities through the given constraints until a fixed point is
// reached, reporting whether all constraints hold, any fails, or neither.
func (p *searchState) propagate(constraints []smt.Term) truth {
	for {
		var (
			changed = false
			result  = holds
		)
		//
		for _, c := range constraints {
			t, ch := p.assert(c)
			changed = changed || ch
			//
			if t == fails {
				return fails
			} else if t == unknown {
				result = unknown
			}
		}
		//
		if !changed || result == holds {
			return result
		}
	}
}

// Treat a given proposition as one which must hold, binding any variable which
// is determined as a result.
func (p *searchState) assert(term smt.Term) (truth, bool) {
	switch t := term.(type) {
	case *smt.And:
		var (
			result  = holds
			changed = false
		)
		//
		for _, arg := range t.Args {
			r, ch := p.assert(arg)
			changed = changed || ch
			//
			if r == fails {
				return fails, changed
			} else if r == unknown {
				result = unknown
			}
		}
		//
		return result, changed
	case *smt.Ite:
		switch p.evalBool(t.Cond) {
		case holds:
			return p.assert(t.Then)
		case fails:
			return p.assert(t.Else)
		default:
			return unknown, false
		}
	case *smt.Eq:
		if t.Lhs.Sort() != smt.IntSort {
			return p.evalBool(t), false
		}
		//
		lhs, lok := p.evalInt(t.Lhs)
		rhs, rok := p.evalInt(t.Rhs)
		//
		switch {
		case lok && rok:
			return truthOf(lhs == rhs), false
		case rok && p.tryBind(t.Lhs, rhs):
			return holds, true
		case lok && p.tryBind(t.Rhs, lhs):
			return holds, true
		default:
			return unknown, false
		}
	default:
		return p.evalBool(term), false
	}
}

// Attempt to bind an unassigned variable (or array element) to a given value.
func (p *searchState) tryBind(term smt.Term, val int64) bool {
	switch t := term.(type) {
	case *smt.Var:
		if t.Sort() == smt.IntSort {
			p.bind(t.Name(), val)
			return true
		}
	case *smt.Select:
		array, ok := t.Array.(*smt.Var)
		if !ok {
			return false
		}
		//
		if index, ok := p.evalInt(t.Index); ok {
			p.bindElement(array.Name(), index, val)
			return true
		}
	}
	//
	return false
}

func (p *searchState) evalInt(term smt.Term) (int64, bool) {
	switch t := term.(type) {
	case *smt.Const:
		return t.Value, true
	case *smt.Var:
		v, ok := p.ints[t.Name()]
		return v, ok
	case *smt.Select:
		array, ok := t.Array.(*smt.Var)
		if !ok {
			return 0, false
		}
		//
		if index, ok := p.evalInt(t.Index); ok {
			v, ok := p.arrays[array.Name()][index]
			return v, ok
		}
	case *smt.Ite:
		switch p.evalBool(t.Cond) {
		case holds:
			return p.evalInt(t.Then)
		case fails:
			return p.evalInt(t.Else)
		}
	}
	//
	return 0, false
}

func (p *searchState) evalBool(term smt.Term) truth {
	switch t := term.(type) {
	case *smt.Bool:
		return truthOf(t.Value)
	case *smt.And:
		result := holds
		//
		for _, arg := range t.Args {
			switch p.evalBool(arg) {
			case fails:
				return fails
			case unknown:
				result = unknown
			}
		}
		//
		return result
	case *smt.Or:
		result := fails
		//
		for _, arg := range t.Args {
			switch p.evalBool(arg) {
			case holds:
				return holds
			case unknown:
				result = unknown
			}
		}
		//
		return result
	case *smt.Not:
		switch p.evalBool(t.Arg) {
		case holds:
			return fails
		case fails:
			return holds
		}
	case *smt.Ite:
		switch p.evalBool(t.Cond) {
		case holds:
			return p.evalBool(t.Then)
		case fails:
			return p.evalBool(t.Else)
		}
	case *smt.Eq:
		if t.Lhs.Sort() == smt.BoolSort {
			lhs, rhs := p.evalBool(t.Lhs), p.evalBool(t.Rhs)
			if lhs != unknown && rhs != unknown {
				return truthOf(lhs == rhs)
			}
			//
			return unknown
		}
		//
		lhs, lok := p.evalInt(t.Lhs)
		rhs, rok := p.evalInt(t.Rhs)
		//
		if lok && rok {
			return truthOf(lhs == rhs)
		}
	case *smt.Cmp:
		lhs, lok := p.evalInt(t.Lhs)
		rhs, rok := p.evalInt(t.Rhs)
		//
		if lok && rok && t.Op == smt.LE {
			return truthOf(lhs <= rhs)
		} else if lok && rok {
			return truthOf(lhs >= rhs)
		}
	}
	//
	return unknown
}

func (p *searchState) bind(name string, val int64) {
	p.ints[name] = val
	p.trail = append(p.trail, binding{name: name})
}

func (p *searchState) bindElement(name string, index int64, val int64) {
	array, ok := p.arrays[name]
	if !ok {
		array = make(map[int64]int64)
		p.arrays[name] = array
	}
	//
	array[index] = val
	p.trail = append(p.trail, binding{name, index, true})
}

// Undo all bindings made since a given point on the trail.
func (p *searchState) undo(mark int) {
	for i := len(p.trail) - 1; i >= mark; i-- {
		b := p.trail[i]
		//
		if b.array {
			delete(p.arrays[b.name], b.index)
		} else {
			delete(p.ints, b.name)
		}
	}
	//
	p.trail = p.trail[:mark]
}

// Construct a model from the current bindings.  Any decision variable which
// remains unassigned is given its lowest value.
func (p *searchState) snapshot(vars []bounds) Assignment {
	model := make(Assignment, len(p.ints))
	//
	for name, val := range p.ints {
		model[name] = val
	}
	//
	for _, b := range vars {
		if _, ok := model[b.v.Name()]; !ok {
			model[b.v.Name()] = b.lo
		}
	}
	//
	return model
}
