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
package smt

import (
	"github.com/consensys/go-treesynth/pkg/sexp"
)

// Sort identifies the kind of value a term evaluates to.
type Sort uint8

const (
	// BoolSort is the sort of propositions.
	BoolSort Sort = iota
	// IntSort is the sort of (mathematical) integers.
	IntSort
	// ArraySort is the sort of arrays mapping integers to integers.
	ArraySort
)

// SExp returns the SMT-LIB representation of this sort.
func (s Sort) SExp() sexp.SExp {
	switch s {
	case BoolSort:
		return sexp.NewSymbol("Bool")
	case IntSort:
		return sexp.NewSymbol("Int")
	default:
		return sexp.NewList(sexp.NewSymbol("Array"), sexp.NewSymbol("Int"), sexp.NewSymbol("Int"))
	}
}

func (s Sort) String() string {
	return s.SExp().String()
}

// Term represents a term in the (quantified) logic of integers and integer
// arrays.  Terms are immutable once constructed, and may be shared freely
// between enclosing terms.
type Term interface {
	// Sort returns the sort of this term.
	Sort() Sort
	// SExp returns the SMT-LIB representation of this term.
	SExp() sexp.SExp
}

// ============================================================================
// Atoms
// ============================================================================

// Var represents an uninterpreted constant (or a bound variable, when
// appearing under a quantifier).
type Var struct {
	name string
	sort Sort
}

// NewVar constructs a fresh variable.  Variables are identified by name.
func NewVar(name string, sort Sort) *Var {
	return &Var{name, sort}
}

// Name returns the name of this variable.
func (v *Var) Name() string { return v.name }

// Sort implementation for Term interface.
func (v *Var) Sort() Sort { return v.sort }

// SExp implementation for Term interface.
func (v *Var) SExp() sexp.SExp { return sexp.NewSymbol(v.name) }

func (v *Var) String() string { return v.name }

// Const represents an integer literal.
type Const struct {
	Value int64
}

// Int constructs an integer literal.
func Int(value int64) *Const {
	return &Const{value}
}

// Sort implementation for Term interface.
func (c *Const) Sort() Sort { return IntSort }

// SExp implementation for Term interface.
func (c *Const) SExp() sexp.SExp { return sexp.NewInt(c.Value) }

// Bool represents logical truth or falsehood.
type Bool struct {
	Value bool
}

// True represents logical truth
var True = &Bool{true}

// False represents logical falsehood
var False = &Bool{false}

// Sort implementation for Term interface.
func (b *Bool) Sort() Sort { return BoolSort }

// SExp implementation for Term interface.
func (b *Bool) SExp() sexp.SExp {
	if b.Value {
		return sexp.NewSymbol("true")
	}
	//
	return sexp.NewSymbol("false")
}

// ============================================================================
// Compound terms
// ============================================================================

// Eq represents an equality between two terms of the same sort.
type Eq struct {
	Lhs Term
	Rhs Term
}

// Equals constructs an equality between two terms.
func Equals(lhs Term, rhs Term) Term {
	return &Eq{lhs, rhs}
}

// Sort implementation for Term interface.
func (e *Eq) Sort() Sort { return BoolSort }

// SExp implementation for Term interface.
func (e *Eq) SExp() sexp.SExp { return mkList("=", e.Lhs, e.Rhs) }

// CmpOp identifies an integer comparison.
type CmpOp uint8

const (
	// LE is "less than or equal".
	LE CmpOp = iota
	// GE is "greater than or equal".
	GE
)

// Cmp represents a comparison between two integer terms.
type Cmp struct {
	Op  CmpOp
	Lhs Term
	Rhs Term
}

// LessOrEqual constructs "lhs <= rhs".
func LessOrEqual(lhs Term, rhs Term) Term {
	return &Cmp{LE, lhs, rhs}
}

// GreaterOrEqual constructs "lhs >= rhs".
func GreaterOrEqual(lhs Term, rhs Term) Term {
	return &Cmp{GE, lhs, rhs}
}

// Sort implementation for Term interface.
func (c *Cmp) Sort() Sort { return BoolSort }

// SExp implementation for Term interface.
func (c *Cmp) SExp() sexp.SExp {
	if c.Op == LE {
		return mkList("<=", c.Lhs, c.Rhs)
	}
	//
	return mkList(">=", c.Lhs, c.Rhs)
}

// And represents the conjunction of zero or more propositions.
type And struct {
	Args []Term
}

// Conjunction constructs the conjunction of zero or more propositions.  Nested
// conjunctions are flattened, and trivially true arguments are dropped.
func Conjunction(terms ...Term) Term {
	var args []Term
	//
	for _, t := range terms {
		switch t := t.(type) {
		case *And:
			args = append(args, t.Args...)
		case *Bool:
			if !t.Value {
				return False
			}
		default:
			args = append(args, t)
		}
	}
	//
	switch len(args) {
	case 0:
		return True
	case 1:
		return args[0]
	default:
		return &And{args}
	}
}

// Sort implementation for Term interface.
func (a *And) Sort() Sort { return BoolSort }

// SExp implementation for Term interface.
func (a *And) SExp() sexp.SExp { return mkList("and", a.Args...) }

// Or represents the disjunction of zero or more propositions.
type Or struct {
	Args []Term
}

// Disjunction constructs the disjunction of zero or more propositions.
// Synthesis formulas never need one, but the search solver decides them once
// their arguments are decided, as does any SMT-LIB solver.
func Disjunction(terms ...Term) Term {
	switch len(terms) {
	case 0:
		return False
	case 1:
		return terms[0]
	default:
		return &Or{terms}
	}
}

// Sort implementation for Term interface.
func (o *Or) Sort() Sort { return BoolSort }

// SExp implementation for Term interface.
func (o *Or) SExp() sexp.SExp { return mkList("or", o.Args...) }

// Not represents the negation of a proposition.
type Not struct {
	Arg Term
}

// Negate constructs the negation of a proposition.  As for disjunctions,
// these are part of the logic accepted by solvers rather than produced by
// synthesis.
func Negate(arg Term) Term {
	return &Not{arg}
}

// Sort implementation for Term interface.
func (n *Not) Sort() Sort { return BoolSort }

// SExp implementation for Term interface.
func (n *Not) SExp() sexp.SExp { return mkList("not", n.Arg) }

// Ite represents a case split "if Cond then Then else Else".  Both branches
// must have the same sort, which is then the sort of the term.
type Ite struct {
	Cond Term
	Then Term
	Else Term
}

// IfThenElse constructs a case split.
func IfThenElse(cond Term, then Term, els Term) Term {
	return &Ite{cond, then, els}
}

// Sort implementation for Term interface.
func (i *Ite) Sort() Sort { return i.Then.Sort() }

// SExp implementation for Term interface.
func (i *Ite) SExp() sexp.SExp { return mkList("ite", i.Cond, i.Then, i.Else) }

// Select represents a read from an array at a given index.
type Select struct {
	Array Term
	Index Term
}

// Lookup constructs a read from an array.
func Lookup(array Term, index Term) Term {
	return &Select{array, index}
}

// Sort implementation for Term interface.
func (s *Select) Sort() Sort { return IntSort }

// SExp implementation for Term interface.
func (s *Select) SExp() sexp.SExp { return mkList("select", s.Array, s.Index) }

// Exists represents an existential quantification over one or more variables.
type Exists struct {
	Vars []*Var
	Body Term
}

// Exist constructs an existential quantification.  Quantifying over no
// variables simply yields the body.
func Exist(vars []*Var, body Term) Term {
	if len(vars) == 0 {
		return body
	}
	//
	return &Exists{vars, body}
}

// Sort implementation for Term interface.
func (e *Exists) Sort() Sort { return BoolSort }

// SExp implementation for Term interface.
func (e *Exists) SExp() sexp.SExp {
	bindings := make([]sexp.SExp, len(e.Vars))
	//
	for i, v := range e.Vars {
		bindings[i] = sexp.NewList(v.SExp(), v.sort.SExp())
	}
	//
	return sexp.NewList(sexp.NewSymbol("exists"), sexp.NewList(bindings...), e.Body.SExp())
}

// ============================================================================
// Helpers
// ============================================================================

// Size returns the number of nodes in a given term, counting shared subterms
// once per occurrence.
func Size(term Term) uint {
	var (
		size  uint
		stack = []Term{term}
	)
	//
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		size++
		//
		switch t := t.(type) {
		case *Eq:
			stack = append(stack, t.Lhs, t.Rhs)
		case *Cmp:
			stack = append(stack, t.Lhs, t.Rhs)
		case *And:
			stack = append(stack, t.Args...)
		case *Or:
			stack = append(stack, t.Args...)
		case *Not:
			stack = append(stack, t.Arg)
		case *Ite:
			stack = append(stack, t.Cond, t.Then, t.Else)
		case *Select:
			stack = append(stack, t.Array, t.Index)
		case *Exists:
			stack = append(stack, t.Body)
		}
	}
	//
	return size
}

func mkList(head string, args ...Term) *sexp.List {
	elements := make([]sexp.SExp, len(args)+1)
	elements[0] = sexp.NewSymbol(head)
	//
	for i, arg := range args {
		elements[i+1] = arg.SExp()
	}
	//
	return sexp.NewList(elements...)
}
