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
	"fmt"
	"strings"

	"github.com/consensys/go-treesynth/pkg/sexp"
)

// Formula is a collection of declared constants and assertions over them, much
// like an SMT-LIB script.  Existential quantifiers appearing at the top level
// of an assertion (i.e. not beneath a negation, disjunction or case split) are
// skolemised: their bound variables become declared constants, such that any
// model can report witnesses for them.
type Formula struct {
	// Explicitly declared constants, in order of declaration.
	decls []*Var
	// Names already in use
	names map[string]*Var
	// Assertions, in order of assertion.
	assertions []Term
}

// NewFormula constructs an empty formula.
func NewFormula() *Formula {
	return &Formula{names: make(map[string]*Var)}
}

// Declare a new constant of a given sort.  Names must be unique within a
// formula.
func (f *Formula) Declare(name string, sort Sort) *Var {
	if _, ok := f.names[name]; ok {
		panic(fmt.Sprintf("duplicate declaration of %s", name))
	}
	//
	v := NewVar(name, sort)
	f.names[name] = v
	f.decls = append(f.decls, v)
	//
	return v
}

// Assert adds a proposition which must hold in any model of this formula.
func (f *Formula) Assert(term Term) {
	if term.Sort() != BoolSort {
		panic(fmt.Sprintf("cannot assert term of sort %s", term.Sort()))
	}
	//
	f.assertions = append(f.assertions, term)
}

// Assertions returns the assertions made on this formula, exactly as given.
func (f *Formula) Assertions() []Term {
	return f.assertions
}

// Declarations returns all constants of this formula, including those arising
// from skolemising top-level existentials.  Constants are returned in order of
// declaration, with skolem constants following in order of occurrence.
func (f *Formula) Declarations() []*Var {
	decls := append([]*Var(nil), f.decls...)
	seen := make(map[*Var]bool)
	//
	for _, d := range decls {
		seen[d] = true
	}
	//
	for _, a := range f.assertions {
		skolemise(a, func(v *Var) {
			if !seen[v] {
				seen[v] = true
				decls = append(decls, v)
			}
		})
	}
	//
	return decls
}

// Constraints returns the skolemised assertions of this formula, broken down
// into individual conjuncts.
func (f *Formula) Constraints() []Term {
	var conjuncts []Term
	//
	for _, a := range f.assertions {
		switch t := skolemise(a, func(*Var) {}).(type) {
		case *And:
			conjuncts = append(conjuncts, t.Args...)
		default:
			conjuncts = append(conjuncts, t)
		}
	}
	//
	return conjuncts
}

// Size returns the total size of all assertions in this formula.
func (f *Formula) Size() uint {
	var size uint
	//
	for _, a := range f.assertions {
		size += Size(a)
	}
	//
	return size
}

// String returns this formula as an SMT-LIB script, consisting of one
// declaration per constant followed by one assertion per (skolemised)
// assertion.  The script does not include a "check-sat" command.
func (f *Formula) String() string {
	var builder strings.Builder
	//
	for _, v := range f.Declarations() {
		decl := sexp.NewList(sexp.NewSymbol("declare-const"), v.SExp(), v.sort.SExp())
		builder.WriteString(decl.String())
		builder.WriteString("\n")
	}
	//
	for _, a := range f.assertions {
		assert := sexp.NewList(sexp.NewSymbol("assert"), skolemise(a, func(*Var) {}).SExp())
		builder.WriteString(assert.String())
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

// Strip top-level existential quantifiers from a given term, reporting each
// variable so released.
func skolemise(term Term, release func(*Var)) Term {
	switch t := term.(type) {
	case *And:
		args := make([]Term, len(t.Args))
		for i, arg := range t.Args {
			args[i] = skolemise(arg, release)
		}
		//
		return Conjunction(args...)
	case *Exists:
		for _, v := range t.Vars {
			release(v)
		}
		//
		return skolemise(t.Body, release)
	default:
		return term
	}
}
