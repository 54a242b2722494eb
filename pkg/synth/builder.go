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
package synth

import (
	"fmt"

	"github.com/consensys/go-treesynth/pkg/ast"
	"github.com/consensys/go-treesynth/pkg/dsl"
	"github.com/consensys/go-treesynth/pkg/smt"
	"github.com/consensys/go-treesynth/pkg/solver"
)

// Builder constructs synthesis formulas over a given tree.  Roughly speaking,
// for a program of length K, the formula has the following shape:
//
//	(exists ((op0 Int) ... (opK Int))
//	  (and
//	    (>= op0 0) (<= op0 N) ... (<= opK N)
//	    step(op0, src_0, dst_0_0) ... step(opK, dst_0_K-1, dst_0_K) (= dst_0_K dest_0)
//	    ...))
//
// Here, each step(op, prev, next) is a case split on the choice variable op,
// where each case determines next from prev using the chosen operation.  The
// choice variables are shared by all examples, and hence any model describes a
// single program which reproduces every example.
type Builder struct {
	store  *ast.Store
	config Config
}

// NewBuilder constructs a builder for a given tree, after checking the given
// configuration is valid.
func NewBuilder(store *ast.Store, config Config) (*Builder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	//
	return &Builder{store, config}, nil
}

// Query is a synthesis formula, along with the choice variables which identify
// the operation chosen for each slot of the program.
type Query struct {
	Formula *smt.Formula
	Choices []*smt.Var
}

// ChoiceName returns the name of the choice variable for a given slot.
func ChoiceName(slot uint) string {
	return fmt.Sprintf("op%d", slot)
}

// StateName returns the name of the state variable holding the node reached by
// a given example after a given slot.
func StateName(example uint, slot uint) string {
	return fmt.Sprintf("dst_%d_%d", example, slot)
}

// Build a formula which is satisfiable exactly when some program of the
// configured length maps the source of each example to its destination.
func (b *Builder) Build(examples []Example) (*Query, error) {
	var (
		formula = smt.NewFormula()
		ops     = b.config.Operations()
		enc     = newEncoder(b.config.Encoding, b.store)
		choices = make([]*smt.Var, b.config.Length)
		ranges  []smt.Term
		body    []smt.Term
	)
	//
	if err := b.checkExamples(examples); err != nil {
		return nil, err
	}
	// Per-formula definitions (e.g. tables)
	enc.define(formula, ops)
	// Choice variables, one per slot.
	for i := range choices {
		choices[i] = smt.NewVar(ChoiceName(uint(i)), smt.IntSort)
		ranges = append(ranges,
			smt.GreaterOrEqual(choices[i], smt.Int(0)),
			smt.LessOrEqual(choices[i], smt.Int(dsl.OpCount-1)))
	}
	// One chain of states per example.
	for e, ex := range examples {
		var prev smt.Term = smt.Int(int64(ex.Source))
		//
		for j, choice := range choices {
			next := formula.Declare(StateName(uint(e), uint(j)), smt.IntSort)
			body = append(body, step(enc, ops, choice, prev, next))
			prev = next
		}
		//
		body = append(body, smt.Equals(prev, smt.Int(int64(ex.Dest))))
	}
	//
	formula.Assert(smt.Exist(choices, smt.Conjunction(append(ranges, body...)...)))
	//
	return &Query{formula, choices}, nil
}

// Construct the case split for a single slot, from the last operation
// outwards.  Codes not covered by any operation make the next state undefined.
func step(enc encoder, ops []dsl.OpCode, choice *smt.Var, prev smt.Term, next *smt.Var) smt.Term {
	term := smt.Equals(next, smt.Int(Undefined))
	//
	for i := len(ops) - 1; i >= 0; i-- {
		cond := smt.Equals(choice, smt.Int(int64(ops[i])))
		term = smt.IfThenElse(cond, enc.transition(ops[i], prev, next), term)
	}
	//
	return term
}

func (b *Builder) checkExamples(examples []Example) error {
	if len(examples) == 0 {
		return &InvalidConfigurationError{"no examples given"}
	}
	//
	for _, ex := range examples {
		if !b.store.Has(ex.Source) {
			return &InvalidConfigurationError{fmt.Sprintf("unknown source node %d", ex.Source)}
		} else if !b.store.Has(ex.Dest) {
			return &InvalidConfigurationError{fmt.Sprintf("unknown destination node %d", ex.Dest)}
		}
	}
	//
	return nil
}

// Decode the program described by a model of this query.
func (q *Query) Decode(model solver.Model) (dsl.Program, error) {
	return DecodeModel(model, uint(len(q.Choices)))
}

// DecodeModel reads the operation chosen for each slot of a program of a given
// length from a model.  Any value outside the catalog is reported as an
// *dsl.UnknownOperationError.
func DecodeModel(model solver.Model, length uint) (dsl.Program, error) {
	program := make(dsl.Program, length)
	//
	for i := range length {
		code, ok := model.Int(ChoiceName(i))
		if !ok {
			return nil, &InconsistentModelError{Msg: fmt.Sprintf("no value for %s", ChoiceName(i))}
		}
		//
		op, err := dsl.Decode(code)
		if err != nil {
			return nil, err
		}
		//
		program[i] = op
	}
	//
	return program, nil
}
