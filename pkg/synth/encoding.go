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
)

// Undefined is the value used within formulas to represent the result of an
// operation which is undefined.  This never clashes with a node identifier.
const Undefined int64 = -1

// encoder determines how the effect of a single operation is represented
// within a formula.
type encoder interface {
	// define adds any definitions needed by this encoding to a formula.  This
	// is called exactly once per formula, before any transitions are
	// constructed.
	define(formula *smt.Formula, ops []dsl.OpCode)
	// transition constructs a proposition which holds when next is the result
	// of applying a given operation to prev.
	transition(op dsl.OpCode, prev smt.Term, next *smt.Var) smt.Term
}

func newEncoder(encoding Encoding, store *ast.Store) encoder {
	if encoding == Table {
		return &tableEncoder{store: store}
	}
	//
	return &inlineEncoder{store}
}

// Determine the result of applying an operation on a given node, as used in
// formulas.
func valueOf(op dsl.OpCode, id int64, store *ast.Store) int64 {
	if id < 0 {
		return Undefined
	}
	//
	if r := dsl.Apply(op, ast.NodeId(id), store); r.HasValue() {
		return int64(r.Unwrap())
	}
	//
	return Undefined
}

// ============================================================================
// Inline
// ============================================================================

// inlineEncoder represents an operation as a chain of case splits over every
// node, such as:
//
//	(ite (= prev 0) (= next v0) (ite (= prev 1) (= next v1) ... (= next -1)))
type inlineEncoder struct {
	store *ast.Store
}

func (p *inlineEncoder) define(*smt.Formula, []dsl.OpCode) {}

func (p *inlineEncoder) transition(op dsl.OpCode, prev smt.Term, next *smt.Var) smt.Term {
	if op.IsIdentity() {
		return smt.Equals(next, prev)
	} else if c, ok := prev.(*smt.Const); ok {
		// Known node, so apply directly
		return smt.Equals(next, smt.Int(valueOf(op, c.Value, p.store)))
	}
	// Build case split from the last node outwards.
	var (
		ids  = p.store.Ids()
		term = smt.Equals(next, smt.Int(Undefined))
	)
	//
	for i := len(ids) - 1; i >= 0; i-- {
		id := int64(ids[i])
		cond := smt.Equals(prev, smt.Int(id))
		term = smt.IfThenElse(cond, smt.Equals(next, smt.Int(valueOf(op, id, p.store))), term)
	}
	//
	return term
}

// ============================================================================
// Table
// ============================================================================

// tableEncoder represents an operation as a lookup into an array, whose
// contents are fixed by one equality per node.  Every table also maps
// Undefined to itself, such that undefined results propagate.
type tableEncoder struct {
	store  *ast.Store
	tables [dsl.OpCount]*smt.Var
}

// TableName returns the name of the array used to encode an operation.
func TableName(op dsl.OpCode) string {
	return fmt.Sprintf("tbl_%s", op)
}

func (p *tableEncoder) define(formula *smt.Formula, ops []dsl.OpCode) {
	for _, op := range ops {
		if op.IsIdentity() {
			continue
		}
		//
		var (
			table   = formula.Declare(TableName(op), smt.ArraySort)
			entries = make([]smt.Term, 0, p.store.Len()+1)
		)
		//
		for _, id := range p.store.Ids() {
			val := valueOf(op, int64(id), p.store)
			entries = append(entries, smt.Equals(smt.Lookup(table, smt.Int(int64(id))), smt.Int(val)))
		}
		//
		entries = append(entries, smt.Equals(smt.Lookup(table, smt.Int(Undefined)), smt.Int(Undefined)))
		formula.Assert(smt.Conjunction(entries...))
		p.tables[op] = table
	}
}

func (p *tableEncoder) transition(op dsl.OpCode, prev smt.Term, next *smt.Var) smt.Term {
	if op.IsIdentity() {
		return smt.Equals(next, prev)
	}
	//
	return smt.Equals(next, smt.Lookup(p.tables[op], prev))
}
