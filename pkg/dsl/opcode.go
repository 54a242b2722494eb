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
package dsl

import (
	"fmt"
	"strings"

	"github.com/consensys/go-treesynth/pkg/ast"
	"github.com/consensys/go-treesynth/pkg/util"
)

// OpCode identifies an operation in the (closed) catalog of tree navigation
// operations.  Each operation is a total function from a node to either a node,
// or nothing (i.e. undefined).
type OpCode uint8

const (
	// Up moves to the parent of a node.
	Up OpCode = iota
	// DownFirst moves to the first child of a node.
	DownFirst
	// DownLast moves to the last child of a node.
	DownLast
	// PrevNodeVal moves to the nearest earlier node with the same value.
	PrevNodeVal
	// PrevLeaf moves to the nearest leaf before a node in depth-first order.
	PrevLeaf
	// NextLeaf moves to the nearest leaf after a node in depth-first order.
	NextLeaf
	// Left moves to the sibling immediately before a node.
	Left
	// Right moves to the sibling immediately after a node.
	Right
	// Nop leaves a node unchanged.
	Nop
)

// OpCount is the number of operations in the catalog.  Valid operation codes
// are therefore in the range 0..OpCount-1.
const OpCount = 9

var opNames = [OpCount]string{
	"Up", "DownFirst", "DownLast", "PrevNodeVal", "PrevLeaf", "NextLeaf", "Left", "Right", "Nop",
}

// relations maps each operation which reads per-node data to the store
// accessor implementing it.  Nop is the only operation without one.
var relations = [OpCount]func(*ast.Store, ast.NodeId) util.Option[ast.NodeId]{
	Up:          (*ast.Store).Parent,
	DownFirst:   (*ast.Store).FirstChild,
	DownLast:    (*ast.Store).LastChild,
	PrevNodeVal: (*ast.Store).PrevValue,
	PrevLeaf:    (*ast.Store).PrevLeaf,
	NextLeaf:    (*ast.Store).NextLeaf,
	Left:        (*ast.Store).LeftSibling,
	Right:       (*ast.Store).RightSibling,
}

// Catalog returns every operation in the catalog, ordered by code.
func Catalog() []OpCode {
	ops := make([]OpCode, OpCount)
	//
	for i := range ops {
		ops[i] = OpCode(i)
	}
	//
	return ops
}

// IsValid checks whether this code identifies an operation in the catalog.
func (op OpCode) IsValid() bool {
	return op < OpCount
}

// IsIdentity checks whether this operation leaves every node unchanged.
// Identity operations need no per-node data to be encoded.
func (op OpCode) IsIdentity() bool {
	return op == Nop
}

func (op OpCode) String() string {
	if op.IsValid() {
		return opNames[op]
	}
	//
	return fmt.Sprintf("Op(%d)", uint(op))
}

// Decode maps a raw operation code (e.g. as assigned by a solver) to the
// corresponding operation.
func Decode(code int64) (OpCode, error) {
	if code < 0 || code >= OpCount {
		return 0, &UnknownOperationError{Code: code}
	}
	//
	return OpCode(code), nil
}

// Encode maps the display name of an operation back to its code.  Names are
// matched case-insensitively.
func Encode(name string) (OpCode, error) {
	for i, n := range opNames {
		if strings.EqualFold(n, name) {
			return OpCode(i), nil
		}
	}
	//
	return 0, &UnknownOperationError{Code: -1, Name: name}
}

// UnknownOperationError is reported when an operation code (or name) does not
// correspond to any operation in the catalog.
type UnknownOperationError struct {
	// Offending code (or -1 when decoding by name).
	Code int64
	// Offending name (if decoding by name).
	Name string
}

// Error implements the error interface.
func (e *UnknownOperationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unknown operation %q", e.Name)
	}
	//
	return fmt.Sprintf("unknown operation code %d", e.Code)
}
