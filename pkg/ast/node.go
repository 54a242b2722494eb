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
package ast

import (
	"fmt"

	"github.com/consensys/go-treesynth/pkg/util"
)

// NodeId uniquely identifies a node within a given tree.
type NodeId = uint

// Node represents a single node of an abstract syntax tree, as produced by an
// external ingester.  The ingester is responsible for populating the parent,
// children and previous-value references.  The type and value are purely
// descriptive, and play no role in navigation.
type Node struct {
	// Id of this node.
	Id NodeId
	// Parent of this node, or empty for the root.
	Parent util.Option[NodeId]
	// Nearest earlier node sharing the same literal value (if any).  This is
	// precomputed by the ingester and treated as opaque.
	PrevValue util.Option[NodeId]
	// Children of this node in order.  The order determines the first and last
	// child, as well as sibling order.
	Children []NodeId
	// Type tag of this node (e.g. "Identifier").
	Type string
	// Literal value of this node (e.g. "x").
	Value string
}

// IsLeaf checks whether this node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// IsRoot checks whether this node has no parent.
func (n *Node) IsRoot() bool {
	return n.Parent.IsEmpty()
}

func (n *Node) String() string {
	return fmt.Sprintf("%d:%s(%s)", n.Id, n.Type, n.Value)
}

// MalformedTreeError is reported when a collection of nodes does not describe
// a single connected, acyclic tree.
type MalformedTreeError struct {
	// Node at which the problem was detected.
	Node NodeId
	// Message describing the problem.
	Msg string
}

// Error implements the error interface.
func (e *MalformedTreeError) Error() string {
	return fmt.Sprintf("malformed tree (node %d): %s", e.Node, e.Msg)
}

func malformed(node NodeId, format string, args ...any) *MalformedTreeError {
	return &MalformedTreeError{node, fmt.Sprintf(format, args...)}
}
