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
// Package asttest provides tree fixtures for use in tests.
package asttest

import (
	"fmt"
	"math/rand/v2"

	"github.com/consensys/go-treesynth/pkg/ast"
	"github.com/consensys/go-treesynth/pkg/util"
)

// Node constructs a node with a given parent (negative for the root) and
// children.
func Node(id ast.NodeId, parent int, children ...ast.NodeId) ast.Node {
	n := ast.Node{Id: id, Children: children, Type: "Node", Value: fmt.Sprintf("n%d", id)}
	//
	if parent >= 0 {
		n.Parent = util.Some(ast.NodeId(parent))
	}
	//
	return n
}

// Simple returns the five node tree:
//
//	0 -> [1, 2]
//	1 -> [3, 4]
func Simple() *ast.Store {
	return mustLoad([]ast.Node{
		Node(0, -1, 1, 2), Node(1, 0, 3, 4), Node(2, 0), Node(3, 1), Node(4, 1),
	})
}

// Statements returns a small tree resembling a block of assignments, where
// each assignment reads the variable written by the previous one:
//
//	0:Block -> [1, 4, 7, 10]
//	1:Assign -> [2:a, 3:x]
//	4:Assign -> [5:b, 6:a]
//	7:Assign -> [8:c, 9:b]
//	10:Assign -> [11:d, 12:c]
//
// The previous-value reference links each read with the matching write.
func Statements() *ast.Store {
	nodes := []ast.Node{Node(0, -1, 1, 4, 7, 10)}
	vars := []string{"a", "b", "c", "d"}
	reads := []string{"x", "a", "b", "c"}
	//
	for i := range 4 {
		stmt := ast.NodeId(1 + 3*i)
		lhs := Node(stmt+1, int(stmt))
		rhs := Node(stmt+2, int(stmt))
		lhs.Type, lhs.Value = "Name", vars[i]
		rhs.Type, rhs.Value = "Name", reads[i]
		// Link each read to the preceding write of that variable.
		if i > 0 {
			rhs.PrevValue = util.Some(stmt - 2)
		}
		//
		assign := Node(stmt, 0, stmt+1, stmt+2)
		assign.Type = "Assign"
		nodes = append(nodes, assign, lhs, rhs)
	}
	//
	return mustLoad(nodes)
}

// Random generates a random tree with a given number of nodes.  Each node
// (other than the root) is attached to a randomly chosen earlier node, and
// roughly half the nodes are given a previous-value reference to an earlier
// node.
func Random(seed uint64, size uint) *ast.Store {
	var (
		rng   = rand.New(rand.NewPCG(seed, uint64(size)))
		nodes = make([]ast.Node, size)
	)
	//
	for i := range nodes {
		nodes[i] = Node(ast.NodeId(i), -1)
		//
		if i == 0 {
			continue
		}
		//
		parent := rng.IntN(i)
		nodes[i].Parent = util.Some(ast.NodeId(parent))
		nodes[parent].Children = append(nodes[parent].Children, ast.NodeId(i))
		//
		if rng.IntN(2) == 0 {
			nodes[i].PrevValue = util.Some(ast.NodeId(rng.IntN(i)))
		}
	}
	//
	return mustLoad(nodes)
}

func mustLoad(nodes []ast.Node) *ast.Store {
	store, err := ast.Load(nodes)
	if err != nil {
		panic(err)
	}
	//
	return store
}
