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
	"slices"

	"github.com/consensys/go-treesynth/pkg/util"
)

// Store holds the nodes of exactly one tree, along with the navigation
// attributes derived from its structure (siblings and leaf order).  A store is
// never modified after it has been loaded, and can therefore be shared freely
// between readers.
type Store struct {
	// Nodes indexed by identifier.
	nodes map[NodeId]*Node
	// Node identifiers in ascending order.
	ids []NodeId
	// Root of the tree.
	root NodeId
	// Position of each non-root node amongst its siblings.
	position map[NodeId]int
	// Derived navigation attributes, indexed by node identifier.
	nav map[NodeId]navigation
	// Leaves in depth-first order.
	leaves []NodeId
}

// navigation captures the derived per-node attributes.
type navigation struct {
	left, right        util.Option[NodeId]
	prevLeaf, nextLeaf util.Option[NodeId]
}

// Load constructs a store from a given collection of nodes, after checking they
// form a single connected and acyclic tree.  Navigation attributes are derived
// as part of loading.
func Load(nodes []Node) (*Store, error) {
	var (
		store = &Store{nodes: make(map[NodeId]*Node, len(nodes))}
		roots []NodeId
	)
	// Take a private copy, since the store is read-only from here on.
	nodes = slices.Clone(nodes)
	// Index nodes
	for i := range nodes {
		n := &nodes[i]
		n.Children = slices.Clone(n.Children)
		//
		if _, ok := store.nodes[n.Id]; ok {
			return nil, malformed(n.Id, "duplicate node identifier")
		}
		//
		store.nodes[n.Id] = n
		store.ids = append(store.ids, n.Id)
		//
		if n.IsRoot() {
			roots = append(roots, n.Id)
		}
	}
	//
	slices.Sort(store.ids)
	//
	if len(roots) != 1 {
		id := NodeId(0)
		if len(roots) > 1 {
			id = roots[1]
		}
		//
		return nil, malformed(id, "expected exactly one root, found %d", len(roots))
	}
	//
	store.root = roots[0]
	//
	if err := store.checkReferences(); err != nil {
		return nil, err
	}
	//
	if err := store.deriveNavigation(); err != nil {
		return nil, err
	}
	//
	return store, nil
}

// Check parent, child and previous-value references all name nodes in this
// store, and that parent and child references agree.  Each list of children is
// walked exactly once, recording the position of every child amongst its
// siblings.
func (p *Store) checkReferences() error {
	p.position = make(map[NodeId]int, len(p.ids))
	//
	for _, id := range p.ids {
		for i, c := range p.nodes[id].Children {
			child, ok := p.nodes[c]
			//
			switch {
			case !ok:
				return malformed(id, "unknown child %d", c)
			case child.Parent.IsEmpty() || child.Parent.Unwrap() != id:
				return malformed(id, "child %d has different parent", c)
			}
			//
			if _, ok := p.position[c]; ok {
				return malformed(id, "child %d appears twice", c)
			}
			//
			p.position[c] = i
		}
	}
	//
	for _, id := range p.ids {
		n := p.nodes[id]
		//
		if n.Parent.HasValue() {
			if _, ok := p.nodes[n.Parent.Unwrap()]; !ok {
				return malformed(id, "unknown parent %d", n.Parent.Unwrap())
			} else if _, ok := p.position[id]; !ok {
				return malformed(id, "not a child of its parent %d", n.Parent.Unwrap())
			}
		}
		//
		if n.PrevValue.HasValue() {
			if _, ok := p.nodes[n.PrevValue.Unwrap()]; !ok {
				return malformed(id, "unknown previous value %d", n.PrevValue.Unwrap())
			}
		}
	}
	//
	return nil
}

// Derive the sibling and leaf order attributes for every node.  Leaf order is
// determined by a depth-first traversal from the root which visits children in
// order.  A node's previous leaf is the last leaf visited before it, and its
// next leaf is the first leaf visited after it.  Hence, for non-leaf nodes,
// these are the nearest leaves in traversal order.  The traversal is also used
// to check that every node is reachable exactly once from the root.
func (p *Store) deriveNavigation() error {
	var (
		order   = make([]NodeId, 0, len(p.ids))
		visited = make(map[NodeId]bool, len(p.ids))
		stack   = []NodeId{p.root}
	)
	//
	p.nav = make(map[NodeId]navigation, len(p.ids))
	// Siblings
	for _, id := range p.ids {
		var nav navigation
		//
		if n := p.nodes[id]; n.Parent.HasValue() {
			siblings := p.nodes[n.Parent.Unwrap()].Children
			i := p.position[id]
			//
			if i > 0 {
				nav.left = util.Some(siblings[i-1])
			}
			//
			if i+1 < len(siblings) {
				nav.right = util.Some(siblings[i+1])
			}
		}
		//
		p.nav[id] = nav
	}
	// Preorder traversal
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		//
		if visited[id] {
			return malformed(id, "node reachable more than once")
		}
		//
		visited[id] = true
		order = append(order, id)
		// Push children in reverse so the first child is visited first.
		children := p.nodes[id].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	//
	if len(order) != len(p.ids) {
		for _, id := range p.ids {
			if !visited[id] {
				return malformed(id, "node unreachable from root")
			}
		}
	}
	// Previous leaves (forwards)
	last := util.None[NodeId]()
	//
	for _, id := range order {
		nav := p.nav[id]
		nav.prevLeaf = last
		p.nav[id] = nav
		//
		if p.nodes[id].IsLeaf() {
			last = util.Some(id)
			p.leaves = append(p.leaves, id)
		}
	}
	// Next leaves (backwards)
	last = util.None[NodeId]()
	//
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		nav := p.nav[id]
		nav.nextLeaf = last
		p.nav[id] = nav
		//
		if p.nodes[id].IsLeaf() {
			last = util.Some(id)
		}
	}
	//
	return nil
}

// Len returns the number of nodes in this store.
func (p *Store) Len() uint {
	return uint(len(p.ids))
}

// Root returns the root node of this tree.
func (p *Store) Root() NodeId {
	return p.root
}

// Ids returns the identifiers of all nodes in ascending order.  The returned
// slice must not be modified.
func (p *Store) Ids() []NodeId {
	return p.ids
}

// Leaves returns the leaves of this tree in depth-first order.  The returned
// slice must not be modified.
func (p *Store) Leaves() []NodeId {
	return p.leaves
}

// Has checks whether a node with the given identifier exists.
func (p *Store) Has(id NodeId) bool {
	_, ok := p.nodes[id]
	return ok
}

// Node returns the node with the given identifier, or nil if no such node
// exists.
func (p *Store) Node(id NodeId) *Node {
	return p.nodes[id]
}

// Parent returns the parent of a given node, which is empty for the root.
func (p *Store) Parent(id NodeId) util.Option[NodeId] {
	if n, ok := p.nodes[id]; ok {
		return n.Parent
	}
	//
	return util.None[NodeId]()
}

// FirstChild returns the first child of a given node, which is empty for a
// leaf.
func (p *Store) FirstChild(id NodeId) util.Option[NodeId] {
	if n, ok := p.nodes[id]; ok && !n.IsLeaf() {
		return util.Some(n.Children[0])
	}
	//
	return util.None[NodeId]()
}

// LastChild returns the last child of a given node, which is empty for a leaf.
func (p *Store) LastChild(id NodeId) util.Option[NodeId] {
	if n, ok := p.nodes[id]; ok && !n.IsLeaf() {
		return util.Some(n.Children[len(n.Children)-1])
	}
	//
	return util.None[NodeId]()
}

// PrevValue returns the previous-value reference of a given node, exactly as
// provided by the ingester.
func (p *Store) PrevValue(id NodeId) util.Option[NodeId] {
	if n, ok := p.nodes[id]; ok {
		return n.PrevValue
	}
	//
	return util.None[NodeId]()
}

// LeftSibling returns the sibling immediately before a given node.
func (p *Store) LeftSibling(id NodeId) util.Option[NodeId] {
	return p.nav[id].left
}

// RightSibling returns the sibling immediately after a given node.
func (p *Store) RightSibling(id NodeId) util.Option[NodeId] {
	return p.nav[id].right
}

// PrevLeaf returns the nearest leaf before a given node in depth-first order.
func (p *Store) PrevLeaf(id NodeId) util.Option[NodeId] {
	return p.nav[id].prevLeaf
}

// NextLeaf returns the nearest leaf after a given node in depth-first order.
func (p *Store) NextLeaf(id NodeId) util.Option[NodeId] {
	return p.nav[id].nextLeaf
}
