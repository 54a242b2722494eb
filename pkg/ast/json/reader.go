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
package json

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/consensys/go-treesynth/pkg/ast"
	"github.com/consensys/go-treesynth/pkg/util"
)

// Record is the serialised form of a single tree.  For example:
//
//	{"program_id": {"value": 0}, "nodes": [
//	   {"id": 0, "parent": "", "previous_id": "", "children": "[1, 2]", "type": "Program", "value": ""},
//	   ...]}
//
// Identifiers can be given either as numbers or strings, where an empty string
// indicates "none".  Children can be given either as a JSON array, or as a
// string containing a bracketed, comma-separated list.
type Record struct {
	ProgramId struct {
		Value ref `json:"value"`
	} `json:"program_id"`
	Nodes []NodeRecord `json:"nodes"`
}

// NodeRecord is the serialised form of a single node.
type NodeRecord struct {
	Id         ref      `json:"id"`
	Parent     ref      `json:"parent"`
	PreviousId ref      `json:"previous_id"`
	Children   children `json:"children"`
	Type       string   `json:"type"`
	Value      string   `json:"value"`
}

// FromBytes parses zero or more tree records (one per line) and returns the
// nodes of the tree whose program identifier matches the one requested.
func FromBytes(data []byte, treeId uint) ([]ast.Node, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	//
	for line := 1; scanner.Scan(); line++ {
		var record Record
		//
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		} else if err := json.Unmarshal(text, &record); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		} else if record.ProgramId.Value.IsEmpty() {
			return nil, fmt.Errorf("line %d: missing program_id", line)
		} else if record.ProgramId.Value.Unwrap() != treeId {
			continue
		}
		//
		return record.toNodes()
	}
	//
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	//
	return nil, fmt.Errorf("tree %d not found", treeId)
}

// ReadTree parses the tree with a given identifier and loads it into a store.
func ReadTree(data []byte, treeId uint) (*ast.Store, error) {
	nodes, err := FromBytes(data, treeId)
	if err != nil {
		return nil, err
	}
	//
	return ast.Load(nodes)
}

func (r *Record) toNodes() ([]ast.Node, error) {
	nodes := make([]ast.Node, len(r.Nodes))
	//
	for i, n := range r.Nodes {
		if n.Id.IsEmpty() {
			return nil, fmt.Errorf("node %d has no identifier", i)
		}
		//
		nodes[i] = ast.Node{
			Id:        n.Id.Unwrap(),
			Parent:    n.Parent.Option,
			PrevValue: n.PreviousId.Option,
			Children:  n.Children,
			Type:      n.Type,
			Value:     n.Value,
		}
	}
	//
	return nodes, nil
}

// ref is an optional node identifier, given as either a number or a string.
// Empty strings, null and negative numbers all indicate "none".
type ref struct {
	util.Option[ast.NodeId]
}

func (r *ref) UnmarshalJSON(data []byte) error {
	var raw any
	//
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	//
	switch v := raw.(type) {
	case nil:
		r.Option = util.None[ast.NodeId]()
	case float64:
		if v != math.Trunc(v) {
			return fmt.Errorf("invalid node reference %s", string(data))
		}
		//
		r.Option = fromInt(int64(v))
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			r.Option = util.None[ast.NodeId]()
			return nil
		}
		//
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid node reference %q", v)
		}
		//
		r.Option = fromInt(n)
	default:
		return fmt.Errorf("invalid node reference %s", string(data))
	}
	//
	return nil
}

func fromInt(n int64) util.Option[ast.NodeId] {
	if n < 0 {
		return util.None[ast.NodeId]()
	}
	//
	return util.Some(ast.NodeId(n))
}

// children is a list of child identifiers, given either as a JSON array or a
// string such as "[1, 2, 3]".
type children []ast.NodeId

func (c *children) UnmarshalJSON(data []byte) error {
	var (
		ids  []ast.NodeId
		text string
	)
	//
	if err := json.Unmarshal(data, &ids); err == nil {
		*c = ids
		return nil
	} else if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("invalid children %s", string(data))
	}
	//
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")
	//
	for _, item := range strings.Split(text, ",") {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		//
		n, err := strconv.ParseUint(item, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid child %q", item)
		}
		//
		ids = append(ids, ast.NodeId(n))
	}
	//
	*c = ids
	//
	return nil
}
