package dsl

import (
	"errors"
	"testing"

	"github.com/consensys/go-treesynth/pkg/ast"
	"github.com/consensys/go-treesynth/pkg/ast/asttest"
	"github.com/google/go-cmp/cmp"
)

// ============================================================================
// Catalog
// ============================================================================

func Test_Catalog_01(t *testing.T) {
	for _, op := range Catalog() {
		code, err := Encode(op.String())
		if err != nil {
			t.Error(err)
		} else if code != op {
			t.Errorf("encode(decode(%d)) = %d", op, code)
		}
		//
		if got, err := Decode(int64(op)); err != nil || got.String() != op.String() {
			t.Errorf("decode(%d) = %s, %v", op, got, err)
		}
	}
}

func Test_Catalog_02(t *testing.T) {
	var unknown *UnknownOperationError
	//
	for _, code := range []int64{-1, OpCount, 255} {
		if _, err := Decode(code); !errors.As(err, &unknown) || unknown.Code != code {
			t.Errorf("decode(%d) should fail, got %v", code, err)
		}
	}
	//
	if _, err := Encode("Sideways"); !errors.As(err, &unknown) {
		t.Errorf("encode(Sideways) should fail, got %v", err)
	}
}

func Test_Catalog_03(t *testing.T) {
	program, err := ParseProgram("up, downlast,Nop")
	if err != nil {
		t.Fatal(err)
	}
	//
	if diff := cmp.Diff(Program{Up, DownLast, Nop}, program); diff != "" {
		t.Errorf("unexpected program (-want +got):\n%s", diff)
	} else if program.String() != "[Up, DownLast, Nop]" {
		t.Errorf("unexpected rendering %s", program)
	}
}

// ============================================================================
// Interpreter
// ============================================================================

func Test_Apply_01(t *testing.T) {
	store := asttest.Simple()
	//
	checkApply(t, store, Up, 3, 1)
	checkApply(t, store, Up, 0, -1)
	checkApply(t, store, DownFirst, 0, 1)
	checkApply(t, store, DownLast, 1, 4)
	checkApply(t, store, DownLast, 2, -1)
	checkApply(t, store, Left, 4, 3)
	checkApply(t, store, Right, 4, -1)
	checkApply(t, store, PrevLeaf, 2, 4)
	checkApply(t, store, NextLeaf, 0, 3)
	checkApply(t, store, PrevNodeVal, 3, -1)
	checkApply(t, store, Nop, 2, 2)
}

func Test_Apply_02(t *testing.T) {
	store := asttest.Statements()
	//
	checkApply(t, store, PrevNodeVal, 6, 2)
	checkApply(t, store, PrevNodeVal, 3, -1)
	checkSequence(t, store, 12, 9, Up, Left, DownLast)
	checkSequence(t, store, 12, 8, PrevNodeVal)
}

// Undefined never recovers.
func Test_Apply_03(t *testing.T) {
	store := asttest.Simple()
	//
	checkSequence(t, store, 0, -1, Up, DownFirst)
	checkSequence(t, store, 3, -1, Up, Up, Up, Nop)
	checkSequence(t, store, 3, 4, Up, DownLast)
	checkSequence(t, store, 3, 3)
}

// ============================================================================
// Laws
// ============================================================================

func Test_Laws_01(t *testing.T) {
	for _, store := range fixtures() {
		for _, id := range store.Ids() {
			n := store.Node(id)
			//
			if n.IsRoot() && Apply(Up, id, store).HasValue() {
				t.Errorf("Up(%d) defined at root", id)
			}
			//
			if n.IsLeaf() && (Apply(DownFirst, id, store).HasValue() || Apply(DownLast, id, store).HasValue()) {
				t.Errorf("Down(%d) defined at leaf", id)
			}
			//
			if r := Apply(Nop, id, store); r.IsEmpty() || r.Unwrap() != id {
				t.Errorf("Nop(%d) = %s", id, r)
			}
		}
	}
}

func Test_Laws_02(t *testing.T) {
	for _, store := range fixtures() {
		for _, id := range store.Ids() {
			checkInverse(t, store, Right, Left, id)
			checkInverse(t, store, Left, Right, id)
			// Children of a node agree with its parent
			for _, down := range []OpCode{DownFirst, DownLast} {
				if c := Apply(down, id, store); c.HasValue() {
					checkApply(t, store, Up, c.Unwrap(), int(id))
				}
			}
		}
	}
}

func Test_Laws_03(t *testing.T) {
	for _, store := range fixtures() {
		for _, id := range store.Leaves() {
			checkInverse(t, store, NextLeaf, PrevLeaf, id)
			checkInverse(t, store, PrevLeaf, NextLeaf, id)
		}
	}
}

// ============================================================================
// Helpers
// ============================================================================

func fixtures() []*ast.Store {
	stores := []*ast.Store{asttest.Simple(), asttest.Statements()}
	//
	for i := range uint(10) {
		stores = append(stores, asttest.Random(uint64(i), 5+3*i))
	}
	//
	return stores
}

// if op(id) = x then inv(x) = id
func checkInverse(t *testing.T, store *ast.Store, op OpCode, inv OpCode, id ast.NodeId) {
	t.Helper()
	//
	if r := Apply(op, id, store); r.HasValue() {
		checkApply(t, store, inv, r.Unwrap(), int(id))
	}
}

// Check an operation, where a negative expected value means undefined.
func checkApply(t *testing.T, store *ast.Store, op OpCode, id ast.NodeId, expected int) {
	t.Helper()
	checkSequence(t, store, id, expected, op)
}

func checkSequence(t *testing.T, store *ast.Store, id ast.NodeId, expected int, ops ...OpCode) {
	t.Helper()
	//
	r := ApplySequence(id, store, ops...)
	//
	if expected < 0 && r.HasValue() {
		t.Errorf("%s(%d): expected ⊥, got %s", Program(ops), id, r)
	} else if expected >= 0 && (r.IsEmpty() || r.Unwrap() != ast.NodeId(expected)) {
		t.Errorf("%s(%d): expected %d, got %s", Program(ops), id, expected, r)
	}
}
