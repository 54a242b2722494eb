package solver

import (
	"context"
	"errors"
	"testing"

	"github.com/consensys/go-treesynth/pkg/smt"
)

// 0 <= x <= 3, y = x, y = 2
func Test_Search_01(t *testing.T) {
	f := smt.NewFormula()
	x := f.Declare("x", smt.IntSort)
	y := f.Declare("y", smt.IntSort)
	f.Assert(bounded(x, 0, 3))
	f.Assert(smt.Equals(y, x))
	f.Assert(smt.Equals(y, smt.Int(2)))
	//
	checkSat(t, f, map[string]int64{"x": 2, "y": 2})
}

// 0 <= x <= 3, ite(x = 1, y = 5, y = -1), y = 4
func Test_Search_02(t *testing.T) {
	f := smt.NewFormula()
	x := f.Declare("x", smt.IntSort)
	y := f.Declare("y", smt.IntSort)
	f.Assert(bounded(x, 0, 3))
	f.Assert(smt.IfThenElse(smt.Equals(x, smt.Int(1)), smt.Equals(y, smt.Int(5)), smt.Equals(y, smt.Int(-1))))
	f.Assert(smt.Equals(y, smt.Int(4)))
	//
	checkUnsat(t, f)
}

// Array elements are propagated through equalities.
func Test_Search_03(t *testing.T) {
	f := smt.NewFormula()
	a := f.Declare("a", smt.ArraySort)
	y := f.Declare("y", smt.IntSort)
	x := smt.NewVar("x", smt.IntSort)
	//
	f.Assert(smt.Conjunction(
		smt.Equals(smt.Lookup(a, smt.Int(0)), smt.Int(7)),
		smt.Equals(smt.Lookup(a, smt.Int(1)), smt.Int(9))))
	f.Assert(smt.Conjunction(bounded(x, 0, 1), smt.Exist([]*smt.Var{x}, smt.Equals(y, smt.Lookup(a, x)))))
	f.Assert(smt.Equals(y, smt.Int(9)))
	//
	checkSat(t, f, map[string]int64{"x": 1, "y": 9})
}

// Decision variables shared between two chains.
func Test_Search_04(t *testing.T) {
	f := smt.NewFormula()
	x := f.Declare("x", smt.IntSort)
	y1 := f.Declare("y1", smt.IntSort)
	y2 := f.Declare("y2", smt.IntSort)
	f.Assert(bounded(x, -2, 2))
	// y1 = 1 + x (encoded by cases), y2 = 3 + x
	f.Assert(cases(x, y1, 1))
	f.Assert(cases(x, y2, 3))
	f.Assert(smt.Equals(y1, smt.Int(0)))
	f.Assert(smt.Equals(y2, smt.Int(2)))
	//
	checkSat(t, f, map[string]int64{"x": -1})
}

// Unbounded variables cannot be decided.
func Test_Search_05(t *testing.T) {
	f := smt.NewFormula()
	x := f.Declare("x", smt.IntSort)
	f.Assert(smt.GreaterOrEqual(x, smt.Int(0)))
	//
	checkError(t, context.Background(), NewSearch(), f)
}

func Test_Search_06(t *testing.T) {
	f := smt.NewFormula()
	x := f.Declare("x", smt.IntSort)
	f.Assert(bounded(x, 0, 1))
	//
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	//
	checkError(t, ctx, NewSearch(), f)
}

func Test_Search_07(t *testing.T) {
	f := smt.NewFormula()
	x := f.Declare("x", smt.IntSort)
	y := f.Declare("y", smt.IntSort)
	f.Assert(bounded(x, 0, 100))
	f.Assert(bounded(y, 0, 100))
	// Refuted only once x is decided
	f.Assert(smt.Negate(smt.Equals(x, x)))
	// Search must give up long before exhausting the space
	checkError(t, context.Background(), &Search{MaxDecisions: 10}, f)
}

// Disjunction and negation are evaluated once decided.
func Test_Search_08(t *testing.T) {
	f := smt.NewFormula()
	x := f.Declare("x", smt.IntSort)
	f.Assert(bounded(x, 0, 5))
	f.Assert(smt.Disjunction(smt.Equals(x, smt.Int(1)), smt.Equals(x, smt.Int(4))))
	f.Assert(smt.Negate(smt.LessOrEqual(x, smt.Int(2))))
	//
	checkSat(t, f, map[string]int64{"x": 4})
}

// ============================================================================
// Helpers
// ============================================================================

func bounded(v *smt.Var, lo int64, hi int64) smt.Term {
	return smt.Conjunction(smt.GreaterOrEqual(v, smt.Int(lo)), smt.LessOrEqual(v, smt.Int(hi)))
}

// Encode y = x + k for x in -2..2 as nested case splits.
func cases(x *smt.Var, y *smt.Var, k int64) smt.Term {
	term := smt.Equals(y, smt.Int(-100))
	//
	for i := int64(2); i >= -2; i-- {
		term = smt.IfThenElse(smt.Equals(x, smt.Int(i)), smt.Equals(y, smt.Int(i+k)), term)
	}
	//
	return term
}

func checkSat(t *testing.T, f *smt.Formula, expected map[string]int64) {
	t.Helper()
	//
	result, err := NewSearch().Solve(context.Background(), f)
	//
	if err != nil {
		t.Fatal(err)
	} else if result.Status != Sat {
		t.Fatalf("expected sat, got %s", result.Status)
	}
	//
	for name, want := range expected {
		if got, ok := result.Model.Int(name); !ok || got != want {
			t.Errorf("expected %s = %d, got %d (%t)", name, want, got, ok)
		}
	}
}

func checkUnsat(t *testing.T, f *smt.Formula) {
	t.Helper()
	//
	result, err := NewSearch().Solve(context.Background(), f)
	//
	if err != nil {
		t.Fatal(err)
	} else if result.Status != Unsat {
		t.Fatalf("expected unsat, got %s", result.Status)
	}
}

func checkError(t *testing.T, ctx context.Context, s Solver, f *smt.Formula) {
	var serr *Error
	//
	t.Helper()
	//
	if _, err := s.Solve(ctx, f); !errors.As(err, &serr) {
		t.Errorf("expected solver error, got %v", err)
	}
}
