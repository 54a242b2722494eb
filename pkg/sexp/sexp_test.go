package sexp

import (
	"fmt"
	"reflect"
	"strconv"
	"testing"
)

// ============================================================================
// Positive Tests
// ============================================================================

func TestSexp_0(t *testing.T) {
	CheckOk(t, nil, "")
}

func TestSexp_1(t *testing.T) {
	e1 := List{nil}
	CheckOk(t, &e1, "()")
}

func TestSexp_2(t *testing.T) {
	e1 := List{nil}
	e2 := List{[]SExp{&e1}}
	CheckOk(t, &e2, "(())")
}

func TestSexp_7(t *testing.T) {
	e1 := Symbol{"symbol"}
	CheckOk(t, &e1, "symbol")
}

func TestSexp_8(t *testing.T) {
	e1 := Symbol{"12345"}
	CheckOk(t, &e1, "12345")
}

func TestSexp_9(t *testing.T) {
	e1 := Symbol{"+12345"}
	CheckOk(t, &e1, "+12345")
}

func TestSexp_10(t *testing.T) {
	e1 := Symbol{"symbol123"}
	e2 := List{[]SExp{&e1}}
	CheckOk(t, &e2, "(symbol123)")
}

func TestSexp_11(t *testing.T) {
	e1 := Symbol{"symbol"}
	e2 := List{[]SExp{&e1, &e1}}
	CheckOk(t, &e2, "(symbol symbol)")
}

func TestSexp_12(t *testing.T) {
	e1 := Symbol{"+"}
	e2 := Symbol{"1"}
	e3 := List{[]SExp{&e1, &e2}}
	CheckOk(t, &e3, "(+ 1)")
}

func TestSexp_13(t *testing.T) {
	e1 := Symbol{"hello"}
	e2 := Symbol{"world"}
	e3 := List{[]SExp{&e2}}
	e4 := List{[]SExp{&e1, &e3}}
	CheckOk(t, &e4, "(hello (world))")
}

func TestSexp_17(t *testing.T) {
	e1 := Symbol{"assert"}
	e2 := Symbol{"x"}
	e3 := List{[]SExp{&e2}}
	e4 := List{[]SExp{&e1, &e3}}
	// Tabs, carriage returns and comments are skipped
	CheckOk(t, &e4, "(assert\t; comment\r\n (x))")
}

func TestSexp_18(t *testing.T) {
	e1 := Symbol{"x"}
	e2 := Symbol{"y"}
	e3 := List{[]SExp{&e2}}
	// Symbols are terminated by an opening brace
	e4 := List{[]SExp{&e1, &e3}}
	CheckOk(t, &e4, "(x(y))")
}

func TestSexp_22(t *testing.T) {
	e1 := Symbol{"error"}
	e2 := Symbol{`"line 9 column 10: say ""hello"" (twice)"`}
	e3 := List{[]SExp{&e1, &e2}}
	// String literals may contain spaces, braces and doubled quotes
	CheckOk(t, &e3, `(error "line 9 column 10: say ""hello"" (twice)")`)
}

func TestSexp_23(t *testing.T) {
	e1 := Symbol{"|a b|"}
	e2 := Symbol{"1"}
	e3 := List{[]SExp{&e1, &e2}}
	CheckOk(t, &e3, "(|a b| 1) ; done")
}

func TestSexp_19(t *testing.T) {
	l := NewList(NewSymbol("="), NewSymbol("x"), NewInt(-3), NewInt(4))
	//
	if l.String() != "(= x (- 3) 4)" {
		t.Errorf("unexpected rendering %s", l)
	}
}

func TestSexp_20(t *testing.T) {
	terms, err := ParseAll("sat\n((op0 1)\n (op1 (- 1)))\n")
	//
	if err != nil {
		t.Fatal(err)
	} else if len(terms) != 2 || terms[0].String() != "sat" || terms[1].String() != "((op0 1) (op1 (- 1)))" {
		t.Errorf("unexpected terms %v", terms)
	}
}

func TestSexp_21(t *testing.T) {
	terms, err := ParseAll("((op0 1) ; first slot\n ; done\n)\n; trailing")
	//
	if err != nil {
		t.Fatal(err)
	} else if len(terms) != 1 || terms[0].String() != "((op0 1))" {
		t.Errorf("unexpected terms %v", terms)
	}
}

// ============================================================================
// Translation
// ============================================================================

func TestTranslate_1(t *testing.T) {
	CheckTranslate(t, "42", 42)
}

func TestTranslate_2(t *testing.T) {
	CheckTranslate(t, "(- 3)", -3)
}

func TestTranslate_3(t *testing.T) {
	CheckTranslate(t, "(+ 1 (- 3) 4)", 2)
}

func TestTranslate_Err1(t *testing.T) {
	if _, err := parseAndTranslate("(* 1 2)"); err == nil {
		t.Errorf("unknown list should not translate")
	}
}

func TestTranslate_Err2(t *testing.T) {
	if _, err := parseAndTranslate("x"); err == nil {
		t.Errorf("unknown symbol should not translate")
	}
}

// ============================================================================
// Negative Tests
// ============================================================================

// unexpected end of list
func TestSexp_Err1(t *testing.T) {
	CheckErr(t, ")")
}

// unexpected end of list
func TestSexp_Err2(t *testing.T) {
	CheckErr(t, "())")
}

// unexpected end of list
func TestSexp_Err3(t *testing.T) {
	CheckErr(t, "(string))")
}

// unexpected end of list
func TestSexp_Err4(t *testing.T) {
	CheckErr(t, "(another string))")
}

// unterminated string
func TestSexp_Err5(t *testing.T) {
	CheckErr(t, "(error \"oops)")
}

// unexpected end of file
func TestSexp_Err6(t *testing.T) {
	CheckErr(t, "((x)")
}

// ============================================================================
// Helpers
// ============================================================================

func CheckOk(t *testing.T, sexp1 SExp, input string) {
	sexp2, err := Parse(input)
	//
	if err != nil {
		t.Error(err)
	} else if !reflect.DeepEqual(sexp1, sexp2) {
		t.Errorf("%s != %s", sexp1, sexp2)
	}
}

func CheckErr(t *testing.T, input string) {
	_, err := Parse(input)
	//
	if err == nil {
		t.Errorf("input should not have parsed!")
	}
}

func CheckTranslate(t *testing.T, input string, expected int64) {
	val, err := parseAndTranslate(input)
	//
	if err != nil {
		t.Error(err)
	} else if val != expected {
		t.Errorf("%s translated to %d, expected %d", input, val, expected)
	}
}

func parseAndTranslate(input string) (int64, error) {
	e, err := Parse(input)
	if err != nil {
		return 0, err
	}
	//
	return intTranslator().Translate(e)
}

func intTranslator() *Translator[int64] {
	translator := NewTranslator[int64]()
	translator.AddSymbolRule(func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
	translator.AddRecursiveRule("-", func(args []int64) (int64, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("expected one argument")
		}
		//
		return -args[0], nil
	})
	translator.AddRecursiveRule("+", func(args []int64) (int64, error) {
		var sum int64
		for _, arg := range args {
			sum += arg
		}
		//
		return sum, nil
	})
	//
	return translator
}
