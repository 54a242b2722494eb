package sexp

import (
	"fmt"
)

// SymbolRule is a symbol generator is responsible for converting a terminating
// expression (i.e. a symbol) into an expression type T.  For example, a number
// or a variable.
type SymbolRule[T any] func(string) (T, error)

// listRule converts a list (including its head) into an expression type T.
type listRule[T any] func([]SExp) (T, error)

// RecursiveRule is a recursive translator is a wrapper for translating lists whose
// elements can be built by recursively reusing the enclosing
// translator.  Observe that the arguments are already translated into the
// correct form.
type RecursiveRule[T any] func([]T) (T, error)

// ===================================================================
// Translator
// ===================================================================

// Translator is a generic mechanism for translating S-Expressions into a structured
// form.
type Translator[T any] struct {
	lists   map[string]listRule[T]
	symbols []SymbolRule[T]
}

// NewTranslator constructs a new Translator instance.
func NewTranslator[T any]() *Translator[T] {
	return &Translator[T]{
		lists:   make(map[string]listRule[T]),
		symbols: make([]SymbolRule[T], 0),
	}
}

// ===================================================================
// Public
// ===================================================================

// Translate a given S-expression into a given structured representation T.
func (p *Translator[T]) Translate(sexp SExp) (T, error) {
	var empty T
	//
	switch e := sexp.(type) {
	case *List:
		return p.translateList(e.Elements)
	case *Symbol:
		var err error
		//
		for _, rule := range p.symbols {
			var ir T
			//
			if ir, err = rule(e.Value); err == nil {
				return ir, nil
			}
		}
		//
		if err != nil {
			return empty, err
		}
		//
		return empty, fmt.Errorf("unknown symbol %q", e.Value)
	}
	//
	return empty, fmt.Errorf("invalid S-Expression %v", sexp)
}

// AddRecursiveRule adds a new list translator to this expression translator.
func (p *Translator[T]) AddRecursiveRule(name string, t RecursiveRule[T]) {
	// Construct a recursive list translator as a wrapper around a generic list translator.
	p.lists[name] = func(elements []SExp) (T, error) {
		var (
			empty T
			err   error
		)
		// Translate arguments
		args := make([]T, len(elements)-1)
		for i, s := range elements[1:] {
			args[i], err = p.Translate(s)
			if err != nil {
				return empty, err
			}
		}

		return t(args)
	}
}

// AddSymbolRule adds a new symbol translator to this expression translator.
// Rules are tried in the order they were added, and the first to succeed is
// used.
func (p *Translator[T]) AddSymbolRule(t SymbolRule[T]) {
	p.symbols = append(p.symbols, t)
}

// ===================================================================
// Private
// ===================================================================

// Translate a list of S-Expressions into a unary, binary or n-ary
// expression of some kind.  This type of expression is determined by
// the first element of the list.  The remaining elements are treated
// as arguments.
func (p *Translator[T]) translateList(elements []SExp) (T, error) {
	var empty T
	// Sanity check this list makes sense
	if len(elements) == 0 || !elements[0].IsSymbol() {
		return empty, fmt.Errorf("invalid list")
	}
	// Extract expression name
	name := (elements[0].(*Symbol)).Value
	// Lookup appropriate translator
	if t, ok := p.lists[name]; ok {
		return t(elements)
	}
	// Default fall back
	return empty, fmt.Errorf("unknown list %q", name)
}
