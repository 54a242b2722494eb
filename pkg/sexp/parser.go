package sexp

// Parse a given string into an S-expression, or return an error if the string
// is malformed.  Only whitespace and comments may follow the S-expression.
func Parse(s string) (SExp, error) {
	p := NewParser(s)
	// Parse the input
	sExp, err := p.Parse()
	if err != nil {
		return nil, err
	}
	// Sanity check everything was parsed
	if start, token, err := p.next(); err != nil {
		return nil, err
	} else if token != nil {
		return nil, NewSyntaxError(NewSpan(start, p.index), "unexpected remainder")
	}
	//
	return sExp, nil
}

// ParseAll parses a given string into zero or more S-expressions, whilst
// returning an error if the string is malformed.
func ParseAll(s string) ([]SExp, error) {
	terms := make([]SExp, 0)
	p := NewParser(s)
	// Parse the input
	for {
		term, err := p.Parse()
		// Sanity check everything was parsed
		if err != nil {
			return terms, err
		} else if term == nil {
			// EOF reached
			return terms, nil
		}

		terms = append(terms, term)
	}
}

// Parser represents a parser in the process of parsing a given string into one
// or more S-expressions.  Beyond plain symbols, this understands the string
// literals ("...") and quoted symbols (|...|) of SMT-LIB, such that solver
// output can be read back in.
type Parser struct {
	// Text being parsed
	text []rune
	// Determine current position within text
	index int
}

// NewParser constructs a new instance of Parser
func NewParser(text string) *Parser {
	return &Parser{
		text:  []rune(text),
		index: 0,
	}
}

// Parse the next S-Expression from the input, returning nil when the input is
// exhausted.  Lists are assembled on an explicit stack, hence deeply nested
// input does not exhaust the call stack.
func (p *Parser) Parse() (SExp, error) {
	var (
		// Elements of each list currently open
		lists [][]SExp
		// Start of each list currently open
		starts []int
	)
	//
	for {
		var term SExp
		//
		start, token, err := p.next()
		//
		switch {
		case err != nil:
			return nil, err
		case token == nil && len(lists) == 0:
			return nil, nil
		case token == nil:
			return nil, NewSyntaxError(NewSpan(starts[len(starts)-1], p.index), "unexpected end-of-file")
		case isPunctuation(token, '('):
			lists = append(lists, nil)
			starts = append(starts, start)
			//
			continue
		case isPunctuation(token, ')') && len(lists) == 0:
			return nil, NewSyntaxError(NewSpan(start, p.index), "unexpected end-of-list")
		case isPunctuation(token, ')'):
			n := len(lists) - 1
			term = &List{lists[n]}
			lists, starts = lists[:n], starts[:n]
		default:
			term = &Symbol{string(token)}
		}
		// Either add term to the enclosing list, or we're done.
		if n := len(lists); n > 0 {
			lists[n-1] = append(lists[n-1], term)
		} else {
			return term, nil
		}
	}
}

// Extract the next token, skipping any whitespace and comments beforehand.
// This returns the start of the token along with the token itself, which is
// nil at the end of the input.
func (p *Parser) next() (int, []rune, error) {
	p.skipWhitespace()
	//
	start := p.index
	//
	if start == len(p.text) {
		return start, nil, nil
	}
	//
	switch c := p.text[start]; c {
	case '(', ')':
		p.index++
	case '"', '|':
		if err := p.parseQuoted(c); err != nil {
			return start, nil, err
		}
	default:
		p.parseSymbol()
	}
	//
	return start, p.text[start:p.index], nil
}

// Skip over whitespace and comments (which run to the end of the line).
func (p *Parser) skipWhitespace() {
	for p.index < len(p.text) {
		switch p.text[p.index] {
		case ' ', '\t', '\r', '\n':
			p.index++
		case ';':
			for p.index < len(p.text) && p.text[p.index] != '\n' {
				p.index++
			}
		default:
			return
		}
	}
}

func (p *Parser) parseSymbol() {
	for ; p.index < len(p.text); p.index++ {
		switch p.text[p.index] {
		case '(', ')', ' ', '\n', '\t', '\r', ';':
			return
		}
	}
}

// Parse a string literal or quoted symbol, up to and including the closing
// delimiter.  Within string literals, a doubled quote stands for a quote.
func (p *Parser) parseQuoted(delim rune) error {
	start := p.index
	//
	for p.index++; p.index < len(p.text); p.index++ {
		if p.text[p.index] != delim {
			continue
		} else if delim == '"' && p.index+1 < len(p.text) && p.text[p.index+1] == '"' {
			p.index++
			continue
		}
		//
		p.index++
		//
		return nil
	}
	//
	return NewSyntaxError(NewSpan(start, p.index), "unterminated literal")
}

func isPunctuation(token []rune, c rune) bool {
	return len(token) == 1 && token[0] == c
}
