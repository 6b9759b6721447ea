// SPDX-License-Identifier: MIT

// Package expr implements a miniature expression interpreter over
// additive integer arithmetic with single-letter variables. It is the
// worked example for the catalog's Interpreter pattern entry.
package expr

import (
	"strconv"
	"unicode"
)

type tokenType int

const (
	tokenInteger tokenType = iota
	tokenPlus
	tokenMinus
)

type token struct {
	text string
	typ  tokenType
}

// Processor evaluates expressions like "1+2-x" against a variable map.
// Variable names longer than one rune and references to unknown
// variables make the whole evaluation fail with ok=false.
type Processor struct {
	Variables map[string]int
}

// New returns a Processor with an empty variable map.
func New() *Processor {
	return &Processor{Variables: make(map[string]int)}
}

// Calculate evaluates the expression left to right. The boolean is
// false when the expression does not parse or references a variable
// the processor does not know.
func (p *Processor) Calculate(expression string) (int, bool) {
	tokens, ok := p.tokenize(expression)
	if !ok || len(tokens) == 0 {
		return 0, false
	}

	value, err := strconv.Atoi(tokens[0].text)
	if err != nil {
		return 0, false
	}

	// Tokens alternate operator, operand from index 1 on.
	for i := 1; i < len(tokens); i += 2 {
		if i+1 >= len(tokens) || tokens[i+1].typ != tokenInteger {
			return 0, false
		}
		operand, err := strconv.Atoi(tokens[i+1].text)
		if err != nil {
			return 0, false
		}
		switch tokens[i].typ {
		case tokenPlus:
			value += operand
		case tokenMinus:
			value -= operand
		default:
			return 0, false
		}
	}
	return value, true
}

func (p *Processor) tokenize(expression string) ([]token, bool) {
	runes := []rune(expression)
	var tokens []token

	for i := 0; i < len(runes); i++ {
		switch {
		case runes[i] == '+':
			tokens = append(tokens, token{"+", tokenPlus})
		case runes[i] == '-':
			tokens = append(tokens, token{"-", tokenMinus})
		case unicode.IsDigit(runes[i]):
			j := i
			for j+1 < len(runes) && unicode.IsDigit(runes[j+1]) {
				j++
			}
			tokens = append(tokens, token{string(runes[i : j+1]), tokenInteger})
			i = j
		case unicode.IsSpace(runes[i]):
			continue
		default:
			j := i
			for j+1 < len(runes) && runes[j+1] != '+' && runes[j+1] != '-' && !unicode.IsDigit(runes[j+1]) {
				j++
			}
			name := string(runes[i : j+1])
			if len([]rune(name)) > 1 {
				return nil, false
			}
			val, ok := p.Variables[name]
			if !ok {
				return nil, false
			}
			tokens = append(tokens, token{strconv.Itoa(val), tokenInteger})
			i = j
		}
	}
	return tokens, true
}
