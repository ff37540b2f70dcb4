package game

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// Answer is a raw learner submission. Clients may send it as a JSON number or
// a JSON string; either way it is kept verbatim and parsed on use.
type Answer string

// Number builds an Answer from an int.
func Number(n int) Answer { return Answer(strconv.Itoa(n)) }

func (a *Answer) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Answer(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	*a = Answer(b)
	return nil
}

// Int parses the answer. Anything that is not a plain integer is invalid,
// never zero.
func (a Answer) Int() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(a)))
	if err != nil {
		return 0, false
	}
	return n, true
}

func matchRed(n int, r Round) bool   { return n == r.RedCount }
func matchBlue(n int, r Round) bool  { return n == r.BlueCount }
func matchTotal(n int, r Round) bool { return n == r.Total() }

func matchSecondColor(n int, r Round) bool { return n == r.SecondColorCount() }

func matchVenn(red, blue int, r Round) bool {
	return red == r.RedCount && blue == r.BlueCount
}

// EquationCheck reports which half of an equation answer holds.
type EquationCheck struct {
	OperationOK bool
	ResultOK    bool
}

func (c EquationCheck) OK() bool { return c.OperationOK && c.ResultOK }

// checkEquation accepts "{red}+{blue}" and "{blue}+{red}" once whitespace is
// stripped, and requires result to be the sum.
func checkEquation(operation string, result int, r Round) EquationCheck {
	op := strings.Map(func(c rune) rune {
		if unicode.IsSpace(c) {
			return -1
		}
		return c
	}, operation)
	red, blue := strconv.Itoa(r.RedCount), strconv.Itoa(r.BlueCount)
	return EquationCheck{
		OperationOK: op == red+"+"+blue || op == blue+"+"+red,
		ResultOK:    result == r.Total(),
	}
}
