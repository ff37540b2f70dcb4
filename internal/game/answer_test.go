package game

import (
	"encoding/json"
	"testing"
)

func TestAnswerInt(t *testing.T) {
	tests := []struct {
		in   Answer
		want int
		ok   bool
	}{
		{"5", 5, true},
		{" 12 ", 12, true},
		{"0", 0, true},
		{"-2", -2, true},
		{"", 0, false},
		{"abc", 0, false},
		{"5abc", 0, false},
		{"2.5", 0, false},
		{"1e2", 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.in.Int()
		if ok != tt.ok || got != tt.want {
			t.Fatalf("Int(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAnswerAcceptsNumberOrString(t *testing.T) {
	var payload struct {
		Count Answer `json:"count"`
	}
	for _, raw := range []string{`{"count":7}`, `{"count":"7"}`, `{"count":" 7"}`} {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if n, ok := payload.Count.Int(); !ok || n != 7 {
			t.Fatalf("%s: got %d, %v", raw, n, ok)
		}
	}
	for _, raw := range []string{`{"count":7.5}`, `{"count":null}`, `{"count":"seven"}`} {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if _, ok := payload.Count.Int(); ok {
			t.Fatalf("%s should not parse", raw)
		}
	}
}

func TestCheckEquation(t *testing.T) {
	r := Round{RedCount: 3, BlueCount: 2}
	tests := []struct {
		op     string
		result int
		want   EquationCheck
	}{
		{"3+2", 5, EquationCheck{OperationOK: true, ResultOK: true}},
		{"2+3", 5, EquationCheck{OperationOK: true, ResultOK: true}},
		{" 3 +\t2 ", 5, EquationCheck{OperationOK: true, ResultOK: true}},
		{"3+3", 5, EquationCheck{OperationOK: false, ResultOK: true}},
		{"3-2", 1, EquationCheck{}},
		{"5", 5, EquationCheck{ResultOK: true}},
		{"3+2", 6, EquationCheck{OperationOK: true}},
	}
	for _, tt := range tests {
		if got := checkEquation(tt.op, tt.result, r); got != tt.want {
			t.Fatalf("checkEquation(%q, %d) = %+v, want %+v", tt.op, tt.result, got, tt.want)
		}
	}
}

func TestValidators(t *testing.T) {
	r := Round{RedCount: 4, BlueCount: 6, FirstColorIsRed: true}
	if !matchRed(4, r) || matchRed(6, r) {
		t.Fatal("matchRed")
	}
	if !matchBlue(6, r) || matchBlue(4, r) {
		t.Fatal("matchBlue")
	}
	if !matchTotal(10, r) || matchTotal(9, r) {
		t.Fatal("matchTotal")
	}
	if !matchSecondColor(6, r) {
		t.Fatal("second color is blue when red comes first")
	}
	r.FirstColorIsRed = false
	if !matchSecondColor(4, r) {
		t.Fatal("second color is red when blue comes first")
	}
	if matchVenn(4, 4, r) || matchVenn(6, 6, r) || !matchVenn(4, 6, r) {
		t.Fatal("matchVenn needs both labels")
	}
}
