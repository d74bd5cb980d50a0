// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"strings"
	"testing"
)

type testResolver map[string]int64

func (r testResolver) resolveIdentifier(s string) (int64, error) {
	if v, ok := r[strings.ToLower(s)]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("identifier '%s' not found", s)
}

func expectExpr(t *testing.T, p *exprParser, r resolver, expr string, exp int64) {
	t.Helper()
	v, err := p.Parse(expr, r)
	if err != nil {
		t.Errorf("Parse(%q) failed: %v", expr, err)
		return
	}
	if v != exp {
		t.Errorf("Parse(%q) incorrect. exp: %d, got: %d", expr, exp, v)
	}
}

func expectExprError(t *testing.T, p *exprParser, r resolver, expr string) {
	t.Helper()
	if v, err := p.Parse(expr, r); err == nil {
		t.Errorf("Parse(%q) succeeded with %d, expected error", expr, v)
	}
}

func TestExprNumbers(t *testing.T) {
	p := newExprParser()
	r := testResolver{}

	expectExpr(t, p, r, "0", 0)
	expectExpr(t, p, r, "42", 42)
	expectExpr(t, p, r, "$ff", 255)
	expectExpr(t, p, r, "$C01234", 0xc01234)
	expectExpr(t, p, r, "0x1F", 31)
	expectExpr(t, p, r, "0b110", 6)
	expectExpr(t, p, r, "0d42", 42)
	expectExpr(t, p, r, "%101", 5)
	expectExpr(t, p, r, "'A'", 65)
}

func TestExprOperators(t *testing.T) {
	p := newExprParser()
	r := testResolver{}

	expectExpr(t, p, r, "2+3", 5)
	expectExpr(t, p, r, " 2 + 3 ", 5)
	expectExpr(t, p, r, "10-4", 6)
	expectExpr(t, p, r, "6*7", 42)
	expectExpr(t, p, r, "10/3", 3)
	expectExpr(t, p, r, "10%3", 1)
	expectExpr(t, p, r, "-5+2", -3)
	expectExpr(t, p, r, "~0", -1)
	expectExpr(t, p, r, "1<<4", 16)
	expectExpr(t, p, r, "$ff>>4", 15)
	expectExpr(t, p, r, "0xff & $0f", 15)
	expectExpr(t, p, r, "2^3", 1)
	expectExpr(t, p, r, "1|2", 3)
}

func TestExprPrecedence(t *testing.T) {
	p := newExprParser()
	r := testResolver{}

	expectExpr(t, p, r, "2+3*4", 14)
	expectExpr(t, p, r, "(2+3)*4", 20)
	expectExpr(t, p, r, "1+2<<3", 24)
	expectExpr(t, p, r, "$10|$100>>4", 0x10|0x10)
	expectExpr(t, p, r, "-(2+3)", -5)
}

func TestExprPercent(t *testing.T) {
	p := newExprParser()
	r := testResolver{}

	// '%' introduces a binary literal except when it follows a value,
	// where it means modulo.
	expectExpr(t, p, r, "%1010", 10)
	expectExpr(t, p, r, "(%101)*2", 10)
	expectExpr(t, p, r, "5 % %11", 2)
	expectExpr(t, p, r, "6%%10", 0)
	expectExprError(t, p, r, "%")
	expectExprError(t, p, r, "%2")
}

func TestExprIdentifiers(t *testing.T) {
	p := newExprParser()
	r := testResolver{"header": 0xffc0, "end": 0x400000}

	expectExpr(t, p, r, "header", 0xffc0)
	expectExpr(t, p, r, "HEADER+2", 0xffc2)
	expectExpr(t, p, r, "end-header", 0x400000-0xffc0)
	expectExprError(t, p, r, "nosuch")
}

func TestExprHexMode(t *testing.T) {
	p := newExprParser()
	p.hexMode = true
	r := testResolver{}

	expectExpr(t, p, r, "ff", 255)
	expectExpr(t, p, r, "10", 16)
	expectExpr(t, p, r, "10+10", 32)
	expectExpr(t, p, r, "0d16", 16)
}

func TestExprErrors(t *testing.T) {
	p := newExprParser()
	r := testResolver{}

	expectExprError(t, p, r, "")
	expectExprError(t, p, r, "2+")
	expectExprError(t, p, r, "(2")
	expectExprError(t, p, r, "2)")
	expectExprError(t, p, r, "$")
	expectExprError(t, p, r, "2 3")
}
