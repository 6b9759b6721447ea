// SPDX-License-Identifier: MIT

package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	p := New()
	p.Variables["x"] = 5

	tests := []struct {
		expr   string
		want   int
		wantOK bool
	}{
		{"1", 1, true},
		{"1+2", 3, true},
		{"1+2+3", 6, true},
		{"10-2+30", 38, true},
		{"1+x", 6, true},
		{"x-x", 0, true},
		{"1 + 2", 3, true},
		{"", 0, false},
		{"1+xy", 0, false},  // multi-letter variable
		{"1+y", 0, false},   // unknown variable
		{"1+", 0, false},    // dangling operator
		{"+1", 0, false},    // leading operator
	}
	for _, tc := range tests {
		got, ok := p.Calculate(tc.expr)
		assert.Equal(t, tc.wantOK, ok, "expr=%q", tc.expr)
		assert.Equal(t, tc.want, got, "expr=%q", tc.expr)
	}
}

func TestCalculateMultiDigit(t *testing.T) {
	p := New()
	got, ok := p.Calculate("123+456")
	assert.True(t, ok)
	assert.Equal(t, 579, got)
}
