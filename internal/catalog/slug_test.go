// SPDX-License-Identifier: MIT

package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Builder", "builder"},
		{"Chain of Responsibility", "chain-of-responsibility"},
		{"Strategy / Template Method", "strategy-template-method"},
		{"  Facade  ", "facade"},
		{"Open-Closed", "open-closed"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input=%q", tc.in)
	}
}

func TestSlugifyTruncates(t *testing.T) {
	long := strings.Repeat("pattern ", 20)
	slug := Slugify(long)
	assert.LessOrEqual(t, len(slug), 50)
	assert.False(t, strings.HasSuffix(slug, "-"))
}
