package slugify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"Ursula K. Le Guin", "ursula-k-le-guin"},
		{"  Trimmed  ", "trimmed"},
		{"Special@#Characters!", "special-characters"},
		{"already-a-slug", "already-a-slug"},
		{"123 Numbers", "123-numbers"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Make(tt.input), "input: %q", tt.input)
	}
}

func TestUnique(t *testing.T) {
	taken := map[string]bool{"dune": true, "dune-2": true}
	isTaken := func(s string) bool { return taken[s] }

	assert.Equal(t, "emma", Unique("emma", isTaken))
	assert.Equal(t, "dune-3", Unique("dune", isTaken))
	assert.Equal(t, "untitled", Unique("", func(string) bool { return false }))
}
