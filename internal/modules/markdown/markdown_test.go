package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	html, err := Render("# Title\n\nSome **bold** text.")
	assert.NoError(t, err)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestRenderGFMTable(t *testing.T) {
	html, err := Render("| a | b |\n|---|---|\n| 1 | 2 |")
	assert.NoError(t, err)
	assert.Contains(t, html, "<table>")
}

func TestRenderEmpty(t *testing.T) {
	html, err := Render("")
	assert.NoError(t, err)
	assert.Equal(t, "", html)
}
