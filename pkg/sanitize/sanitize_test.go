package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTrimsWhitespace(t *testing.T) {
	assert.Equal(t, "hello", Clean("  hello\n\t"))
}

func TestCleanStripsScriptBlock(t *testing.T) {
	assert.Equal(t, "before after", Clean("before <script>alert('x')</script>after"))
}

func TestCleanStripsScriptBlockCaseInsensitive(t *testing.T) {
	assert.Equal(t, "safe", Clean("<SCRIPT src=\"evil.js\">payload</SCRIPT> safe "))
}

func TestCleanStripsUnclosedScriptTag(t *testing.T) {
	assert.Equal(t, "text", Clean("text<script>"))
}

func TestCleanKeepsPlainMarkup(t *testing.T) {
	assert.Equal(t, "<b>bold</b>", Clean(" <b>bold</b> "))
}

func TestCleanPtrNil(t *testing.T) {
	CleanPtr(nil)
	s := "  x "
	CleanPtr(&s)
	assert.Equal(t, "x", s)
}
