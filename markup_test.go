package bionic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmit(t *testing.T) {
	assert.Equal(t, "<b>he</b>llo", Emit("he", "llo"))
	assert.Equal(t, "<b></b>", Emit("", ""))
	assert.Equal(t, "<b><</b>>", Emit("<", ">"))
}

func TestSegmentMarkup(t *testing.T) {
	assert.Equal(t, "...", plainSegment("...").Markup())
	assert.Equal(t, "<b>g</b>o", Segment{Bold: "g", Normal: "o"}.Markup())
}

// Rendering is not idempotent: markup characters are not eligible, so the
// tag names themselves get counted on a second pass.
func TestRenderSimpleNotIdempotent(t *testing.T) {
	once := RenderSimple("hello")
	assert.NotEqual(t, once, RenderSimple(once))
}
