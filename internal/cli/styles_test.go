package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("saved"), "saved")
	assert.Contains(t, FormatSuccess("saved"), SuccessIcon)

	assert.Contains(t, FormatError("database path missing"), "database path missing")
	assert.Contains(t, FormatError("boom"), ErrorIcon)

	assert.Contains(t, FormatWarning("careful"), "careful")
	assert.Contains(t, FormatPrompt("Accept?"), "Accept?")
}

func TestRenderBox(t *testing.T) {
	box := RenderBox("Title", "line one\nline two")
	assert.Contains(t, box, "Title")
	assert.Contains(t, box, "line one")
	assert.Contains(t, box, "line two")
}
