package cli

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestWidthFallsBack(t *testing.T) {
	require.Greater(t, Width(), 0)
}

func TestPrintersDoNotPanicWithoutColor(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	Title("Quiz %d", 1)
	Separator()
	Assistant("100% sure")
	Info("%s\n", "ok")
}
