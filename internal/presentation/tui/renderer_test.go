package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/hyperwalk/internal/presentation/tui"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer(80)
	require.NoError(t, err)

	out, err := render("| Relation |\n|---|\n| orders |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "orders")
}

func TestPrintBanner_PlainProfile(t *testing.T) {
	var buf bytes.Buffer
	out := termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii))

	tui.PrintBanner(&buf, out)
	assert.Contains(t, buf.String(), `|___/|_|`)
	assert.NotContains(t, buf.String(), "\x1b[", "Ascii profile must not emit escape codes")
}
