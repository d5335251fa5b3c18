package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/portplan/internal/core/schema"
)

func TestPrompt_PickPattern(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompt(strings.NewReader("bogus\ncross\n"), &out)

	pat, ok, err := p.PickPattern(schema.PatternSolid)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, schema.PatternCross, pat)
	assert.Contains(t, out.String(), "13  ╳ DiagCross")
	assert.Contains(t, out.String(), `unknown pattern "bogus"`)
}

func TestPrompt_PickCancels(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"blank line", "\n"},
		{"end of input", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrompt(strings.NewReader(tt.input), &bytes.Buffer{})

			pat, ok, err := p.PickPattern(schema.PatternDense3)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, schema.PatternDense3, pat)
		})
	}
}

func TestPrompt_PickColor(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompt(strings.NewReader("Blue\n#102030\n"), &out)

	c, ok, err := p.PickColor(schema.Black)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, schema.Blue, c)
	assert.Contains(t, out.String(), "color [black]: ")

	c, ok, err = p.PickColor(c)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, schema.RGB(0x10, 0x20, 0x30), c)
}

func TestPrompt_ReadLineWithoutNewline(t *testing.T) {
	p := NewPrompt(strings.NewReader("tree"), &bytes.Buffer{})
	s, err := p.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "tree", s)
}
