package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/portplan/internal/core/schema"
	"github.com/example/portplan/internal/core/tree"
)

// Prompt reads line input from a terminal. It backs both the editor REPL
// and the interactive pickers, which share one buffered reader.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

var (
	_ tree.PatternPicker = (*Prompt)(nil)
	_ tree.ColorPicker   = (*Prompt)(nil)
)

// NewPrompt creates a prompt reading from in and writing to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// ReadLine prints label and returns the next line without its newline.
// io.EOF is returned once input is exhausted.
func (p *Prompt) ReadLine(label string) (string, error) {
	if label != "" {
		fmt.Fprint(p.out, label)
	}
	s, err := p.in.ReadString('\n')
	if errors.Is(err, io.EOF) && s != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// PickPattern lists the allowed patterns and reads a choice. A blank line or
// end of input cancels.
func (p *Prompt) PickPattern(current schema.Pattern) (schema.Pattern, bool, error) {
	for _, pat := range schema.Patterns() {
		fmt.Fprintf(p.out, "  %2d  %s %s\n", pat.Index(), patternGlyphs[pat.String()], pat)
	}
	for {
		s, err := p.ReadLine(fmt.Sprintf("pattern [%s]: ", current))
		if errors.Is(err, io.EOF) {
			return current, false, nil
		}
		if err != nil {
			return current, false, err
		}
		if strings.TrimSpace(s) == "" {
			return current, false, nil
		}
		if pat, ok := schema.ParsePattern(s); ok {
			return pat, true, nil
		}
		fmt.Fprintf(p.out, "unknown pattern %q\n", s)
	}
}

// PickColor lists the palette and reads a choice by index, name or #rrggbb.
// A blank line or end of input cancels.
func (p *Prompt) PickColor(current schema.Color) (schema.Color, bool, error) {
	for i, nc := range schema.Palette() {
		fmt.Fprintf(p.out, "  %2d  %s %s\n", i, swatch(nc.Color.Hex()), nc.Name)
	}
	for {
		s, err := p.ReadLine(fmt.Sprintf("color [%s]: ", current))
		if errors.Is(err, io.EOF) {
			return current, false, nil
		}
		if err != nil {
			return current, false, err
		}
		if strings.TrimSpace(s) == "" {
			return current, false, nil
		}
		if c, ok := schema.ParseColor(s); ok {
			return c, true, nil
		}
		fmt.Fprintf(p.out, "unknown color %q\n", s)
	}
}
