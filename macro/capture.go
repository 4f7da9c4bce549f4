// Package macro implements the capture-then-replay machinery shared by
// MACRO/ENDM and REPT/ENDR: both buffer source lines verbatim while a
// block is open, then hand back a template replayed by the directive
// dispatcher.
package macro

import "strings"

// Capture accumulates lines between an opening directive and its
// matching terminator, tracking nested opens of the same directive
// pair so an inner MACRO/REPT inside another doesn't close the outer
// one prematurely.
type Capture struct {
	Params []string
	lines  []string
	depth  int
}

// NewCapture starts a capture for a block whose opening directive has
// already been consumed, with the given formal parameter names (empty
// for REPT).
func NewCapture(params []string) *Capture {
	return &Capture{Params: params, depth: 1}
}

// Feed offers one raw source line to the capture. open/close are the
// directive names that nest (e.g. "MACRO"/"ENDM"). Returns done=true
// once the matching terminator for the outermost open has been
// consumed; that line is not added to Lines.
func (c *Capture) Feed(line, open, close string) (done bool) {
	word := strings.ToUpper(strings.TrimSpace(firstWord(line)))
	switch word {
	case open:
		c.depth++
	case close:
		c.depth--
		if c.depth == 0 {
			return true
		}
	}
	c.lines = append(c.lines, line)
	return false
}

// Lines returns the captured body.
func (c *Capture) Lines() []string { return c.lines }

func firstWord(line string) string {
	line = strings.TrimSpace(line)
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line
	}
	return line[:i]
}
