// Package cursor provides a positional view over a mangled symbol string.
package cursor

// EOF is returned by Get when no input remains.
const EOF = -1

// Cursor is a non-owning view over the remaining mangled bytes. It carries
// no state other than the read position and never reports errors; all
// diagnostics originate in the parser.
type Cursor struct {
	data string
	pos  int
}

// New creates a Cursor over s.
func New(s string) *Cursor {
	return &Cursor{data: s}
}

// Pos returns the number of bytes consumed so far.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Empty reports whether all input has been consumed.
func (c *Cursor) Empty() bool {
	return c.pos >= len(c.data)
}

// Startswith reports whether the remaining input begins with s.
func (c *Cursor) Startswith(s string) bool {
	if len(s) > c.Remaining() {
		return false
	}
	return c.data[c.pos:c.pos+len(s)] == s
}

// StartswithByte reports whether the next byte is b.
func (c *Cursor) StartswithByte(b byte) bool {
	return c.pos < len(c.data) && c.data[c.pos] == b
}

// StartswithDigit reports whether the next byte is a decimal digit.
func (c *Cursor) StartswithDigit() bool {
	if c.pos >= len(c.data) {
		return false
	}
	b := c.data[c.pos]
	return b >= '0' && b <= '9'
}

// Consume advances past s if the remaining input begins with it and reports
// whether it did. On mismatch the position is untouched.
func (c *Cursor) Consume(s string) bool {
	if !c.Startswith(s) {
		return false
	}
	c.pos += len(s)
	return true
}

// Trim unconditionally advances n bytes. n must not exceed Remaining.
func (c *Cursor) Trim(n int) {
	if n > c.Remaining() {
		panic("cursor: trim past end of input")
	}
	c.pos += n
}

// Get consumes and returns the next byte, or EOF when no input remains.
// A Get that returned EOF did not advance and must not be paired with Unget.
func (c *Cursor) Get() int {
	if c.pos >= len(c.data) {
		return EOF
	}
	b := c.data[c.pos]
	c.pos++
	return int(b)
}

// Unget undoes the most recent successful Get.
func (c *Cursor) Unget() {
	if c.pos > 0 {
		c.pos--
	}
}

// Find returns the offset of the first occurrence of s in the remaining
// input, or -1 if absent.
func (c *Cursor) Find(s string) int {
	rest := c.data[c.pos:]
	if len(s) > len(rest) {
		return -1
	}
	for i := 0; i+len(s) <= len(rest); i++ {
		if rest[i:i+len(s)] == s {
			return i
		}
	}
	return -1
}

// Substr returns the remaining input between offsets start and end.
func (c *Cursor) Substr(start, end int) string {
	return c.data[c.pos+start : c.pos+end]
}

// Rest returns all remaining input without consuming it.
func (c *Cursor) Rest() string {
	return c.data[c.pos:]
}
