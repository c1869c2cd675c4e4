package terminal

// Pre-allocated ANSI sequence fragments (avoid allocations during render)
var (
	csi     = []byte("\x1b[")
	csiSGR0 = []byte("\x1b[0m")

	// SGR0, cursor to top-left, clear entire screen
	csiResetScreen = []byte("\x1b[0m\x1b[1;1H\x1b[2J")

	// Erase in Line: entire line
	csiEraseLine = []byte("\x1b[2K")

	// Cursor control
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	// Line movement; CNL/CPL are avoided since some terminals lack CPL and
	// CNL does nothing on the last row
	crOnly = []byte("\r")
	crLF   = []byte("\r\n")
)

// appendInt appends a non-negative decimal integer without allocation
func appendInt(dst []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		return append(dst, byte(n)+'0')
	}
	if n < 100 {
		return append(dst, byte(n/10)+'0', byte(n%10)+'0')
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	return append(dst, buf[i:]...)
}

// appendCursorUp appends CR followed by CUU n
func appendCursorUp(dst []byte, n int) []byte {
	dst = append(dst, '\r')
	dst = append(dst, csi...)
	dst = appendInt(dst, n)
	return append(dst, 'A')
}

// appendCursorSettle appends CHA for a 0-indexed column followed by cursor show
func appendCursorSettle(dst []byte, col int) []byte {
	dst = append(dst, csi...)
	dst = appendInt(dst, col+1)
	dst = append(dst, 'G')
	return append(dst, csiCursorShow...)
}
