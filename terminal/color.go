package terminal

import "github.com/fcccode/winpty/console"

// SGR parameters
const (
	sgrReset   = 0
	sgrBold    = 1
	sgrInvert  = 7
	sgrConceal = 8
	sgrFore    = 30
	sgrForeHi  = 90
	sgrBack    = 40
	sgrBackHi  = 100
)

// backgroundClass selects the mapping strategy for a cell's background.
// The terminal's own default scheme is unknown: light-gray-on-black (xterm,
// putty, mintty, Konsole) and black-on-white (rxvt, JetBrains) are both common,
// so grayscale backgrounds are expressed relative to the terminal defaults.
type backgroundClass uint8

const (
	// backgroundBlack maps to the terminal's default background
	backgroundBlack backgroundClass = iota
	// backgroundWhite maps to the inverted terminal default
	backgroundWhite
	// backgroundOther is sent as an explicit color
	backgroundOther
)

func classifyBackground(back console.Color) backgroundClass {
	switch back {
	case console.Black:
		return backgroundBlack
	case console.White:
		return backgroundWhite
	default:
		return backgroundOther
	}
}

// SGR returns the complete Select Graphic Rendition sequence for a color pair
func SGR(fore, back console.Color) string {
	return string(AppendSGR(nil, fore, back))
}

// AppendSGR appends the SGR sequence approximating fore on back.
// The sequence always starts with a reset so bold/invert/conceal from a
// previous sequence never leaks forward.
func AppendSGR(dst []byte, fore, back console.Color) []byte {
	dst = append(dst, csi...)
	dst = appendInt(dst, sgrReset)

	switch classifyBackground(back) {
	case backgroundBlack:
		switch fore {
		case console.LightGray:
			// Terminal default foreground
		case console.White:
			// Literal white vanishes on black-on-white terminals; bold keeps
			// the text distinct on both schemes
			dst = appendParam(dst, sgrBold)
		case console.DarkGray:
			// Falls back to light gray (37) rather than black, which would be
			// invisible on the default background
			dst = appendParam(dst, sgrFore+int(console.LightGray))
			dst = appendParam(dst, sgrForeHi+int(console.Black))
		default:
			dst = appendColorParams(dst, sgrFore, fore)
		}

	case backgroundWhite:
		dst = appendParam(dst, sgrInvert)
		if fore != console.LightGray && fore != console.Black {
			// Under inversion the background code colors the glyphs
			dst = appendColorParams(dst, sgrBack, fore)
		}

	case backgroundOther:
		dst = appendColorParams(dst, sgrFore, fore)
		dst = appendColorParams(dst, sgrBack, back)
	}

	if fore == back {
		dst = appendParam(dst, sgrConceal)
	}
	return append(dst, 'm')
}

func appendParam(dst []byte, p int) []byte {
	dst = append(dst, ';')
	return appendInt(dst, p)
}

// appendColorParams appends a 3X/4X color parameter. Bright colors get the
// plain code first and the 9X/10X code second: terminals lacking the bright
// codes ignore them and keep the plain color, the rest override it.
func appendColorParams(dst []byte, base int, c console.Color) []byte {
	plain := int(c &^ console.FlagBright)
	dst = appendParam(dst, base+plain)
	if c&console.FlagBright != 0 {
		dst = appendParam(dst, base+(sgrForeHi-sgrFore)+plain)
	}
	return dst
}
