package terminal

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	gencoding "github.com/gdamore/encoding"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnknownCharset is returned by LookupCharset for unsupported names
var ErrUnknownCharset = errors.New("unknown output charset")

// asciiSub is the substitution byte gdamore/encoding emits for unmapped runes
const asciiSub = 0x1a

// Charset encodes code points into the remote terminal's character set
type Charset interface {
	// Name returns the canonical charset name
	Name() string
	// AppendRune appends the encoding of r; ok is false if r is unrepresentable
	AppendRune(dst []byte, r rune) (out []byte, ok bool)
}

// UTF8 is the default output charset
var UTF8 Charset = utf8Charset{}

type utf8Charset struct{}

func (utf8Charset) Name() string { return "utf-8" }

func (utf8Charset) AppendRune(dst []byte, r rune) ([]byte, bool) {
	if !utf8.ValidRune(r) {
		return dst, false
	}
	return utf8.AppendRune(dst, r), true
}

// charmapCharset covers single-byte code pages such as IBM437 and ISO-8859-1
type charmapCharset struct {
	name string
	cm   *charmap.Charmap
}

func (c charmapCharset) Name() string { return c.name }

func (c charmapCharset) AppendRune(dst []byte, r rune) ([]byte, bool) {
	b, ok := c.cm.EncodeRune(r)
	if !ok {
		return dst, false
	}
	return append(dst, b), true
}

// encoderCharset wraps any x/text encoding; an encoder error means unrepresentable
type encoderCharset struct {
	name string
	enc  *encoding.Encoder
	// sub is a substitution byte the encoder emits instead of failing, or -1
	sub int
	buf [utf8.UTFMax]byte
}

func (c *encoderCharset) Name() string { return c.name }

func (c *encoderCharset) AppendRune(dst []byte, r rune) ([]byte, bool) {
	if !utf8.ValidRune(r) {
		return dst, false
	}
	n := utf8.EncodeRune(c.buf[:], r)
	out, err := c.enc.Bytes(c.buf[:n])
	if err != nil || len(out) == 0 {
		return dst, false
	}
	if c.sub >= 0 && len(out) == 1 && int(out[0]) == c.sub && r != rune(c.sub) {
		return dst, false
	}
	return append(dst, out...), true
}

// LookupCharset resolves an output charset by name. Names are matched
// case-insensitively against IANA names and aliases ("utf-8", "ascii",
// "ibm437", "iso-8859-1", "windows-1252", "shift_jis", ...).
func LookupCharset(name string) (Charset, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "ascii", "us-ascii":
		return &encoderCharset{name: "us-ascii", enc: gencoding.ASCII.NewEncoder(), sub: asciiSub}, nil
	}

	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = key
	}
	canonical = strings.ToLower(canonical)

	if enc == unicode.UTF8 {
		return UTF8, nil
	}
	if cm, ok := enc.(*charmap.Charmap); ok {
		return charmapCharset{name: canonical, cm: cm}, nil
	}
	return &encoderCharset{name: canonical, enc: enc.NewEncoder(), sub: -1}, nil
}
