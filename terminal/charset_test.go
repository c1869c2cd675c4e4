package terminal

import (
	"errors"
	"testing"
)

func TestLookupCharset(t *testing.T) {
	tests := []struct {
		name    string
		charset string
		in      rune
		want    string
		ok      bool
	}{
		{"default is utf-8", "", 'é', "é", true},
		{"utf-8 alias", "UTF8", '中', "中", true},
		{"utf-8 rejects surrogates", "utf-8", 0xDC00, "", false},
		{"ascii passes ascii", "ascii", 'A', "A", true},
		{"ascii rejects latin", "US-ASCII", 'é', "", false},
		{"ascii keeps literal substitute", "ascii", 0x1a, "\x1a", true},
		{"cp437 box drawing", "ibm437", '╔', "\xc9", true},
		{"cp437 upper case", "IBM437", 'é', "\x82", true},
		{"latin1", "iso-8859-1", 'é', "\xe9", true},
		{"latin1 has no euro", "ISO-8859-1", '€', "", false},
		{"windows-1252 euro", "windows-1252", '€', "\x80", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := LookupCharset(tt.charset)
			if err != nil {
				t.Fatalf("LookupCharset(%q): %v", tt.charset, err)
			}
			out, ok := cs.AppendRune([]byte("x"), tt.in)
			if ok != tt.ok {
				t.Fatalf("AppendRune(%U) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if got := string(out[1:]); got != tt.want {
				t.Errorf("AppendRune(%U) = %q, want %q", tt.in, got, tt.want)
			}
			if string(out[:1]) != "x" {
				t.Errorf("AppendRune clobbered destination prefix: %q", out)
			}
		})
	}
}

func TestLookupCharsetUnknown(t *testing.T) {
	_, err := LookupCharset("klingon-8")
	if !errors.Is(err, ErrUnknownCharset) {
		t.Errorf("expected ErrUnknownCharset, got %v", err)
	}
}

func TestCharsetNames(t *testing.T) {
	for in, want := range map[string]string{"": "utf-8", "utf8": "utf-8", "ascii": "us-ascii"} {
		cs, err := LookupCharset(in)
		if err != nil {
			t.Fatalf("LookupCharset(%q): %v", in, err)
		}
		if cs.Name() != want {
			t.Errorf("LookupCharset(%q).Name() = %q, want %q", in, cs.Name(), want)
		}
	}
}
