package console

import "testing"

func rowString(r Row) string {
	var out []rune
	for _, c := range r {
		switch {
		case c.Trailing():
			out = append(out, '>')
		default:
			out = append(out, c.Ch)
		}
	}
	return string(out)
}

func TestRowFromString(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"pads", "ab", 4, "ab  "},
		{"truncates", "abcdef", 3, "abc"},
		{"wide glyph", "a中b", 5, "a中>b "},
		{"wide glyph at edge", "ab中", 3, "ab "},
		{"combining mark folded", "e\u0301x", 3, "ex "},
		{"tab becomes space", "a\tb", 3, "a b"},
		{"controls dropped", "a\x07b", 3, "ab "},
		{"popup codes kept", "\x01\x06x", 4, "\x01\x06x "},
		{"empty", "", 2, "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := RowFromString(tt.text, tt.width, DefaultAttr)
			if len(row) != tt.width {
				t.Fatalf("len = %d, want %d", len(row), tt.width)
			}
			if got := rowString(row); got != tt.want {
				t.Errorf("RowFromString(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestRowFromStringFlags(t *testing.T) {
	attr := MakeAttr(FlagRed, FlagBlue) | LeadingByte
	row := RowFromString("中x", 3, attr)

	if !row[0].Leading() || row[0].Trailing() {
		t.Errorf("cell 0 should be leading: %#x", row[0].Attr)
	}
	if !row[1].Trailing() || row[1].Leading() {
		t.Errorf("cell 1 should be trailing: %#x", row[1].Attr)
	}
	if row[2].Leading() || row[2].Trailing() {
		t.Errorf("cell 2 should carry no width flags: %#x", row[2].Attr)
	}
	for i, c := range row {
		if c.Color() != MakeAttr(FlagRed, FlagBlue) {
			t.Errorf("cell %d color = %#x", i, c.Color())
		}
	}
}

func TestRowFromStringZeroWidth(t *testing.T) {
	if row := RowFromString("abc", 0, DefaultAttr); len(row) != 0 {
		t.Errorf("expected empty row, got %d cells", len(row))
	}
}

func TestStringWidth(t *testing.T) {
	tests := map[string]int{
		"":         0,
		"abc":      3,
		"a中b":      4,
		"e\u0301":  1,
		"日本語":      6,
		"a\x07\x08": 1,
		"\x01\x06":  2,
	}
	for in, want := range tests {
		if got := StringWidth(in); got != want {
			t.Errorf("StringWidth(%q) = %d, want %d", in, got, want)
		}
	}
}
