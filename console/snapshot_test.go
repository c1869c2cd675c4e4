package console

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const sampleSnapshot = `{
  "width": 8,
  "height": 3,
  "cursor": {"x": 2, "y": 1},
  "rows": [
    {"text": "hello"},
    {"text": "中x", "attr": 31},
    {"text": "ab", "attrs": [7, 78]}
  ]
}`

func TestParseSnapshot(t *testing.T) {
	scr, err := ParseSnapshot([]byte(sampleSnapshot))
	require.NoError(t, err)

	require.Equal(t, 8, scr.Width)
	require.Equal(t, 3, scr.Height)
	require.Equal(t, 2, scr.CursorX)
	require.Equal(t, 1, scr.CursorY)

	require.Equal(t, "hello   ", rowString(scr.Rows[0]))
	require.Equal(t, DefaultAttr, scr.Rows[0][0].Attr)

	wide := scr.Rows[1]
	require.True(t, wide[0].Leading())
	require.True(t, wide[1].Trailing())
	require.Equal(t, Attr(31), wide[0].Color())
	require.Equal(t, Attr(31), wide[7].Color())

	mixed := scr.Rows[2]
	require.Equal(t, DefaultAttr, mixed[0].Attr)
	require.Equal(t, Attr(78), mixed[1].Attr)
	require.Equal(t, DefaultAttr, mixed[2].Attr)
}

func TestParseSnapshotDerivesSize(t *testing.T) {
	scr, err := ParseSnapshot([]byte(`{"rows":[{"text":"abc"},{"text":"中中中"}]}`))
	require.NoError(t, err)
	require.Equal(t, 6, scr.Width)
	require.Equal(t, 2, scr.Height)
}

func TestParseSnapshotInvalid(t *testing.T) {
	_, err := ParseSnapshot([]byte(`{"rows": [`))
	require.True(t, errors.Is(err, ErrInvalidSnapshot))

	_, err = ParseSnapshot([]byte(`[1, 2]`))
	require.True(t, errors.Is(err, ErrInvalidSnapshot))
}

func TestEncodeSnapshot(t *testing.T) {
	scr := NewScreen(5, 2)
	scr.Rows[0] = RowFromString("中ab", 5, MakeAttr(FlagGreen, Black))
	scr.Rows[1] = RowFromString("x", 5, DefaultAttr)
	scr.Rows[1][2].Attr = MakeAttr(FlagRed, FlagBlue)
	scr.SetCursor(3, 1)

	data, err := EncodeSnapshot(scr)
	require.NoError(t, err)

	back, err := ParseSnapshot(data)
	require.NoError(t, err)
	require.Equal(t, scr.Width, back.Width)
	require.Equal(t, scr.Height, back.Height)
	require.Equal(t, scr.CursorX, back.CursorX)
	require.Equal(t, scr.CursorY, back.CursorY)
	for y := range scr.Rows {
		require.True(t, scr.Rows[y].Equal(back.Rows[y]), "row %d: %q vs %q", y, rowString(scr.Rows[y]), rowString(back.Rows[y]))
	}
}

func TestParseSnapshotRejectsOversize(t *testing.T) {
	docs := []string{
		`{"width":4611686018427387904,"height":1,"rows":[]}`,
		`{"width":80,"height":40000,"rows":[]}`,
		`{"width":30000,"height":30000,"rows":[]}`,
	}
	for _, doc := range docs {
		scr, err := ParseSnapshot([]byte(doc))
		require.Nil(t, scr, doc)
		require.True(t, errors.Is(err, ErrInvalidSnapshot), "%s: %v", doc, err)
	}

	scr, err := ParseSnapshot([]byte(`{"width":200,"height":100,"rows":[]}`))
	require.NoError(t, err)
	require.Equal(t, 200, scr.Width)
}

func TestSnapshotKeepsPopupCodes(t *testing.T) {
	scr, err := ParseSnapshot([]byte(`{"width":3,"rows":[{"text":"\u0001\u0006x"}]}`))
	require.NoError(t, err)
	require.Equal(t, []rune{1, 6, 'x'}, []rune{scr.Rows[0][0].Ch, scr.Rows[0][1].Ch, scr.Rows[0][2].Ch})

	data, err := EncodeSnapshot(scr)
	require.NoError(t, err)
	back, err := ParseSnapshot(data)
	require.NoError(t, err)
	require.True(t, scr.Rows[0].Equal(back.Rows[0]))
}
