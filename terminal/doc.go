// Package terminal encodes console rows into ANSI/VT output for a remote terminal.
//
// Features:
//   - 16-color console attributes mapped to SGR with a heuristic that reads
//     well on both light-on-dark and dark-on-light terminal schemes
//   - SGR state tracked across rows so color codes are only sent on change
//   - Relative-only cursor movement (CR, CUU, CRLF), never absolute rows
//   - Cursor hidden while a batch of rows is drawn and revealed once at its
//     final position
//   - Double-width glyph pairs, configurable output charset with '?' fallback
//   - Passthrough mode for raw console sinks
//
// A Renderer is single-writer: one output session, one goroutine at a time.
package terminal
