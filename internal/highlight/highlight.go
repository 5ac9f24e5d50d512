// Package highlight maps word-offset highlights onto plain-text paragraphs
// and renders them with terminal colors.
package highlight

import (
	"fmt"
	"strings"

	"github.com/and161185/glnotes/internal/ansi"
	"github.com/and161185/glnotes/internal/errs"
	"github.com/and161185/glnotes/internal/model"
)

// Unbounded marks an offset that extends to the paragraph boundary.
const Unbounded = -1

// wordSep is the only separator the service counts words by.
// Consecutive spaces are not collapsed.
const wordSep = " "

// Span returns the byte range [from, to) of paragraph covered by the words
// start..end (1-based, inclusive).
//
// start <= 1 (including Unbounded) begins at the first word; end == Unbounded
// runs to the end of the paragraph. Offsets past the last word clamp to the
// paragraph end, and a range whose end precedes its start is empty.
func Span(paragraph string, start, end int) (from, to int) {
	words := strings.Split(paragraph, wordSep)

	if start > 1 {
		n := min(start-1, len(words))
		from = len(strings.Join(words[:n], wordSep)) + len(wordSep)
	}
	from = min(from, len(paragraph))

	if end == Unbounded {
		to = len(paragraph)
	} else if end > 0 {
		to = len(strings.Join(words[:min(end, len(words))], wordSep))
	}
	to = max(to, from)
	return from, to
}

// Escape returns the escape sequence for a color/style pair. Unknown values
// fail with an UnreachableCaseError rather than a default color.
func Escape(color model.Color, style model.Style) (string, error) {
	var seq string
	switch color {
	case model.ColorRed:
		seq = ansi.BgRed
	case model.ColorPink:
		seq = ansi.BgRed + ansi.Dim
	case model.ColorOrange:
		seq = ansi.BgYellow + ansi.Dim
	case model.ColorYellow:
		seq = ansi.BgYellow
	case model.ColorGreen:
		seq = ansi.BgGreen
	case model.ColorBlue:
		seq = ansi.BgBlue
	case model.ColorBrown:
		seq = ansi.BgGreen + ansi.Dim
	case model.ColorGray:
		seq = ansi.BgGray
	case model.ColorClear:
		seq = ansi.Bright
	default:
		return "", errs.Unreachable(color)
	}

	switch style {
	case "":
	case model.StyleRedUnderline:
		// simulates a colored underline
		seq += ansi.Underscore
	default:
		return "", errs.Unreachable(style)
	}
	return seq, nil
}

// Colorize wraps the span of paragraph covered by h in h's color.
func Colorize(paragraph string, h model.Highlight) (string, error) {
	seq, err := Escape(h.Color, h.Style)
	if err != nil {
		return "", fmt.Errorf("highlight %s: %w", h.PID, err)
	}
	from, to := Span(paragraph, h.StartOffset, h.EndOffset)
	return paragraph[:from] + seq + paragraph[from:to] + ansi.Reset + paragraph[to:], nil
}

// Describe summarizes h, e.g. "red underline from word 18 to end".
func Describe(h model.Highlight) string {
	kind := "highlight"
	if h.Style == model.StyleRedUnderline {
		kind = "underline"
	}
	from := fmt.Sprintf("word %d", h.StartOffset)
	if h.StartOffset == Unbounded {
		from = "start"
	}
	to := fmt.Sprintf("word %d", h.EndOffset)
	if h.EndOffset == Unbounded {
		to = "end"
	}
	return fmt.Sprintf("%s %s from %s to %s", h.Color, kind, from, to)
}
