// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits opinion text into position-tagged lines used as
// search snippets.
package segment

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/sc-decisions/pkg/types"
)

// DefaultMinChars is the exclusive lower bound on a segment's length.
const DefaultMinChars = 10

// FootnoteMarker is the line that separates the body from its footnotes.
// Segmentation stops at the first occurrence.
const FootnoteMarker = "---"

var (
	paragraphRe = regexp.MustCompile(`\s*\n\s*\n\s*`)
	lineRe      = regexp.MustCompile(`\s*\n\s*`)
)

var quirks = strings.NewReplacer(
	"\u00a0", "",
	"\u00ad", "-",
	"\u2018", "'",
	"\u2019", "'",
	"\u201c", `"`,
	"\u201d", `"`,
)

// Standardize removes non-breaking spaces, turns soft hyphens into
// hyphens and smart quotes into ASCII quotes, then trims the text.
func Standardize(text string) string {
	return strings.TrimSpace(quirks.Replace(text))
}

// Piece is one emitted line of text.
type Piece struct {
	Paragraph int
	Line      int
	Text      string
}

// Position renders the piece's "<paragraph>-<line>" position.
func (p Piece) Position() string {
	return fmt.Sprintf("%d-%d", p.Paragraph, p.Line)
}

// CharCount is the number of runes in the piece.
func (p Piece) CharCount() int {
	return utf8.RuneCountInString(p.Text)
}

// Split lazily yields the lines of text longer than minChars runes, in
// order. It stops at the first FootnoteMarker line. A minChars of zero or
// less selects DefaultMinChars.
func Split(text string, minChars int) iter.Seq[Piece] {
	if minChars <= 0 {
		minChars = DefaultMinChars
	}
	return func(yield func(Piece) bool) {
		std := Standardize(text)
		if std == "" {
			return
		}
		for i, para := range paragraphRe.Split(std, -1) {
			for j, line := range lineRe.Split(para, -1) {
				if line == FootnoteMarker {
					return
				}
				p := Piece{Paragraph: i, Line: j, Text: line}
				if p.CharCount() <= minChars {
					continue
				}
				if !yield(p) {
					return
				}
			}
		}
	}
}

// Segments collects the segments of one opinion.
func Segments(decisionID, opinionID, text string, minChars int) []types.Segment {
	var out []types.Segment
	for p := range Split(text, minChars) {
		pos := p.Position()
		out = append(out, types.Segment{
			ID:         opinionID + "-" + pos,
			DecisionID: decisionID,
			OpinionID:  opinionID,
			Position:   pos,
			CharCount:  p.CharCount(),
			Text:       p.Text,
		})
	}
	return out
}
