// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation parses docket and reporter citations and derives the
// stable identifiers and storage prefixes of decisions.
package citation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/sc-decisions/pkg/types"
)

// ErrNoCitation is returned when text carries neither a docket nor a
// reporter citation.
var ErrNoCitation = errors.New("no citation found")

const monthPattern = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}`

var (
	// docketRe matches "G.R. No. 123456", "A.M. No. RTJ-01-1610",
	// "G.R. Nos. L-1234", optionally followed by a promulgation date.
	docketRe = regexp.MustCompile(`(?i)\b(G\.?\s?R|A\.?\s?M|A\.?\s?C|B\.?\s?M)\.?\s*Nos?\.?\s*([A-Z]{0,4}-?\d[\w-]*)(?:\s*[,(]?\s*(` + monthPattern + `))?`)

	scraRe = regexp.MustCompile(`\b(\d{1,4})\s+SCRA\s+(\d{1,5})\b`)
	philRe = regexp.MustCompile(`\b(\d{1,4})\s+Phil\.?\s+(\d{1,5})\b`)
	offgRe = regexp.MustCompile(`\b(\d{1,4})\s+O\.\s?G\.\s+(?:No\.\s*\d+,?\s*)?(?:Supp\.?,?\s*)?(\d{1,6})\b`)

	slugRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// Docket is one docket reference found in text.
type Docket struct {
	Category string
	Serial   string
	Date     *types.Date
}

// NormalizeCategory turns "G.R." or "g r" into "GR".
func NormalizeCategory(s string) string {
	return strings.ToUpper(strings.NewReplacer(".", "", " ", "").Replace(s))
}

// NormalizeSerial uppercases a docket serial and trims stray punctuation.
func NormalizeSerial(s string) string {
	return strings.ToUpper(strings.Trim(strings.TrimSpace(s), "-.,"))
}

// FindDockets returns every docket reference in text, in order of
// appearance, with repeats.
func FindDockets(text string) []Docket {
	var out []Docket
	for _, m := range docketRe.FindAllStringSubmatch(text, -1) {
		d := Docket{
			Category: NormalizeCategory(m[1]),
			Serial:   NormalizeSerial(m[2]),
		}
		if d.Serial == "" {
			continue
		}
		if m[3] != "" {
			if parsed, err := types.ParseDate(m[3]); err == nil {
				d.Date = &parsed
			}
		}
		out = append(out, d)
	}
	return out
}

// Reports extracts the first SCRA, Phil. and O.G. citations in text.
func Reports(text string) (scra, phil, offg string) {
	if m := scraRe.FindStringSubmatch(text); m != nil {
		scra = m[1] + " SCRA " + m[2]
	}
	if m := philRe.FindStringSubmatch(text); m != nil {
		phil = m[1] + " Phil. " + m[2]
	}
	if m := offgRe.FindStringSubmatch(text); m != nil {
		offg = m[1] + " O.G. " + m[2]
	}
	return scra, phil, offg
}

// Parse reads a citation string such as
// "G.R. No. 123456, December 1, 1995, 250 SCRA 1".
func Parse(text string) (types.Citation, error) {
	var c types.Citation
	if dockets := FindDockets(text); len(dockets) > 0 {
		d := dockets[0]
		c.DocketCategory, c.DocketSerial, c.DocketDate = d.Category, d.Serial, d.Date
	}
	c.SCRA, c.Phil, c.OffG = Reports(text)
	if c.DocketCategory == "" && !c.HasReport() {
		return types.Citation{}, fmt.Errorf("%w in %q", ErrNoCitation, text)
	}
	return c, nil
}

// FromFields builds a docket citation from separately stored parts.
func FromFields(category, serial string, date types.Date) (types.Citation, error) {
	cat := NormalizeCategory(category)
	ser := NormalizeSerial(serial)
	if cat == "" || ser == "" {
		return types.Citation{}, fmt.Errorf("%w: docket category %q serial %q", ErrNoCitation, category, serial)
	}
	if date.IsZero() {
		return types.Citation{}, fmt.Errorf("%w: docket %s %s has no date", ErrNoCitation, cat, ser)
	}
	d := date
	return types.Citation{DocketCategory: cat, DocketSerial: ser, DocketDate: &d}, nil
}

// Slug lowercases s and joins its alphanumeric runs with hyphens.
func Slug(s string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// DecisionID derives "<category>-<year>-<month>-<serial>" from a docket
// citation, lower-kebab with the month unpadded.
func DecisionID(c types.Citation) (string, error) {
	if !c.HasDocket() {
		return "", fmt.Errorf("%w: citation has no complete docket", ErrNoCitation)
	}
	return Slug(fmt.Sprintf("%s-%d-%d-%s",
		c.DocketCategory, c.DocketDate.Year(), int(c.DocketDate.Month()), c.DocketSerial)), nil
}

// Prefix returns the bucket folder "<CAT>/<year>/<month>/<serial>".
func Prefix(c types.Citation) (string, error) {
	if !c.HasDocket() {
		return "", fmt.Errorf("%w: citation has no complete docket", ErrNoCitation)
	}
	return fmt.Sprintf("%s/%d/%d/%s",
		NormalizeCategory(c.DocketCategory), c.DocketDate.Year(), int(c.DocketDate.Month()), c.DocketSerial), nil
}

// IDFromPrefix maps a bucket folder to its decision id. Docketed folders
// follow "<CAT>/<year>/<month>/<serial>"; anything else is a legacy folder
// keyed by the slug of its last component.
func IDFromPrefix(prefix string) string {
	parts := strings.Split(strings.Trim(prefix, "/"), "/")
	if len(parts) == 4 && isNumber(parts[1]) && isNumber(parts[2]) {
		month, _ := strconv.Atoi(parts[2])
		return Slug(fmt.Sprintf("%s-%s-%d-%s", parts[0], parts[1], month, parts[3]))
	}
	return Slug(parts[len(parts)-1])
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
