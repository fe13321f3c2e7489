// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mention

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/sc-decisions/internal/citation"
)

// Statute categories.
const (
	CategoryRA  = "ra"
	CategoryBP  = "bp"
	CategoryPD  = "pd"
	CategoryEO  = "eo"
	CategoryCA  = "ca"
	CategoryAct = "act"
)

type statutePattern struct {
	category string
	re       *regexp.Regexp
}

var statutePatterns = []statutePattern{
	{CategoryRA, regexp.MustCompile(`\b(?:Republic\s+Act|R\.\s?A\.|RA)\s*(?:No\.?\s*)?(\d+)`)},
	{CategoryBP, regexp.MustCompile(`\b(?:Batas\s+Pambansa|B\.\s?P\.|BP)\s*(?:Blg\.?\s*|No\.?\s*)?(\d+)`)},
	{CategoryPD, regexp.MustCompile(`\b(?:Presidential\s+Decree|P\.\s?D\.|PD)\s*(?:No\.?\s*)?(\d+)`)},
	{CategoryEO, regexp.MustCompile(`\b(?:Executive\s+Order|E\.\s?O\.|EO)\s*(?:No\.?\s*)?(\d+)`)},
	{CategoryCA, regexp.MustCompile(`\b(?:Commonwealth\s+Act|C\.\s?A\.|Com\.\s+Act)\s*No\.\s*(\d+)`)},
	{CategoryAct, regexp.MustCompile(`\bAct\s+No\.?\s*(\d+)`)},
}

// namedCodes maps codified statutes cited by name to their enacting law.
var namedCodes = []struct {
	re  *regexp.Regexp
	hit StatuteHit
}{
	{regexp.MustCompile(`\bCivil\s+Code\b`), StatuteHit{CategoryRA, "386"}},
	{regexp.MustCompile(`\bRevised\s+Penal\s+Code\b`), StatuteHit{CategoryAct, "3815"}},
	{regexp.MustCompile(`\bFamily\s+Code\b`), StatuteHit{CategoryEO, "209"}},
	{regexp.MustCompile(`\bLabor\s+Code\b`), StatuteHit{CategoryPD, "442"}},
	{regexp.MustCompile(`\bLocal\s+Government\s+Code\b`), StatuteHit{CategoryRA, "7160"}},
	{regexp.MustCompile(`\b(?:National\s+Internal\s+Revenue\s+Code|Tax\s+Code)\b`), StatuteHit{CategoryRA, "8424"}},
	{regexp.MustCompile(`\bCorporation\s+Code\b`), StatuteHit{CategoryBP, "68"}},
}

// RegexGrammar is the default Grammar. Citations come from docket
// references; statutes from numbered laws and named codes.
type RegexGrammar struct{}

// Citations returns one hit per docket reference in text.
func (RegexGrammar) Citations(text string) []CitationHit {
	var hits []CitationHit
	for _, d := range citation.FindDockets(text) {
		hits = append(hits, CitationHit{
			DocketCategory: strings.ToLower(d.Category),
			DocketSerial:   d.Serial,
			DocketDate:     d.Date,
		})
	}
	return hits
}

// Statutes returns one hit per statute reference, in text order.
func (RegexGrammar) Statutes(text string) []StatuteHit {
	type positioned struct {
		at  int
		hit StatuteHit
	}
	var found []positioned

	for _, p := range statutePatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			if p.category == CategoryAct && qualifiedAct(text, m[0]) {
				continue
			}
			found = append(found, positioned{m[0], StatuteHit{p.category, text[m[2]:m[3]]}})
		}
	}
	for _, c := range namedCodes {
		for _, m := range c.re.FindAllStringIndex(text, -1) {
			found = append(found, positioned{m[0], c.hit})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].at < found[j].at })
	hits := make([]StatuteHit, len(found))
	for i, f := range found {
		hits[i] = f.hit
	}
	return hits
}

// qualifiedAct reports whether the "Act" at pos belongs to a Republic or
// Commonwealth Act, which other patterns already capture.
func qualifiedAct(text string, pos int) bool {
	before := strings.TrimSpace(text[max(0, pos-16):pos])
	return strings.HasSuffix(before, "Republic") || strings.HasSuffix(before, "Commonwealth")
}
