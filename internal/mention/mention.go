// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mention finds citation and statute references in opinion text
// and reduces them to per-opinion mention counts.
package mention

import (
	"github.com/pdiddy/sc-decisions/pkg/types"
)

// CitationHit is one occurrence of a docket reference.
type CitationHit struct {
	DocketCategory string
	DocketSerial   string
	DocketDate     *types.Date
}

// StatuteHit is one occurrence of a statute reference.
type StatuteHit struct {
	Category string
	SerialID string
}

// Grammar extracts raw hits from text. Hits repeat once per occurrence.
type Grammar interface {
	Citations(text string) []CitationHit
	Statutes(text string) []StatuteHit
}

type key struct {
	category string
	serial   string
}

// tally counts keys in first-seen order.
type tally struct {
	order  []key
	counts map[key]int
}

func newTally() *tally {
	return &tally{counts: make(map[key]int)}
}

func (t *tally) add(k key) {
	if k.category == "" || k.serial == "" {
		return
	}
	if _, seen := t.counts[k]; !seen {
		t.order = append(t.order, k)
	}
	t.counts[k]++
}

func (t *tally) each(fn func(k key, n int)) {
	for _, k := range t.order {
		if n := t.counts[k]; n >= 1 {
			fn(k, n)
		}
	}
}

// AggregateCitations groups hits by (category, serial) and counts them.
// Output order follows first appearance.
func AggregateCitations(hits []CitationHit) []types.CitationMention {
	t := newTally()
	for _, h := range hits {
		t.add(key{h.DocketCategory, h.DocketSerial})
	}
	var out []types.CitationMention
	t.each(func(k key, n int) {
		out = append(out, types.CitationMention{Category: k.category, SerialID: k.serial, Mentions: n})
	})
	return out
}

// AggregateStatutes groups hits by (category, serial) and counts them.
// Output order follows first appearance.
func AggregateStatutes(hits []StatuteHit) []types.StatuteMention {
	t := newTally()
	for _, h := range hits {
		t.add(key{h.Category, h.SerialID})
	}
	var out []types.StatuteMention
	t.each(func(k key, n int) {
		out = append(out, types.StatuteMention{Category: k.category, SerialID: k.serial, Mentions: n})
	})
	return out
}

// Extract runs g over text and aggregates both kinds of hits.
func Extract(g Grammar, text string) ([]types.CitationMention, []types.StatuteMention) {
	return AggregateCitations(g.Citations(text)), AggregateStatutes(g.Statutes(text))
}
