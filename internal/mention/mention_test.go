// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sc-decisions/pkg/types"
)

func TestAggregateCitations(t *testing.T) {
	hits := []CitationHit{
		{DocketCategory: "gr", DocketSerial: "2"},
		{DocketCategory: "gr", DocketSerial: "1"},
		{DocketCategory: "gr", DocketSerial: "2"},
		{DocketCategory: "am", DocketSerial: "2"},
		{DocketCategory: "gr", DocketSerial: "2"},
		{DocketCategory: "", DocketSerial: "9"},
	}

	got := AggregateCitations(hits)
	assert.Equal(t, []types.CitationMention{
		{Category: "gr", SerialID: "2", Mentions: 3},
		{Category: "gr", SerialID: "1", Mentions: 1},
		{Category: "am", SerialID: "2", Mentions: 1},
	}, got)
}

func TestAggregateStatutes_Invariants(t *testing.T) {
	hits := []StatuteHit{
		{"ra", "386"}, {"ra", "386"}, {"pd", "442"}, {"ra", "386"}, {"pd", "442"}, {"eo", "209"},
	}
	got := AggregateStatutes(hits)

	seen := map[[2]string]bool{}
	total := 0
	for _, m := range got {
		assert.GreaterOrEqual(t, m.Mentions, 1)
		k := [2]string{m.Category, m.SerialID}
		assert.False(t, seen[k], "duplicate %v", k)
		seen[k] = true
		total += m.Mentions
	}
	assert.Equal(t, len(hits), total)
	assert.Len(t, got, 3)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, AggregateCitations(nil))
	assert.Empty(t, AggregateStatutes(nil))
}

func TestRegexGrammar_Statutes(t *testing.T) {
	text := "Under Republic Act No. 7160 and R.A. 7160, as well as P.D. No. 1529, " +
		"Batas Pambansa Blg. 22, E.O. No. 209, Commonwealth Act No. 141 and Act No. 3135. " +
		"The Civil Code and the Revised Penal Code apply."

	got := RegexGrammar{}.Statutes(text)
	assert.Equal(t, []StatuteHit{
		{CategoryRA, "7160"},
		{CategoryRA, "7160"},
		{CategoryPD, "1529"},
		{CategoryBP, "22"},
		{CategoryEO, "209"},
		{CategoryCA, "141"},
		{CategoryAct, "3135"},
		{CategoryRA, "386"},
		{CategoryAct, "3815"},
	}, got)
}

func TestRegexGrammar_Citations(t *testing.T) {
	text := "In G.R. No. 123456, December 1, 1995, the Court cited G.R. No. 123456 and A.M. No. P-05-2035."
	hits := RegexGrammar{}.Citations(text)
	require.Len(t, hits, 3)
	assert.Equal(t, "gr", hits[0].DocketCategory)
	require.NotNil(t, hits[0].DocketDate)
	assert.Nil(t, hits[1].DocketDate)

	cites, statutes := Extract(RegexGrammar{}, text)
	assert.Equal(t, []types.CitationMention{
		{Category: "gr", SerialID: "123456", Mentions: 2},
		{Category: "am", SerialID: "P-05-2035", Mentions: 1},
	}, cites)
	assert.Empty(t, statutes)
}
