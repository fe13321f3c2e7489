// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/sc-decisions/pkg/types"
)

func TestComposition(t *testing.T) {
	tests := []struct {
		in   string
		want types.Composition
	}{
		{"EN BANC", types.CompositionEnBanc},
		{"En Banc", types.CompositionEnBanc},
		{"First Division", types.CompositionDivision},
		{"SECOND DIVISION", types.CompositionDivision},
		{"", types.CompositionUnspecified},
		{"???", types.CompositionUnspecified},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Composition(tt.in))
		})
	}
}

func TestCategory(t *testing.T) {
	assert.Equal(t, types.CategoryDecision, Category("DECISION", false))
	assert.Equal(t, types.CategoryDecision, Category("D E C I S I O N", false))
	assert.Equal(t, types.CategoryResolution, Category("Resolution", false))
	assert.Equal(t, types.CategoryResolution, Category("DECISION", true))
	assert.Equal(t, types.CategoryUnspecified, Category("", false))
	assert.Equal(t, types.CategoryResolution, Category("", true))
}

func TestOpinionTags(t *testing.T) {
	assert.Equal(t, []types.OpinionTag{types.TagPonencia}, OpinionTags("Ponencia"))
	assert.Equal(t, []types.OpinionTag{types.TagConcurring, types.TagDissenting},
		OpinionTags("Concurring and Dissenting Opinion"))
	assert.Equal(t, []types.OpinionTag{types.TagSeparate}, OpinionTags("Separate Opinion"))
	assert.Empty(t, OpinionTags("Notice"))
}

func TestCleanVoting(t *testing.T) {
	got := CleanVoting("  Narvasa,   C.J.,\t(Chairman),  concur.  \n\n\n  Puno, J., on leave. ")
	assert.Equal(t, "Narvasa, C.J., (Chairman), concur.\nPuno, J., on leave.", got)
}

func TestVoteLines(t *testing.T) {
	voting := "Narvasa, C.J., Regalado, and Mendoza, JJ., concur.\n" +
		"Puno, J., took no part.\n" +
		"SO ORDERED.\n" +
		"Vitug, J., see dissenting opinion."

	got := VoteLines("gr-1995-12-1", voting)
	assert.Equal(t, []types.VoteLine{
		{DecisionID: "gr-1995-12-1", Text: "Narvasa, C.J., Regalado, and Mendoza, JJ., concur."},
		{DecisionID: "gr-1995-12-1", Text: "Puno, J., took no part."},
		{DecisionID: "gr-1995-12-1", Text: "Vitug, J., see dissenting opinion."},
	}, got)

	assert.Empty(t, VoteLines("x", ""))
}

func TestTitleTags(t *testing.T) {
	got := TitleTags("d", "People of the Philippines v. Juan Cruz and the Court of Appeals")
	var tags []string
	for _, tt := range got {
		assert.Equal(t, "d", tt.DecisionID)
		tags = append(tags, tt.Tag)
	}
	assert.Equal(t, []string{"pp", "ca"}, tags)

	assert.Empty(t, TitleTags("d", "Santos v. Reyes"))
}
