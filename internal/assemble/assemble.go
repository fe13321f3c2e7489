// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble turns normalized drafts into the persistable decision
// graph: ids, segments, mention counts, opinion tags, vote lines and
// title tags.
package assemble

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/sc-decisions/internal/citation"
	"github.com/pdiddy/sc-decisions/internal/classify"
	"github.com/pdiddy/sc-decisions/internal/mention"
	"github.com/pdiddy/sc-decisions/internal/segment"
	"github.com/pdiddy/sc-decisions/internal/source"
	"github.com/pdiddy/sc-decisions/pkg/types"
)

// Assembler builds DecisionRecords.
type Assembler struct {
	minChars int
	grammar  mention.Grammar
	log      *zap.Logger
}

// New returns an Assembler. A nil grammar selects mention.RegexGrammar and
// a minChars of zero selects segment.DefaultMinChars.
func New(minChars int, grammar mention.Grammar, log *zap.Logger) *Assembler {
	if grammar == nil {
		grammar = mention.RegexGrammar{}
	}
	if minChars <= 0 {
		minChars = segment.DefaultMinChars
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{minChars: minChars, grammar: grammar, log: log}
}

// DecisionID derives the id of a draft: from its docket, or from its
// folder name when the draft is legacy.
func DecisionID(f *source.DraftFields) (string, error) {
	if f.Legacy || !f.Citation.HasDocket() {
		id := citation.IDFromPrefix(f.Prefix)
		if id == "" {
			return "", fmt.Errorf("%w: legacy record has no folder name", source.ErrValidation)
		}
		return id, nil
	}
	id, err := citation.DecisionID(f.Citation)
	if err != nil {
		return "", fmt.Errorf("%w: %v", source.ErrValidation, err)
	}
	return id, nil
}

// Assemble builds the record graph for d.
func (a *Assembler) Assemble(d source.Draft) (*types.DecisionRecord, error) {
	f := d.Fields()

	id, err := DecisionID(f)
	if err != nil {
		return nil, err
	}

	log := a.log.With(zap.String("decision", id))
	switch v := d.(type) {
	case *source.PDFDraft:
		log = log.With(zap.String("row", v.RowID))
	case *source.HTMLDraft:
		log = log.With(zap.String("prefix", v.Prefix))
	}

	rec := &types.DecisionRecord{
		Decision: types.Decision{
			ID:          id,
			Origin:      f.Origin,
			Title:       f.Title,
			Description: f.Citation.Display(),
			Date:        f.Date,
			DateScraped: f.DateScraped,
			Composition: f.Composition,
			Category:    f.Category,
			RawPonente:  f.Ponente.RawPonente,
			JusticeID:   f.Ponente.JusticeID,
			PerCuriam:   f.Ponente.PerCuriam,
			IsPDF:       d.IsPDF(),
			Fallo:       f.Fallo,
			Voting:      f.Voting,
			Citation:    f.Citation,
			Emails:      f.Emails,
		},
		VoteLines: classify.VoteLines(id, f.Voting),
		TitleTags: classify.TitleTags(id, f.Title),
	}

	ponencias := 0
	for _, op := range f.Opinions {
		rec.Opinions = append(rec.Opinions, a.opinion(id, op))
		if types.IsMainOpinion(op.Title) {
			ponencias++
		}
	}
	if ponencias != 1 {
		log.Warn("decision should have exactly one ponencia", zap.Int("ponencias", ponencias))
	}
	return rec, nil
}

func (a *Assembler) opinion(decisionID string, op source.DraftOpinion) types.Opinion {
	opinionID := decisionID + "-" + op.Key
	cites, statutes := mention.Extract(a.grammar, op.Text)
	return types.Opinion{
		ID:         opinionID,
		DecisionID: decisionID,
		JusticeID:  op.JusticeID,
		Title:      op.Title,
		Text:       op.Text,
		PDF:        op.PDF,
		Remark:     op.Remark,
		Tags:       classify.OpinionTags(op.Title),
		Statutes:   statutes,
		Segments:   segment.Segments(decisionID, opinionID, op.Text, a.minChars),
		Citations:  cites,
	}
}
