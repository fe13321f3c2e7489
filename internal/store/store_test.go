// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sc-decisions/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T, log *zap.Logger) *Store {
	t.Helper()
	s, err := NewStore(types.DatabaseConfig{Path: filepath.Join(t.TempDir(), "db", "decisions.db")}, log)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	chief := types.NewDate(2005, time.December, 20)
	require.NoError(t, s.SyncRoster(context.Background(), []types.Justice{
		{ID: 131, LastName: "Puno", StartTerm: types.NewDate(1993, time.June, 28), InactiveDate: types.NewDate(2010, time.May, 17)},
		{ID: 137, LastName: "Panganiban", StartTerm: types.NewDate(1995, time.October, 10),
			InactiveDate: types.NewDate(2006, time.December, 6), ChiefDate: &chief},
	}))
	return s
}

func intPtr137() *int { n := 137; return &n }

func testRecord() *types.DecisionRecord {
	date := types.NewDate(2006, time.March, 30)
	id := "gr-2006-3-123456"
	opID := id + "-ponencia"
	return &types.DecisionRecord{
		Decision: types.Decision{
			ID:          id,
			Origin:      "123456",
			Title:       "People of the Philippines v. Cruz",
			Description: "G.R. No. 123456, Mar. 30, 2006",
			Date:        date,
			Composition: types.CompositionEnBanc,
			Category:    types.CategoryDecision,
			RawPonente:  "Panganiban",
			JusticeID:   intPtr137(),
			Voting:      "Puno, J., concur.",
			Citation:    types.Citation{DocketCategory: "GR", DocketSerial: "123456", DocketDate: &date},
			Emails:      []string{"bot@lawsql.com"},
		},
		Opinions: []types.Opinion{{
			ID:         opID,
			DecisionID: id,
			JusticeID:  intPtr137(),
			Title:      "Ponencia",
			Text:       "The petition is denied for lack of merit.",
			Tags:       []types.OpinionTag{types.TagPonencia},
			Segments: []types.Segment{{
				ID: opID + "-0-0", DecisionID: id, OpinionID: opID, Position: "0-0",
				CharCount: 41, Text: "The petition is denied for lack of merit.",
			}},
			Statutes:  []types.StatuteMention{{Category: "ra", SerialID: "7160", Mentions: 2}},
			Citations: []types.CitationMention{{Category: "gr", SerialID: "100", Mentions: 1}},
		}},
		VoteLines: []types.VoteLine{{DecisionID: id, Text: "Puno, J., concur."}},
		TitleTags: []types.TitleTag{{DecisionID: id, Tag: "pp"}},
	}
}

func countRows(t *testing.T, s *Store) map[string]int {
	t.Helper()
	counts, err := s.Counts(context.Background())
	require.NoError(t, err)
	m := make(map[string]int, len(counts))
	for _, c := range counts {
		m[c.Table] = c.Rows
	}
	return m
}

// --- tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	s := testStore(t, nil)
	counts := countRows(t, s)
	assert.Len(t, counts, len(Tables))
	assert.Equal(t, 2, counts["justices"])
}

func TestNewStoreRequiresPath(t *testing.T) {
	_, err := NewStore(types.DatabaseConfig{}, nil)
	assert.Error(t, err)
}

func TestSyncRosterIsIdempotent(t *testing.T) {
	s := testStore(t, nil)
	require.NoError(t, s.SyncRoster(context.Background(), []types.Justice{
		{ID: 131, LastName: "Puno", Alias: "puno", StartTerm: types.NewDate(1993, time.June, 28)},
	}))
	assert.Equal(t, 2, countRows(t, s)["justices"])
}

func TestPersist(t *testing.T) {
	s := testStore(t, nil)
	ctx := context.Background()

	id, err := s.Persist(ctx, testRecord())
	require.NoError(t, err)
	assert.Equal(t, "gr-2006-3-123456", id)

	counts := countRows(t, s)
	assert.Equal(t, 1, counts["decisions"])
	assert.Equal(t, 1, counts["citations"])
	assert.Equal(t, 1, counts["votelines"])
	assert.Equal(t, 1, counts["titletags"])
	assert.Equal(t, 1, counts["opinions"])
	assert.Equal(t, 1, counts["opinion_tags"])
	assert.Equal(t, 1, counts["opinion_segments"])
	assert.Equal(t, 1, counts["opinion_statutes"])
	assert.Equal(t, 1, counts["opinion_citations"])
	assert.Equal(t, 1, counts["individuals"])
	assert.Equal(t, 1, counts["decisions_individuals"])
}

func TestPersistTwiceIsDuplicate(t *testing.T) {
	s := testStore(t, nil)
	ctx := context.Background()

	_, err := s.Persist(ctx, testRecord())
	require.NoError(t, err)

	_, err = s.Persist(ctx, testRecord())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "gr-2006-3-123456", dup.ID)

	counts := countRows(t, s)
	assert.Equal(t, 1, counts["decisions"])
	assert.Equal(t, 1, counts["opinions"])
	assert.Equal(t, 1, counts["opinion_segments"])
	assert.Equal(t, 1, counts["votelines"])
}

func TestPersistSkipsFailingOpinion(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	s := testStore(t, zap.New(core))

	rec := testRecord()
	bad := rec.Opinions[0]
	bad.ID = rec.Decision.ID + "-999"
	unknown := 999
	bad.JusticeID = &unknown
	bad.Tags = []types.OpinionTag{types.TagDissenting}
	bad.Segments = nil
	rec.Opinions = append([]types.Opinion{bad}, rec.Opinions...)

	_, err := s.Persist(context.Background(), rec)
	require.NoError(t, err)

	counts := countRows(t, s)
	assert.Equal(t, 1, counts["decisions"])
	assert.Equal(t, 1, counts["opinions"])
	assert.Equal(t, 1, counts["opinion_tags"])
	assert.Equal(t, 1, counts["opinion_statutes"])

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "opinion skipped", logs.All()[0].Message)
}

func TestPersistRejectsDecisionWithoutOpinions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.DecisionRecord)
	}{
		{"every opinion fails", func(rec *types.DecisionRecord) {
			unknown := 999
			for i := range rec.Opinions {
				rec.Opinions[i].JusticeID = &unknown
			}
		}},
		{"no opinions", func(rec *types.DecisionRecord) {
			rec.Opinions = nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testStore(t, nil)
			ctx := context.Background()

			rec := testRecord()
			tt.mutate(rec)
			id, err := s.Persist(ctx, rec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoOpinions), "got %v", err)
			assert.Empty(t, id)

			counts := countRows(t, s)
			for _, table := range []string{"decisions", "citations", "votelines", "titletags", "opinions", "decisions_individuals"} {
				assert.Equal(t, 0, counts[table], table)
			}

			// The id stays free, so a corrected record is not a duplicate.
			_, err = s.Persist(ctx, testRecord())
			require.NoError(t, err)
			assert.Equal(t, 1, countRows(t, s)["decisions"])
		})
	}
}

func TestPersistRollsBackWholeDecisionOnChildFailure(t *testing.T) {
	s := testStore(t, nil)
	rec := testRecord()
	rec.TitleTags = []types.TitleTag{{DecisionID: "not-stored", Tag: "pp"}}

	_, err := s.Persist(context.Background(), rec)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDuplicate))
	assert.Equal(t, 0, countRows(t, s)["decisions"])
}

func TestLinkAuthors(t *testing.T) {
	s := testStore(t, nil)
	ctx := context.Background()
	_, err := s.Persist(ctx, testRecord())
	require.NoError(t, err)

	require.NoError(t, s.LinkAuthors(ctx, "gr-2006-3-123456", []string{" Clerk@SC.gov.ph ", "bot@lawsql.com", ""}))
	counts := countRows(t, s)
	assert.Equal(t, 2, counts["individuals"])
	assert.Equal(t, 2, counts["decisions_individuals"])

	err = s.LinkAuthors(ctx, "missing", []string{"a@b.c", "d@e.f"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPartialLink))
}

func TestDecisionIDs(t *testing.T) {
	s := testStore(t, nil)
	ctx := context.Background()

	ids, err := s.DecisionIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = s.Persist(ctx, testRecord())
	require.NoError(t, err)
	ids, err = s.DecisionIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gr-2006-3-123456"}, ids)
}

func TestLoadRoundTrip(t *testing.T) {
	s := testStore(t, nil)
	ctx := context.Background()
	want := testRecord()
	_, err := s.Persist(ctx, want)
	require.NoError(t, err)

	got, found, err := s.Load(ctx, want.Decision.ID)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, want.Decision.ID, got.Decision.ID)
	assert.True(t, want.Decision.Date.Equal(got.Decision.Date))
	assert.Equal(t, 137, *got.Decision.JusticeID)
	assert.Equal(t, types.CompositionEnBanc, got.Decision.Composition)
	assert.Equal(t, "123456", got.Decision.Citation.DocketSerial)
	assert.Equal(t, []string{"bot@lawsql.com"}, got.Decision.Emails)
	assert.Equal(t, want.VoteLines, got.VoteLines)
	assert.Equal(t, want.TitleTags, got.TitleTags)

	require.Len(t, got.Opinions, 1)
	op := got.Opinions[0]
	assert.Equal(t, want.Opinions[0].Segments, op.Segments)
	assert.Equal(t, want.Opinions[0].Statutes, op.Statutes)
	assert.Equal(t, want.Opinions[0].Citations, op.Citations)
	assert.Equal(t, want.Opinions[0].Tags, op.Tags)
}

func TestLoadNotFound(t *testing.T) {
	s := testStore(t, nil)
	rec, found, err := s.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, rec)
}

func TestSearch(t *testing.T) {
	s := testStore(t, nil)
	ctx := context.Background()
	_, err := s.Persist(ctx, testRecord())
	require.NoError(t, err)

	tests := []struct {
		name string
		q    SegmentQuery
		want int
	}{
		{"text", SegmentQuery{Text: "LACK OF MERIT"}, 1},
		{"no match", SegmentQuery{Text: "granted"}, 0},
		{"like wildcard escaped", SegmentQuery{Text: "%"}, 0},
		{"decision", SegmentQuery{DecisionID: "gr-2006-3-123456"}, 1},
		{"tag", SegmentQuery{Tag: types.TagPonencia}, 1},
		{"other tag", SegmentQuery{Tag: types.TagDissenting}, 0},
		{"justice", SegmentQuery{JusticeID: 137}, 1},
		{"other justice", SegmentQuery{JusticeID: 131}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Search(ctx, tt.q)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
			if tt.want > 0 {
				assert.Equal(t, "Ponencia", got[0].OpinionTitle)
				assert.Equal(t, "G.R. No. 123456, Mar. 30, 2006", got[0].Description)
			}
		})
	}

	_, err = s.Search(ctx, SegmentQuery{})
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	s := testStore(t, nil)
	ctx := context.Background()
	_, err := s.Persist(ctx, testRecord())
	require.NoError(t, err)

	var buf bytes.Buffer
	found, err := s.Export(ctx, &buf, "gr-2006-3-123456", FormatJSON)
	require.NoError(t, err)
	require.True(t, found)
	var fromJSON types.DecisionRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, "gr-2006-3-123456", fromJSON.Decision.ID)

	buf.Reset()
	_, err = s.Export(ctx, &buf, "gr-2006-3-123456", FormatYAML)
	require.NoError(t, err)
	var fromYAML types.DecisionRecord
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, "2006-03-30", fromYAML.Decision.Date.String())

	_, err = s.Export(ctx, &buf, "gr-2006-3-123456", "xml")
	assert.Error(t, err)

	found, err = s.Export(ctx, &buf, "missing", FormatJSON)
	require.NoError(t, err)
	assert.False(t, found)
}
