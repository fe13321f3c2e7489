// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sc-decisions/internal/justice"
	"github.com/pdiddy/sc-decisions/internal/source"
	"github.com/pdiddy/sc-decisions/internal/storage"
	"github.com/pdiddy/sc-decisions/internal/store"
	"github.com/pdiddy/sc-decisions/pkg/types"
)

// --- test helpers ---

type fakePersister struct {
	stored  map[string]*types.DecisionRecord
	failOn  string
	failErr error
}

func newFakePersister() *fakePersister {
	return &fakePersister{stored: make(map[string]*types.DecisionRecord)}
}

func (f *fakePersister) Persist(_ context.Context, rec *types.DecisionRecord) (string, error) {
	id := rec.Decision.ID
	if id == f.failOn {
		if f.failErr != nil {
			return "", f.failErr
		}
		return "", errors.New("disk full")
	}
	if _, ok := f.stored[id]; ok {
		return "", &store.DuplicateError{ID: id}
	}
	f.stored[id] = rec
	return id, nil
}

func (f *fakePersister) DecisionIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.stored))
	for id := range f.stored {
		ids = append(ids, id)
	}
	return ids, nil
}

func testResolver(t *testing.T) *justice.Resolver {
	t.Helper()
	chief := types.NewDate(2005, time.December, 20)
	r, err := justice.NewRoster([]types.Justice{
		{ID: 137, LastName: "Panganiban", StartTerm: types.NewDate(1995, time.October, 5),
			InactiveDate: types.NewDate(2006, time.December, 6), ChiefDate: &chief},
		{ID: 131, LastName: "Puno", StartTerm: types.NewDate(1993, time.June, 28),
			InactiveDate: types.NewDate(2010, time.May, 17)},
	})
	require.NoError(t, err)
	return justice.NewResolver(r, nil)
}

func writeObject(t *testing.T, root, key, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

// testBucket holds one HTML folder, one PDF folder and one folder whose
// details.yaml lacks a case title.
func testBucket(t *testing.T) storage.Bucket {
	t.Helper()
	root := t.TempDir()

	writeObject(t, root, "GR/2006/3/123456/details.yaml", `case_title: People of the Philippines v. Juan Cruz
date_prom: 2006-03-30
ponente: Panganiban, C.J.
composition: EN BANC
category: DECISION
voting: Puno, J., concur.
docket: G.R. No. 123456, March 30, 2006
`)
	writeObject(t, root, "GR/2006/3/123456/opinions/ponencia.md",
		"# Ponencia\n\nThe petition is denied under R.A. 7160.\n\n---\nFootnote text")

	writeObject(t, root, "GR/2006/3/150000/pdf.yaml", `id: "5001"
title: A v. B
docket_category: GR
serial: "150000"
date: "2006-03-30"
composition: First Division
category: Resolution
opinions:
  - id: "1"
    title: Ponencia
    writer: Puno, J.
    body: The motion for reconsideration is denied.
`)

	writeObject(t, root, "GR/2006/4/2/details.yaml", "date_prom: 2006-04-02\n")
	writeObject(t, root, "GR/2006/4/2/opinions/ponencia.md", "# Ponencia\n\nBody text.")

	b, err := storage.NewLocal(root)
	require.NoError(t, err)
	return b
}

func testPipeline(t *testing.T, b storage.Bucket, p Persister) *Pipeline {
	t.Helper()
	pl, err := New(Options{Bucket: b, Resolver: testResolver(t), Persister: p})
	require.NoError(t, err)
	return pl
}

// --- tests ---

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{Persister: newFakePersister()})
	assert.Error(t, err)
	_, err = New(Options{Resolver: testResolver(t)})
	assert.Error(t, err)
}

func TestIngestBucket(t *testing.T) {
	fp := newFakePersister()
	pl := testPipeline(t, testBucket(t), fp)

	var buf bytes.Buffer
	summary, err := pl.IngestBucket(context.Background(), "", &buf)
	require.NoError(t, err)
	assert.Equal(t, Summary{Added: 2, Invalid: 1}, summary)
	assert.Equal(t, 3, summary.Total())
	assert.False(t, summary.HasFailures())

	html := fp.stored["gr-2006-3-123456"]
	require.NotNil(t, html)
	assert.False(t, html.Decision.IsPDF)
	assert.Equal(t, 137, *html.Decision.JusticeID)
	require.Len(t, html.Opinions, 1)
	assert.Len(t, html.Opinions[0].Segments, 1)

	pdf := fp.stored["gr-2006-3-150000"]
	require.NotNil(t, pdf)
	assert.True(t, pdf.Decision.IsPDF)
	assert.Equal(t, 131, *pdf.Decision.JusticeID)
	assert.Equal(t, types.CompositionDivision, pdf.Decision.Composition)

	out := buf.String()
	assert.Contains(t, out, "added     gr-2006-3-123456")
	assert.Contains(t, out, "invalid   GR/2006/4/2")
	assert.Contains(t, out, "added: 2, duplicates: 0, invalid: 1, failed: 0")
}

func TestIngestBucketTwiceCountsDuplicates(t *testing.T) {
	fp := newFakePersister()
	pl := testPipeline(t, testBucket(t), fp)
	ctx := context.Background()

	_, err := pl.IngestBucket(ctx, "", &bytes.Buffer{})
	require.NoError(t, err)
	summary, err := pl.IngestBucket(ctx, "", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, Summary{Duplicates: 2, Invalid: 1}, summary)
	assert.Len(t, fp.stored, 2)
}

func TestIngestBucketCountsFailures(t *testing.T) {
	fp := newFakePersister()
	fp.failOn = "gr-2006-3-150000"
	pl := testPipeline(t, testBucket(t), fp)

	summary, err := pl.IngestBucket(context.Background(), "", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, Summary{Added: 1, Invalid: 1, Failed: 1}, summary)
	assert.True(t, summary.HasFailures())
}

func TestIngestBucketCountsUnstorableOpinionsAsInvalid(t *testing.T) {
	fp := newFakePersister()
	fp.failOn = "gr-2006-3-150000"
	fp.failErr = fmt.Errorf("decision gr-2006-3-150000: %w", store.ErrNoOpinions)
	pl := testPipeline(t, testBucket(t), fp)

	var buf bytes.Buffer
	summary, err := pl.IngestBucket(context.Background(), "", &buf)
	require.NoError(t, err)
	assert.Equal(t, Summary{Added: 1, Invalid: 2}, summary)
	assert.Contains(t, buf.String(), "invalid   GR/2006/3/150000")
}

func TestIngestBucketStopsOnCancel(t *testing.T) {
	pl := testPipeline(t, testBucket(t), newFakePersister())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := pl.IngestBucket(ctx, "", &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Total())
}

func TestIngestBucketWithoutBucket(t *testing.T) {
	pl := testPipeline(t, nil, newFakePersister())
	_, err := pl.IngestBucket(context.Background(), "", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestReconcile(t *testing.T) {
	fp := newFakePersister()
	pl := testPipeline(t, testBucket(t), fp)
	ctx := context.Background()

	// Store the HTML decision only.
	_, err := pl.IngestBucket(ctx, "GR/2006/3/123456", &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, fp.stored, 1)

	var buf bytes.Buffer
	summary, err := pl.Reconcile(ctx, "", &buf)
	require.NoError(t, err)
	assert.Equal(t, Summary{Added: 1, Invalid: 1}, summary)
	assert.Contains(t, buf.String(), "2 of 3 folder(s) not yet stored")

	summary, err = pl.Reconcile(ctx, "", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, Summary{Invalid: 1}, summary)
}

func TestMissing(t *testing.T) {
	folders := []source.Folder{
		{Prefix: "GR/2006/3/1", Kind: source.KindHTML},
		{Prefix: "GR/2006/3/2", Kind: source.KindPDF},
		{Prefix: "legacy/People_v_Santos", Kind: source.KindHTML},
	}
	got := Missing(folders, []string{"gr-2006-3-2", "unrelated"})
	assert.Equal(t, []source.Folder{folders[0], folders[2]}, got)
	assert.Empty(t, Missing(folders, []string{"gr-2006-3-1", "gr-2006-3-2", "people-v-santos"}))
}

func rowSeq(items []source.RawPDFRow, errs []error) iter.Seq2[source.RawPDFRow, error] {
	return func(yield func(source.RawPDFRow, error) bool) {
		for i, row := range items {
			if !yield(row, errs[i]) {
				return
			}
		}
	}
}

func pdfRow(id, serial string) source.RawPDFRow {
	return source.RawPDFRow{
		ID: id, Title: "A v. B", DocketCategory: "GR", Serial: serial, Date: "2006-03-30",
		Opinions: []source.RawPDFOpinion{{ID: "1", Title: "Ponencia", Writer: "Puno, J.", Body: "Motion denied for lack of merit."}},
	}
}

func TestIngestRows(t *testing.T) {
	fp := newFakePersister()
	pl := testPipeline(t, nil, fp)

	noOpinions := pdfRow("3", "3")
	noOpinions.Opinions = nil

	rows := []source.RawPDFRow{pdfRow("1", "1"), pdfRow("2", "1"), noOpinions, {ID: "4"}}
	errs := []error{nil, nil, nil, errors.Join(source.ErrValidation, errors.New("bad json"))}

	var buf bytes.Buffer
	summary, err := pl.IngestRows(context.Background(), rowSeq(rows, errs), &buf)
	require.NoError(t, err)
	assert.Equal(t, Summary{Added: 1, Duplicates: 1, Invalid: 2}, summary)
	assert.Contains(t, buf.String(), "duplicate row 2")
	assert.Contains(t, fp.stored, "gr-2006-3-1")
}

func TestIngestRowsStopsOnSourceError(t *testing.T) {
	pl := testPipeline(t, nil, newFakePersister())
	rows := []source.RawPDFRow{pdfRow("1", "1"), {}}
	errs := []error{nil, errors.New("database is locked")}

	summary, err := pl.IngestRows(context.Background(), rowSeq(rows, errs), &bytes.Buffer{})
	assert.EqualError(t, err, "database is locked")
	assert.Equal(t, Summary{Added: 1}, summary)
}

func TestIngestBucketIntoStore(t *testing.T) {
	resolver := testResolver(t)
	st, err := store.NewStore(types.DatabaseConfig{Path: filepath.Join(t.TempDir(), "decisions.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()
	require.NoError(t, st.SyncRoster(ctx, resolver.Roster().All()))

	pl, err := New(Options{Bucket: testBucket(t), Resolver: resolver, Persister: st})
	require.NoError(t, err)

	first, err := pl.IngestBucket(ctx, "", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, Summary{Added: 2, Invalid: 1}, first)

	second, err := pl.IngestBucket(ctx, "", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, Summary{Duplicates: 2, Invalid: 1}, second)

	ids, err := st.DecisionIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gr-2006-3-123456", "gr-2006-3-150000"}, ids)

	counts, err := st.Counts(ctx)
	require.NoError(t, err)
	for _, c := range counts {
		if c.Table == "opinions" {
			assert.Equal(t, 2, c.Rows)
		}
	}
}
