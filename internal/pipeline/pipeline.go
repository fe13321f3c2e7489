// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives ingestion: each source record is normalized,
// assembled and persisted before the next one is read. Failures are
// counted per record and never stop the batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"go.uber.org/zap"

	"github.com/pdiddy/sc-decisions/internal/assemble"
	"github.com/pdiddy/sc-decisions/internal/justice"
	"github.com/pdiddy/sc-decisions/internal/source"
	"github.com/pdiddy/sc-decisions/internal/storage"
	"github.com/pdiddy/sc-decisions/internal/store"
	"github.com/pdiddy/sc-decisions/pkg/types"
)

// Persister writes assembled records and lists what is already stored.
// Persist returns an error matching store.ErrDuplicate when the decision
// id is already stored.
type Persister interface {
	Persist(ctx context.Context, rec *types.DecisionRecord) (string, error)
	DecisionIDs(ctx context.Context) ([]string, error)
}

// Summary holds counts from an ingestion run.
type Summary struct {
	Added      int
	Duplicates int
	Invalid    int
	Failed     int
}

// Total returns the number of records processed.
func (s Summary) Total() int {
	return s.Added + s.Duplicates + s.Invalid + s.Failed
}

// HasFailures reports whether any record failed for a reason other than
// bad source data or a duplicate.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Options configures a Pipeline. Bucket is only needed for IngestBucket
// and Reconcile.
type Options struct {
	Bucket     storage.Bucket
	Resolver   *justice.Resolver
	Assembler  *assemble.Assembler
	Persister  Persister
	PDFBaseURL string
	Log        *zap.Logger
}

// Pipeline ties the normalizers, the assembler and the persister together.
type Pipeline struct {
	bucket    storage.Bucket
	html      *source.HTMLNormalizer
	pdf       *source.PDFNormalizer
	assembler *assemble.Assembler
	persister Persister
	log       *zap.Logger
}

// New builds a Pipeline from opts.
func New(opts Options) (*Pipeline, error) {
	if opts.Resolver == nil {
		return nil, fmt.Errorf("pipeline needs a resolver")
	}
	if opts.Persister == nil {
		return nil, fmt.Errorf("pipeline needs a persister")
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	asm := opts.Assembler
	if asm == nil {
		asm = assemble.New(0, nil, log)
	}

	pdf, err := source.NewPDFNormalizer(opts.Resolver, opts.PDFBaseURL, log)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		bucket:    opts.Bucket,
		pdf:       pdf,
		assembler: asm,
		persister: opts.Persister,
		log:       log,
	}
	if opts.Bucket != nil {
		p.html = source.NewHTMLNormalizer(opts.Bucket, opts.Resolver, log)
	}
	return p, nil
}

// IngestBucket ingests every decision folder under root.
func (p *Pipeline) IngestBucket(ctx context.Context, root string, w io.Writer) (Summary, error) {
	folders, err := p.listFolders(ctx, root)
	if err != nil {
		return Summary{}, err
	}
	return p.ingestFolders(ctx, folders, w)
}

// Reconcile ingests only the folders under root whose decision id is not
// yet stored. Running it again after a complete pass adds nothing.
func (p *Pipeline) Reconcile(ctx context.Context, root string, w io.Writer) (Summary, error) {
	folders, err := p.listFolders(ctx, root)
	if err != nil {
		return Summary{}, err
	}
	ids, err := p.persister.DecisionIDs(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("listing stored decisions: %w", err)
	}

	missing := Missing(folders, ids)
	fmt.Fprintf(w, "%d of %d folder(s) not yet stored\n", len(missing), len(folders))
	return p.ingestFolders(ctx, missing, w)
}

// Missing returns the folders whose id is not in stored, in folder order.
func Missing(folders []source.Folder, stored []string) []source.Folder {
	have := make(map[string]bool, len(stored))
	for _, id := range stored {
		have[id] = true
	}
	var out []source.Folder
	for _, f := range folders {
		if !have[f.ID()] {
			out = append(out, f)
		}
	}
	return out
}

// IngestRows ingests extraction rows in order. A row that fails to decode
// counts as invalid; an error that ends the row sequence is returned.
func (p *Pipeline) IngestRows(ctx context.Context, rows iter.Seq2[source.RawPDFRow, error], w io.Writer) (Summary, error) {
	var summary Summary
	for row, rowErr := range rows {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		label := "row " + row.ID
		if rowErr != nil {
			if !errors.Is(rowErr, source.ErrValidation) {
				return summary, rowErr
			}
			p.count(&summary, label, "", rowErr, w)
			continue
		}

		draft, err := p.pdf.Normalize(ctx, row)
		if err != nil {
			p.count(&summary, label, "", err, w)
			continue
		}
		id, err := p.save(ctx, draft)
		p.count(&summary, label, id, err, w)
	}

	p.printSummary(summary, w)
	return summary, nil
}

func (p *Pipeline) listFolders(ctx context.Context, root string) ([]source.Folder, error) {
	if p.bucket == nil {
		return nil, fmt.Errorf("no bucket configured")
	}
	folders, err := source.ListFolders(ctx, p.bucket, root)
	if err != nil {
		return nil, fmt.Errorf("listing folders under %q: %w", root, err)
	}
	return folders, nil
}

func (p *Pipeline) ingestFolders(ctx context.Context, folders []source.Folder, w io.Writer) (Summary, error) {
	var summary Summary
	for _, f := range folders {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		draft, err := p.normalizeFolder(ctx, f)
		if err != nil {
			p.count(&summary, f.Prefix, "", err, w)
			continue
		}
		id, err := p.save(ctx, draft)
		p.count(&summary, f.Prefix, id, err, w)
	}

	p.printSummary(summary, w)
	return summary, nil
}

func (p *Pipeline) normalizeFolder(ctx context.Context, f source.Folder) (source.Draft, error) {
	switch f.Kind {
	case source.KindHTML:
		d, err := p.html.Normalize(ctx, f.Prefix)
		if err != nil {
			return nil, err
		}
		return d, nil
	case source.KindPDF:
		row, found, err := source.LoadPDFRow(ctx, p.bucket, f.Prefix)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("%w: %s has no %s", source.ErrValidation, f.Prefix, source.PDFFile)
		}
		d, err := p.pdf.Normalize(ctx, row)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("unknown folder kind %q", f.Kind)
}

func (p *Pipeline) save(ctx context.Context, d source.Draft) (string, error) {
	rec, err := p.assembler.Assemble(d)
	if err != nil {
		return "", err
	}
	return p.persister.Persist(ctx, rec)
}

// count classifies the outcome of one record.
func (p *Pipeline) count(s *Summary, label, id string, err error, w io.Writer) {
	switch {
	case err == nil:
		fmt.Fprintf(w, "added     %s (%s)\n", id, label)
		s.Added++
	case errors.Is(err, store.ErrDuplicate):
		fmt.Fprintf(w, "duplicate %s\n", label)
		p.log.Info("duplicate skipped", zap.String("source", label), zap.Error(err))
		s.Duplicates++
	case errors.Is(err, source.ErrValidation), errors.Is(err, store.ErrNoOpinions):
		fmt.Fprintf(w, "invalid   %s: %v\n", label, err)
		p.log.Error("record rejected", zap.String("source", label), zap.Error(err))
		s.Invalid++
	default:
		fmt.Fprintf(w, "failed    %s: %v\n", label, err)
		p.log.Error("record failed", zap.String("source", label), zap.Error(err))
		s.Failed++
	}
}

func (p *Pipeline) printSummary(s Summary, w io.Writer) {
	fmt.Fprintf(w, "\nadded: %d, duplicates: %d, invalid: %d, failed: %d\n",
		s.Added, s.Duplicates, s.Invalid, s.Failed)
}
