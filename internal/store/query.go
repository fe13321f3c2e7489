// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/sc-decisions/pkg/types"
)

const defaultMaxResults = 20

// SegmentQuery holds parameters for searching stored segments.
type SegmentQuery struct {
	// Text is matched as a case-insensitive substring of the segment.
	Text string

	// DecisionID restricts results to one decision.
	DecisionID string

	// Tag restricts results to opinions carrying the tag.
	Tag types.OpinionTag

	// JusticeID restricts results to opinions written by the justice.
	JusticeID int

	// MaxResults limits result count. Zero uses the default of 20.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q SegmentQuery) IsEmpty() bool {
	return q.Text == "" && q.DecisionID == "" && q.Tag == "" && q.JusticeID == 0
}

// SegmentResult is a stored segment with its decision and opinion titles.
type SegmentResult struct {
	types.Segment
	DecisionTitle string `json:"decision_title" yaml:"decision_title"`
	Description   string `json:"description" yaml:"description"`
	OpinionTitle  string `json:"opinion_title" yaml:"opinion_title"`
}

// Search finds segments matching q, ordered by decision date, opinion and
// position.
func (s *Store) Search(ctx context.Context, q SegmentQuery) ([]SegmentResult, error) {
	if q.IsEmpty() {
		return nil, fmt.Errorf("search needs text or a filter")
	}
	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT sg.id, sg.decision_id, sg.opinion_id, sg.position, sg.char_count, sg.segment,
			d.title, d.description, o.title
		FROM opinion_segments sg
		JOIN opinions o ON o.id = sg.opinion_id
		JOIN decisions d ON d.id = sg.decision_id
		WHERE 1=1`)

	if q.Text != "" {
		qb.WriteString(` AND sg.segment LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(q.Text)+"%")
	}
	if q.DecisionID != "" {
		qb.WriteString(` AND sg.decision_id = ?`)
		args = append(args, q.DecisionID)
	}
	if q.Tag != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM opinion_tags t WHERE t.opinion_id = o.id AND t.tag = ?)`)
		args = append(args, string(q.Tag))
	}
	if q.JusticeID != 0 {
		qb.WriteString(` AND o.justice_id = ?`)
		args = append(args, q.JusticeID)
	}

	qb.WriteString(` ORDER BY d.date, sg.opinion_id, sg.rowid LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching segments: %w", err)
	}
	defer rows.Close()

	var results []SegmentResult
	for rows.Next() {
		var (
			r           SegmentResult
			description sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.DecisionID, &r.OpinionID, &r.Position, &r.CharCount, &r.Text,
			&r.DecisionTitle, &description, &r.OpinionTitle); err != nil {
			return nil, fmt.Errorf("scanning segment: %w", err)
		}
		r.Description = description.String
		results = append(results, r)
	}
	return results, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Load reads a stored decision back into a DecisionRecord. Segments are
// returned in insertion order. found is false when no decision has id.
func (s *Store) Load(ctx context.Context, id string) (rec *types.DecisionRecord, found bool, err error) {
	rec = &types.DecisionRecord{}
	d := &rec.Decision

	var (
		description, scraped, ponente, fallo, voting sql.NullString
		justiceID                                    sql.NullInt64
		date                                         string
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT id, origin, title, description, date, date_scraped, composition, category,
			raw_ponente, justice_id, per_curiam, is_pdf, fallo, voting
		FROM decisions WHERE id = ?`, id,
	).Scan(&d.ID, &d.Origin, &d.Title, &description, &date, &scraped, &d.Composition, &d.Category,
		&ponente, &justiceID, &d.PerCuriam, &d.IsPDF, &fallo, &voting)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading decision %s: %w", id, err)
	}
	d.Description = description.String
	d.RawPonente = ponente.String
	d.JusticeID = intPtr(justiceID)
	d.Fallo = fallo.String
	d.Voting = voting.String
	if d.Date, err = types.ParseDate(date); err != nil {
		return nil, false, fmt.Errorf("decision %s has malformed date %q: %w", id, date, err)
	}
	d.DateScraped = parseNullDate(scraped)

	if err := s.loadCitation(ctx, d); err != nil {
		return nil, false, err
	}
	if err := s.loadEmails(ctx, d); err != nil {
		return nil, false, err
	}
	if rec.VoteLines, err = s.loadVoteLines(ctx, id); err != nil {
		return nil, false, err
	}
	if rec.TitleTags, err = s.loadTitleTags(ctx, id); err != nil {
		return nil, false, err
	}
	if rec.Opinions, err = s.loadOpinions(ctx, id); err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (s *Store) loadCitation(ctx context.Context, d *types.Decision) error {
	var cat, serial, date, phil, scra, offg sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT docket_category, docket_serial, docket_date, phil, scra, offg
		FROM citations WHERE decision_id = ?`, d.ID,
	).Scan(&cat, &serial, &date, &phil, &scra, &offg)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading citation for %s: %w", d.ID, err)
	}
	d.Citation = types.Citation{
		DocketCategory: cat.String,
		DocketSerial:   serial.String,
		Phil:           phil.String,
		SCRA:           scra.String,
		OffG:           offg.String,
	}
	if date.Valid {
		dd := parseNullDate(date)
		d.Citation.DocketDate = &dd
	}
	return nil
}

func (s *Store) loadEmails(ctx context.Context, d *types.Decision) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.email FROM decisions_individuals di
		JOIN individuals i ON i.id = di.individual_id
		WHERE di.decision_id = ? ORDER BY i.email`, d.ID)
	if err != nil {
		return fmt.Errorf("loading authors for %s: %w", d.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return fmt.Errorf("scanning author: %w", err)
		}
		d.Emails = append(d.Emails, email)
	}
	return rows.Err()
}

func (s *Store) loadVoteLines(ctx context.Context, id string) ([]types.VoteLine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT text FROM votelines WHERE decision_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("loading vote lines for %s: %w", id, err)
	}
	defer rows.Close()

	var out []types.VoteLine
	for rows.Next() {
		v := types.VoteLine{DecisionID: id}
		if err := rows.Scan(&v.Text); err != nil {
			return nil, fmt.Errorf("scanning vote line: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) loadTitleTags(ctx context.Context, id string) ([]types.TitleTag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM titletags WHERE decision_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("loading title tags for %s: %w", id, err)
	}
	defer rows.Close()

	var out []types.TitleTag
	for rows.Next() {
		t := types.TitleTag{DecisionID: id}
		if err := rows.Scan(&t.Tag); err != nil {
			return nil, fmt.Errorf("scanning title tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) loadOpinions(ctx context.Context, id string) ([]types.Opinion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, justice_id, title, text, pdf, remark
		FROM opinions WHERE decision_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("loading opinions for %s: %w", id, err)
	}

	var ops []types.Opinion
	for rows.Next() {
		var (
			op        = types.Opinion{DecisionID: id}
			justiceID sql.NullInt64
			pdf, rem  sql.NullString
		)
		if err := rows.Scan(&op.ID, &justiceID, &op.Title, &op.Text, &pdf, &rem); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning opinion: %w", err)
		}
		op.JusticeID = intPtr(justiceID)
		op.PDF = pdf.String
		op.Remark = rem.String
		ops = append(ops, op)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range ops {
		if err := s.loadOpinionChildren(ctx, &ops[i]); err != nil {
			return nil, err
		}
	}
	return ops, nil
}

func (s *Store) loadOpinionChildren(ctx context.Context, op *types.Opinion) error {
	tagRows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM opinion_tags WHERE opinion_id = ? ORDER BY rowid`, op.ID)
	if err != nil {
		return fmt.Errorf("loading tags for %s: %w", op.ID, err)
	}
	for tagRows.Next() {
		var tag string
		if err := tagRows.Scan(&tag); err != nil {
			tagRows.Close()
			return fmt.Errorf("scanning opinion tag: %w", err)
		}
		op.Tags = append(op.Tags, types.OpinionTag(tag))
	}
	tagRows.Close()

	segRows, err := s.db.QueryContext(ctx,
		`SELECT id, decision_id, opinion_id, position, char_count, segment
		FROM opinion_segments WHERE opinion_id = ? ORDER BY rowid`, op.ID)
	if err != nil {
		return fmt.Errorf("loading segments for %s: %w", op.ID, err)
	}
	for segRows.Next() {
		var sg types.Segment
		if err := segRows.Scan(&sg.ID, &sg.DecisionID, &sg.OpinionID, &sg.Position, &sg.CharCount, &sg.Text); err != nil {
			segRows.Close()
			return fmt.Errorf("scanning segment: %w", err)
		}
		op.Segments = append(op.Segments, sg)
	}
	segRows.Close()

	if op.Statutes, err = s.loadMentions(ctx, "opinion_statutes", op.ID); err != nil {
		return err
	}
	cites, err := s.loadMentions(ctx, "opinion_citations", op.ID)
	if err != nil {
		return err
	}
	for _, c := range cites {
		op.Citations = append(op.Citations, types.CitationMention(c))
	}
	return nil
}

func (s *Store) loadMentions(ctx context.Context, table, opinionID string) ([]types.StatuteMention, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, serial_id, mentions FROM `+table+` WHERE opinion_id = ? ORDER BY rowid`, opinionID)
	if err != nil {
		return nil, fmt.Errorf("loading %s for %s: %w", table, opinionID, err)
	}
	defer rows.Close()

	var out []types.StatuteMention
	for rows.Next() {
		var m types.StatuteMention
		if err := rows.Scan(&m.Category, &m.SerialID, &m.Mentions); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func parseNullDate(s sql.NullString) types.Date {
	if !s.Valid {
		return types.Date{}
	}
	d, err := types.ParseDate(s.String)
	if err != nil {
		return types.Date{}
	}
	return d
}
