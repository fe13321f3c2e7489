// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists assembled decision records into SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/sc-decisions/pkg/types"
)

// ErrDuplicate matches every DuplicateError.
var ErrDuplicate = errors.New("duplicate decision")

// ErrPartialLink marks an author that could not be linked to a stored
// decision. The decision itself is kept.
var ErrPartialLink = errors.New("author link failed")

// ErrNoOpinions marks a decision none of whose opinions could be written.
// Nothing of such a decision is stored.
var ErrNoOpinions = errors.New("no opinion stored")

// DuplicateError reports a decision whose id is already stored.
type DuplicateError struct {
	ID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("decision %s already stored", e.ID)
}

// Is makes errors.Is(err, ErrDuplicate) true for a *DuplicateError.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// Store manages the decisions SQLite database.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// NewStore opens or creates the database at cfg.Path and creates the
// schema if it does not exist.
func NewStore(cfg types.DatabaseConfig, log *zap.Logger) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is not configured")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Store{db: db, log: log}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tables lists the schema's tables in foreign-key dependency order.
var Tables = []string{
	"justices",
	"individuals",
	"decisions",
	"citations",
	"votelines",
	"titletags",
	"decisions_individuals",
	"opinions",
	"opinion_tags",
	"opinion_segments",
	"opinion_statutes",
	"opinion_citations",
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS justices (
			id INTEGER PRIMARY KEY,
			last_name TEXT NOT NULL,
			alias TEXT,
			start_term TEXT NOT NULL,
			inactive_date TEXT,
			chief_date TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS individuals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS decisions (
			id TEXT PRIMARY KEY,
			origin TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			date TEXT NOT NULL,
			date_scraped TEXT,
			composition TEXT,
			category TEXT,
			raw_ponente TEXT,
			justice_id INTEGER REFERENCES justices(id),
			per_curiam INTEGER NOT NULL DEFAULT 0,
			is_pdf INTEGER NOT NULL DEFAULT 0,
			fallo TEXT,
			voting TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_justice_id ON decisions(justice_id)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_date ON decisions(date)`,
		`CREATE TABLE IF NOT EXISTS citations (
			decision_id TEXT PRIMARY KEY REFERENCES decisions(id),
			docket_category TEXT,
			docket_serial TEXT,
			docket_date TEXT,
			phil TEXT,
			scra TEXT,
			offg TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS votelines (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			decision_id TEXT NOT NULL REFERENCES decisions(id),
			text TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_votelines_decision_id ON votelines(decision_id)`,
		`CREATE TABLE IF NOT EXISTS titletags (
			decision_id TEXT NOT NULL REFERENCES decisions(id),
			tag TEXT NOT NULL,
			PRIMARY KEY (decision_id, tag)
		)`,
		`CREATE TABLE IF NOT EXISTS decisions_individuals (
			decision_id TEXT NOT NULL REFERENCES decisions(id),
			individual_id INTEGER NOT NULL REFERENCES individuals(id),
			PRIMARY KEY (decision_id, individual_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_individuals_individual_id ON decisions_individuals(individual_id)`,
		`CREATE TABLE IF NOT EXISTS opinions (
			id TEXT PRIMARY KEY,
			decision_id TEXT NOT NULL REFERENCES decisions(id),
			justice_id INTEGER REFERENCES justices(id),
			title TEXT NOT NULL,
			text TEXT NOT NULL,
			pdf TEXT,
			remark TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_opinions_decision_id ON opinions(decision_id)`,
		`CREATE INDEX IF NOT EXISTS idx_opinions_justice_id ON opinions(justice_id)`,
		`CREATE TABLE IF NOT EXISTS opinion_tags (
			opinion_id TEXT NOT NULL REFERENCES opinions(id),
			tag TEXT NOT NULL,
			PRIMARY KEY (opinion_id, tag)
		)`,
		`CREATE TABLE IF NOT EXISTS opinion_segments (
			id TEXT PRIMARY KEY,
			decision_id TEXT NOT NULL REFERENCES decisions(id),
			opinion_id TEXT NOT NULL REFERENCES opinions(id),
			position TEXT NOT NULL,
			char_count INTEGER NOT NULL,
			segment TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_opinion_segments_opinion_id ON opinion_segments(opinion_id)`,
		`CREATE INDEX IF NOT EXISTS idx_opinion_segments_decision_id ON opinion_segments(decision_id)`,
		`CREATE TABLE IF NOT EXISTS opinion_statutes (
			opinion_id TEXT NOT NULL REFERENCES opinions(id),
			category TEXT NOT NULL,
			serial_id TEXT NOT NULL,
			mentions INTEGER NOT NULL CHECK (mentions >= 1),
			PRIMARY KEY (opinion_id, category, serial_id)
		)`,
		`CREATE TABLE IF NOT EXISTS opinion_citations (
			opinion_id TEXT NOT NULL REFERENCES opinions(id),
			category TEXT NOT NULL,
			serial_id TEXT NOT NULL,
			mentions INTEGER NOT NULL CHECK (mentions >= 1),
			PRIMARY KEY (opinion_id, category, serial_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SyncRoster upserts the roster into the justices table so decisions and
// opinions can reference justice ids.
func (s *Store) SyncRoster(ctx context.Context, justices []types.Justice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO justices (id, last_name, alias, start_term, inactive_date, chief_date)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			last_name=excluded.last_name, alias=excluded.alias,
			start_term=excluded.start_term, inactive_date=excluded.inactive_date,
			chief_date=excluded.chief_date`)
	if err != nil {
		return fmt.Errorf("preparing roster upsert: %w", err)
	}
	defer stmt.Close()

	for _, j := range justices {
		var chief any
		if j.ChiefDate != nil {
			chief = nullDate(*j.ChiefDate)
		}
		if _, err := stmt.ExecContext(ctx, j.ID, j.LastName, nullString(j.Alias),
			j.StartTerm.String(), nullDate(j.InactiveDate), chief); err != nil {
			return fmt.Errorf("upserting justice %d: %w", j.ID, err)
		}
	}
	return tx.Commit()
}

// Persist writes rec in one transaction and returns the decision id. A
// decision whose id is already stored yields a *DuplicateError and writes
// nothing. An opinion that fails to insert is rolled back on its own and
// skipped; when every opinion fails the whole decision is rolled back with
// ErrNoOpinions. Authors are linked after commit; link failures are logged.
func (s *Store) Persist(ctx context.Context, rec *types.DecisionRecord) (string, error) {
	d := rec.Decision
	log := s.log.With(zap.String("decision", d.ID))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertDecision(ctx, tx, d); err != nil {
		if isKeyConflict(err) {
			return "", &DuplicateError{ID: d.ID}
		}
		return "", fmt.Errorf("inserting decision %s: %w", d.ID, err)
	}
	if err := insertCitation(ctx, tx, d.ID, d.Citation); err != nil {
		return "", fmt.Errorf("inserting citation for %s: %w", d.ID, err)
	}
	for _, v := range rec.VoteLines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO votelines (decision_id, text) VALUES (?, ?)`, v.DecisionID, v.Text,
		); err != nil {
			return "", fmt.Errorf("inserting vote line for %s: %w", d.ID, err)
		}
	}
	for _, t := range rec.TitleTags {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO titletags (decision_id, tag) VALUES (?, ?)`, t.DecisionID, t.Tag,
		); err != nil {
			return "", fmt.Errorf("inserting title tag for %s: %w", d.ID, err)
		}
	}

	var opErrs []error
	for _, op := range rec.Opinions {
		if err := insertOpinionSavepoint(ctx, tx, op); err != nil {
			log.Error("opinion skipped", zap.String("opinion", op.ID), zap.Error(err))
			opErrs = append(opErrs, fmt.Errorf("opinion %s: %w", op.ID, err))
		}
	}
	if len(opErrs) == len(rec.Opinions) {
		return "", fmt.Errorf("decision %s: %w", d.ID, errors.Join(append([]error{ErrNoOpinions}, opErrs...)...))
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing decision %s: %w", d.ID, err)
	}

	if err := s.LinkAuthors(ctx, d.ID, d.Emails); err != nil {
		log.Warn("authors not linked", zap.Error(err))
	}
	return d.ID, nil
}

func insertDecision(ctx context.Context, tx *sql.Tx, d types.Decision) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO decisions (id, origin, title, description, date, date_scraped,
			composition, category, raw_ponente, justice_id, per_curiam, is_pdf, fallo, voting)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Origin, d.Title, nullString(d.Description), d.Date.String(), nullDate(d.DateScraped),
		string(d.Composition), string(d.Category), nullString(d.RawPonente), d.JusticeID,
		d.PerCuriam, d.IsPDF, nullString(d.Fallo), nullString(d.Voting),
	)
	return err
}

func insertCitation(ctx context.Context, tx *sql.Tx, decisionID string, c types.Citation) error {
	var docketDate any
	if c.DocketDate != nil {
		docketDate = nullDate(*c.DocketDate)
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO citations (decision_id, docket_category, docket_serial, docket_date, phil, scra, offg)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		decisionID, nullString(c.DocketCategory), nullString(c.DocketSerial), docketDate,
		nullString(c.Phil), nullString(c.SCRA), nullString(c.OffG),
	)
	return err
}

// insertOpinionSavepoint writes one opinion and its children inside a
// savepoint, undoing all of them when any insert fails.
func insertOpinionSavepoint(ctx context.Context, tx *sql.Tx, op types.Opinion) error {
	if _, err := tx.ExecContext(ctx, `SAVEPOINT opinion`); err != nil {
		return fmt.Errorf("opening savepoint: %w", err)
	}
	if err := insertOpinion(ctx, tx, op); err != nil {
		if _, rbErr := tx.ExecContext(ctx, `ROLLBACK TO opinion`); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rolling back opinion: %w", rbErr))
		}
		if _, relErr := tx.ExecContext(ctx, `RELEASE opinion`); relErr != nil {
			return errors.Join(err, fmt.Errorf("releasing savepoint: %w", relErr))
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `RELEASE opinion`); err != nil {
		return fmt.Errorf("releasing savepoint: %w", err)
	}
	return nil
}

func insertOpinion(ctx context.Context, tx *sql.Tx, op types.Opinion) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO opinions (id, decision_id, justice_id, title, text, pdf, remark)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		op.ID, op.DecisionID, op.JusticeID, op.Title, op.Text, nullString(op.PDF), nullString(op.Remark),
	); err != nil {
		return fmt.Errorf("inserting opinion: %w", err)
	}

	for _, tag := range op.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO opinion_tags (opinion_id, tag) VALUES (?, ?)`, op.ID, string(tag),
		); err != nil {
			return fmt.Errorf("inserting opinion tag: %w", err)
		}
	}

	if len(op.Segments) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO opinion_segments (id, decision_id, opinion_id, position, char_count, segment)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing segment insert: %w", err)
		}
		defer stmt.Close()
		for _, sg := range op.Segments {
			if _, err := stmt.ExecContext(ctx,
				sg.ID, sg.DecisionID, sg.OpinionID, sg.Position, sg.CharCount, sg.Text,
			); err != nil {
				return fmt.Errorf("inserting segment %s: %w", sg.ID, err)
			}
		}
	}

	for _, m := range op.Statutes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO opinion_statutes (opinion_id, category, serial_id, mentions) VALUES (?, ?, ?, ?)`,
			op.ID, m.Category, m.SerialID, m.Mentions,
		); err != nil {
			return fmt.Errorf("inserting statute %s %s: %w", m.Category, m.SerialID, err)
		}
	}
	for _, m := range op.Citations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO opinion_citations (opinion_id, category, serial_id, mentions) VALUES (?, ?, ?, ?)`,
			op.ID, m.Category, m.SerialID, m.Mentions,
		); err != nil {
			return fmt.Errorf("inserting citation %s %s: %w", m.Category, m.SerialID, err)
		}
	}
	return nil
}

// LinkAuthors links each email to a stored decision through the
// individuals table. Every failure wraps ErrPartialLink; the remaining
// emails are still linked.
func (s *Store) LinkAuthors(ctx context.Context, decisionID string, emails []string) error {
	var errs []error
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		if err := s.linkAuthor(ctx, decisionID, email); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s to %s: %v", ErrPartialLink, email, decisionID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Store) linkAuthor(ctx context.Context, decisionID, email string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO individuals (email) VALUES (?) ON CONFLICT(email) DO NOTHING`, email,
	); err != nil {
		return err
	}
	var individualID int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT id FROM individuals WHERE email = ?`, email,
	).Scan(&individualID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions_individuals (decision_id, individual_id) VALUES (?, ?)
		 ON CONFLICT(decision_id, individual_id) DO NOTHING`,
		decisionID, individualID,
	)
	return err
}

// DecisionIDs returns every stored decision id, sorted.
func (s *Store) DecisionIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM decisions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing decisions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning decision id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TableCount is the row count of one table.
type TableCount struct {
	Table string
	Rows  int
}

// Counts returns the row count of every table in Tables order.
func (s *Store) Counts(ctx context.Context) ([]TableCount, error) {
	counts := make([]TableCount, 0, len(Tables))
	for _, table := range Tables {
		var n int
		if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}
	return counts, nil
}

// isKeyConflict reports whether err is a primary-key or unique violation.
func isKeyConflict(err error) bool {
	var sqlErr sqlite3.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	return sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDate(d types.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}
