// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"iter"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultPDFQuery selects decision rows from the extraction database. Any
// replacement query must return the same columns in the same order, with
// opinions as a JSON array.
const DefaultPDFQuery = `SELECT id, title, docket_category, serial, date, scraped,
	composition, category, notice, opinions
FROM decisions
ORDER BY date, id`

// SQLRowSource reads RawPDFRows from the extraction SQLite database.
type SQLRowSource struct {
	db    *sql.DB
	query string
}

// OpenPDFDatabase opens the extraction database read-only.
func OpenPDFDatabase(path, query string) (*SQLRowSource, error) {
	if path == "" {
		return nil, fmt.Errorf("pdf database path is not configured")
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening pdf database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening pdf database %s: %w", path, err)
	}
	return NewSQLRowSource(db, query), nil
}

// NewSQLRowSource wraps an open database. An empty query selects
// DefaultPDFQuery.
func NewSQLRowSource(db *sql.DB, query string) *SQLRowSource {
	if query == "" {
		query = DefaultPDFQuery
	}
	return &SQLRowSource{db: db, query: query}
}

// Close releases the database connection.
func (s *SQLRowSource) Close() error {
	return s.db.Close()
}

// Rows yields each row in query order. A row whose opinions column is not
// valid JSON is yielded with an ErrValidation error and iteration
// continues; query failures end iteration.
func (s *SQLRowSource) Rows(ctx context.Context) iter.Seq2[RawPDFRow, error] {
	return func(yield func(RawPDFRow, error) bool) {
		rows, err := s.db.QueryContext(ctx, s.query)
		if err != nil {
			yield(RawPDFRow{}, fmt.Errorf("querying pdf rows: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var (
				row                                RawPDFRow
				title, cat, serial, date, scraped  sql.NullString
				composition, category, opinionJSON sql.NullString
				notice                             sql.NullInt64
			)
			if err := rows.Scan(&row.ID, &title, &cat, &serial, &date, &scraped,
				&composition, &category, &notice, &opinionJSON); err != nil {
				yield(RawPDFRow{}, fmt.Errorf("scanning pdf row: %w", err))
				return
			}
			row.Title = title.String
			row.DocketCategory = cat.String
			row.Serial = serial.String
			row.Date = date.String
			row.Scraped = scraped.String
			row.Composition = composition.String
			row.Category = category.String
			row.Notice = notice.Int64 > 0

			if opinionJSON.String != "" {
				if err := json.Unmarshal([]byte(opinionJSON.String), &row.Opinions); err != nil {
					if !yield(row, invalid("row %s opinions: %v", row.ID, err)) {
						return
					}
					continue
				}
			}
			if !yield(row, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(RawPDFRow{}, fmt.Errorf("reading pdf rows: %w", err))
		}
	}
}
