// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source normalizes raw decision records, either scraped HTML
// folders or rows from the PDF extraction database, into drafts with
// resolved ponentes and a validated citation.
package source

import (
	"errors"
	"fmt"

	"github.com/pdiddy/sc-decisions/internal/justice"
	"github.com/pdiddy/sc-decisions/pkg/types"
)

var (
	// ErrValidation marks a source record that cannot be normalized.
	ErrValidation = errors.New("invalid source record")

	// ErrNoOpinions is an ErrValidation for records without a usable opinion.
	ErrNoOpinions = fmt.Errorf("%w: no opinions recovered", ErrValidation)
)

// DefaultEmail is credited as author when a source lists none.
const DefaultEmail = "bot@lawsql.com"

// Origin labels.
const (
	OriginHTML = "html"
	OriginPDF  = "pdf"
)

// DraftOpinion is one opinion before ids, segments and mentions are derived.
type DraftOpinion struct {
	// Key becomes the opinion id suffix: "ponencia", a justice id, or the
	// source opinion id.
	Key       string
	JusticeID *int
	Title     string
	Text      string
	PDF       string
	Remark    string
}

// DraftFields holds what both source variants produce.
type DraftFields struct {
	// Prefix is the bucket folder the record came from.
	Prefix string

	// Origin is the source's own identifier for the record.
	Origin string

	Title       string
	Date        types.Date
	DateScraped types.Date
	Composition types.Composition
	Category    types.Category
	Citation    types.Citation

	// Ponente is the decision-level resolution.
	Ponente justice.Detail

	Voting string
	Fallo  string
	Emails []string

	// Legacy records carry no complete docket; their id comes from Prefix.
	Legacy bool

	Opinions []DraftOpinion
}

// Draft is a normalized record: *HTMLDraft or *PDFDraft.
type Draft interface {
	Fields() *DraftFields
	IsPDF() bool
	draft()
}

// HTMLDraft is a draft read from a scraped e-library folder.
type HTMLDraft struct {
	DraftFields
}

func (d *HTMLDraft) Fields() *DraftFields { return &d.DraftFields }
func (d *HTMLDraft) IsPDF() bool          { return false }
func (d *HTMLDraft) draft()               {}

// PDFDraft is a draft read from the PDF extraction output.
type PDFDraft struct {
	DraftFields

	// RowID is the extraction database's decision id.
	RowID string
}

func (d *PDFDraft) Fields() *DraftFields { return &d.DraftFields }
func (d *PDFDraft) IsPDF() bool          { return true }
func (d *PDFDraft) draft()               {}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// checkDocketDate enforces that a citation's own docket date matches the
// decision date.
func checkDocketDate(c types.Citation, date types.Date) error {
	if c.DocketDate != nil && !c.DocketDate.Equal(date) {
		return invalid("docket date %s differs from decision date %s", c.DocketDate, date)
	}
	return nil
}

func emailsOrDefault(emails []string) []string {
	var out []string
	for _, e := range emails {
		if e != "" {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return []string{DefaultEmail}
	}
	return out
}
