// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sc-decisions/internal/citation"
	"github.com/pdiddy/sc-decisions/internal/classify"
	"github.com/pdiddy/sc-decisions/internal/justice"
	"github.com/pdiddy/sc-decisions/internal/segment"
	"github.com/pdiddy/sc-decisions/internal/storage"
	"github.com/pdiddy/sc-decisions/pkg/types"
)

// PDFFile is the object holding a PDF row inside a bucket folder.
const PDFFile = "pdf.yaml"

// NoticeTitle is given to untitled opinions of court notices.
const NoticeTitle = types.NoticeTitle

// annexSeparator keeps annex footnotes in the opinion text but after the
// segmenter's stop line.
const annexSeparator = "\n\n" + segment.FootnoteMarker + "\n\n"

// OpinionRef is a source opinion id stored as either a JSON number or string.
type OpinionRef string

// UnmarshalJSON accepts 12 and "12".
func (r *OpinionRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = OpinionRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("opinion id %s: %w", data, err)
	}
	*r = OpinionRef(n.String())
	return nil
}

// RawPDFOpinion is one element of a row's opinions array.
type RawPDFOpinion struct {
	ID     OpinionRef `json:"id" yaml:"id"`
	PDF    string     `json:"pdf" yaml:"pdf"`
	Title  string     `json:"title" yaml:"title"`
	Writer string     `json:"writer" yaml:"writer"`
	Body   string     `json:"body" yaml:"body"`
	Annex  string     `json:"annex" yaml:"annex"`
}

// RawPDFRow is one decision produced by the PDF extraction job.
type RawPDFRow struct {
	ID             string          `json:"id" yaml:"id"`
	Title          string          `json:"title" yaml:"title"`
	DocketCategory string          `json:"docket_category" yaml:"docket_category"`
	Serial         string          `json:"serial" yaml:"serial"`
	Date           string          `json:"date" yaml:"date"`
	Scraped        string          `json:"scraped" yaml:"scraped"`
	Composition    string          `json:"composition" yaml:"composition"`
	Category       string          `json:"category" yaml:"category"`
	Notice         bool            `json:"notice" yaml:"notice"`
	Opinions       []RawPDFOpinion `json:"opinions" yaml:"opinions"`
}

// LoadPDFRow reads <prefix>/pdf.yaml from bucket.
func LoadPDFRow(ctx context.Context, b storage.Bucket, prefix string) (RawPDFRow, bool, error) {
	var row RawPDFRow
	data, found, err := b.Get(ctx, storage.Join(prefix, PDFFile))
	if err != nil || !found {
		return row, found, err
	}
	if err := yaml.Unmarshal(data, &row); err != nil {
		return row, true, invalid("parsing %s/%s: %v", prefix, PDFFile, err)
	}
	return row, true, nil
}

// PDFNormalizer turns extraction rows into drafts.
type PDFNormalizer struct {
	resolver *justice.Resolver
	baseURL  *url.URL
	log      *zap.Logger
}

// NewPDFNormalizer returns a normalizer resolving relative PDF links
// against baseURL.
func NewPDFNormalizer(resolver *justice.Resolver, baseURL string, log *zap.Logger) (*PDFNormalizer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	n := &PDFNormalizer{resolver: resolver, log: log}
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing pdf base url: %w", err)
		}
		n.baseURL = u
	}
	return n, nil
}

// Normalize builds a draft from row. Each opinion's writer is resolved
// independently; the Ponencia opinion supplies the decision's ponente.
func (n *PDFNormalizer) Normalize(_ context.Context, row RawPDFRow) (*PDFDraft, error) {
	log := n.log.With(zap.String("row", row.ID))

	if strings.TrimSpace(row.Title) == "" {
		return nil, invalid("row %s has no title", row.ID)
	}
	date, err := types.ParseDate(row.Date)
	if err != nil {
		return nil, invalid("row %s date: %v", row.ID, err)
	}
	cite, err := citation.FromFields(row.DocketCategory, row.Serial, date)
	if err != nil {
		return nil, invalid("row %s: %v", row.ID, err)
	}
	prefix, err := citation.Prefix(cite)
	if err != nil {
		return nil, invalid("row %s: %v", row.ID, err)
	}

	d := &PDFDraft{
		RowID: row.ID,
		DraftFields: DraftFields{
			Prefix:      prefix,
			Origin:      row.ID,
			Title:       strings.TrimSpace(row.Title),
			Date:        date,
			Composition: classify.Composition(row.Composition),
			Category:    classify.Category(row.Category, row.Notice),
			Citation:    cite,
			Emails:      []string{DefaultEmail},
		},
	}
	if row.Scraped != "" {
		if scraped, err := types.ParseDate(row.Scraped); err == nil {
			d.DateScraped = scraped
		} else {
			log.Warn("unreadable scrape date", zap.String("scraped", row.Scraped))
		}
	}

	seen := make(map[string]bool)
	for i, raw := range row.Opinions {
		if strings.TrimSpace(raw.Body) == "" {
			log.Error("opinion rejected", zap.String("opinion", string(raw.ID)), zap.String("reason", "empty body"))
			continue
		}

		title := strings.TrimSpace(raw.Title)
		if title == "" && row.Notice {
			title = NoticeTitle
		}

		detail, err := n.resolver.Resolve(raw.Writer, date)
		if err != nil {
			log.Warn("opinion writer left unresolved", zap.String("opinion", string(raw.ID)), zap.Error(err))
		}

		op := DraftOpinion{
			Key:       opinionKey(title, detail, string(raw.ID)),
			JusticeID: detail.JusticeID,
			Title:     title,
			Text:      strings.TrimSpace(raw.Body),
			PDF:       n.pdfLink(raw.PDF),
		}
		if annex := strings.TrimSpace(raw.Annex); annex != "" {
			op.Text += annexSeparator + annex
		}
		if op.Key == "" {
			op.Key = "op" + strconv.Itoa(i)
		}
		if seen[op.Key] {
			op.Key += "-" + strconv.Itoa(i)
		}
		seen[op.Key] = true

		if types.IsMainOpinion(title) {
			d.Ponente = detail
		}
		d.Opinions = append(d.Opinions, op)
	}

	if len(d.Opinions) == 0 {
		return nil, fmt.Errorf("row %s: %w", row.ID, ErrNoOpinions)
	}
	return d, nil
}

// opinionKey is "ponencia" for the main opinion, else the resolved justice
// id, else the source opinion id.
func opinionKey(title string, detail justice.Detail, sourceID string) string {
	switch {
	case types.IsMainOpinion(title):
		return "ponencia"
	case detail.Resolved():
		return strconv.Itoa(*detail.JusticeID)
	default:
		return citation.Slug(sourceID)
	}
}

func (n *PDFNormalizer) pdfLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" || n.baseURL == nil {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	return n.baseURL.ResolveReference(ref).String()
}
