// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/k3a/html2text"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sc-decisions/internal/citation"
	"github.com/pdiddy/sc-decisions/internal/classify"
	"github.com/pdiddy/sc-decisions/internal/justice"
	"github.com/pdiddy/sc-decisions/internal/storage"
	"github.com/pdiddy/sc-decisions/pkg/types"
)

// Object names inside a decision folder.
const (
	DetailsFile  = "details.yaml"
	FalloFile    = "fallo.html"
	OpinionsDir  = "opinions"
	PonenciaFile = "ponencia.md"
)

// Heading length bounds for opinion titles, inclusive.
const (
	minHeading = 5
	maxHeading = 50
)

var headingRe = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t#]*$`)

// htmlDetails is the layout of details.yaml.
type htmlDetails struct {
	CaseTitle   string     `yaml:"case_title"`
	DateProm    types.Date `yaml:"date_prom"`
	DateScraped types.Date `yaml:"date_scraped"`
	Ponente     string     `yaml:"ponente"`
	Composition string     `yaml:"composition"`
	Category    string     `yaml:"category"`
	Voting      string     `yaml:"voting"`
	Emails      []string   `yaml:"emails"`
	Origin      string     `yaml:"origin"`

	// Docket is a full citation string, e.g. "G.R. No. 123456, Dec. 1, 1995".
	Docket string `yaml:"docket"`

	DocketCategory string `yaml:"docket_category"`
	Serial         string `yaml:"serial"`

	SCRA string `yaml:"scra"`
	Phil string `yaml:"phil"`
	OffG string `yaml:"offg"`
}

// HTMLNormalizer reads e-library folders from a bucket.
type HTMLNormalizer struct {
	bucket   storage.Bucket
	resolver *justice.Resolver
	log      *zap.Logger
}

// NewHTMLNormalizer returns a normalizer reading from bucket.
func NewHTMLNormalizer(bucket storage.Bucket, resolver *justice.Resolver, log *zap.Logger) *HTMLNormalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTMLNormalizer{bucket: bucket, resolver: resolver, log: log}
}

// Normalize reads the folder at prefix. Rejected opinions are logged and
// skipped; the record itself fails with ErrValidation when its citation is
// unusable or no opinion survives.
func (n *HTMLNormalizer) Normalize(ctx context.Context, prefix string) (*HTMLDraft, error) {
	prefix = strings.Trim(prefix, "/")
	log := n.log.With(zap.String("prefix", prefix))

	data, found, err := n.bucket.Get(ctx, storage.Join(prefix, DetailsFile))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, invalid("%s has no %s", prefix, DetailsFile)
	}

	var det htmlDetails
	if err := yaml.Unmarshal(data, &det); err != nil {
		return nil, invalid("parsing %s/%s: %v", prefix, DetailsFile, err)
	}
	if strings.TrimSpace(det.CaseTitle) == "" {
		return nil, invalid("%s has no case_title", prefix)
	}
	if det.DateProm.IsZero() {
		return nil, invalid("%s has no date_prom", prefix)
	}

	cite, err := htmlCitation(det)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", prefix, err)
	}

	d := &HTMLDraft{DraftFields: DraftFields{
		Prefix:      prefix,
		Origin:      det.Origin,
		Title:       strings.TrimSpace(det.CaseTitle),
		Date:        det.DateProm,
		DateScraped: det.DateScraped,
		Composition: classify.Composition(det.Composition),
		Category:    classify.Category(det.Category, false),
		Citation:    cite,
		Voting:      classify.CleanVoting(det.Voting),
		Emails:      emailsOrDefault(det.Emails),
		Legacy:      !cite.HasDocket(),
	}}
	if d.Origin == "" {
		d.Origin = path.Base(prefix)
	}

	d.Ponente, err = n.resolver.Resolve(det.Ponente, det.DateProm)
	if err != nil {
		log.Warn("ponente left unresolved", zap.Error(err))
	}

	fallo, found, err := n.bucket.Get(ctx, storage.Join(prefix, FalloFile))
	if err != nil {
		return nil, err
	}
	if found {
		d.Fallo = strings.TrimSpace(html2text.HTML2Text(string(fallo)))
	}

	d.Opinions, err = n.opinions(ctx, prefix, d.Ponente, log)
	if err != nil {
		return nil, err
	}
	if len(d.Opinions) == 0 {
		return nil, fmt.Errorf("%s: %w", prefix, ErrNoOpinions)
	}
	return d, nil
}

// htmlCitation derives the citation from details.yaml, preferring the full
// docket string over the separate category and serial fields.
func htmlCitation(det htmlDetails) (types.Citation, error) {
	var c types.Citation
	if det.Docket != "" {
		parsed, err := citation.Parse(det.Docket)
		if err != nil {
			return c, invalid("%v", err)
		}
		c = parsed
	} else if det.DocketCategory != "" || det.Serial != "" {
		parsed, err := citation.FromFields(det.DocketCategory, det.Serial, det.DateProm)
		if err != nil {
			return c, invalid("%v", err)
		}
		c = parsed
	}

	if err := checkDocketDate(c, det.DateProm); err != nil {
		return c, err
	}
	if c.DocketCategory != "" && c.DocketSerial != "" && c.DocketDate == nil {
		date := det.DateProm
		c.DocketDate = &date
	}

	if det.SCRA != "" {
		c.SCRA = det.SCRA
	}
	if det.Phil != "" {
		c.Phil = det.Phil
	}
	if det.OffG != "" {
		c.OffG = det.OffG
	}

	if !c.HasDocket() && !c.HasReport() {
		return c, invalid("no usable citation")
	}
	return c, nil
}

func (n *HTMLNormalizer) opinions(ctx context.Context, prefix string, ponente justice.Detail, log *zap.Logger) ([]DraftOpinion, error) {
	dir := storage.Join(prefix, OpinionsDir) + "/"
	keys, err := n.bucket.List(ctx, dir)
	if err != nil {
		return nil, err
	}

	var out []DraftOpinion
	for _, key := range keys {
		name := path.Base(key)
		if !strings.HasSuffix(name, ".md") || path.Dir(key) != strings.TrimSuffix(dir, "/") {
			continue
		}
		op, err := n.opinion(ctx, key, ponente)
		if err != nil {
			if !errors.Is(err, ErrValidation) {
				return nil, err
			}
			log.Error("opinion rejected", zap.String("key", key), zap.Error(err))
			continue
		}
		out = append(out, op)
	}
	return out, nil
}

func (n *HTMLNormalizer) opinion(ctx context.Context, key string, ponente justice.Detail) (DraftOpinion, error) {
	stem := strings.TrimSuffix(path.Base(key), ".md")

	var op DraftOpinion
	switch {
	case path.Base(key) == PonenciaFile:
		op.Key = "ponencia"
		op.JusticeID = ponente.JusticeID
	default:
		id, err := strconv.Atoi(stem)
		if err != nil {
			return op, invalid("opinion file %q is neither ponencia nor a justice id", path.Base(key))
		}
		if _, ok := n.resolver.Roster().Get(id); !ok {
			return op, invalid("opinion file %q names unknown justice %d", path.Base(key), id)
		}
		op.Key = stem
		op.JusticeID = &id
	}

	data, found, err := n.bucket.Get(ctx, key)
	if err != nil {
		return op, err
	}
	if !found {
		return op, invalid("opinion %s disappeared", key)
	}

	title, err := HeadingTitle(string(data))
	if err != nil {
		return op, err
	}
	op.Title = title
	op.Text = strings.TrimSpace(string(data))
	return op, nil
}

// HeadingTitle returns the first Markdown H1 of an opinion as its title.
// The heading must be 5 to 50 characters. The heading stays part of the
// opinion text, so segment positions count it as paragraph 0.
func HeadingTitle(md string) (string, error) {
	m := headingRe.FindStringSubmatch(md)
	if m == nil {
		return "", invalid("opinion has no H1 heading")
	}
	title := strings.TrimSpace(m[1])
	if n := utf8.RuneCountInString(title); n < minHeading || n > maxHeading {
		return "", invalid("heading %q is %d characters, want %d-%d", title, n, minHeading, maxHeading)
	}
	return title, nil
}
