// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Composition is the deciding body of the court.
type Composition string

const (
	CompositionEnBanc      Composition = "En Banc"
	CompositionDivision    Composition = "Division"
	CompositionUnspecified Composition = "Unspecified"
)

// Category distinguishes full decisions from resolutions.
type Category string

const (
	CategoryDecision    Category = "Decision"
	CategoryResolution  Category = "Resolution"
	CategoryUnspecified Category = "Unspecified"
)

// OpinionTag labels the kind of an opinion, derived from its title.
type OpinionTag string

const (
	TagPonencia   OpinionTag = "Ponencia"
	TagConcurring OpinionTag = "Concurring"
	TagDissenting OpinionTag = "Dissenting"
	TagSeparate   OpinionTag = "Separate"
)

// PonenciaTitle is the title of the controlling opinion.
const PonenciaTitle = "Ponencia"

// NoticeTitle is the title of the controlling opinion of a court notice.
const NoticeTitle = "Notice"

// IsMainOpinion reports whether an opinion titled title is the decision's
// controlling opinion.
func IsMainOpinion(title string) bool {
	return title == PonenciaTitle || title == NoticeTitle
}

// Citation identifies a decision by docket and, optionally, by the
// reporters that published it.
type Citation struct {
	// DocketCategory is the docket prefix, e.g. "GR", "AM", "AC", "BM".
	DocketCategory string `json:"docket_category,omitempty" yaml:"docket_category,omitempty"`

	// DocketSerial is the docket number, e.g. "L-12345" or "123456".
	DocketSerial string `json:"docket_serial,omitempty" yaml:"docket_serial,omitempty"`

	// DocketDate is the promulgation date carried by the docket.
	DocketDate *Date `json:"docket_date,omitempty" yaml:"docket_date,omitempty"`

	Phil string `json:"phil,omitempty" yaml:"phil,omitempty"`
	SCRA string `json:"scra,omitempty" yaml:"scra,omitempty"`
	OffG string `json:"offg,omitempty" yaml:"offg,omitempty"`
}

// HasDocket reports whether the docket triple is complete.
func (c Citation) HasDocket() bool {
	return c.DocketCategory != "" && c.DocketSerial != "" && c.DocketDate != nil
}

// HasReport reports whether any reporter citation is present.
func (c Citation) HasReport() bool {
	return c.Phil != "" || c.SCRA != "" || c.OffG != ""
}

// Display renders the citation the way it is written in decisions, e.g.
// "G.R. No. 123456, Dec. 1, 1995, 250 SCRA 1".
func (c Citation) Display() string {
	var parts []string
	if c.HasDocket() {
		parts = append(parts, fmt.Sprintf("%s No. %s, %s",
			DocketLabel(c.DocketCategory), c.DocketSerial, c.DocketDate.Format("Jan. 2, 2006")))
	}
	for _, r := range []string{c.SCRA, c.Phil, c.OffG} {
		if r != "" {
			parts = append(parts, r)
		}
	}
	return strings.Join(parts, ", ")
}

// DocketLabel expands a compact docket category into its dotted form.
func DocketLabel(category string) string {
	switch strings.ToUpper(category) {
	case "GR":
		return "G.R."
	case "AM":
		return "A.M."
	case "AC":
		return "A.C."
	case "BM":
		return "B.M."
	}
	return strings.ToUpper(category)
}

// Decision is the root of a persisted record graph.
type Decision struct {
	ID          string      `json:"id" yaml:"id"`
	Origin      string      `json:"origin" yaml:"origin"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Date        Date        `json:"date" yaml:"date"`
	DateScraped Date        `json:"date_scraped" yaml:"date_scraped"`
	Composition Composition `json:"composition" yaml:"composition"`
	Category    Category    `json:"category" yaml:"category"`

	// RawPonente is the title-cased surname of a resolved ponente, or the
	// verbatim source text when resolution failed.
	RawPonente string `json:"raw_ponente,omitempty" yaml:"raw_ponente,omitempty"`
	JusticeID  *int   `json:"justice_id,omitempty" yaml:"justice_id,omitempty"`
	PerCuriam  bool   `json:"per_curiam" yaml:"per_curiam"`
	IsPDF      bool   `json:"is_pdf" yaml:"is_pdf"`
	Fallo      string `json:"fallo,omitempty" yaml:"fallo,omitempty"`
	Voting     string `json:"voting,omitempty" yaml:"voting,omitempty"`

	Citation Citation `json:"citation" yaml:"citation"`
	Emails   []string `json:"emails,omitempty" yaml:"emails,omitempty"`
}

// CitationMention counts references to another decision within an opinion.
type CitationMention struct {
	Category string `json:"category" yaml:"category"`
	SerialID string `json:"serial_id" yaml:"serial_id"`
	Mentions int    `json:"mentions" yaml:"mentions"`
}

// StatuteMention counts references to a statute within an opinion.
type StatuteMention struct {
	Category string `json:"category" yaml:"category"`
	SerialID string `json:"serial_id" yaml:"serial_id"`
	Mentions int    `json:"mentions" yaml:"mentions"`
}

// Segment is one searchable line of an opinion body.
type Segment struct {
	ID         string `json:"id" yaml:"id"`
	DecisionID string `json:"decision_id" yaml:"decision_id"`
	OpinionID  string `json:"opinion_id" yaml:"opinion_id"`

	// Position is "<paragraph>-<line>".
	Position  string `json:"position" yaml:"position"`
	CharCount int    `json:"char_count" yaml:"char_count"`
	Text      string `json:"segment" yaml:"segment"`
}

// Opinion is a single written opinion belonging to a Decision.
type Opinion struct {
	ID         string            `json:"id" yaml:"id"`
	DecisionID string            `json:"decision_id" yaml:"decision_id"`
	JusticeID  *int              `json:"justice_id,omitempty" yaml:"justice_id,omitempty"`
	Title      string            `json:"title" yaml:"title"`
	Text       string            `json:"text" yaml:"text"`
	PDF        string            `json:"pdf,omitempty" yaml:"pdf,omitempty"`
	Remark     string            `json:"remark,omitempty" yaml:"remark,omitempty"`
	Tags       []OpinionTag      `json:"tags,omitempty" yaml:"tags,omitempty"`
	Statutes   []StatuteMention  `json:"statutes,omitempty" yaml:"statutes,omitempty"`
	Segments   []Segment         `json:"segments,omitempty" yaml:"segments,omitempty"`
	Citations  []CitationMention `json:"citations,omitempty" yaml:"citations,omitempty"`
}

// VoteLine is a line of the voting block that names how justices voted.
type VoteLine struct {
	DecisionID string `json:"decision_id" yaml:"decision_id"`
	Text       string `json:"text" yaml:"text"`
}

// TitleTag is a party or forum label derived from the case title.
type TitleTag struct {
	DecisionID string `json:"decision_id" yaml:"decision_id"`
	Tag        string `json:"tag" yaml:"tag"`
}

// DecisionRecord is the fully assembled graph for one decision.
type DecisionRecord struct {
	Decision  Decision   `json:"decision" yaml:"decision"`
	Opinions  []Opinion  `json:"opinions" yaml:"opinions"`
	VoteLines []VoteLine `json:"vote_lines,omitempty" yaml:"vote_lines,omitempty"`
	TitleTags []TitleTag `json:"title_tags,omitempty" yaml:"title_tags,omitempty"`
}
