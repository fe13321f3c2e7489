// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify derives labels from decision metadata: court
// composition, decision category, opinion kinds, vote lines and title tags.
// Every classifier is best-effort and returns a fallback instead of an error.
package classify

import (
	"regexp"
	"strings"

	"github.com/pdiddy/sc-decisions/pkg/types"
)

var (
	divisionRe   = regexp.MustCompile(`(?i)div`)
	enBancRe     = regexp.MustCompile(`(?i)en`)
	decisionRe   = regexp.MustCompile(`(?i)d\s*e\s*c`)
	resolutionRe = regexp.MustCompile(`(?i)r\s*e\s*s`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// Composition reads the deciding body from free text such as
// "First Division" or "EN BANC".
func Composition(text string) types.Composition {
	switch {
	case text == "":
		return types.CompositionUnspecified
	case divisionRe.MatchString(text):
		return types.CompositionDivision
	case enBancRe.MatchString(text):
		return types.CompositionEnBanc
	}
	return types.CompositionUnspecified
}

// Category reads the decision category. Court notices are always
// resolutions.
func Category(text string, notice bool) types.Category {
	switch {
	case notice:
		return types.CategoryResolution
	case text == "":
		return types.CategoryUnspecified
	case decisionRe.MatchString(text):
		return types.CategoryDecision
	case resolutionRe.MatchString(text):
		return types.CategoryResolution
	}
	return types.CategoryUnspecified
}

var opinionKeywords = []struct {
	word string
	tag  types.OpinionTag
}{
	{"ponencia", types.TagPonencia},
	{"concur", types.TagConcurring},
	{"dissent", types.TagDissenting},
	{"separate", types.TagSeparate},
}

// OpinionTags labels an opinion by keywords in its title. A title such as
// "Concurring and Dissenting Opinion" carries both tags.
func OpinionTags(title string) []types.OpinionTag {
	lower := strings.ToLower(title)
	var tags []types.OpinionTag
	for _, k := range opinionKeywords {
		if strings.Contains(lower, k.word) {
			tags = append(tags, k.tag)
		}
	}
	return tags
}

// CleanVoting collapses runs of spaces and tabs within each line and drops
// blank lines.
func CleanVoting(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(spaceRe.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

var voteKeywords = []string{
	"concur", "dissent", "join", "no part", "on leave", "on official leave",
	"abstain", "inhibit", "separate opinion", "certify", "vote",
}

// minVoteLine is the shortest line considered a vote line.
const minVoteLine = 10

// VoteLines picks the lines of the voting block that say how justices
// voted.
func VoteLines(decisionID, voting string) []types.VoteLine {
	var out []types.VoteLine
	for _, line := range strings.Split(CleanVoting(voting), "\n") {
		if len(line) <= minVoteLine {
			continue
		}
		lower := strings.ToLower(line)
		for _, k := range voteKeywords {
			if strings.Contains(lower, k) {
				out = append(out, types.VoteLine{DecisionID: decisionID, Text: line})
				break
			}
		}
	}
	return out
}

var titleTagRules = []struct {
	tag string
	re  *regexp.Regexp
}{
	{"pp", regexp.MustCompile(`(?i)\bpeople\s+of\s+the\s+philippines\b`)},
	{"rp", regexp.MustCompile(`(?i)\brepublic\s+of\s+the\s+philippines\b`)},
	{"cir", regexp.MustCompile(`(?i)\bcommissioner\s+of\s+internal\s+revenue\b`)},
	{"comelec", regexp.MustCompile(`(?i)\b(?:comelec|commission\s+on\s+elections)\b`)},
	{"nlrc", regexp.MustCompile(`(?i)\b(?:nlrc|national\s+labor\s+relations\s+commission)\b`)},
	{"csc", regexp.MustCompile(`(?i)\bcivil\s+service\s+commission\b`)},
	{"ombudsman", regexp.MustCompile(`(?i)\bombudsman\b`)},
	{"ca", regexp.MustCompile(`(?i)\bcourt\s+of\s+appeals\b`)},
	{"sb", regexp.MustCompile(`(?i)\bsandiganbayan\b`)},
	{"cta", regexp.MustCompile(`(?i)\bcourt\s+of\s+tax\s+appeals\b`)},
	{"admin", regexp.MustCompile(`(?i)\b(?:re:|in\s+re\b|complainant|respondent\s+judge|clerk\s+of\s+court)`)},
}

// TitleTags labels a case title with the parties and forums it names.
func TitleTags(decisionID, title string) []types.TitleTag {
	var out []types.TitleTag
	for _, r := range titleTagRules {
		if r.re.MatchString(title) {
			out = append(out, types.TitleTag{DecisionID: decisionID, Tag: r.tag})
		}
	}
	return out
}
