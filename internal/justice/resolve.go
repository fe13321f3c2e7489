// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package justice

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/pdiddy/sc-decisions/pkg/types"
)

// ErrAmbiguousIdentity is returned when more than one active justice
// matches a ponente string. The resolution is left unresolved.
var ErrAmbiguousIdentity = errors.New("ambiguous justice identity")

// Detail is the outcome of resolving one ponente string.
type Detail struct {
	// JusticeID is set only when exactly one active justice matched.
	JusticeID *int

	// RawPonente is the title-cased surname when resolved, otherwise the
	// source text as given.
	RawPonente  string
	Designation types.Designation
	PerCuriam   bool
}

// Resolved reports whether a justice was identified.
func (d Detail) Resolved() bool {
	return d.JusticeID != nil
}

type choice struct {
	justice *types.Justice
	err     error
}

// Resolver matches ponente strings against a Roster. Results are memoized
// per (token, date); the roster is immutable so entries never expire.
type Resolver struct {
	roster *Roster
	cache  *cache.Cache
	log    *zap.Logger
}

// NewResolver returns a Resolver over roster. A nil logger discards output.
func NewResolver(roster *Roster, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		roster: roster,
		cache:  cache.New(cache.NoExpiration, 0),
		log:    log,
	}
}

// Roster returns the roster the resolver matches against.
func (r *Resolver) Roster() *Roster {
	return r.roster
}

// Choose finds the single justice active on d whose alias or surname
// matches candidate. It returns (nil, nil) when nothing matches and
// ErrAmbiguousIdentity when several distinct justices do.
func (r *Resolver) Choose(candidate string, d types.Date) (*types.Justice, error) {
	key := candidate + "|" + d.String()
	if cached, found := r.cache.Get(key); found {
		c := cached.(choice)
		return c.justice, c.err
	}

	j, err := r.choose(candidate, d)
	r.cache.Set(key, choice{justice: j, err: err}, cache.DefaultExpiration)
	return j, err
}

func (r *Resolver) choose(candidate string, d types.Date) (*types.Justice, error) {
	if candidate == "" {
		return nil, nil
	}
	active := r.roster.ActiveOn(d)

	var byAlias []types.Justice
	for _, j := range active {
		alias := strings.ToLower(j.Alias)
		if alias != "" && (candidate == alias || strings.HasSuffix(candidate, " "+alias)) {
			byAlias = append(byAlias, j)
		}
	}
	if j, err := r.single(byAlias, candidate, d); j != nil || err != nil {
		return j, err
	}

	bare := trimSuffix(candidate)
	bySurname := matchSurname(active, candidate, bare)
	if len(bySurname) == 0 {
		bySurname = matchSurname(active, lastWord(bare))
	}
	return r.single(bySurname, candidate, d)
}

// matchSurname returns the justices whose whole surname equals one of keys.
func matchSurname(active []types.Justice, keys ...string) []types.Justice {
	var out []types.Justice
	for _, j := range active {
		if slices.Contains(keys, strings.ToLower(StripDiacritics(j.LastName))) {
			out = append(out, j)
		}
	}
	return out
}

func (r *Resolver) single(matches []types.Justice, candidate string, d types.Date) (*types.Justice, error) {
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		j := matches[0]
		return &j, nil
	}
	ids := make([]int, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	r.log.Warn("ambiguous ponente",
		zap.String("candidate", candidate),
		zap.String("date", d.String()),
		zap.Ints("justice_ids", ids))
	return nil, fmt.Errorf("%w: %q on %s matches %v", ErrAmbiguousIdentity, candidate, d, ids)
}

// Resolve turns a free-text ponente into a Detail for decision date d.
// Text naming no writer yields a per curiam Detail. An ambiguous match
// returns the unresolved Detail together with ErrAmbiguousIdentity.
func (r *Resolver) Resolve(text string, d types.Date) (Detail, error) {
	token, perCuriam := CandidateName(text)
	if perCuriam {
		return Detail{PerCuriam: true}, nil
	}

	raw := strings.TrimSpace(text)
	j, err := r.Choose(token, d)
	if err != nil {
		return Detail{RawPonente: raw}, err
	}
	if j == nil {
		return Detail{RawPonente: raw}, nil
	}

	id := j.ID
	return Detail{
		JusticeID:   &id,
		RawPonente:  TitleName(j.LastName),
		Designation: j.DesignationOn(d),
	}, nil
}
