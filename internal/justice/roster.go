// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package justice loads the court roster and resolves free-text ponente
// strings to the single justice active on a decision date.
package justice

import (
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sc-decisions/pkg/types"
)

// Roster is an immutable list of justices queried by active date.
type Roster struct {
	justices []types.Justice
	byID     map[int]types.Justice
}

// NewRoster builds a Roster from justices. Duplicate ids are rejected.
func NewRoster(justices []types.Justice) (*Roster, error) {
	r := &Roster{
		justices: make([]types.Justice, 0, len(justices)),
		byID:     make(map[int]types.Justice, len(justices)),
	}
	for _, j := range justices {
		if _, dup := r.byID[j.ID]; dup {
			return nil, fmt.Errorf("duplicate justice id %d", j.ID)
		}
		if j.LastName == "" {
			return nil, fmt.Errorf("justice %d has no last_name", j.ID)
		}
		if j.StartTerm.IsZero() {
			return nil, fmt.Errorf("justice %d has no start_term", j.ID)
		}
		r.byID[j.ID] = j
		r.justices = append(r.justices, j)
	}
	return r, nil
}

// ParseRoster decodes a YAML list of justices.
func ParseRoster(data []byte) (*Roster, error) {
	var justices []types.Justice
	if err := yaml.Unmarshal(data, &justices); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	return NewRoster(justices)
}

// LoadRoster reads a roster YAML file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}
	return ParseRoster(data)
}

// Len returns the number of justices.
func (r *Roster) Len() int {
	return len(r.justices)
}

// All returns a copy of every justice in roster order.
func (r *Roster) All() []types.Justice {
	out := make([]types.Justice, len(r.justices))
	copy(out, r.justices)
	return out
}

// Get returns the justice with the given id.
func (r *Roster) Get(id int) (types.Justice, bool) {
	j, ok := r.byID[id]
	return j, ok
}

// ActiveOn returns the justices sitting on d, most recently appointed
// first. Ties on start_term are broken by descending id.
func (r *Roster) ActiveOn(d types.Date) []types.Justice {
	var active []types.Justice
	for _, j := range r.justices {
		if j.ActiveOn(d) {
			active = append(active, j)
		}
	}
	sort.SliceStable(active, func(a, b int) bool {
		if !active[a].StartTerm.Equal(active[b].StartTerm) {
			return active[a].StartTerm.After(active[b].StartTerm)
		}
		return active[a].ID > active[b].ID
	})
	return active
}
