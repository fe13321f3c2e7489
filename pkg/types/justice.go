// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Designation is the title a justice carries when writing an opinion.
type Designation string

const (
	DesignationAssociate Designation = "J."
	DesignationChief     Designation = "C.J."
)

// Justice is one entry of the court roster. Roster entries are reference
// data: loaded once per process and never modified by the pipeline.
type Justice struct {
	// ID is the roster's numeric identifier, also used as an opinion key.
	ID int `json:"id" yaml:"id"`

	// LastName is the surname as it appears in the roster.
	LastName string `json:"last_name" yaml:"last_name"`

	// Alias is an alternate lowercase matching key, e.g. "davide jr.".
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`

	// StartTerm is the first day the justice sat on the court.
	StartTerm Date `json:"start_term" yaml:"start_term"`

	// InactiveDate is the first day the justice no longer sat. A zero
	// value means the justice is still active.
	InactiveDate Date `json:"inactive_date" yaml:"inactive_date"`

	// ChiefDate is set when the justice became Chief Justice.
	ChiefDate *Date `json:"chief_date,omitempty" yaml:"chief_date,omitempty"`
}

// ActiveOn reports whether d falls within [StartTerm, InactiveDate).
func (j Justice) ActiveOn(d Date) bool {
	if d.Before(j.StartTerm) {
		return false
	}
	return j.InactiveDate.IsZero() || d.Before(j.InactiveDate)
}

// DesignationOn returns C.J. when chief_date <= d < inactive_date and J.
// otherwise.
func (j Justice) DesignationOn(d Date) Designation {
	if j.ChiefDate == nil || d.Before(*j.ChiefDate) {
		return DesignationAssociate
	}
	if !j.InactiveDate.IsZero() && !d.Before(j.InactiveDate) {
		return DesignationAssociate
	}
	return DesignationChief
}
