// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"2006-03-30", NewDate(2006, time.March, 30)},
		{"March 30, 2006", NewDate(2006, time.March, 30)},
		{"Dec. 1, 1995", NewDate(1995, time.December, 1)},
		{"Sept. 5, 2001", NewDate(2001, time.September, 5)},
		{"  Jan  2,   2020 ", NewDate(2020, time.January, 2)},
		{"2006-03-30T10:00:00Z", NewDate(2006, time.March, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	for _, bad := range []string{"", "   ", "30th of March"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateSerialization(t *testing.T) {
	type doc struct {
		When  Date  `json:"when" yaml:"when"`
		Maybe *Date `json:"maybe,omitempty" yaml:"maybe,omitempty"`
	}

	var y doc
	require.NoError(t, yaml.Unmarshal([]byte("when: 1995-12-01\n"), &y))
	assert.Equal(t, "1995-12-01", y.When.String())
	assert.Nil(t, y.Maybe)

	out, err := yaml.Marshal(y)
	require.NoError(t, err)
	assert.Equal(t, "when: \"1995-12-01\"\n", string(out))

	var j doc
	require.NoError(t, json.Unmarshal([]byte(`{"when":"March 30, 2006","maybe":""}`), &j))
	assert.Equal(t, "2006-03-30", j.When.String())
	require.NotNil(t, j.Maybe)
	assert.True(t, j.Maybe.IsZero())

	b, err := json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(b))
}

func TestJusticeActiveOn(t *testing.T) {
	chief := NewDate(2005, time.December, 20)
	j := Justice{
		ID:           137,
		LastName:     "panganiban",
		StartTerm:    NewDate(1995, time.October, 10),
		InactiveDate: NewDate(2006, time.December, 7),
		ChiefDate:    &chief,
	}

	tests := []struct {
		name        string
		date        Date
		active      bool
		designation Designation
	}{
		{"before term", NewDate(1995, time.October, 9), false, DesignationAssociate},
		{"first day", NewDate(1995, time.October, 10), true, DesignationAssociate},
		{"associate", NewDate(1995, time.December, 1), true, DesignationAssociate},
		{"chief from chief date", chief, true, DesignationChief},
		{"chief", NewDate(2006, time.March, 30), true, DesignationChief},
		{"inactive date excluded", NewDate(2006, time.December, 7), false, DesignationAssociate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.active, j.ActiveOn(tt.date))
			assert.Equal(t, tt.designation, j.DesignationOn(tt.date))
		})
	}

	open := Justice{ID: 1, StartTerm: NewDate(2020, time.January, 1)}
	assert.True(t, open.ActiveOn(NewDate(2030, time.January, 1)))
}

func TestCitationDisplay(t *testing.T) {
	d := NewDate(2006, time.March, 30)
	tests := []struct {
		name string
		c    Citation
		want string
	}{
		{"docket and report", Citation{DocketCategory: "GR", DocketSerial: "123456", DocketDate: &d, SCRA: "485 SCRA 10"},
			"G.R. No. 123456, Mar. 30, 2006, 485 SCRA 10"},
		{"report only", Citation{Phil: "45 Phil. 12"}, "45 Phil. 12"},
		{"incomplete docket", Citation{DocketCategory: "AM", DocketSerial: "RTJ-01-1"}, ""},
		{"other category", Citation{DocketCategory: "am", DocketSerial: "1", DocketDate: &d}, "A.M. No. 1, Mar. 30, 2006"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Display())
		})
	}
	assert.Equal(t, "UDK", DocketLabel("udk"))
}

func TestIsMainOpinion(t *testing.T) {
	assert.True(t, IsMainOpinion(PonenciaTitle))
	assert.True(t, IsMainOpinion(NoticeTitle))
	assert.False(t, IsMainOpinion("Dissenting Opinion"))
	assert.False(t, IsMainOpinion("ponencia"))
}
