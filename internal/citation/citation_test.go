// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sc-decisions/pkg/types"
)

func TestFindDockets(t *testing.T) {
	text := "As held in G.R. No. 123456, December 1, 1995, and again in " +
		"A.M. No. RTJ-01-1610 (Sept. 5, 2001), reiterating G.R. No. L-1234. " +
		"See also GR No. 123456."

	got := FindDockets(text)
	require.Len(t, got, 4)

	assert.Equal(t, "GR", got[0].Category)
	assert.Equal(t, "123456", got[0].Serial)
	require.NotNil(t, got[0].Date)
	assert.Equal(t, "1995-12-01", got[0].Date.String())

	assert.Equal(t, "AM", got[1].Category)
	assert.Equal(t, "RTJ-01-1610", got[1].Serial)
	require.NotNil(t, got[1].Date)
	assert.Equal(t, "2001-09-05", got[1].Date.String())

	assert.Equal(t, "L-1234", got[2].Serial)
	assert.Nil(t, got[2].Date)

	assert.Equal(t, "GR", got[3].Category)
	assert.Equal(t, "123456", got[3].Serial)
}

func TestReports(t *testing.T) {
	scra, phil, offg := Reports("People v. Cruz, 250 SCRA 1; 45 Phil. 300; 50 O.G. 1234")
	assert.Equal(t, "250 SCRA 1", scra)
	assert.Equal(t, "45 Phil. 300", phil)
	assert.Equal(t, "50 O.G. 1234", offg)

	scra, phil, offg = Reports("no reporters here")
	assert.Empty(t, scra)
	assert.Empty(t, phil)
	assert.Empty(t, offg)
}

func TestParse(t *testing.T) {
	c, err := Parse("G.R. No. 123456, Dec. 1, 1995, 250 SCRA 1")
	require.NoError(t, err)
	assert.Equal(t, "GR", c.DocketCategory)
	assert.Equal(t, "123456", c.DocketSerial)
	require.NotNil(t, c.DocketDate)
	assert.Equal(t, "1995-12-01", c.DocketDate.String())
	assert.Equal(t, "250 SCRA 1", c.SCRA)

	c, err = Parse("45 Phil. 300")
	require.NoError(t, err)
	assert.False(t, c.HasDocket())
	assert.True(t, c.HasReport())

	_, err = Parse("nothing to see")
	assert.True(t, errors.Is(err, ErrNoCitation))
}

func TestFromFields(t *testing.T) {
	c, err := FromFields("G.R.", " l-1234 ", types.NewDate(1950, time.March, 3))
	require.NoError(t, err)
	assert.Equal(t, "GR", c.DocketCategory)
	assert.Equal(t, "L-1234", c.DocketSerial)

	_, err = FromFields("GR", "", types.NewDate(1950, time.March, 3))
	assert.True(t, errors.Is(err, ErrNoCitation))

	_, err = FromFields("GR", "1", types.Date{})
	assert.True(t, errors.Is(err, ErrNoCitation))
}

func TestDecisionIDAndPrefix(t *testing.T) {
	c, err := FromFields("GR", "L-1234", types.NewDate(1950, time.March, 3))
	require.NoError(t, err)

	id, err := DecisionID(c)
	require.NoError(t, err)
	assert.Equal(t, "gr-1950-3-l-1234", id)

	prefix, err := Prefix(c)
	require.NoError(t, err)
	assert.Equal(t, "GR/1950/3/L-1234", prefix)

	// The id derived from the folder matches the id derived from the docket.
	assert.Equal(t, id, IDFromPrefix(prefix))

	_, err = DecisionID(types.Citation{Phil: "45 Phil. 300"})
	assert.Error(t, err)
}

func TestIDFromPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"GR/1995/12/123456", "gr-1995-12-123456"},
		{"/AM/2001/09/RTJ-01-1610/", "am-2001-9-rtj-01-1610"},
		{"legacy/People_v_Cruz 1921", "people-v-cruz-1921"},
		{"single", "single"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			assert.Equal(t, tt.want, IDFromPrefix(tt.prefix))
		})
	}
}

func TestDisplay(t *testing.T) {
	c, err := Parse("G.R. No. 123456, Dec. 1, 1995, 250 SCRA 1")
	require.NoError(t, err)
	assert.Equal(t, "G.R. No. 123456, Dec. 1, 1995, 250 SCRA 1", c.Display())
}
