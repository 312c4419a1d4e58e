package attendance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMark(t *testing.T) {
	tests := []struct {
		raw     string
		want    Mark
		wantErr bool
	}{
		{"P", Present, false},
		{" a ", Absent, false},
		{"r", Justified, false},
		{"", "", false},
		{"   ", "", false},
		{"X", "", true},
		{"1", "", true},
		{"Á", "", true},
		{"PA", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseMark(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMark)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionKeyText(t *testing.T) {
	k, err := ParseSessionKey("marzo-3")
	require.NoError(t, err)
	assert.Equal(t, SessionKey{Marzo, 3}, k)
	assert.Equal(t, "MARZO-3", k.String())

	for _, bad := range []string{"MARZO", "ENERO-3", "MARZO-0", "MARZO-32", "MARZO-x", ""} {
		_, err := ParseSessionKey(bad)
		assert.ErrorIs(t, err, ErrInvalidSessionKey, bad)
	}
}

func TestLedgerSetIsIdempotent(t *testing.T) {
	key := SessionKey{Marzo, 3}
	once := Ledger{}
	require.NoError(t, once.Set("s1", key, "p"))
	twice := once.Clone()
	require.NoError(t, twice.Set("s1", key, "p"))

	assert.Equal(t, once, twice)
	assert.Equal(t, Present, once.Get("s1", key))
}

func TestLedgerSetEmptyDeletes(t *testing.T) {
	key := SessionKey{Marzo, 3}
	l := Ledger{}
	require.NoError(t, l.Set("s1", key, "A"))
	require.NoError(t, l.Set("s1", key, " "))

	assert.Equal(t, Mark(""), l.Get("s1", key))
	assert.NotContains(t, l, "s1")

	// clearing an unrecorded cell is a no-op
	require.NoError(t, l.Set("s2", key, ""))
	assert.Empty(t, l)
}

func TestLedgerSetRejectsInvalidInput(t *testing.T) {
	key := SessionKey{Marzo, 3}
	l := Ledger{}
	require.NoError(t, l.Set("s1", key, "R"))
	before := l.Clone()

	err := l.Set("s1", key, "x")
	assert.ErrorIs(t, err, ErrInvalidMark)
	assert.Equal(t, before, l)
}

func TestStatsWeighsMarks(t *testing.T) {
	l := Ledger{"s1": {
		{Marzo, 3}:  Present,
		{Marzo, 5}:  Absent,
		{Abril, 2}:  Justified,
		{Agosto, 1}: Present,
	}}

	first := l.Stats("s1", FirstTerm.Months())
	assert.Equal(t, 3, first.Sessions)
	assert.InDelta(t, 50.0, first.Percentage, 1e-9)
	assert.False(t, first.Good())

	sum := l.Summary("s1")
	assert.Equal(t, first, sum.First)
	assert.Equal(t, TermStats{Percentage: 100, Sessions: 1}, sum.Second)
	assert.Equal(t, 4, sum.TotalSessions())
}

func TestStatsOnlyCountsTheRequestedMonths(t *testing.T) {
	l := Ledger{}
	require.NoError(t, l.Set("s1", SessionKey{Marzo, 3}, "P"))
	require.NoError(t, l.Set("s1", SessionKey{Marzo, 5}, "A"))

	assert.Equal(t, TermStats{Percentage: 50, Sessions: 2}, l.Stats("s1", FirstTerm.Months()))
	assert.Equal(t, TermStats{}, l.Stats("s1", SecondTerm.Months()))
	assert.Equal(t, TermStats{}, l.Stats("nobody", Months()))
}

func TestGoodStandingThreshold(t *testing.T) {
	assert.True(t, TermStats{Percentage: 75}.Good())
	assert.False(t, TermStats{Percentage: 74.9}.Good())
}

func TestLedgerJSON(t *testing.T) {
	l := Ledger{"s1": {{Marzo, 3}: Present}}
	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `{"s1":{"MARZO-3":"P"}}`, string(data))

	var back Ledger
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, l, back)
}

func TestLedgerCloneIsDeep(t *testing.T) {
	l := Ledger{"s1": {{Marzo, 3}: Present}}
	c := l.Clone()
	require.NoError(t, c.Set("s1", SessionKey{Marzo, 3}, "A"))

	assert.Equal(t, Present, l.Get("s1", SessionKey{Marzo, 3}))
}
