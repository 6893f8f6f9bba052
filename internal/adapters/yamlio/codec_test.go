package yamlio

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/corey/exalge/internal/domain/exalge"
	"github.com/corey/exalge/internal/domain/exbase"
	"github.com/corey/exalge/internal/domain/trans"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func formatErr(t *testing.T, err error) *FormatError {
	t.Helper()
	require.Error(t, err)
	var fe *FormatError
	require.True(t, errors.As(err, &fe), "want *FormatError, got %T: %v", err, err)
	return fe
}

// =============================================================================
// Pattern sets
// =============================================================================

func TestPatterns_Read(t *testing.T) {
	in := `patterns:
  - "Apa*-*-*-*-*"
  - りんご-HAT-円-Y2009M03-果物
  - 'cash\-in-no_hat-#-#-#'
`
	ps, err := New().ReadPatterns(strings.NewReader(in))
	require.NoError(t, err)
	got := ps.Patterns()
	require.Len(t, got, 3)
	assert.Equal(t, "Apa*-*-*-*-*", got[0].String())
	assert.Equal(t, "りんご-HAT-円-Y2009M03-果物", got[1].String())
	assert.Equal(t, `cash\-in-NO_HAT-#-#-#`, got[2].String())
}

func TestPatterns_RoundTripQuotesLeadingWildcard(t *testing.T) {
	ps := exbase.NewPatternSet(
		exbase.MustParsePattern("*-HAT-*che-*-A*e"),
		exbase.MustParsePattern("Apache-NO_HAT-#-#-#"),
	)
	var buf bytes.Buffer
	require.NoError(t, New().WritePatterns(&buf, ps))
	assert.Contains(t, buf.String(), "'*-HAT-*che-*-A*e'")

	back, err := New().ReadPatterns(&buf)
	require.NoError(t, err)
	assert.True(t, ps.Equal(back))
}

func TestPatterns_EmptyDocument(t *testing.T) {
	ps, err := New().ReadPatterns(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, ps.IsEmpty())
}

// =============================================================================
// Format errors
// =============================================================================

func TestFormatError_BadPattern(t *testing.T) {
	in := `patterns:
  - a-*-*-*-*
  - a-MAYBE-*-*-*
`
	_, err := New().ReadPatterns(strings.NewReader(in))
	fe := formatErr(t, err)
	assert.Equal(t, 3, fe.Line)
	assert.Equal(t, 5, fe.Column)
	assert.Equal(t, "pattern", fe.Field)
	assert.Equal(t, "a-MAYBE-*-*-*", fe.Value)
	assert.ErrorIs(t, err, exbase.ErrInvalidArgument)
}

func TestFormatError_UnknownField(t *testing.T) {
	in := `table:
  - from: a-*-*-*-*
    into: b-*-*-*-*
`
	_, err := New().ReadTable(strings.NewReader(in))
	fe := formatErr(t, err)
	assert.Equal(t, 3, fe.Line)
}

func TestFormatError_Syntax(t *testing.T) {
	_, err := New().ReadPatterns(strings.NewReader("patterns:\n  - [unclosed\n"))
	formatErr(t, err)
}

func TestFormatError_NonScalar(t *testing.T) {
	in := `exalge:
  - key: [a, b]
    value: 1
`
	_, err := New().ReadExalge(strings.NewReader(in))
	fe := formatErr(t, err)
	assert.Equal(t, "key", fe.Field)
	assert.Equal(t, 2, fe.Line)
}

func TestFormatError_MissingTo(t *testing.T) {
	in := `table:
  - from: a-*-*-*-*
`
	_, err := New().ReadTable(strings.NewReader(in))
	fe := formatErr(t, err)
	assert.Equal(t, "to", fe.Field)
	assert.ErrorIs(t, err, exbase.ErrInvalidArgument)
}

// =============================================================================
// Rewrite tables
// =============================================================================

func TestTable_RoundTrip(t *testing.T) {
	tt := trans.NewTransTable()
	require.NoError(t, tt.Put(exbase.MustParsePattern("cash-*-*-*-*"), exbase.MustParsePattern("bank-NO_HAT-*-*-*")))
	require.NoError(t, tt.Put(exbase.MustParsePattern("*-HAT-円-*-*"), exbase.MustParsePattern("*-*-JPY-*-*")))

	var buf bytes.Buffer
	require.NoError(t, New().WriteTable(&buf, tt))
	back, err := New().ReadTable(&buf)
	require.NoError(t, err)
	assert.True(t, tt.Equal(back))
	assert.Equal(t, "cash-*-*-*-*", back.Entries()[0].From.String())
}

// =============================================================================
// Ratio maps
// =============================================================================

func TestRatios_Read(t *testing.T) {
	in := `ratios:
  total: 200
  entries:
    - pattern: "*-*-*-*-東京"
      ratio: 10
    - pattern: "*-*-*-*-大阪"
      ratio: 30.5
`
	dr, err := New().ReadRatios(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, dr.Len())
	assert.True(t, dr.TotalRatio().Equal(d("200")))
	w, ok := dr.Get(exbase.MustParsePattern("*-*-*-*-大阪"))
	require.True(t, ok)
	assert.True(t, w.Equal(d("30.5")))
}

func TestRatios_TotalRecomputedWhenAbsent(t *testing.T) {
	in := `ratios:
  entries:
    - {pattern: "*-*-*-*-A", ratio: 1}
    - {pattern: "*-*-*-*-B", ratio: 2}
`
	dr, err := New().ReadRatios(strings.NewReader(in))
	require.NoError(t, err)
	assert.True(t, dr.TotalRatio().Equal(d("3")))
}

func TestRatios_RoundTrip(t *testing.T) {
	dr := trans.NewDivideRatios()
	require.NoError(t, dr.Put(exbase.MustParsePattern("*-*-*-*-A"), d("1.50")))
	require.NoError(t, dr.SetTotalRatio(d("7")))

	var buf bytes.Buffer
	require.NoError(t, New().WriteRatios(&buf, dr))
	assert.Contains(t, buf.String(), "ratio: 1.50")
	assert.Contains(t, buf.String(), "total: 7")

	back, err := New().ReadRatios(&buf)
	require.NoError(t, err)
	assert.True(t, dr.Equal(back))
}

func TestRatios_BadRatio(t *testing.T) {
	in := `ratios:
  entries:
    - pattern: "*-*-*-*-A"
      ratio: -2
`
	_, err := New().ReadRatios(strings.NewReader(in))
	fe := formatErr(t, err)
	assert.Equal(t, "ratio", fe.Field)
	assert.Equal(t, "-2", fe.Value)
	assert.Equal(t, 4, fe.Line)
}

// =============================================================================
// Exalge elements
// =============================================================================

func TestExalge_RoundTrip(t *testing.T) {
	e := exalge.New()
	require.NoError(t, e.Add(exbase.MustParseKey("りんご-NO_HAT-円-Y2009M03-果物"), d("1.50")))
	require.NoError(t, e.Set(exbase.MustParseKey("現金-HAT-円-Y2009M03-#"), decimal.NullDecimal{}))

	var buf bytes.Buffer
	require.NoError(t, New().WriteExalge(&buf, e))
	assert.Contains(t, buf.String(), "value: 1.50")
	assert.Contains(t, buf.String(), "value: null")

	back, err := New().ReadExalge(&buf)
	require.NoError(t, err)
	assert.True(t, e.Equal(back))
}

func TestExalge_MissingValueIsNull(t *testing.T) {
	in := `exalge:
  - key: a-HAT-#-#-#
  - key: b-HAT-#-#-#
    value:
`
	e, err := New().ReadExalge(strings.NewReader(in))
	require.NoError(t, err)
	for _, k := range []string{"a-HAT-#-#-#", "b-HAT-#-#-#"} {
		v, ok := e.Get(exbase.MustParseKey(k))
		require.True(t, ok, k)
		assert.False(t, v.Valid, k)
	}
}
