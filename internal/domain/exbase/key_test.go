package exbase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Key: five-field composite identifier, canonical text form
// =============================================================================

func TestNewKey_NormalizesOmittedFields(t *testing.T) {
	k, err := NewKey("cash", NoHat, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "cash", k.Name())
	assert.Equal(t, Omitted, k.Unit())
	assert.Equal(t, Omitted, k.Period())
	assert.Equal(t, Omitted, k.Subject())
	assert.Equal(t, "cash-NO_HAT-#-#-#", k.String())
}

func TestNewKey_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		field string
		build func() (Key, error)
	}{
		{"empty name", "name", func() (Key, error) { return NewKey("", NoHat, "円", "", "") }},
		{"wildcard in name", "name", func() (Key, error) { return NewKey("り*", NoHat, "円", "", "") }},
		{"wildcard in subject", "subject", func() (Key, error) { return NewKey("a", Hat, "円", "Y2009", "*") }},
		{"any hat", "hat", func() (Key, error) { return NewKey("a", AnyHat, "", "", "") }},
		{"zero hat", "hat", func() (Key, error) { return NewKey("a", 0, "", "", "") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.build()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tc.field, fe.Field)
		})
	}
}

func TestParseKey_RoundTrip(t *testing.T) {
	for _, s := range []string{
		"りんご-HAT-円-Y2009M03-果物",
		"cash-NO_HAT-#-#-#",
		`a\-b-NO_HAT-c\\d-#-e`,
	} {
		k, err := ParseKey(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, k.String())
	}
}

func TestParseKey_EscapedDelimiter(t *testing.T) {
	k := MustParseKey(`tax\-free-HAT-JPY-2024-corp`)
	assert.Equal(t, "tax-free", k.Name())
	assert.Equal(t, "JPY", k.Unit())
}

func TestParseKey_Malformed(t *testing.T) {
	for _, s := range []string{
		"a-HAT-b-c",           // four fields
		"a-HAT-b-c-d-e",       // six fields
		"a-PLUS-b-c-d",        // bad hat token
		"a-*-b-c-d",           // any hat in a key
		`a\x-HAT-b-c-d`,       // bad escape
		`a-HAT-b-c-d\`,        // trailing escape
		"-HAT-b-c-d",          // empty name
	} {
		_, err := ParseKey(s)
		assert.ErrorIs(t, err, ErrInvalidArgument, s)
	}
}

func TestParseHat_CaseInsensitiveTokens(t *testing.T) {
	h, err := ParseHat("hat", false)
	require.NoError(t, err)
	assert.Equal(t, Hat, h)
	h, err = ParseHat("no_hat", false)
	require.NoError(t, err)
	assert.Equal(t, NoHat, h)
	_, err = ParseHat("*", false)
	assert.Error(t, err)
	h, err = ParseHat("*", true)
	require.NoError(t, err)
	assert.Equal(t, AnyHat, h)
}

func TestKey_EqualityAndMapKey(t *testing.T) {
	a := MustNewKey("x", Hat, "u", "p", "s")
	b := MustParseKey("x-HAT-u-p-s")
	assert.Equal(t, a, b)
	m := map[Key]int{a: 1}
	assert.Equal(t, 1, m[b])
	assert.NotEqual(t, a, a.Flip())
}

func TestKey_FlipAndWithHat(t *testing.T) {
	k := MustParseKey("x-NO_HAT-u-p-s")
	assert.True(t, k.Flip().IsHat())
	assert.Equal(t, k, k.Flip().Flip())
	assert.Equal(t, k, k.WithHat(AnyHat))
	assert.True(t, k.WithHat(Hat).IsHat())
}

func TestKey_IsZero(t *testing.T) {
	var k Key
	assert.True(t, k.IsZero())
	assert.False(t, MustParseKey("x-HAT-#-#-#").IsZero())
}
