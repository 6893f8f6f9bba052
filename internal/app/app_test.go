package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/corey/exalge/internal/adapters/charset"
	"github.com/corey/exalge/internal/domain/exbase"
	"github.com/corey/exalge/internal/domain/trans"
	"github.com/corey/exalge/internal/ports"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exalgeCSV = "value,name,hat,unit,period,subject\n" +
	"120,りんご,HAT,円,Y2009M03,果物\n" +
	"30,現金,NO_HAT,円,Y2009M03,果物\n" +
	",売上,HAT,円,Y2009M04,#\n"

const ratiosCSV = "ratio,name,hat,unit,period,subject\n" +
	"10,*,*,*,*,東京\n" +
	"20,*,*,*,*,大阪\n" +
	"30,*,*,*,*,名古屋\n" +
	"40,*,*,*,*,福岡\n"

func newApp(t *testing.T, cfg Config) *App {
	t.Helper()
	a, err := New(cfg)
	require.NoError(t, err)
	return a
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// =============================================================================
// Config
// =============================================================================

func TestNew_Defaults(t *testing.T) {
	a := newApp(t, Config{})
	assert.Equal(t, charset.Default, a.Config().Encoding)
	assert.Equal(t, "UTF-8", a.EncodingName())
	assert.False(t, a.Config().DisablePrefilter)
}

func TestNew_RejectsBadSettings(t *testing.T) {
	_, err := New(Config{Encoding: "klingon"})
	assert.ErrorIs(t, err, charset.ErrUnknownCharset)

	_, err = New(Config{Format: "xml"})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	a := newApp(t, Config{Format: "YML"})
	assert.Equal(t, FormatYAML, a.Config().Format)
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]string{
		"a.csv": FormatCSV, "b.CSV": FormatCSV, "c.yaml": FormatYAML, "dir/d.yml": FormatYAML,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatOf("ratios.txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

// =============================================================================
// Sources: file, bytes and text read identically
// =============================================================================

func TestSources_AreEquivalent(t *testing.T) {
	a := newApp(t, Config{})
	path := writeFile(t, "in.csv", []byte(exalgeCSV))

	fromFile, err := a.LoadExalge(FileSource(path))
	require.NoError(t, err)
	fromBytes, err := a.LoadExalge(BytesSource([]byte(exalgeCSV), "csv"))
	require.NoError(t, err)
	fromText, err := a.LoadExalge(TextSource(exalgeCSV, "csv"))
	require.NoError(t, err)

	assert.Equal(t, 3, fromFile.Len())
	assert.True(t, fromFile.Equal(fromBytes))
	assert.True(t, fromFile.Equal(fromText))
}

func TestSources_ShiftJIS(t *testing.T) {
	a := newApp(t, Config{Encoding: "Shift_JIS"})
	e, err := a.LoadExalge(TextSource(exalgeCSV, "csv"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sjis.csv")
	require.NoError(t, a.SaveExalge(FileSink(path), e))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "りんご", "file is not UTF-8")

	back, err := a.LoadExalge(FileSource(path))
	require.NoError(t, err)
	assert.True(t, e.Equal(back))

	fromBytes, err := a.LoadExalge(BytesSource(raw, "csv"))
	require.NoError(t, err)
	assert.True(t, e.Equal(fromBytes))
}

func TestSources_FormatErrorsSurviveWrapping(t *testing.T) {
	a := newApp(t, Config{})
	path := writeFile(t, "bad.csv", []byte("value,name,hat,unit,period,subject\nx,a,HAT,#,#,#\n"))

	_, err := a.LoadExalge(FileSource(path))
	var fe *ports.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Line)
	assert.Equal(t, "value", fe.Field)
	assert.Contains(t, err.Error(), path)
}

func TestSources_MissingFileAndFormat(t *testing.T) {
	a := newApp(t, Config{})
	_, err := a.LoadPatterns(FileSource(filepath.Join(t.TempDir(), "none.csv")))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = a.LoadPatterns(TextSource("patterns: []", ""))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	forced := newApp(t, Config{Format: "yaml"})
	ps, err := forced.LoadPatterns(TextSource("patterns: []", ""))
	require.NoError(t, err)
	assert.True(t, ps.IsEmpty())
}

// =============================================================================
// Operations
// =============================================================================

func TestMatch_WithAndWithoutPrefilter(t *testing.T) {
	patterns := "patterns:\n" +
		"  - 'り*-*-*-*-*'\n" +
		"  - '*-*-*-Y2009M04-*'\n"
	for _, disable := range []bool{false, true} {
		a := newApp(t, Config{DisablePrefilter: disable})
		ps, err := a.LoadPatterns(TextSource(patterns, "yaml"))
		require.NoError(t, err)
		e, err := a.LoadExalge(TextSource(exalgeCSV, "csv"))
		require.NoError(t, err)

		got, err := a.Match(ps, e)
		require.NoError(t, err)
		assert.Equal(t, []exbase.Key{
			exbase.MustParseKey("りんご-HAT-円-Y2009M03-果物"),
			exbase.MustParseKey("売上-HAT-円-Y2009M04-#"),
		}, got.Keys(), "disable=%v", disable)

		keys, err := a.MatchKeys(ps, e.KeySet())
		require.NoError(t, err)
		assert.Equal(t, 2, keys.Len())
	}
}

func TestDivideBase(t *testing.T) {
	a := newApp(t, Config{})
	dr, err := a.LoadRatios(TextSource(ratiosCSV, "csv"))
	require.NoError(t, err)

	got, err := a.DivideBase(dr, "りんご-HAT-円-Y2009M03-果物", "120", true)
	require.NoError(t, err)
	assert.True(t, got.Value(exbase.MustParseKey("りんご-HAT-円-Y2009M03-東京")).Equal(decimal.NewFromInt(12)))
	assert.True(t, got.Value(exbase.MustParseKey("りんご-HAT-円-Y2009M03-福岡")).Equal(decimal.NewFromInt(48)))

	_, err = a.DivideBase(dr, "りんご-HAT-円-Y2009M03-果物", "lots", true)
	assert.ErrorIs(t, err, exbase.ErrInvalidArgument)
	_, err = a.DivideBase(dr, "*-HAT-#-#-#", "1", true)
	assert.ErrorIs(t, err, exbase.ErrInvalidArgument)
}

func TestDivide_ZeroTotal(t *testing.T) {
	a := newApp(t, Config{})
	dr, err := a.LoadRatios(TextSource(ratiosCSV+"total,0\n", "csv"))
	require.NoError(t, err)
	e, err := a.LoadExalge(TextSource(exalgeCSV, "csv"))
	require.NoError(t, err)

	_, err = a.Divide(dr, e, true)
	assert.ErrorIs(t, err, trans.ErrZeroTotalRatio)

	got, err := a.Divide(dr, e, false)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Len())
}

func TestStaleTotal(t *testing.T) {
	a := newApp(t, Config{})
	dr, err := a.LoadRatios(TextSource(ratiosCSV, "csv"))
	require.NoError(t, err)
	_, stale := StaleTotal(dr)
	assert.False(t, stale)

	require.NoError(t, dr.SetTotalRatio(decimal.NewFromInt(200)))
	sum, stale := StaleTotal(dr)
	assert.True(t, stale)
	assert.True(t, sum.Equal(decimal.NewFromInt(100)))
}

func TestTransformAndTransfer(t *testing.T) {
	a := newApp(t, Config{})
	table := "table:\n" +
		"  - from: 'りんご-*-*-*-*'\n" +
		"    to: '果物-*-*-*-*'\n"
	tt, err := a.LoadTable(TextSource(table, "yaml"))
	require.NoError(t, err)
	e, err := a.LoadExalge(TextSource(exalgeCSV, "csv"))
	require.NoError(t, err)

	got := a.Transform(tt, e)
	assert.True(t, got.Contains(exbase.MustParseKey("果物-HAT-円-Y2009M03-果物")))
	assert.Equal(t, 3, got.Len())

	moved := a.Transfer(tt, e)
	assert.Equal(t, []exbase.Key{
		exbase.MustParseKey("りんご-NO_HAT-円-Y2009M03-果物"),
		exbase.MustParseKey("果物-HAT-円-Y2009M03-果物"),
	}, moved.Keys())
}

func TestConvert_CSVToYAMLAndBack(t *testing.T) {
	a := newApp(t, Config{})
	dir := t.TempDir()
	in := writeFile(t, "ratios.csv", []byte(ratiosCSV+"total,250\n"))
	mid := filepath.Join(dir, "ratios.yaml")
	out := filepath.Join(dir, "again.csv")

	require.NoError(t, a.Convert(KindRatios, FileSource(in), FileSink(mid)))
	require.NoError(t, a.Convert(KindRatios, FileSource(mid), FileSink(out)))

	orig, err := a.LoadRatios(FileSource(in))
	require.NoError(t, err)
	back, err := a.LoadRatios(FileSource(out))
	require.NoError(t, err)
	assert.True(t, orig.Equal(back))
	assert.True(t, back.TotalRatio().Equal(decimal.NewFromInt(250)))

	_, err = ParseKind("widgets")
	assert.ErrorIs(t, err, exbase.ErrInvalidArgument)
	k, err := ParseKind("EXALGE")
	require.NoError(t, err)
	assert.Equal(t, KindExalge, k)
}

func TestSave_WriterSink(t *testing.T) {
	a := newApp(t, Config{})
	ps := exbase.NewPatternSet(exbase.MustParsePattern("a-*-*-*-*"))
	var buf bytes.Buffer
	require.NoError(t, a.SavePatterns(WriterSink(&buf, "csv"), ps))
	assert.Equal(t, "name,hat,unit,period,subject\na,*,*,*,*\n", buf.String())

	err := a.SavePatterns(WriterSink(&buf, ""), ps)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestConvert_ChangesCharset(t *testing.T) {
	a := newApp(t, Config{})
	in := writeFile(t, "in.csv", []byte(exalgeCSV))
	out := filepath.Join(t.TempDir(), "out.csv")

	dst := FileSink(out)
	dst.Encoding = "Shift_JIS"
	require.NoError(t, a.Convert(KindExalge, FileSource(in), dst))

	orig, err := a.LoadExalge(FileSource(in))
	require.NoError(t, err)
	misread, err := a.LoadExalge(FileSource(out))
	require.NoError(t, err)
	assert.False(t, orig.Equal(misread), "read as UTF-8")

	src := FileSource(out)
	src.Encoding = "Shift_JIS"
	back, err := a.LoadExalge(src)
	require.NoError(t, err)
	assert.True(t, orig.Equal(back))
}
