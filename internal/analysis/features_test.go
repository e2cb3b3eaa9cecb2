package analysis_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angrysky56/esaf-framework-sub001/internal/analysis"
)

func TestExtractFeatures(t *testing.T) {
	f, err := analysis.ExtractFeatures([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)

	d := f.Descriptive
	require.Equal(t, 8, d.Count)
	require.InDelta(t, 5.0, d.Mean, 1e-12)
	require.InDelta(t, 4.5, d.Median, 1e-12)
	require.InDelta(t, 4.0, d.Mode, 1e-12)
	require.InDelta(t, 2.0, d.Min, 1e-12)
	require.InDelta(t, 9.0, d.Max, 1e-12)
	require.InDelta(t, 7.0, d.Range, 1e-12)

	q := f.Distribution
	require.InDelta(t, 4.0, q.Q1, 1e-12)
	require.InDelta(t, 5.5, q.Q3, 1e-12)
	require.InDelta(t, 1.5, q.IQR, 1e-12)
	require.InDelta(t, 7.6, q.P90, 1e-9)
	require.InDelta(t, 8.3, q.P95, 1e-9)
	require.InDelta(t, 8.86, q.P99, 1e-9)

	v := f.Variability
	require.InDelta(t, 32.0/7.0, v.Variance, 1e-9)
	require.InDelta(t, math.Sqrt(32.0/7.0), v.StdDev, 1e-9)
	require.InDelta(t, 0.42762, v.CoefVariation, 1e-5)
	require.InDelta(t, 1.5, v.MeanAbsDev, 1e-12)

	require.InDelta(t, 0.53713, f.Shape.Skewness, 1e-5)
	require.InDelta(t, -0.87061, f.Shape.Kurtosis, 1e-5)
}

func TestExtractFeaturesZeroSpread(t *testing.T) {
	// Zero spread leaves the standardized moments 0/0: NaN is surfaced, not
	// masked, like the coefficient of variation.
	f, err := analysis.ExtractFeatures([]float64{7, 7, 7})
	require.NoError(t, err)
	require.Zero(t, f.Variability.Variance)
	require.Zero(t, f.Variability.StdDev)
	require.True(t, math.IsNaN(f.Shape.Skewness))
	require.True(t, math.IsNaN(f.Shape.Kurtosis))
	require.Zero(t, f.Variability.CoefVariation)
	require.Equal(t, 7.0, f.Descriptive.Mode)
}

func TestExtractFeaturesZeroMean(t *testing.T) {
	// sigma/|mean| with a zero mean follows float semantics: +Inf here.
	f, err := analysis.ExtractFeatures([]float64{-1, 1})
	require.NoError(t, err)
	require.True(t, math.IsInf(f.Variability.CoefVariation, 1))
}

func TestExtractFeaturesSingleElement(t *testing.T) {
	f, err := analysis.ExtractFeatures([]float64{42})
	require.NoError(t, err)
	require.Equal(t, 1, f.Descriptive.Count)
	require.Equal(t, 42.0, f.Descriptive.Mean)
	require.Equal(t, 42.0, f.Descriptive.Median)
	require.Equal(t, 42.0, f.Descriptive.Mode)
	require.Zero(t, f.Descriptive.Range)
	require.Zero(t, f.Variability.Variance)
}

func TestExtractFeaturesEmpty(t *testing.T) {
	_, err := analysis.ExtractFeatures(nil)
	require.ErrorIs(t, err, analysis.ErrEmptyDataset)
}

func TestModeTieBreak(t *testing.T) {
	// On a tie the winner is the value whose count reached the peak first.
	cases := []struct {
		data []float64
		want float64
	}{
		{[]float64{1, 1, 2, 2}, 1},
		{[]float64{2, 1, 1, 2}, 1},
		{[]float64{3, 3, 1, 1, 2, 2}, 3},
	}
	for _, c := range cases {
		f, err := analysis.ExtractFeatures(c.data)
		require.NoError(t, err)
		require.Equalf(t, c.want, f.Descriptive.Mode, "data %v", c.data)
	}
}

func TestFeaturesMarkdown(t *testing.T) {
	f, err := analysis.ExtractFeatures([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	require.Equal(t, "features", f.Kind())
	md := f.Markdown()
	for _, section := range []string{
		"[FEATURES: DESCRIPTIVE]",
		"[FEATURES: DISTRIBUTION]",
		"[FEATURES: VARIABILITY]",
		"[FEATURES: SHAPE]",
	} {
		require.Contains(t, md, section)
	}
}

func TestCorrelatePerfectPairs(t *testing.T) {
	obs := [][]float64{
		{1, 2, -1},
		{2, 4, -2},
		{3, 6, -3},
		{4, 8, -4},
	}
	c, err := analysis.Correlate(obs, []string{"a", "b", "c"})
	require.NoError(t, err)

	require.InDelta(t, 1.0, c.Matrix[0][1], 1e-12)
	require.InDelta(t, -1.0, c.Matrix[0][2], 1e-12)
	require.InDelta(t, -1.0, c.Matrix[1][2], 1e-12)
	require.InDelta(t, 1.0, c.MeanAbs, 1e-12)

	require.Len(t, c.Strong, 3)
	first := c.Strong[0]
	require.Equal(t, 0, first.I)
	require.Equal(t, 1, first.J)
	require.Equal(t, "a", first.NameI)
	require.Equal(t, "b", first.NameJ)
}

func TestCorrelateDiagonalAndSymmetry(t *testing.T) {
	obs := [][]float64{
		{1.2, 7.7, 0.3},
		{2.8, 5.1, 9.4},
		{3.1, 6.6, 2.2},
		{0.7, 8.9, 4.5},
	}
	c, err := analysis.Correlate(obs, nil)
	require.NoError(t, err)
	for i := range c.Matrix {
		require.Equal(t, 1.0, c.Matrix[i][i])
		for j := range c.Matrix[i] {
			require.Equal(t, c.Matrix[i][j], c.Matrix[j][i])
			require.LessOrEqual(t, math.Abs(c.Matrix[i][j]), 1.0)
		}
	}
	// generated names
	require.Equal(t, []string{"col0", "col1", "col2"}, c.Names)
}

func TestCorrelateZeroVarianceColumn(t *testing.T) {
	obs := [][]float64{
		{1, 5},
		{2, 5},
		{3, 5},
	}
	c, err := analysis.Correlate(obs, []string{"x", "const"})
	require.NoError(t, err)
	require.Zero(t, c.Matrix[0][1])
	require.Equal(t, 1.0, c.Matrix[1][1])
	require.Empty(t, c.Strong)
}

func TestCorrelateRaggedRows(t *testing.T) {
	_, err := analysis.Correlate([][]float64{{1, 2}, {3}}, nil)
	require.ErrorIs(t, err, analysis.ErrDimensionMismatch)
}

func TestCorrelateNameMismatch(t *testing.T) {
	_, err := analysis.Correlate([][]float64{{1, 2}, {3, 4}}, []string{"only-one"})
	require.ErrorIs(t, err, analysis.ErrDimensionMismatch)
}

func TestCorrelateEmpty(t *testing.T) {
	_, err := analysis.Correlate(nil, nil)
	require.ErrorIs(t, err, analysis.ErrEmptyDataset)
}

func TestCorrelationMarkdown(t *testing.T) {
	obs := [][]float64{{1, 2}, {2, 4}, {3, 6}}
	c, err := analysis.Correlate(obs, []string{"x", "y"})
	require.NoError(t, err)
	require.Equal(t, "correlation", c.Kind())
	md := c.Markdown()
	require.True(t, strings.HasPrefix(md, "[CORRELATIONS]"))
	require.Contains(t, md, "x <-> y")
}
