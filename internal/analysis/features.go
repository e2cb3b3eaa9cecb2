package analysis

import (
	"fmt"
	"math"
	"strings"
)

// StrongCorrelationThreshold marks |r| values worth reporting as pairs.
const StrongCorrelationThreshold = 0.7

// Descriptive covers counts and central tendency.
type Descriptive struct {
	Count  int
	Mean   float64
	Median float64
	Mode   float64
	Min    float64
	Max    float64
	Range  float64
}

// Distribution locates the quartiles and upper percentiles.
type Distribution struct {
	Q1  float64
	Q3  float64
	IQR float64
	P90 float64
	P95 float64
	P99 float64
}

// Variability covers dispersion. CoefVariation is sigma/|mean| and follows
// IEEE semantics when the mean is zero (Inf or NaN, surfaced to the caller).
type Variability struct {
	Variance      float64
	StdDev        float64
	CoefVariation float64
	MeanAbsDev    float64
}

// Shape holds standardized moments: skewness and excess kurtosis. Both follow
// IEEE semantics when the spread is zero (NaN, surfaced to the caller).
type Shape struct {
	Skewness float64
	Kurtosis float64
}

// Features bundles the families extracted from one numeric sequence.
type Features struct {
	Descriptive  Descriptive
	Distribution Distribution
	Variability  Variability
	Shape        Shape
}

// ExtractFeatures computes the full feature set for a numeric sequence.
func ExtractFeatures(data []float64) (*Features, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("feature extraction: %w", ErrEmptyDataset)
	}
	sorted := sortedCopy(data)
	n := float64(len(data))
	mu := mean(data)
	variance := sampleVariance(data)
	sigma := math.Sqrt(variance)

	absDev := 0.0
	for _, v := range data {
		absDev += math.Abs(v - mu)
	}

	var skew, kurt float64
	for _, v := range data {
		z := (v - mu) / sigma
		z2 := z * z
		skew += z2 * z
		kurt += z2 * z2
	}
	skew /= n
	kurt = kurt/n - 3

	f := &Features{
		Descriptive: Descriptive{
			Count:  len(data),
			Mean:   mu,
			Median: quantile(sorted, 0.5),
			Mode:   modeOf(data),
			Min:    sorted[0],
			Max:    sorted[len(sorted)-1],
			Range:  sorted[len(sorted)-1] - sorted[0],
		},
		Distribution: Distribution{
			Q1:  quantile(sorted, 0.25),
			Q3:  quantile(sorted, 0.75),
			P90: quantile(sorted, 0.90),
			P95: quantile(sorted, 0.95),
			P99: quantile(sorted, 0.99),
		},
		Variability: Variability{
			Variance:      variance,
			StdDev:        sigma,
			CoefVariation: sigma / math.Abs(mu),
			MeanAbsDev:    absDev / n,
		},
		Shape: Shape{Skewness: skew, Kurtosis: kurt},
	}
	f.Distribution.IQR = f.Distribution.Q3 - f.Distribution.Q1
	return f, nil
}

// Kind implements Result.
func (*Features) Kind() string { return "features" }

// Markdown implements Result.
func (f *Features) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[FEATURES: DESCRIPTIVE]\n")
	fmt.Fprintf(&b, "Count: %d\n", f.Descriptive.Count)
	fmt.Fprintf(&b, "Mean: %s | Median: %s | Mode: %s\n",
		formatNum(f.Descriptive.Mean), formatNum(f.Descriptive.Median), formatNum(f.Descriptive.Mode))
	fmt.Fprintf(&b, "Min: %s | Max: %s | Range: %s\n",
		formatNum(f.Descriptive.Min), formatNum(f.Descriptive.Max), formatNum(f.Descriptive.Range))
	fmt.Fprintf(&b, "[FEATURES: DISTRIBUTION]\n")
	fmt.Fprintf(&b, "Q1: %s | Q3: %s | IQR: %s\n",
		formatNum(f.Distribution.Q1), formatNum(f.Distribution.Q3), formatNum(f.Distribution.IQR))
	fmt.Fprintf(&b, "P90: %s | P95: %s | P99: %s\n",
		formatNum(f.Distribution.P90), formatNum(f.Distribution.P95), formatNum(f.Distribution.P99))
	fmt.Fprintf(&b, "[FEATURES: VARIABILITY]\n")
	fmt.Fprintf(&b, "Variance: %s | Std dev: %s\n",
		formatNum(f.Variability.Variance), formatNum(f.Variability.StdDev))
	fmt.Fprintf(&b, "Coef of variation: %s | Mean abs dev: %s\n",
		formatNum(f.Variability.CoefVariation), formatNum(f.Variability.MeanAbsDev))
	fmt.Fprintf(&b, "[FEATURES: SHAPE]\n")
	fmt.Fprintf(&b, "Skewness: %s | Excess kurtosis: %s\n",
		formatNum(f.Shape.Skewness), formatNum(f.Shape.Kurtosis))
	return b.String()
}

// StrongPair is one reported correlation with |r| above the threshold.
type StrongPair struct {
	I     int
	J     int
	NameI string
	NameJ string
	R     float64
}

// Correlation is a full Pearson matrix over the variables of an observation
// matrix, with the strong pairs (i < j) and the mean absolute off-diagonal
// correlation pulled out.
type Correlation struct {
	Names   []string
	Matrix  [][]float64
	Strong  []StrongPair
	MeanAbs float64
}

// Correlate computes the pairwise Pearson matrix of an observation matrix:
// each row is one observation, each column one variable. Rows must share one
// length; names, when given, must match the column count. The diagonal is
// exactly 1.0; a pair involving a zero-variance column correlates at 0.
func Correlate(obs [][]float64, names []string) (*Correlation, error) {
	if len(obs) == 0 || len(obs[0]) == 0 {
		return nil, fmt.Errorf("correlation: %w", ErrEmptyDataset)
	}
	width := len(obs[0])
	for i, row := range obs {
		if len(row) != width {
			return nil, fmt.Errorf("correlation: row %d has %d columns, want %d: %w",
				i, len(row), width, ErrDimensionMismatch)
		}
	}
	if names == nil {
		names = make([]string, width)
		for j := range names {
			names[j] = fmt.Sprintf("col%d", j)
		}
	} else if len(names) != width {
		return nil, fmt.Errorf("correlation: %d names for %d columns: %w",
			len(names), width, ErrDimensionMismatch)
	}

	cols := make([][]float64, width)
	for j := 0; j < width; j++ {
		cols[j] = make([]float64, len(obs))
		for i := range obs {
			cols[j][i] = obs[i][j]
		}
	}

	c := &Correlation{Names: names, Matrix: make([][]float64, width)}
	for i := range c.Matrix {
		c.Matrix[i] = make([]float64, width)
		c.Matrix[i][i] = 1.0
	}
	sumAbs := 0.0
	pairs := 0
	for i := 0; i < width; i++ {
		for j := i + 1; j < width; j++ {
			r := pearson(cols[i], cols[j])
			c.Matrix[i][j] = r
			c.Matrix[j][i] = r
			sumAbs += math.Abs(r)
			pairs++
			if math.Abs(r) > StrongCorrelationThreshold {
				c.Strong = append(c.Strong, StrongPair{
					I: i, J: j, NameI: names[i], NameJ: names[j], R: r,
				})
			}
		}
	}
	if pairs > 0 {
		c.MeanAbs = sumAbs / float64(pairs)
	}
	return c, nil
}

// pearson is the two-pass deviation form: sum(dx*dy)/sqrt(sum(dx^2)*sum(dy^2)).
// Either variance term being zero yields 0, and the result is clamped into
// [-1, 1] against float drift.
func pearson(x, y []float64) float64 {
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	r := sxy / math.Sqrt(sxx*syy)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return clamp(r, -1, 1)
}

// Kind implements Result.
func (*Correlation) Kind() string { return "correlation" }

// Markdown implements Result.
func (c *Correlation) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[CORRELATIONS]\n")
	fmt.Fprintf(&b, "Variables: %d\n", len(c.Names))
	fmt.Fprintf(&b, "Mean |r| off-diagonal: %s\n", formatNum(c.MeanAbs))
	if len(c.Strong) == 0 {
		fmt.Fprintf(&b, "Strong pairs (|r| > %.1f): none\n", StrongCorrelationThreshold)
		return b.String()
	}
	fmt.Fprintf(&b, "Strong pairs (|r| > %.1f):\n", StrongCorrelationThreshold)
	for _, p := range c.Strong {
		fmt.Fprintf(&b, "- %s <-> %s: %s\n", p.NameI, p.NameJ, formatNum(p.R))
	}
	return b.String()
}
