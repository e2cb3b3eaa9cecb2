package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Detector defaults and constants.
const (
	DefaultZScoreThreshold = 2.5
	DefaultMADThreshold    = 3.5

	iqrFenceMultiplier = 1.5
	madScaleFactor     = 0.6745
)

// ZScoreResult reports standard-score outliers. Scores align positionally
// with the input; Anomalies holds the flagged values themselves.
type ZScoreResult struct {
	Anomalies []float64
	Scores    []float64
	Mean      float64
	StdDev    float64
	Threshold float64
	Count     int
	Rate      float64
}

// DetectZScore flags values whose absolute standard score exceeds the
// threshold (default 2.5 when threshold <= 0). The standard deviation is the
// sample estimator; when it is zero or undefined it is substituted by machine
// epsilon so scores stay finite.
func DetectZScore(data []float64, threshold float64) (*ZScoreResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("z-score detection: %w", ErrEmptyDataset)
	}
	if threshold <= 0 {
		threshold = DefaultZScoreThreshold
	}
	mu := mean(data)
	sigma := math.Sqrt(sampleVariance(data))
	if sigma == 0 {
		sigma = machineEpsilon
	}
	res := &ZScoreResult{
		Mean:      mu,
		StdDev:    sigma,
		Threshold: threshold,
		Scores:    make([]float64, len(data)),
	}
	for i, v := range data {
		score := math.Abs(v-mu) / sigma
		res.Scores[i] = score
		if score > threshold {
			res.Anomalies = append(res.Anomalies, v)
		}
	}
	res.Count = len(res.Anomalies)
	res.Rate = float64(res.Count) / float64(len(data))
	return res, nil
}

// Kind implements Result.
func (*ZScoreResult) Kind() string { return "anomaly.zscore" }

// Markdown implements Result.
func (r *ZScoreResult) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[ANOMALY: Z-SCORE]\n")
	fmt.Fprintf(&b, "Elements: %d\n", len(r.Scores))
	fmt.Fprintf(&b, "Mean: %s | Std dev: %s | Threshold: %s\n",
		formatNum(r.Mean), formatNum(r.StdDev), formatNum(r.Threshold))
	fmt.Fprintf(&b, "Anomalies: %d (%.1f%%)\n", r.Count, r.Rate*100)
	writeValueList(&b, r.Anomalies)
	return b.String()
}

// IQRResult reports interquartile-fence outliers. A value is anomalous iff it
// lies strictly outside [Q1-1.5*IQR, Q3+1.5*IQR]; its score is the distance
// beyond the nearer fence, 0 inside.
type IQRResult struct {
	Anomalies  []float64
	Scores     []float64
	Q1         float64
	Q3         float64
	IQR        float64
	LowerFence float64
	UpperFence float64
	Count      int
	Rate       float64
}

// DetectIQR flags values strictly outside the Tukey fences. Quartiles use
// linear interpolation at rank p*(n-1) over a sorted copy.
func DetectIQR(data []float64) (*IQRResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("iqr detection: %w", ErrEmptyDataset)
	}
	sorted := sortedCopy(data)
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	res := &IQRResult{
		Q1:         q1,
		Q3:         q3,
		IQR:        iqr,
		LowerFence: q1 - iqrFenceMultiplier*iqr,
		UpperFence: q3 + iqrFenceMultiplier*iqr,
		Scores:     make([]float64, len(data)),
	}
	for i, v := range data {
		switch {
		case v < res.LowerFence:
			res.Scores[i] = res.LowerFence - v
		case v > res.UpperFence:
			res.Scores[i] = v - res.UpperFence
		}
		if v < res.LowerFence || v > res.UpperFence {
			res.Anomalies = append(res.Anomalies, v)
		}
	}
	res.Count = len(res.Anomalies)
	res.Rate = float64(res.Count) / float64(len(data))
	return res, nil
}

// Kind implements Result.
func (*IQRResult) Kind() string { return "anomaly.iqr" }

// Markdown implements Result.
func (r *IQRResult) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[ANOMALY: IQR]\n")
	fmt.Fprintf(&b, "Elements: %d\n", len(r.Scores))
	fmt.Fprintf(&b, "Q1: %s | Q3: %s | IQR: %s\n", formatNum(r.Q1), formatNum(r.Q3), formatNum(r.IQR))
	fmt.Fprintf(&b, "Fences: [%s, %s]\n", formatNum(r.LowerFence), formatNum(r.UpperFence))
	fmt.Fprintf(&b, "Anomalies: %d (%.1f%%)\n", r.Count, r.Rate*100)
	writeValueList(&b, r.Anomalies)
	return b.String()
}

// MADResult reports modified z-score outliers around the median.
type MADResult struct {
	Anomalies []float64
	Scores    []float64
	Median    float64
	MAD       float64
	Threshold float64
	Count     int
	Rate      float64
}

// DetectMAD flags values whose modified z-score 0.6745*(x-median)/MAD exceeds
// the threshold in absolute value (default 3.5 when threshold <= 0). When the
// MAD is 0 every score is 0 and nothing is flagged.
func DetectMAD(data []float64, threshold float64) (*MADResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("mad detection: %w", ErrEmptyDataset)
	}
	if threshold <= 0 {
		threshold = DefaultMADThreshold
	}
	med, mad := medianMAD(data)
	res := &MADResult{
		Median:    med,
		MAD:       mad,
		Threshold: threshold,
		Scores:    make([]float64, len(data)),
	}
	if mad > 0 {
		for i, v := range data {
			score := madScaleFactor * (v - med) / mad
			res.Scores[i] = score
			if math.Abs(score) > threshold {
				res.Anomalies = append(res.Anomalies, v)
			}
		}
	}
	res.Count = len(res.Anomalies)
	res.Rate = float64(res.Count) / float64(len(data))
	return res, nil
}

// Kind implements Result.
func (*MADResult) Kind() string { return "anomaly.mad" }

// Markdown implements Result.
func (r *MADResult) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[ANOMALY: MODIFIED Z-SCORE]\n")
	fmt.Fprintf(&b, "Elements: %d\n", len(r.Scores))
	fmt.Fprintf(&b, "Median: %s | MAD: %s | Threshold: %s\n",
		formatNum(r.Median), formatNum(r.MAD), formatNum(r.Threshold))
	fmt.Fprintf(&b, "Anomalies: %d (%.1f%%)\n", r.Count, r.Rate*100)
	writeValueList(&b, r.Anomalies)
	return b.String()
}

const maxListedValues = 10

func writeValueList(b *strings.Builder, vals []float64) {
	if len(vals) == 0 {
		return
	}
	parts := make([]string, 0, maxListedValues+1)
	for i, v := range vals {
		if i == maxListedValues {
			parts = append(parts, fmt.Sprintf("and %d more", len(vals)-maxListedValues))
			break
		}
		parts = append(parts, formatNum(v))
	}
	fmt.Fprintf(b, "Values: %s\n", strings.Join(parts, ", "))
}

// formatNum trims trailing zeros for readable reports.
func formatNum(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.4f", v)
}
