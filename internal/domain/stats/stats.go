// Package stats provides the statistical primitives shared by the
// independence and bias probes.
//
// The significance tests intentionally use coarse lookup tables instead of
// exact distribution functions. The thresholds are part of the observable
// contract of the audit pipeline and must not be replaced with a real
// statistics library without revisiting every probe threshold.
package stats

import (
	"math"
	"sort"
)

// Coarse p-value buckets used by the significance approximations.
const (
	welchStrongT   = 2.0
	welchWeakT     = 1.645
	ksStrongD      = 0.5
	ksWeakD        = 0.3
	pStrong        = 0.025
	pWeak          = 0.05
	pNone          = 0.1
	ksPStrong      = 0.01
	uCountFraction = 0.3
	uCountCeiling  = 20
)

// Mean returns the arithmetic mean, or 0 for an empty sequence.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopulationVariance returns the population variance, or 0 for sequences
// shorter than two elements.
func PopulationVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation.
func StdDev(values []float64) float64 {
	return math.Sqrt(PopulationVariance(values))
}

// CohenD returns the effect size between two samples using the average of
// the two population variances as the pooled variance. Returns 0 when the
// pooled standard deviation is 0.
func CohenD(sampleA, sampleB []float64) float64 {
	pooled := math.Sqrt((PopulationVariance(sampleA) + PopulationVariance(sampleB)) / 2)
	if pooled == 0 {
		return 0
	}
	return (Mean(sampleA) - Mean(sampleB)) / pooled
}

// WelchResult holds the outcome of a Welch's t-test approximation.
type WelchResult struct {
	TStatistic       float64 `json:"t_statistic"`
	DegreesOfFreedom float64 `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`
	Significant      bool    `json:"significant"`
}

// WelchTTest computes Welch's t statistic and Welch-Satterthwaite degrees
// of freedom. The p-value is a coarse bucket lookup, not a distribution
// function: |t| > 2.0 -> 0.025, |t| > 1.645 -> 0.05, else 0.1.
func WelchTTest(sampleA, sampleB []float64) WelchResult {
	nA, nB := float64(len(sampleA)), float64(len(sampleB))
	if nA == 0 || nB == 0 {
		return WelchResult{PValue: pNone}
	}
	vA := PopulationVariance(sampleA) / nA
	vB := PopulationVariance(sampleB) / nB
	se := math.Sqrt(vA + vB)

	var t, df float64
	if se > 0 {
		t = (Mean(sampleA) - Mean(sampleB)) / se
		denom := 0.0
		if nA > 1 {
			denom += vA * vA / (nA - 1)
		}
		if nB > 1 {
			denom += vB * vB / (nB - 1)
		}
		if denom > 0 {
			df = (vA + vB) * (vA + vB) / denom
		}
	}

	p := pNone
	switch {
	case math.Abs(t) > welchStrongT:
		p = pStrong
	case math.Abs(t) > welchWeakT:
		p = pWeak
	}

	return WelchResult{
		TStatistic:       t,
		DegreesOfFreedom: df,
		PValue:           p,
		Significant:      p < pWeak,
	}
}

// MannWhitneyResult holds the outcome of a Mann-Whitney U approximation.
type MannWhitneyResult struct {
	U1          float64 `json:"u1"`
	U2          float64 `json:"u2"`
	UStatistic  float64 `json:"u_statistic"`
	Significant bool    `json:"significant"`
}

// MannWhitneyU computes the U statistic by counting, for each sample-A
// element in the combined sorted order, how many sample-B elements precede
// it. Significance uses a documented count heuristic rather than a normal
// approximation: significant when min(U1, U2) < min(|A|*|B|*0.3, 20).
func MannWhitneyU(sampleA, sampleB []float64) MannWhitneyResult {
	nA, nB := len(sampleA), len(sampleB)
	if nA == 0 || nB == 0 {
		return MannWhitneyResult{}
	}

	type obs struct {
		value float64
		fromA bool
	}
	combined := make([]obs, 0, nA+nB)
	for _, v := range sampleA {
		combined = append(combined, obs{value: v, fromA: true})
	}
	for _, v := range sampleB {
		combined = append(combined, obs{value: v, fromA: false})
	}
	sort.SliceStable(combined, func(i, j int) bool { return combined[i].value < combined[j].value })

	var u1 float64
	var bSeen float64
	for _, o := range combined {
		if o.fromA {
			u1 += bSeen
		} else {
			bSeen++
		}
	}
	u2 := float64(nA)*float64(nB) - u1

	u := math.Min(u1, u2)
	cutoff := math.Min(float64(nA)*float64(nB)*uCountFraction, uCountCeiling)

	return MannWhitneyResult{
		U1:          u1,
		U2:          u2,
		UStatistic:  u,
		Significant: u < cutoff,
	}
}

// KSResult holds the outcome of a Kolmogorov-Smirnov approximation.
type KSResult struct {
	DStatistic  float64 `json:"d_statistic"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
}

// KolmogorovSmirnov computes the maximum absolute difference between the
// two empirical CDFs over the union of observed values. The p-value is a
// coarse bucket lookup: d > 0.5 -> 0.01, d > 0.3 -> 0.05, else 0.1.
func KolmogorovSmirnov(sampleA, sampleB []float64) KSResult {
	if len(sampleA) == 0 || len(sampleB) == 0 {
		return KSResult{PValue: pNone}
	}

	union := make([]float64, 0, len(sampleA)+len(sampleB))
	union = append(union, sampleA...)
	union = append(union, sampleB...)
	sort.Float64s(union)

	ecdf := func(sample []float64, x float64) float64 {
		var count float64
		for _, v := range sample {
			if v <= x {
				count++
			}
		}
		return count / float64(len(sample))
	}

	var d float64
	for _, x := range union {
		diff := math.Abs(ecdf(sampleA, x) - ecdf(sampleB, x))
		if diff > d {
			d = diff
		}
	}

	p := pNone
	switch {
	case d > ksStrongD:
		p = ksPStrong
	case d > ksWeakD:
		p = pWeak
	}

	return KSResult{
		DStatistic:  d,
		PValue:      p,
		Significant: p < pWeak,
	}
}

// TrendResult describes a simple least-squares linear fit.
type TrendResult struct {
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
	Correlation float64 `json:"correlation"`
	Significant bool    `json:"significant"`
}

// LinearTrend fits y = slope*x + intercept by least squares over equally
// weighted points. The trend is flagged significant when at least three
// points correlate with |r| > 0.5.
func LinearTrend(xs, ys []float64) TrendResult {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return TrendResult{}
	}
	mx, my := Mean(xs), Mean(ys)
	var sxx, sxy, syy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return TrendResult{Intercept: my}
	}
	slope := sxy / sxx
	var r float64
	if syy > 0 {
		r = sxy / math.Sqrt(sxx*syy)
	}
	return TrendResult{
		Slope:       slope,
		Intercept:   my - slope*mx,
		Correlation: r,
		Significant: n >= 3 && math.Abs(r) > 0.5,
	}
}
