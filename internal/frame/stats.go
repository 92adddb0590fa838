package frame

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Analysis modes accepted by Analyze.
const (
	AnalysisBasic    = "basic"
	AnalysisDetailed = "detailed"
)

// Stats is the serialisable statistics report for one frame.
//
// Basic mode fills NumericColumns with mean/std/min/max per numeric
// column. Detailed mode fills the full describe breakdown instead, plus
// per-value frequencies for every non-numeric column.
type Stats struct {
	RowCount           int                           `json:"row_count"`
	ColumnCount        int                           `json:"column_count"`
	NullCounts         map[string]int                `json:"null_counts"`
	NumericColumns     map[string]map[string]float64 `json:"numeric_columns"`
	CategoricalColumns map[string]map[string]int     `json:"categorical_columns,omitempty"`
}

// Analyze computes descriptive statistics for the frame.
//
// Any mode other than "basic" is treated as detailed, matching the
// permissive behaviour clients already depend on.
func (f *Frame) Analyze(mode string) *Stats {
	stats := &Stats{
		RowCount:       len(f.Rows),
		ColumnCount:    len(f.Columns),
		NullCounts:     make(map[string]int, len(f.Columns)),
		NumericColumns: make(map[string]map[string]float64),
	}

	detailed := mode != AnalysisBasic
	if detailed {
		stats.CategoricalColumns = make(map[string]map[string]int)
	}

	for c, name := range f.Columns {
		stats.NullCounts[name] = f.nullCount(c)

		if f.columnIsNumeric(c) {
			values := f.numericValues(c)
			if detailed {
				stats.NumericColumns[name] = describe(values)
			} else {
				stats.NumericColumns[name] = map[string]float64{
					"mean": mean(values),
					"std":  std(values),
					"min":  minOf(values),
					"max":  maxOf(values),
				}
			}
			continue
		}

		if detailed {
			stats.CategoricalColumns[name] = f.valueCounts(c)
		}
	}

	return stats
}

// JSON serialises the stats with two-space indentation.
func (s *Stats) JSON() (string, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling statistics: %w", err)
	}
	return string(b), nil
}

// valueCounts maps each distinct rendered value of column c to its
// occurrence count. NULLs are excluded; they are reported in NullCounts.
func (f *Frame) valueCounts(c int) map[string]int {
	counts := make(map[string]int)
	for _, row := range f.Rows {
		if row[c] == nil {
			continue
		}
		counts[renderCell(row[c])]++
	}
	return counts
}

// describe returns the full descriptive breakdown for a numeric column:
// count, mean, std, min, quartiles, max.
func describe(values []float64) map[string]float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return map[string]float64{
		"count": float64(len(values)),
		"mean":  mean(values),
		"std":   std(values),
		"min":   minOf(values),
		"25%":   quantile(sorted, 0.25),
		"50%":   quantile(sorted, 0.5),
		"75%":   quantile(sorted, 0.75),
		"max":   maxOf(values),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// std is the sample standard deviation (n-1 denominator). Zero for
// fewer than two values.
func std(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// quantile computes the q-th quantile of sorted values with linear
// interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
