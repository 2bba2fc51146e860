// Package aggregate derives read-only dashboard views from tension records.
//
// Every function copies its input before reordering it; callers may share the
// same record slice across requests.
package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/aube/internal/domain/tension"
)

// DefaultTopN is the number of records shown in the dashboard highlight list.
const DefaultTopN = 3

// Record aliases the domain record to keep signatures short.
type Record = tension.Record

// Key extracts the numeric value a ranking is computed on.
type Key func(Record) float64

// ByPredictedTension ranks records by their +6 month tension.
func ByPredictedTension(r Record) float64 { return r.PredictedTension }

// TrendCounts partitions records by trend.
type TrendCounts struct {
	Up     int `json:"up"`
	Down   int `json:"down"`
	Stable int `json:"stable"`
}

// Total returns the number of records counted.
func (c TrendCounts) Total() int { return c.Up + c.Down + c.Stable }

// CriticalCount returns how many records have a predicted tension above the critical threshold.
func CriticalCount(records []Record) int {
	n := 0
	for _, r := range records {
		if r.Critical() {
			n++
		}
	}
	return n
}

// AverageConfidence returns the mean model confidence as a percentage rounded
// to one decimal. ok is false when there is no data.
func AverageConfidence(records []Record) (percent float64, ok bool) {
	if len(records) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range records {
		sum += r.ModelConfidence
	}
	return round(sum/float64(len(records))*100, 1), true
}

// AveragePredictedTension returns the mean predicted tension rounded to two
// decimals, or 0 when there is no data.
func AveragePredictedTension(records []Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.PredictedTension
	}
	return round(sum/float64(len(records)), 2)
}

// CountTrends scans records once. Values outside the trend vocabulary are
// counted as stable and reported through an error wrapping tension.ErrUnknownTrend.
func CountTrends(records []Record) (TrendCounts, error) {
	var (
		c       TrendCounts
		unknown []string
	)
	for _, r := range records {
		switch r.Trend {
		case tension.TrendUp:
			c.Up++
		case tension.TrendDown:
			c.Down++
		case tension.TrendStable:
			c.Stable++
		default:
			c.Stable++
			unknown = append(unknown, r.ID)
		}
	}
	if len(unknown) > 0 {
		return c, fmt.Errorf("%w: records %v", tension.ErrUnknownTrend, unknown)
	}
	return c, nil
}

// TopN returns the n records with the highest key, highest first. Equal keys
// keep their input order.
func TopN(records []Record, n int, key Key) []Record {
	if n <= 0 || len(records) == 0 {
		return []Record{}
	}
	if key == nil {
		key = ByPredictedTension
	}
	out := clone(records)
	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i]) > key(out[j])
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

func clone(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
