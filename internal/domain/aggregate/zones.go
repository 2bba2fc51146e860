package aggregate

import (
	"sort"

	"github.com/okian/aube/internal/domain/tension"
)

// MaxZones caps the "zones in tension" chart.
const MaxZones = 6

// ZoneAggregate is the mean predicted tension of one employment zone.
type ZoneAggregate struct {
	Zone    string  `json:"zone"`
	Tension float64 `json:"tension"`
	Count   int     `json:"count"`
}

// ZoneAverages groups records by zone in first-seen order. Means are rounded
// to two decimals.
func ZoneAverages(records []Record) []ZoneAggregate {
	type acc struct {
		sum   float64
		count int
	}
	order := make([]string, 0)
	sums := make(map[string]*acc)
	for _, r := range records {
		a, ok := sums[r.Zone]
		if !ok {
			a = &acc{}
			sums[r.Zone] = a
			order = append(order, r.Zone)
		}
		a.sum += r.PredictedTension
		a.count++
	}

	out := make([]ZoneAggregate, 0, len(order))
	for _, zone := range order {
		a := sums[zone]
		out = append(out, ZoneAggregate{
			Zone:    zone,
			Tension: round(a.sum/float64(a.count), 2),
			Count:   a.count,
		})
	}
	return out
}

// ByZone returns the zones whose mean predicted tension exceeds the critical
// threshold, highest first, truncated to MaxZones.
func ByZone(records []Record) []ZoneAggregate {
	all := ZoneAverages(records)
	out := make([]ZoneAggregate, 0, len(all))
	for _, z := range all {
		if z.Tension > tension.CriticalThreshold {
			out = append(out, z)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Tension > out[j].Tension
	})
	if len(out) > MaxZones {
		out = out[:MaxZones]
	}
	return out
}
