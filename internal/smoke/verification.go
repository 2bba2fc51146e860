package smoke

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrVerification reports a response that contradicts the dashboard invariants.
var ErrVerification = errors.New("verification failed")

// verifyDashboard checks the overview against its own rows.
func verifyDashboard(d *Dashboard) error {
	if d.Total == 0 {
		return fmt.Errorf("%w: dashboard is empty", ErrVerification)
	}
	if d.CriticalCount < 0 || d.CriticalCount > d.Total {
		return fmt.Errorf("%w: critical count %d outside [0,%d]", ErrVerification, d.CriticalCount, d.Total)
	}
	if n := d.Trends.Up + d.Trends.Down + d.Trends.Stable; n != d.Total {
		return fmt.Errorf("%w: trends sum to %d, want %d", ErrVerification, n, d.Total)
	}
	if d.HasConfidence && (d.AverageConfidence < 0 || d.AverageConfidence > percentageMultiplier) {
		return fmt.Errorf("%w: average confidence %.1f out of range", ErrVerification, d.AverageConfidence)
	}
	if !sort.SliceIsSorted(d.Top, func(i, j int) bool { return d.Top[i].PredictedTension > d.Top[j].PredictedTension }) {
		return fmt.Errorf("%w: top occupations are not ordered", ErrVerification)
	}
	if len(d.Zones) > maxZones {
		return fmt.Errorf("%w: %d zones, want at most %d", ErrVerification, len(d.Zones), maxZones)
	}
	if !sort.SliceIsSorted(d.Zones, func(i, j int) bool { return d.Zones[i].Tension > d.Zones[j].Tension }) {
		return fmt.Errorf("%w: zones are not ordered", ErrVerification)
	}
	return nil
}

// verifyCritical checks the critical count against the full table.
func verifyCritical(d *Dashboard, rows []Record) error {
	critical := 0
	for _, r := range rows {
		if r.PredictedTension > criticalThreshold {
			critical++
		}
	}
	if critical != d.CriticalCount {
		return fmt.Errorf("%w: table has %d critical rows, dashboard says %d", ErrVerification, critical, d.CriticalCount)
	}
	return nil
}

// verifyDescending checks rows are ordered by predicted tension, highest first.
func verifyDescending(rows []Record) error {
	for i := 1; i < len(rows); i++ {
		if rows[i].PredictedTension > rows[i-1].PredictedTension {
			return fmt.Errorf("%w: row %d (%s) breaks the descending order", ErrVerification, i, rows[i].ID)
		}
	}
	return nil
}

// verifyFiltered checks every row matches term on job title or zone.
func verifyFiltered(rows []Record, term string) error {
	t := strings.ToLower(term)
	for _, r := range rows {
		if !strings.Contains(strings.ToLower(r.JobTitle), t) && !strings.Contains(strings.ToLower(r.Zone), t) {
			return fmt.Errorf("%w: row %s does not match %q", ErrVerification, r.ID, term)
		}
	}
	return nil
}

// verifyZones checks the "zones in tension" list: bounded, ordered, all critical.
func verifyZones(zones []Zone) error {
	if len(zones) > maxZones {
		return fmt.Errorf("%w: %d zones, want at most %d", ErrVerification, len(zones), maxZones)
	}
	for i, z := range zones {
		if z.Tension <= criticalThreshold {
			return fmt.Errorf("%w: zone %s has mean %.2f", ErrVerification, z.Zone, z.Tension)
		}
		if i > 0 && z.Tension > zones[i-1].Tension {
			return fmt.Errorf("%w: zones are not ordered", ErrVerification)
		}
	}
	return nil
}
