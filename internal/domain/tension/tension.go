// Package tension defines the labour-market tension records shown by the dashboard.
package tension

import (
	"fmt"
	"strings"
)

// CriticalThreshold is the predicted tension above which an occupation is critical.
const CriticalThreshold = 1.5

// Thresholds for the lower tension bands.
const (
	highThreshold     = 1.0
	moderateThreshold = 0.8
)

// Trend is the direction of the predicted tension.
type Trend string

// Closed trend vocabulary.
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// ParseTrend converts raw input into a Trend. Accepts the English and French labels.
func ParseTrend(s string) (Trend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "rising", "hausse":
		return TrendUp, nil
	case "down", "falling", "baisse":
		return TrendDown, nil
	case "stable":
		return TrendStable, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTrend, s)
	}
}

// Valid reports whether t belongs to the closed vocabulary.
func (t Trend) Valid() bool {
	return t == TrendUp || t == TrendDown || t == TrendStable
}

// Label returns the French label displayed in tables.
func (t Trend) Label() string {
	switch t {
	case TrendUp:
		return "Hausse"
	case TrendDown:
		return "Baisse"
	default:
		return "Stable"
	}
}

// Record is one observation of tension for an occupation in an employment zone.
type Record struct {
	ID               string  `json:"id" yaml:"id" validate:"required"`
	RomeCode         string  `json:"rome_code" yaml:"rome_code" validate:"required"`
	JobTitle         string  `json:"job_title" yaml:"job_title" validate:"required"`
	Zone             string  `json:"zone" yaml:"zone" validate:"required"`
	CurrentTension   float64 `json:"current_tension" yaml:"current_tension" validate:"gte=0"`
	PredictedTension float64 `json:"predicted_tension_6m" yaml:"predicted_tension_6m" validate:"gte=0"`
	Trend            Trend   `json:"trend" yaml:"trend" validate:"oneof=up down stable"`
	ModelConfidence  float64 `json:"model_confidence" yaml:"model_confidence" validate:"gte=0,lte=1"`
}

// Critical reports whether the predicted tension exceeds CriticalThreshold.
func (r Record) Critical() bool {
	return r.PredictedTension > CriticalThreshold
}

// ModelMetric is the static evaluation of a forecasting model.
type ModelMetric struct {
	ModelName   string  `json:"model_name" yaml:"model_name"`
	RMSE        float64 `json:"rmse" yaml:"rmse"`
	MAPE        float64 `json:"mape" yaml:"mape"`
	Description string  `json:"description" yaml:"description"`
}

// RadarAxis compares the baseline and deep-learning models on one qualitative axis.
type RadarAxis struct {
	Subject  string  `json:"subject" yaml:"subject"`
	SARIMA   float64 `json:"sarima" yaml:"sarima"`
	LSTM     float64 `json:"lstm" yaml:"lstm"`
	FullMark float64 `json:"full_mark" yaml:"full_mark"`
}

// Department is a Normandy département.
type Department struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// DataSource describes the freshness of an upstream data feed.
type DataSource struct {
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"`
}

// Indicators are headline figures that are not derived from the records.
type Indicators struct {
	ZonesTracked int    `json:"zones_tracked" yaml:"zones_tracked"`
	GlobalTrend  string `json:"global_trend" yaml:"global_trend"`
	Weighting    string `json:"weighting" yaml:"weighting"`
}
