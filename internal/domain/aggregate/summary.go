package aggregate

// Summary is the dashboard overview computed in a single pass over the data.
type Summary struct {
	Total                   int             `json:"total"`
	CriticalCount           int             `json:"critical_count"`
	AverageConfidence       float64         `json:"average_confidence"`
	HasConfidence           bool            `json:"has_confidence"`
	AveragePredictedTension float64         `json:"average_predicted_tension"`
	Trends                  TrendCounts     `json:"trends"`
	Top                     []Record        `json:"top"`
	Zones                   []ZoneAggregate `json:"zones"`
}

// Summarize builds the dashboard overview. The returned error only reports
// records with an unknown trend; the summary is complete either way.
func Summarize(records []Record, topN int) (Summary, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	conf, ok := AverageConfidence(records)
	trends, err := CountTrends(records)
	return Summary{
		Total:                   len(records),
		CriticalCount:           CriticalCount(records),
		AverageConfidence:       conf,
		HasConfidence:           ok,
		AveragePredictedTension: AveragePredictedTension(records),
		Trends:                  trends,
		Top:                     TopN(records, topN, ByPredictedTension),
		Zones:                   ByZone(records),
	}, err
}
