package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey names a sortable column of the predictions table.
type SortKey string

// Sortable columns.
const (
	SortID               SortKey = "id"
	SortRomeCode         SortKey = "romeCode"
	SortJobTitle         SortKey = "jobTitle"
	SortZone             SortKey = "zone"
	SortCurrentTension   SortKey = "currentTension"
	SortPredictedTension SortKey = "predictedTension6Months"
	SortTrend            SortKey = "trend"
	SortModelConfidence  SortKey = "modelConfidence"
)

// Direction is the sort order.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

var sortKeyAliases = map[string]SortKey{
	"id":                      SortID,
	"romecode":                SortRomeCode,
	"rome_code":               SortRomeCode,
	"jobtitle":                SortJobTitle,
	"job_title":               SortJobTitle,
	"zone":                    SortZone,
	"currenttension":          SortCurrentTension,
	"current_tension":         SortCurrentTension,
	"predictedtension6months": SortPredictedTension,
	"predicted_tension_6m":    SortPredictedTension,
	"predicted_tension":       SortPredictedTension,
	"trend":                   SortTrend,
	"modelconfidence":         SortModelConfidence,
	"model_confidence":        SortModelConfidence,
}

// ParseSortKey accepts camelCase and snake_case column names.
func ParseSortKey(s string) (SortKey, error) {
	k, ok := sortKeyAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrUnknownSortKey
	}
	return k, nil
}

// ParseDirection accepts "asc" and "desc"; empty means ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return "", ErrUnknownDirection
	}
}

// SortState is the table's current ordering.
type SortState struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// DefaultSort orders the table by job title, ascending.
func DefaultSort() SortState {
	return SortState{Key: SortJobTitle, Direction: Asc}
}

// Toggle returns the state after the user selects key: the same key flips the
// direction, a new key starts ascending.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key {
		if s.Direction == Asc {
			return SortState{Key: key, Direction: Desc}
		}
		return SortState{Key: key, Direction: Asc}
	}
	return SortState{Key: key, Direction: Asc}
}

// Query selects and orders table rows.
type Query struct {
	Term string
	Sort SortState
}

// SortedFiltered keeps records whose job title or zone contains Term
// (case-insensitive) and orders them by Sort. Numeric columns compare
// numerically, others with French collation. The sort is stable.
func SortedFiltered(records []Record, q Query) []Record {
	term := strings.ToLower(q.Term)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if term == "" ||
			strings.Contains(strings.ToLower(r.JobTitle), term) ||
			strings.Contains(strings.ToLower(r.Zone), term) {
			out = append(out, r)
		}
	}

	key := q.Sort.Key
	if key == "" {
		key = SortJobTitle
	}
	sign := 1
	if q.Sort.Direction == Desc {
		sign = -1
	}

	col := collate.New(language.French)
	sort.SliceStable(out, func(i, j int) bool {
		return compare(col, out[i], out[j], key)*sign < 0
	})
	return out
}

func compare(col *collate.Collator, a, b Record, key SortKey) int {
	an, aNum := numeric(a, key)
	bn, bNum := numeric(b, key)
	if aNum && bNum {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	return col.CompareString(text(a, key), text(b, key))
}

func numeric(r Record, key SortKey) (float64, bool) {
	switch key {
	case SortCurrentTension:
		return r.CurrentTension, true
	case SortPredictedTension:
		return r.PredictedTension, true
	case SortModelConfidence:
		return r.ModelConfidence, true
	default:
		return 0, false
	}
}

func text(r Record, key SortKey) string {
	switch key {
	case SortID:
		return r.ID
	case SortRomeCode:
		return r.RomeCode
	case SortJobTitle:
		return r.JobTitle
	case SortZone:
		return r.Zone
	case SortTrend:
		return string(r.Trend)
	default:
		if v, ok := numeric(r, key); ok {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
		return ""
	}
}
