package aggregate

import "github.com/okian/aube/internal/domain/tension"

func rec(id, rome, title, zone string, cur, pred float64, trend tension.Trend, conf float64) Record {
	return Record{
		ID:               id,
		RomeCode:         rome,
		JobTitle:         title,
		Zone:             zone,
		CurrentTension:   cur,
		PredictedTension: pred,
		Trend:            trend,
		ModelConfidence:  conf,
	}
}

// normandy mirrors the dataset shipped with the service.
func normandy() []Record {
	return []Record{
		rec("1", "J1506", "Infirmiers", "Caen", 1.8, 2.1, tension.TrendUp, 0.92),
		rec("2", "M1805", "Techniciens ingenierie", "Le Havre", 1.4, 1.9, tension.TrendUp, 0.9),
		rec("3", "K1304", "Aide a domicile", "Rouen", 1.5, 1.8, tension.TrendUp, 0.86),
		rec("4", "D1202", "Cuisiniers restauration", "Deauville", 1.3, 1.1, tension.TrendDown, 0.88),
		rec("5", "N4102", "Techniciens administratifs", "Evreux", 1.0, 1.2, tension.TrendUp, 0.84),
		rec("6", "D1505", "Serveurs", "Caen", 1.1, 1.3, tension.TrendUp, 0.82),
		rec("7", "N1103", "Agents dentretien", "Lisieux", 1.0, 1.2, tension.TrendUp, 0.83),
		rec("8", "H2902", "Soudeurs", "Cherbourg", 1.2, 1.6, tension.TrendUp, 0.87),
		rec("9", "H1203", "Ouvriers polyvalents", "Avranches", 0.9, 1.0, tension.TrendStable, 0.8),
		rec("10", "M1607", "Techniciens maintenance navale", "Cherbourg", 1.3, 1.7, tension.TrendUp, 0.9),
		rec("11", "F1104", "Macons", "Rouen", 1.4, 1.6, tension.TrendUp, 0.85),
		rec("12", "N1201", "Vendeurs commerce", "Dieppe", 0.8, 0.9, tension.TrendStable, 0.78),
		rec("13", "H2301", "Conducteurs poids lourds", "Le Havre", 1.1, 1.4, tension.TrendUp, 0.88),
		rec("14", "A1414", "Techniciens agricoles", "Alencon", 0.9, 1.1, tension.TrendStable, 0.79),
		rec("15", "I1301", "Maintenance industrielle", "Vernon", 1.0, 1.3, tension.TrendUp, 0.86),
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
