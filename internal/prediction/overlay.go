package prediction

import (
	"sort"
	"strconv"

	"github.com/akozadaev/go_crime_analytical_system/internal/georef"
	"github.com/akozadaev/go_crime_analytical_system/internal/models"
)

// DefaultTopK размер списка зон наибольшего риска.
const DefaultTopK = 5

// JoinResult результат внутреннего соединения прогнозов со справочником.
type JoinResult struct {
	Overlay        []models.RiskOverlay
	Unmatched      int
	UnmatchedZones []string // уникальные, в порядке появления
}

// Join соединяет прогнозы со справочником квадрантов. Прогнозы для неизвестных
// квадрантов не попадают в карту, но учитываются в Unmatched.
func Join(preds []models.PredictionRecord, refs []models.ZoneReference) JoinResult {
	idx := georef.Index(refs)
	res := JoinResult{
		Overlay:        make([]models.RiskOverlay, 0, len(preds)),
		UnmatchedZones: make([]string, 0),
	}
	seen := map[string]bool{}

	for _, p := range preds {
		ref, ok := idx[p.ZoneID]
		if !ok {
			res.Unmatched++
			if !seen[p.ZoneID] {
				seen[p.ZoneID] = true
				res.UnmatchedZones = append(res.UnmatchedZones, p.ZoneID)
			}
			continue
		}
		res.Overlay = append(res.Overlay, models.RiskOverlay{
			ZoneID:         p.ZoneID,
			PredictedCount: p.PredictedCount,
			Centroid:       ref.Centroid,
			District:       ref.District,
		})
	}
	return res
}

// Rank возвращает копию, упорядоченную по убыванию прогноза, при равенстве
// по возрастанию zone_id, и проставляет места начиная с 1.
func Rank(rows []models.RiskOverlay) []models.RiskOverlay {
	out := make([]models.RiskOverlay, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PredictedCount != out[j].PredictedCount {
			return out[i].PredictedCount > out[j].PredictedCount
		}
		return zoneLess(out[i].ZoneID, out[j].ZoneID)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// TopK первые k строк рейтинга.
func TopK(rows []models.RiskOverlay, k int) []models.RiskOverlay {
	ranked := Rank(rows)
	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// Insight три первые зоны и самый частый район среди переданных строк.
func Insight(top []models.RiskOverlay) models.RiskInsight {
	ins := models.RiskInsight{TopZones: make([]string, 0, 3)}
	var order []string
	counts := map[string]int{}
	for i, r := range top {
		if i < 3 {
			ins.TopZones = append(ins.TopZones, r.ZoneID)
		}
		if _, ok := counts[r.District]; !ok {
			order = append(order, r.District)
		}
		counts[r.District]++
	}
	best := 0
	for _, d := range order {
		if counts[d] > best {
			ins.DominantDistrict, best = d, counts[d]
		}
	}
	return ins
}

// BuildOverlay выполняет соединение, ранжирование и формирует ответ.
func BuildOverlay(res *Result, refs []models.ZoneReference, k int) models.OverlayResponse {
	joined := Join(res.Records, refs)
	ranked := Rank(joined.Overlay)

	top := ranked
	if k >= 0 && len(top) > k {
		top = top[:k]
	}

	return models.OverlayResponse{
		Overlay: ranked,
		Top:     top,
		Insight: Insight(top),
		Diagnostics: models.Diagnostics{
			Predictions:    len(res.Records),
			InvalidRows:    res.InvalidRows,
			Unmatched:      joined.Unmatched,
			UnmatchedZones: joined.UnmatchedZones,
		},
	}
}

// zoneLess сравнивает числовые идентификаторы как числа, остальные как строки.
// Числовые идут раньше нечисловых.
func zoneLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
