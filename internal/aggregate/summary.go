package aggregate

import (
	"sort"
	"strconv"

	"github.com/akozadaev/go_crime_analytical_system/internal/models"
)

// Breakdown распределения по году, месяцу года, сезону, насилию и категории.
func Breakdown(rs []models.Incident) models.Breakdown {
	return models.Breakdown{
		ByYear:     byInt(rs, func(inc *models.Incident) int { return inc.Year }),
		ByMonth:    byInt(rs, func(inc *models.Incident) int { return inc.Month }),
		BySeason:   TopN(rs, DimSeason, 0),
		ByViolence: byViolence(rs),
		ByCategory: TopN(rs, DimCategory, 0),
	}
}

// Summarize основные показатели для панели.
func Summarize(rs []models.Incident) models.Summary {
	s := models.Summary{Total: len(rs)}
	if len(rs) == 0 {
		return s
	}

	districts := map[string]struct{}{}
	zones := map[string]struct{}{}
	categories := newTally()
	months := map[string]int{}
	for i := range rs {
		inc := &rs[i]
		if inc.Violence == models.ViolenceYes {
			s.Violent++
		}
		if inc.District != "" {
			districts[inc.District] = struct{}{}
		}
		if inc.ZoneID != "" {
			zones[inc.ZoneID] = struct{}{}
		}
		categories.add(inc.Category)
		months[inc.MonthBucket]++
	}

	s.ViolentPercent = percent(s.Violent, s.Total)
	s.Districts = len(districts)
	s.Zones = len(zones)
	s.DominantCategory, _ = categories.top()
	s.PeakHour = peakHour(rs)
	s.AverageMonthly = float64(s.Total) / float64(len(months))
	s.PeakMonth = peakMonth(months)
	s.PeakMonthOfYear = peakInt(byInt(rs, func(inc *models.Incident) int { return inc.Month }))
	s.PeakYear = peakYear(rs)
	if top := TopN(rs, DimDistrict, 1); len(top) > 0 {
		s.TopDistrict = top[0].Value
	}
	return s
}

// Profile подробный профиль категории. Для категории без записей Total равен 0.
func Profile(rs []models.Incident, category string, n int) models.CategoryProfile {
	subset := make([]models.Incident, 0)
	violent := 0
	for i := range rs {
		if rs[i].Category == category {
			subset = append(subset, rs[i])
			if rs[i].Violence == models.ViolenceYes {
				violent++
			}
		}
	}

	p := models.CategoryProfile{
		Category:       category,
		Total:          len(subset),
		ViolentPercent: percent(violent, len(subset)),
		PeakYear:       peakYear(subset),
		ByYear:         byInt(subset, func(inc *models.Incident) int { return inc.Year }),
		ByMonth:        byInt(subset, func(inc *models.Incident) int { return inc.Month }),
		TopDistricts:   TopN(subset, DimDistrict, n),
		TopZones:       TopN(subset, DimZone, n),
		ByViolence:     byViolence(subset),
		BySeason:       TopN(subset, DimSeason, 0),
	}
	if len(p.TopDistricts) > 0 {
		p.TopDistrict = p.TopDistricts[0].Value
	}
	return p
}

// byInt считает по целочисленному ключу по возрастанию ключа; 0 означает "нет значения".
func byInt(rs []models.Incident, key func(*models.Incident) int) []models.RankedCount {
	counts := map[int]int{}
	for i := range rs {
		if k := key(&rs[i]); k != 0 {
			counts[k]++
		}
	}
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]models.RankedCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.RankedCount{Value: strconv.Itoa(k), Count: counts[k]})
	}
	return out
}

func byViolence(rs []models.Incident) []models.RankedCount {
	counts := map[models.ViolenceFlag]int{}
	for i := range rs {
		counts[rs[i].Violence]++
	}
	out := make([]models.RankedCount, 0, 3)
	for _, flag := range models.ViolenceFlags() {
		if n := counts[flag]; n > 0 {
			out = append(out, models.RankedCount{Value: string(flag), Count: n})
		}
	}
	return out
}

// peakHour мода известных часов, при равенстве меньший час.
func peakHour(rs []models.Incident) *int {
	var counts [24]int
	best := -1
	for i := range rs {
		if h := rs[i].Hour; h != nil && *h >= 0 && *h <= 23 {
			counts[*h]++
		}
	}
	for h, n := range counts {
		if n > 0 && (best < 0 || n > counts[best]) {
			best = h
		}
	}
	if best < 0 {
		return nil
	}
	return &best
}

// peakMonth период год-месяц с наибольшим числом происшествий, при равенстве более ранний.
func peakMonth(months map[string]int) string {
	best, bestCount := "", 0
	for m, n := range months {
		if n > bestCount || (n == bestCount && m < best) {
			best, bestCount = m, n
		}
	}
	return best
}

func peakYear(rs []models.Incident) int {
	return peakInt(byInt(rs, func(inc *models.Incident) int { return inc.Year }))
}

// peakInt ключ с наибольшим количеством; строки byInt идут по возрастанию,
// поэтому при равенстве выбирается меньший ключ.
func peakInt(rows []models.RankedCount) int {
	best, bestCount := 0, 0
	for _, r := range rows {
		if r.Count > bestCount {
			k, _ := strconv.Atoi(r.Value)
			best, bestCount = k, r.Count
		}
	}
	return best
}
