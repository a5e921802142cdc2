// Package aggregate строит сводные таблицы по обогащенным происшествиям.
// Все функции чистые: пустой вход дает пустую таблицу, а не ошибку.
package aggregate

import (
	"sort"

	"github.com/akozadaev/go_crime_analytical_system/internal/models"
)

// Dimension измерение для рейтингов.
type Dimension string

const (
	DimDistrict Dimension = "district"
	DimZone     Dimension = "zone"
	DimCategory Dimension = "category"
	DimSeason   Dimension = "season"
)

// DefaultTopN размер рейтинга по умолчанию.
const DefaultTopN = 10

// ParseDimension проверяет имя измерения из запроса.
func ParseDimension(s string) (Dimension, bool) {
	switch d := Dimension(s); d {
	case DimDistrict, DimZone, DimCategory, DimSeason:
		return d, true
	}
	return "", false
}

func (d Dimension) value(inc *models.Incident) string {
	switch d {
	case DimDistrict:
		return inc.District
	case DimZone:
		return inc.ZoneID
	case DimCategory:
		return inc.Category
	case DimSeason:
		return inc.Season
	}
	return ""
}

// tally считает значения, запоминая порядок первого появления.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: map[string]int{}}
}

func (t *tally) add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// ranked возвращает значения по убыванию количества, равные остаются в порядке появления.
func (t *tally) ranked() []models.RankedCount {
	out := make([]models.RankedCount, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, models.RankedCount{Value: k, Count: t.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func (t *tally) top() (string, int) {
	best, bestCount := "", 0
	for _, k := range t.order {
		if t.counts[k] > bestCount {
			best, bestCount = k, t.counts[k]
		}
	}
	return best, bestCount
}

type monthKey struct {
	month    string
	category string
}

// MonthlyTrend группирует по (месяц, категория), по возрастанию месяца, затем категории.
func MonthlyTrend(rs []models.Incident) []models.MonthlyAggregate {
	counts := map[monthKey]int{}
	for i := range rs {
		counts[monthKey{rs[i].MonthBucket, rs[i].Category}]++
	}

	out := make([]models.MonthlyAggregate, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.MonthlyAggregate{Month: k.month, Category: k.category, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TrendSeries раскладывает помесячную таблицу на линии по категориям.
func TrendSeries(rows []models.MonthlyAggregate) []models.TrendSeries {
	idx := map[string]int{}
	out := make([]models.TrendSeries, 0)
	for _, r := range rows {
		i, ok := idx[r.Category]
		if !ok {
			i = len(out)
			idx[r.Category] = i
			out = append(out, models.TrendSeries{Category: r.Category})
		}
		out[i].Points = append(out[i].Points, models.TrendPoint{Month: r.Month, Count: r.Count})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// CategoryViolence группирует по (категория, насилие). Категории по убыванию
// количества, признак в порядке SI, NO, DESCONOCIDA.
func CategoryViolence(rs []models.Incident) []models.CategoryViolenceCount {
	cats := newTally()
	pairs := map[string]map[models.ViolenceFlag]int{}
	for i := range rs {
		c := rs[i].Category
		cats.add(c)
		if pairs[c] == nil {
			pairs[c] = map[models.ViolenceFlag]int{}
		}
		pairs[c][rs[i].Violence]++
	}

	out := make([]models.CategoryViolenceCount, 0, len(pairs)*3)
	for _, c := range cats.ranked() {
		for _, flag := range models.ViolenceFlags() {
			if n := pairs[c.Value][flag]; n > 0 {
				out = append(out, models.CategoryViolenceCount{Category: c.Value, Violence: flag, Count: n})
			}
		}
	}
	return out
}

// ViolenceRates доля SI по каждой категории.
func ViolenceRates(rs []models.Incident) []models.ViolenceRate {
	cats := newTally()
	violent := map[string]int{}
	for i := range rs {
		cats.add(rs[i].Category)
		if rs[i].Violence == models.ViolenceYes {
			violent[rs[i].Category]++
		}
	}

	out := make([]models.ViolenceRate, 0, len(cats.order))
	for _, c := range cats.ranked() {
		out = append(out, models.ViolenceRate{
			Category: c.Value,
			Total:    c.Count,
			Violent:  violent[c.Value],
			Percent:  percent(violent[c.Value], c.Count),
		})
	}
	return out
}

// Hourly распределение по 24 часам с разбивкой по категориям.
// Записи без часа не учитываются; если час неизвестен у всех, таблица пустая.
func Hourly(rs []models.Incident) []models.HourBucket {
	var buckets [24]models.HourBucket
	known := 0
	for i := range rs {
		h := rs[i].Hour
		if h == nil || *h < 0 || *h > 23 {
			continue
		}
		b := &buckets[*h]
		if b.ByCategory == nil {
			b.ByCategory = map[string]int{}
		}
		b.Total++
		b.ByCategory[rs[i].Category]++
		known++
	}

	if known == 0 {
		return []models.HourBucket{}
	}

	out := make([]models.HourBucket, 24)
	for h := range buckets {
		out[h] = buckets[h]
		out[h].Hour = h
		if out[h].ByCategory == nil {
			out[h].ByCategory = map[string]int{}
		}
	}
	return out
}

// TopN количество по значениям измерения, по убыванию, не более n строк.
// Пустые значения не учитываются.
func TopN(rs []models.Incident, dim Dimension, n int) []models.RankedCount {
	t := newTally()
	for i := range rs {
		if v := dim.value(&rs[i]); v != "" {
			t.add(v)
		}
	}
	out := t.ranked()
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}
