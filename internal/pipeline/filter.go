package pipeline

import "github.com/akozadaev/go_crime_analytical_system/internal/models"

// Filter выбор пользователя: набор категорий и диапазон лет включительно.
// Пустые поля не ограничивают выборку.
type Filter struct {
	Categories []string
	YearFrom   int
	YearTo     int
}

// IsZero true, если фильтр ничего не отбрасывает.
func (f Filter) IsZero() bool {
	return len(f.Categories) == 0 && f.YearFrom == 0 && f.YearTo == 0
}

// Apply возвращает новый срез с подходящими записями.
func (f Filter) Apply(rs []models.Incident) []models.Incident {
	if f.IsZero() {
		return rs
	}

	var cats map[string]struct{}
	if len(f.Categories) > 0 {
		cats = make(map[string]struct{}, len(f.Categories))
		for _, c := range f.Categories {
			cats[c] = struct{}{}
		}
	}

	out := make([]models.Incident, 0, len(rs))
	for _, r := range rs {
		if cats != nil {
			if _, ok := cats[r.Category]; !ok {
				continue
			}
		}
		if f.YearFrom != 0 && r.Year < f.YearFrom {
			continue
		}
		if f.YearTo != 0 && r.Year > f.YearTo {
			continue
		}
		out = append(out, r)
	}
	return out
}
