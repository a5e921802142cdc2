// Package georef строит справочник квадрантов: центроид, доминирующий район и границы.
package georef

import (
	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"github.com/twpayne/go-geom"
)

type zoneAcc struct {
	sumLat, sumLon float64
	flat           []float64 // lon, lat
	districts      []string  // в порядке первого появления
	counts         map[string]int
}

// Build возвращает по одной записи на каждый непустой zone_id в порядке первого появления.
// Центроид - среднее арифметическое координат без весов и отсева выбросов.
func Build(rs []models.Incident) []models.ZoneReference {
	order := make([]string, 0)
	acc := map[string]*zoneAcc{}

	for i := range rs {
		inc := &rs[i]
		if inc.ZoneID == "" {
			continue
		}
		a, ok := acc[inc.ZoneID]
		if !ok {
			a = &zoneAcc{counts: map[string]int{}}
			acc[inc.ZoneID] = a
			order = append(order, inc.ZoneID)
		}
		a.sumLat += inc.Coordinates.Lat
		a.sumLon += inc.Coordinates.Lon
		a.flat = append(a.flat, inc.Coordinates.Lon, inc.Coordinates.Lat)
		if _, seen := a.counts[inc.District]; !seen {
			a.districts = append(a.districts, inc.District)
		}
		a.counts[inc.District]++
	}

	out := make([]models.ZoneReference, 0, len(order))
	for _, zone := range order {
		a := acc[zone]
		n := len(a.flat) / 2
		out = append(out, models.ZoneReference{
			ZoneID:    zone,
			Centroid:  models.GeoPoint{Lat: a.sumLat / float64(n), Lon: a.sumLon / float64(n)},
			District:  dominant(a.districts, a.counts),
			Incidents: n,
			Bounds:    bounds(a.flat),
		})
	}
	return out
}

// dominant мода; при равенстве побеждает район, встретившийся раньше.
func dominant(order []string, counts map[string]int) string {
	best, bestCount := "", 0
	for _, d := range order {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

func bounds(flat []float64) models.Bounds {
	b := geom.NewMultiPointFlat(geom.XY, flat).Bounds()
	return models.Bounds{
		MinLat: b.Min(1),
		MinLon: b.Min(0),
		MaxLat: b.Max(1),
		MaxLon: b.Max(0),
	}
}

// Index справочник квадрантов по идентификатору.
func Index(refs []models.ZoneReference) map[string]models.ZoneReference {
	idx := make(map[string]models.ZoneReference, len(refs))
	for _, r := range refs {
		idx[r.ZoneID] = r
	}
	return idx
}
