// Package features вычисляет производные признаки происшествий: период, час, насилие.
package features

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultHourSentinel значение HORA, которым источник кодирует неизвестный час.
const DefaultHourSentinel = 99

// MonthLayout формат метки периода.
const MonthLayout = "2006-01"

// Options параметры вычисления признаков.
type Options struct {
	HourSentinel int
}

// DefaultOptions возвращает параметры по умолчанию.
func DefaultOptions() Options {
	return Options{HourSentinel: DefaultHourSentinel}
}

// MonthBucket усекает время до календарного месяца.
func MonthBucket(t time.Time) string {
	return t.Format(MonthLayout)
}

// NormalizeHour возвращает час 0-23 или nil, если значение пустое, нечисловое,
// вне диапазона или совпадает с sentinel.
func NormalizeHour(raw string, sentinel int) *int {
	h, ok := ParseIntegral(raw)
	if !ok || h == sentinel || h < 0 || h > 23 {
		return nil
	}
	return &h
}

// NormalizeViolence приводит VIOLENCIA к SI, NO или DESCONOCIDA.
func NormalizeViolence(raw string) models.ViolenceFlag {
	// Caser хранит состояние, поэтому не разделяется между горутинами
	switch models.ViolenceFlag(cases.Upper(language.Und).String(strings.TrimSpace(raw))) {
	case models.ViolenceYes:
		return models.ViolenceYes
	case models.ViolenceNo:
		return models.ViolenceNo
	default:
		return models.ViolenceUnknown
	}
}

// NormalizeZoneID убирает пробелы и хвост ".0", который появляется у
// идентификаторов квадрантов, выгруженных как числа с плавающей точкой.
func NormalizeZoneID(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	if n, ok := ParseIntegral(s); ok {
		return strconv.Itoa(n)
	}
	return s
}

// ParseIntegral разбирает целое число, допуская запись вида "14.0".
func ParseIntegral(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// Enrich строит происшествия с производными признаками. Входной срез не изменяется.
func Enrich(raws []models.RawIncident, opts Options) []models.Incident {
	out := make([]models.Incident, 0, len(raws))
	for _, r := range raws {
		inc := models.Incident{
			ID:          strconv.Itoa(r.Row),
			OccurredAt:  r.OccurredAt,
			Coordinates: models.GeoPoint{Lat: r.Latitude, Lon: r.Longitude},
			Category:    strings.TrimSpace(r.Category),
			Violence:    NormalizeViolence(r.Violence),
			Hour:        NormalizeHour(r.Hour, opts.HourSentinel),
			ZoneID:      NormalizeZoneID(r.ZoneID),
			District:    strings.TrimSpace(r.District),
			Year:        r.Year,
			Month:       r.Month,
			Season:      strings.TrimSpace(r.Season),
			MonthBucket: MonthBucket(r.OccurredAt),
		}
		if inc.Year == 0 {
			inc.Year = r.OccurredAt.Year()
		}
		if inc.Month == 0 {
			inc.Month = int(r.OccurredAt.Month())
		}
		out = append(out, inc)
	}
	return out
}
