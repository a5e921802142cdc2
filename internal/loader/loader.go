// Package loader читает исходный CSV происшествий, приводит типы и отбрасывает
// строки без даты или координат.
package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/akozadaev/go_crime_analytical_system/internal/features"
	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// Колонки исходного набора.
const (
	ColDate     = "FECHA"
	ColLat      = "LATITUD"
	ColLon      = "LONGITUD"
	ColCategory = "TIPO"
	ColViolence = "VIOLENCIA"
	ColHour     = "HORA"
	ColZone     = "CUADRANTE"
	ColDistrict = "DISTRITO"
	ColYear     = "AÑO"
	ColMonth    = "MES"
	ColSeason   = "ESTACION"
)

// RequiredColumns все колонки, без которых набор не загружается.
var RequiredColumns = []string{
	ColDate, ColLat, ColLon, ColCategory, ColViolence, ColHour,
	ColZone, ColDistrict, ColYear, ColMonth, ColSeason,
}

// Причины отбраковки строк.
const (
	RejectMalformed   = "malformed"
	RejectTimestamp   = "timestamp"
	RejectCoordinates = "coordinates"
)

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options параметры разбора.
type Options struct {
	Encoding string // utf-8 (по умолчанию), windows-1252, iso-8859-1
	Logger   *zap.Logger
}

// Result загруженные записи и статистика.
type Result struct {
	Records []models.RawIncident
	Stats   models.LoadStats
}

// Load читает источник и разбирает его.
func Load(ctx context.Context, src Source, opts Options) (*Result, error) {
	snap, err := src.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(snap, opts)
}

// Parse разбирает содержимое снимка. Отсутствие обязательных колонок или
// нечитаемый заголовок возвращаются как ErrDataUnavailable, дефекты отдельных
// строк только подсчитываются.
func Parse(snap *Snapshot, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	data, err := decode(snap.Data, opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header of %s: %v", models.ErrDataUnavailable, snap.Name, err)
	}

	col, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Records: make([]models.RawIncident, 0, 1024),
		Stats: models.LoadStats{
			Source:      snap.Name,
			Fingerprint: snap.Fingerprint,
			Rejected:    map[string]int{},
		},
	}

	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		res.Stats.Total++

		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("%w: reading %s: %v", models.ErrDataUnavailable, snap.Name, err)
			}
			res.Stats.Rejected[RejectMalformed]++
			continue
		}

		occurredAt, ok := parseTime(field(record, col[ColDate]))
		if !ok {
			res.Stats.Rejected[RejectTimestamp]++
			continue
		}

		lat, okLat := parseCoordinate(field(record, col[ColLat]))
		lon, okLon := parseCoordinate(field(record, col[ColLon]))
		if !okLat || !okLon {
			res.Stats.Rejected[RejectCoordinates]++
			continue
		}

		year, _ := features.ParseIntegral(field(record, col[ColYear]))
		month, _ := features.ParseIntegral(field(record, col[ColMonth]))
		if month < 1 || month > 12 {
			month = 0
		}

		res.Records = append(res.Records, models.RawIncident{
			Row:        row,
			OccurredAt: occurredAt,
			Latitude:   lat,
			Longitude:  lon,
			Category:   field(record, col[ColCategory]),
			Violence:   field(record, col[ColViolence]),
			Hour:       field(record, col[ColHour]),
			ZoneID:     field(record, col[ColZone]),
			District:   field(record, col[ColDistrict]),
			Year:       year,
			Month:      month,
			Season:     field(record, col[ColSeason]),
		})
	}

	res.Stats.Retained = len(res.Records)

	log.Info("incident source parsed",
		zap.String("source", snap.Name),
		zap.String("fingerprint", snap.Fingerprint),
		zap.Int("total", res.Stats.Total),
		zap.Int("retained", res.Stats.Retained),
		zap.Any("rejected", res.Stats.Rejected),
	)

	return res, nil
}

// field значение колонки; в короткой строке недостающие хвостовые поля пустые.
func field(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}

func decode(data []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return bytes.TrimPrefix(data, utf8BOM), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Bytes(data)
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Bytes(data)
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

func columnIndex(header []string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToUpper(strings.TrimSpace(name))
		if _, dup := col[name]; !dup {
			col[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &models.MissingColumnsError{Missing: missing}
	}
	return col, nil
}

func parseTime(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseCoordinate(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
