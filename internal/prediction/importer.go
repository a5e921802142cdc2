// Package prediction импортирует внешние таблицы прогнозов, проверяет схему
// и сопоставляет прогнозы со справочником квадрантов.
package prediction

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/akozadaev/go_crime_analytical_system/internal/features"
	"github.com/akozadaev/go_crime_analytical_system/internal/models"
)

// Schema обязательные колонки файла прогноза. Колонка количества может
// называться по-разному в зависимости от категории, поэтому задается списком.
type Schema struct {
	ZoneColumn   string
	CountColumns []string
}

// DefaultSchema схема по умолчанию, принимающая оба варианта названия колонки прогноза.
func DefaultSchema() Schema {
	return Schema{
		ZoneColumn:   "CUADRANTE",
		CountColumns: []string{"PREDICCION_ROBOS_MES_N", "PREDICCION_ROBOS"},
	}
}

// Result принятые строки прогноза.
type Result struct {
	Records     []models.PredictionRecord
	InvalidRows int    // Строки с пустым квадрантом или нечисловым прогнозом
	CountColumn string // Какая из допустимых колонок найдена
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Import читает CSV прогноза. Нечитаемый файл возвращается как ImportError,
// отсутствие обязательных колонок как SchemaMismatchError до разбора строк.
func Import(r io.Reader, schema Schema) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &models.ImportError{Cause: err}
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &models.ImportError{Cause: errors.New("file is empty")}
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, &models.ImportError{Cause: errors.New("file is binary, expected CSV")}
	}
	if !utf8.Valid(data) {
		return nil, &models.ImportError{Cause: errors.New("file is not valid UTF-8")}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &models.ImportError{Cause: fmt.Errorf("failed to read header: %w", err)}
	}

	zoneIdx, countIdx, countCol, missing := locate(header, schema)
	if len(missing) > 0 {
		return nil, &models.SchemaMismatchError{Missing: missing}
	}

	res := &Result{Records: make([]models.PredictionRecord, 0), CountColumn: countCol}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.InvalidRows++
				continue
			}
			return nil, &models.ImportError{Cause: err}
		}
		if zoneIdx >= len(record) || countIdx >= len(record) {
			res.InvalidRows++
			continue
		}

		zone := features.NormalizeZoneID(record[zoneIdx])
		count, err := strconv.ParseFloat(strings.TrimSpace(record[countIdx]), 64)
		if zone == "" || err != nil || math.IsNaN(count) || math.IsInf(count, 0) {
			res.InvalidRows++
			continue
		}

		res.Records = append(res.Records, models.PredictionRecord{ZoneID: zone, PredictedCount: count})
	}

	return res, nil
}

func locate(header []string, schema Schema) (zoneIdx, countIdx int, countCol string, missing []string) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToUpper(strings.TrimSpace(name))
		if _, dup := col[name]; !dup {
			col[name] = i
		}
	}

	zoneIdx, ok := col[strings.ToUpper(schema.ZoneColumn)]
	if !ok {
		missing = append(missing, schema.ZoneColumn)
	}

	countIdx = -1
	for _, alias := range schema.CountColumns {
		if i, ok := col[strings.ToUpper(alias)]; ok {
			countIdx, countCol = i, alias
			break
		}
	}
	if countIdx < 0 {
		missing = append(missing, strings.Join(schema.CountColumns, " or "))
	}
	return zoneIdx, countIdx, countCol, missing
}
