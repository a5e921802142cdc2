// Package models содержит доменные типы аналитики происшествий.
package models

import "time"

// ViolenceFlag признак применения насилия после нормализации.
type ViolenceFlag string

const (
	ViolenceYes     ViolenceFlag = "SI"
	ViolenceNo      ViolenceFlag = "NO"
	ViolenceUnknown ViolenceFlag = "DESCONOCIDA"
)

// ViolenceFlags возвращает все значения признака в порядке отображения.
func ViolenceFlags() []ViolenceFlag {
	return []ViolenceFlag{ViolenceYes, ViolenceNo, ViolenceUnknown}
}

// Incident представляет одно зарегистрированное происшествие
type Incident struct {
	ID          string       `json:"id"`
	OccurredAt  time.Time    `json:"occurred_at"`
	Coordinates GeoPoint     `json:"coordinates"`
	Category    string       `json:"category"`
	Violence    ViolenceFlag `json:"violence"`
	Hour        *int         `json:"hour,omitempty"` // nil, если час неизвестен
	ZoneID      string       `json:"zone_id"`
	District    string       `json:"district"`
	Year        int          `json:"year"`
	Month       int          `json:"month"`
	Season      string       `json:"season"`
	MonthBucket string       `json:"month_bucket"` // Период вида 2006-01
}

// GeoPoint представляет географические координаты
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds ограничивающий прямоугольник зоны
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// ZoneReference представляет центроид и доминирующий район квадранта
type ZoneReference struct {
	ZoneID    string   `json:"zone_id"`
	Centroid  GeoPoint `json:"centroid"`
	District  string   `json:"district"`
	Incidents int      `json:"incidents"`
	Bounds    Bounds   `json:"bounds"`
}

// LoadStats статистика загрузки исходного набора
type LoadStats struct {
	Source      string         `json:"source"`
	Fingerprint string         `json:"fingerprint"`
	Total       int            `json:"total"`
	Retained    int            `json:"retained"`
	Rejected    map[string]int `json:"rejected"`
}

// MonthlyAggregate количество происшествий за месяц по категории
type MonthlyAggregate struct {
	Month    string `json:"month"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// TrendPoint точка линии тренда
type TrendPoint struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// TrendSeries линия тренда одной категории
type TrendSeries struct {
	Category string       `json:"category"`
	Points   []TrendPoint `json:"points"`
}

// CategoryViolenceCount количество по паре (категория, насилие)
type CategoryViolenceCount struct {
	Category string       `json:"category"`
	Violence ViolenceFlag `json:"violence"`
	Count    int          `json:"count"`
}

// ViolenceRate доля происшествий с насилием в категории
type ViolenceRate struct {
	Category string  `json:"category"`
	Total    int     `json:"total"`
	Violent  int     `json:"violent"`
	Percent  float64 `json:"percent"`
}

// HourBucket распределение по часу суток
type HourBucket struct {
	Hour       int            `json:"hour"`
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category"`
}

// RankedCount значение измерения и его количество
type RankedCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Breakdown распределения по основным измерениям
type Breakdown struct {
	ByYear     []RankedCount `json:"by_year"`
	ByMonth    []RankedCount `json:"by_month"`
	BySeason   []RankedCount `json:"by_season"`
	ByViolence []RankedCount `json:"by_violence"`
	ByCategory []RankedCount `json:"by_category"`
}

// Summary основные показатели панели
type Summary struct {
	Total            int     `json:"total"`
	Violent          int     `json:"violent"`
	ViolentPercent   float64 `json:"violent_percent"`
	Districts        int     `json:"districts"`
	Zones            int     `json:"zones"`
	DominantCategory string  `json:"dominant_category,omitempty"`
	PeakHour         *int    `json:"peak_hour,omitempty"`
	AverageMonthly   float64 `json:"average_monthly"`
	PeakMonth        string  `json:"peak_month,omitempty"`         // Период вида 2006-01
	PeakMonthOfYear  int     `json:"peak_month_of_year,omitempty"` // Месяц года 1-12 по колонке MES
	PeakYear         int     `json:"peak_year,omitempty"`
	TopDistrict      string  `json:"top_district,omitempty"`
}

// CategoryProfile подробный профиль одной категории
type CategoryProfile struct {
	Category       string        `json:"category"`
	Total          int           `json:"total"`
	ViolentPercent float64       `json:"violent_percent"`
	TopDistrict    string        `json:"top_district,omitempty"`
	PeakYear       int           `json:"peak_year,omitempty"`
	ByYear         []RankedCount `json:"by_year"`
	ByMonth        []RankedCount `json:"by_month"`
	TopDistricts   []RankedCount `json:"top_districts"`
	TopZones       []RankedCount `json:"top_zones"`
	ByViolence     []RankedCount `json:"by_violence"`
	BySeason       []RankedCount `json:"by_season"`
}

// PredictionRecord прогноз количества происшествий для квадранта
type PredictionRecord struct {
	ZoneID         string  `json:"zone_id"`
	PredictedCount float64 `json:"predicted_count"`
}

// RiskOverlay прогноз, сопоставленный с географией квадранта
type RiskOverlay struct {
	Rank           int      `json:"rank"`
	ZoneID         string   `json:"zone_id"`
	PredictedCount float64  `json:"predicted_count"`
	Centroid       GeoPoint `json:"centroid"`
	District       string   `json:"district"`
}

// RiskInsight краткий вывод по зонам наибольшего риска
type RiskInsight struct {
	TopZones         []string `json:"top_zones"`
	DominantDistrict string   `json:"dominant_district,omitempty"`
}

// ModelMetrics показатели качества внешней модели
type ModelMetrics struct {
	R2  float64 `json:"r2"`
	MAE float64 `json:"mae"`
}

// ForecastEntry описание предрасчитанного прогноза в каталоге
type ForecastEntry struct {
	Key              string   `json:"key" yaml:"key"`
	Name             string   `json:"name" yaml:"name"`
	Category         string   `json:"category" yaml:"category"`
	Period           string   `json:"period" yaml:"period"`
	ForecastFile     string   `json:"-" yaml:"forecast_file"`
	ZoneColumn       string   `json:"zone_column" yaml:"zone_column"`
	PredictedColumns []string `json:"predicted_columns" yaml:"predicted_columns"`
	MetricsFile      string   `json:"-" yaml:"metrics_file"`
	MetricsKey       string   `json:"-" yaml:"metrics_key"`
	Available        bool     `json:"available" yaml:"-"`
}

// ApplyDefaults заполняет незаданные поля записи каталога.
// Метрики в файле моделей хранятся под ключом прогноза (negocio, vehiculo, casa).
func (e *ForecastEntry) ApplyDefaults() {
	if e.ZoneColumn == "" {
		e.ZoneColumn = "CUADRANTE"
	}
	if len(e.PredictedColumns) == 0 {
		e.PredictedColumns = []string{"PREDICCION_ROBOS_MES_N", "PREDICCION_ROBOS"}
	}
	if e.MetricsKey == "" {
		e.MetricsKey = e.Key
	}
}

// OverlayResponse ответ с картой риска
type OverlayResponse struct {
	UploadID    string         `json:"upload_id,omitempty"`
	Forecast    *ForecastEntry `json:"forecast,omitempty"`
	Overlay     []RiskOverlay  `json:"overlay"`
	Top         []RiskOverlay  `json:"top"`
	Insight     RiskInsight    `json:"insight"`
	Metrics     *ModelMetrics  `json:"metrics,omitempty"`
	Diagnostics Diagnostics    `json:"diagnostics"`
	Message     string         `json:"message,omitempty"`
}

// Diagnostics сведения об отброшенных строках прогноза
type Diagnostics struct {
	Predictions    int      `json:"predictions"`
	InvalidRows    int      `json:"invalid_rows"`
	Unmatched      int      `json:"unmatched"`
	UnmatchedZones []string `json:"unmatched_zones"`
}

// Category представляет категорию происшествия в PostgreSQL
type Category struct {
	ID          int       `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// District представляет район в PostgreSQL
type District struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	ParentDistrictID *int      `json:"parent_district_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RawIncident строка источника после приведения типов, до вычисления признаков
type RawIncident struct {
	Row        int       // Номер строки данных, начиная с 1
	OccurredAt time.Time // Дата и время происшествия
	Latitude   float64
	Longitude  float64
	Category   string
	Violence   string // Значение VIOLENCIA как в источнике
	Hour       string // Значение HORA как в источнике
	ZoneID     string
	District   string
	Year       int // 0, если колонка пуста
	Month      int // 0, если колонка пуста
	Season     string
}

// MonthlyResponse помесячный тренд
type MonthlyResponse struct {
	Rows   []MonthlyAggregate `json:"rows"`
	Series []TrendSeries      `json:"series"`
}

// ViolenceResponse профиль насилия по категориям
type ViolenceResponse struct {
	Rows  []CategoryViolenceCount `json:"rows"`
	Rates []ViolenceRate          `json:"rates"`
}

// TopResponse рейтинг по измерению
type TopResponse struct {
	Dimension string        `json:"dimension"`
	Rows      []RankedCount `json:"rows"`
}

// PointsResponse точки происшествий для карты
type PointsResponse struct {
	Total  int        `json:"total"`
	Points []Incident `json:"points"`
}

// SearchResponse результат поиска в индексе
type SearchResponse struct {
	Total     int        `json:"total"`
	Incidents []Incident `json:"incidents"`
}

// ForecastListResponse каталог прогнозов
type ForecastListResponse struct {
	Forecasts []ForecastEntry `json:"forecasts"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}
