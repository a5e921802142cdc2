// Package handlers содержит HTTP обработчики REST API аналитики происшествий.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/akozadaev/go_crime_analytical_system/internal/aggregate"
	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"github.com/akozadaev/go_crime_analytical_system/internal/pipeline"
	"github.com/akozadaev/go_crime_analytical_system/internal/prediction"
	"github.com/akozadaev/go_crime_analytical_system/internal/storage"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// IncidentSearcher поиск по индексу происшествий.
type IncidentSearcher interface {
	SearchIncidents(ctx context.Context, q storage.IncidentQuery) ([]storage.IncidentDocument, int, error)
	GetIncident(ctx context.Context, id string) (*storage.IncidentDocument, error)
}

// Dictionary справочники категорий и районов.
type Dictionary interface {
	GetCategories(ctx context.Context) ([]*models.Category, error)
	GetDistricts(ctx context.Context) ([]*models.District, error)
}

// ForecastCatalog источник каталога предрасчитанных прогнозов.
type ForecastCatalog interface {
	GetForecastEntries(ctx context.Context) ([]models.ForecastEntry, error)
}

// Options ограничения API.
type Options struct {
	TopN           int
	UploadMaxBytes int64
	UploadRate     float64 // загрузок в секунду
	UploadBurst    int
	PointsLimit    int
}

// Handlers содержит зависимости для обработки HTTP запросов.
// search и dictionary необязательны: без них соответствующие эндпоинты
// отвечают 503 или строят ответ по самому набору.
type Handlers struct {
	pipeline   *pipeline.Pipeline
	catalog    ForecastCatalog
	search     IncidentSearcher
	dictionary Dictionary
	limiter    *rate.Limiter
	opts       Options
	log        *zap.Logger
}

// NewHandlers создает новый экземпляр Handlers.
func NewHandlers(p *pipeline.Pipeline, catalog ForecastCatalog, search IncidentSearcher, dictionary Dictionary, opts Options, log *zap.Logger) *Handlers {
	if opts.TopN <= 0 {
		opts.TopN = aggregate.DefaultTopN
	}
	if opts.UploadMaxBytes <= 0 {
		opts.UploadMaxBytes = 10 << 20
	}
	if opts.UploadRate <= 0 {
		opts.UploadRate = 2
	}
	if opts.UploadBurst <= 0 {
		opts.UploadBurst = 5
	}
	if opts.PointsLimit <= 0 {
		opts.PointsLimit = 5000
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{
		pipeline:   p,
		catalog:    catalog,
		search:     search,
		dictionary: dictionary,
		limiter:    rate.NewLimiter(rate.Limit(opts.UploadRate), opts.UploadBurst),
		opts:       opts,
		log:        log,
	}
}

// Register регистрирует маршруты API.
func (h *Handlers) Register(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.HandleFunc("/stats/load", h.GetLoadStats).Methods("GET")
	router.HandleFunc("/dashboard/summary", h.GetSummary).Methods("GET")
	router.HandleFunc("/aggregates/monthly", h.GetMonthlyTrend).Methods("GET")
	router.HandleFunc("/aggregates/violence", h.GetViolenceProfile).Methods("GET")
	router.HandleFunc("/aggregates/hourly", h.GetHourly).Methods("GET")
	router.HandleFunc("/aggregates/top", h.GetTop).Methods("GET")
	router.HandleFunc("/aggregates/breakdown", h.GetBreakdown).Methods("GET")
	router.HandleFunc("/categories", h.GetCategories).Methods("GET")
	router.HandleFunc("/categories/{name}/profile", h.GetCategoryProfile).Methods("GET")
	router.HandleFunc("/districts", h.GetDistricts).Methods("GET")
	router.HandleFunc("/zones", h.GetZones).Methods("GET")
	router.HandleFunc("/incidents/points", h.GetPoints).Methods("GET")
	router.HandleFunc("/incidents/search", h.SearchIncidents).Methods("GET")
	router.HandleFunc("/incidents/{id}", h.GetIncident).Methods("GET")
	router.HandleFunc("/forecasts", h.GetForecasts).Methods("GET")
	router.HandleFunc("/forecasts/{key}", h.GetForecast).Methods("GET")
	router.HandleFunc("/predictions/overlay", h.UploadPrediction).Methods("POST")
}

// HealthCheck обрабатывает GET запрос на проверку состояния сервиса.
//
// @Summary      Проверка здоровья сервиса
// @Description  Возвращает статус работы сервиса
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string  "Статус сервиса"
// @Router       /health [get]
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetLoadStats возвращает статистику загрузки текущего источника.
//
// @Summary      Статистика загрузки
// @Description  Количество строк источника, принятых и отброшенных по причинам
// @Tags         dataset
// @Produce      json
// @Success      200  {object}  models.LoadStats
// @Failure      503  {object}  models.ErrorResponse  "Источник данных недоступен"
// @Router       /stats/load [get]
func (h *Handlers) GetLoadStats(w http.ResponseWriter, r *http.Request) {
	ds, err := h.pipeline.Dataset(r.Context())
	if err != nil {
		h.writeError(w, "loading dataset", err)
		return
	}
	writeJSON(w, http.StatusOK, ds.Stats)
}

// GetSummary обрабатывает GET запрос на получение основных показателей панели.
//
// @Summary      Основные показатели
// @Description  Всего происшествий, доля с насилием, пиковые час, месяц и год, лидирующий район
// @Tags         dashboard
// @Produce      json
// @Param        category   query     []string  false  "Категории"  collectionFormat(multi)
// @Param        year_from  query     int       false  "Год с"
// @Param        year_to    query     int       false  "Год по"
// @Success      200        {object}  models.Summary
// @Failure      400        {object}  models.ErrorResponse  "Неверный фильтр"
// @Failure      503        {object}  models.ErrorResponse  "Источник данных недоступен"
// @Router       /dashboard/summary [get]
func (h *Handlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.incidents(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, aggregate.Summarize(rs))
}

// GetMonthlyTrend обрабатывает GET запрос на помесячный тренд по категориям.
//
// @Summary      Помесячный тренд
// @Description  Количество происшествий по паре (месяц, категория) по возрастанию месяца и линии по категориям
// @Tags         aggregates
// @Produce      json
// @Param        category   query     []string  false  "Категории"  collectionFormat(multi)
// @Param        year_from  query     int       false  "Год с"
// @Param        year_to    query     int       false  "Год по"
// @Success      200        {object}  models.MonthlyResponse
// @Failure      400        {object}  models.ErrorResponse  "Неверный фильтр"
// @Failure      503        {object}  models.ErrorResponse  "Источник данных недоступен"
// @Router       /aggregates/monthly [get]
func (h *Handlers) GetMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.incidents(w, r)
	if !ok {
		return
	}
	rows := aggregate.MonthlyTrend(rs)
	writeJSON(w, http.StatusOK, models.MonthlyResponse{Rows: rows, Series: aggregate.TrendSeries(rows)})
}

// GetViolenceProfile обрабатывает GET запрос на профиль насилия по категориям.
//
// @Summary      Категории и насилие
// @Description  Количество по паре (категория, признак насилия) и доля насильственных по категориям
// @Tags         aggregates
// @Produce      json
// @Param        category   query     []string  false  "Категории"  collectionFormat(multi)
// @Param        year_from  query     int       false  "Год с"
// @Param        year_to    query     int       false  "Год по"
// @Success      200        {object}  models.ViolenceResponse
// @Failure      400        {object}  models.ErrorResponse  "Неверный фильтр"
// @Failure      503        {object}  models.ErrorResponse  "Источник данных недоступен"
// @Router       /aggregates/violence [get]
func (h *Handlers) GetViolenceProfile(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.incidents(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, models.ViolenceResponse{
		Rows:  aggregate.CategoryViolence(rs),
		Rates: aggregate.ViolenceRates(rs),
	})
}

// GetHourly обрабатывает GET запрос на распределение по часам.
//
// @Summary      Распределение по часам
// @Description  24 корзины по часу суток с разбивкой по категориям. Происшествия с неизвестным часом не учитываются
// @Tags         aggregates
// @Produce      json
// @Param        category   query     []string  false  "Категории"  collectionFormat(multi)
// @Param        year_from  query     int       false  "Год с"
// @Param        year_to    query     int       false  "Год по"
// @Success      200        {array}   models.HourBucket
// @Failure      400        {object}  models.ErrorResponse  "Неверный фильтр"
// @Failure      503        {object}  models.ErrorResponse  "Источник данных недоступен"
// @Router       /aggregates/hourly [get]
func (h *Handlers) GetHourly(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.incidents(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, aggregate.Hourly(rs))
}

// GetTop обрабатывает GET запрос на рейтинг районов или квадрантов.
//
// @Summary      Рейтинг по измерению
// @Description  Количество происшествий по району или квадранту по убыванию, не более n строк
// @Tags         aggregates
// @Produce      json
// @Param        dimension  query     string    true   "district, zone, category или season"
// @Param        n          query     int       false  "Размер рейтинга"
// @Param        category   query     []string  false  "Категории"  collectionFormat(multi)
// @Param        year_from  query     int       false  "Год с"
// @Param        year_to    query     int       false  "Год по"
// @Success      200        {object}  models.TopResponse
// @Failure      400        {object}  models.ErrorResponse  "Неверный запрос"
// @Failure      503        {object}  models.ErrorResponse  "Источник данных недоступен"
// @Router       /aggregates/top [get]
func (h *Handlers) GetTop(w http.ResponseWriter, r *http.Request) {
	dim, ok := aggregate.ParseDimension(r.URL.Query().Get("dimension"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "dimension must be one of district, zone, category, season"})
		return
	}
	n, err := queryInt(r, "n", h.opts.TopN)
	if err != nil || n <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "n must be a positive integer"})
		return
	}

	rs, ok := h.incidents(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, models.TopResponse{Dimension: string(dim), Rows: aggregate.TopN(rs, dim, n)})
}

// GetBreakdown обрабатывает GET запрос на распределения по основным измерениям.
//
// @Summary      Распределения
// @Description  Количество по году, месяцу года, сезону, признаку насилия и категории
// @Tags         aggregates
// @Produce      json
// @Param        category   query     []string  false  "Категории"  collectionFormat(multi)
// @Param        year_from  query     int       false  "Год с"
// @Param        year_to    query     int       false  "Год по"
// @Success      200        {object}  models.Breakdown
// @Failure      400        {object}  models.ErrorResponse  "Неверный фильтр"
// @Failure      503        {object}  models.ErrorResponse  "Источник данных недоступен"
// @Router       /aggregates/breakdown [get]
func (h *Handlers) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.incidents(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, aggregate.Breakdown(rs))
}

// GetCategoryProfile обрабатывает GET запрос на профиль одной категории.
//
// @Summary      Профиль категории
// @Description  Всего, доля насилия, лидирующий район, пиковый год, распределения и рейтинги для категории
// @Tags         aggregates
// @Produce      json
// @Param        name       path      string  true   "Категория"
// @Param        year_from  query     int     false  "Год с"
// @Param        year_to    query     int     false  "Год по"
// @Success      200        {object}  models.CategoryProfile
// @Failure      400        {object}  models.ErrorResponse  "Неверный фильтр"
// @Failure      503        {object}  models.ErrorResponse  "Источник данных недоступен"
// @Router       /categories/{name}/profile [get]
func (h *Handlers) GetCategoryProfile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	rs, ok := h.incidents(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, aggregate.Profile(rs, name, h.opts.TopN))
}

// GetCategories обрабатывает GET запрос на справочник категорий.
// Без PostgreSQL список строится по категориям самого набора.
//
// @Summary      Категории происшествий
// @Tags         dictionaries
// @Produce      json
// @Success      200  {array}   models.Category
// @Failure      500  {object}  models.ErrorResponse  "Внутренняя ошибка сервера"
// @Failure      503  {object}  models.ErrorResponse  "Источник данных недоступен"
// @Router       /categories [get]
func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	if h.dictionary != nil {
		categories, err := h.dictionary.GetCategories(r.Context())
		if err != nil {
			h.writeError(w, "getting categories", err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(categories))
		return
	}

	ds, err := h.pipeline.Dataset(r.Context())
	if err != nil {
		h.writeError(w, "loading dataset", err)
		return
	}
	rows := aggregate.TopN(ds.Incidents, aggregate.DimCategory, 0)
	categories := make([]*models.Category, 0, len(rows))
	for i, row := range rows {
		categories = append(categories, &models.Category{ID: i + 1, Name: row.Value})
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetDistricts обрабатывает GET запрос на справочник районов.
//
// @Summary      Районы
// @Tags         dictionaries
// @Produce      json
// @Success      200  {array}   models.District
// @Failure      500  {object}  models.ErrorResponse  "Внутренняя ошибка сервера"
// @Failure      503  {object}  models.ErrorResponse  "Источник данных недоступен"
// @Router       /districts [get]
func (h *Handlers) GetDistricts(w http.ResponseWriter, r *http.Request) {
	if h.dictionary != nil {
		districts, err := h.dictionary.GetDistricts(r.Context())
		if err != nil {
			h.writeError(w, "getting districts", err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(districts))
		return
	}

	ds, err := h.pipeline.Dataset(r.Context())
	if err != nil {
		h.writeError(w, "loading dataset", err)
		return
	}
	rows := aggregate.TopN(ds.Incidents, aggregate.DimDistrict, 0)
	districts := make([]*models.District, 0, len(rows))
	for i, row := range rows {
		districts = append(districts, &models.District{ID: i + 1, Name: row.Value})
	}
	writeJSON(w, http.StatusOK, districts)
}

// GetZones обрабатывает GET запрос на справочник квадрантов.
//
// @Summary      Справочник квадрантов
// @Description  Центроид, доминирующий район и границы каждого квадранта
// @Tags         dataset
// @Produce      json
// @Success      200  {array}   models.ZoneReference
// @Failure      503  {object}  models.ErrorResponse  "Источник данных недоступен"
// @Router       /zones [get]
func (h *Handlers) GetZones(w http.ResponseWriter, r *http.Request) {
	ds, err := h.pipeline.Dataset(r.Context())
	if err != nil {
		h.writeError(w, "loading dataset", err)
		return
	}
	writeJSON(w, http.StatusOK, ds.Zones)
}

// GetPoints обрабатывает GET запрос на точки происшествий для карты.
//
// @Summary      Точки для карты
// @Tags         dataset
// @Produce      json
// @Param        limit      query     int       false  "Максимум точек"
// @Param        category   query     []string  false  "Категории"  collectionFormat(multi)
// @Param        year_from  query     int       false  "Год с"
// @Param        year_to    query     int       false  "Год по"
// @Success      200        {object}  models.PointsResponse
// @Failure      400        {object}  models.ErrorResponse  "Неверный запрос"
// @Failure      503        {object}  models.ErrorResponse  "Источник данных недоступен"
// @Router       /incidents/points [get]
func (h *Handlers) GetPoints(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", h.opts.PointsLimit)
	if err != nil || limit <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "limit must be a positive integer"})
		return
	}
	rs, ok := h.incidents(w, r)
	if !ok {
		return
	}

	resp := models.PointsResponse{Total: len(rs), Points: rs}
	if len(rs) > limit {
		resp.Points = rs[:limit]
	}
	writeJSON(w, http.StatusOK, resp)
}

// SearchIncidents обрабатывает GET запрос на поиск по индексу Elasticsearch.
//
// @Summary      Поиск происшествий
// @Description  Поиск по проиндексированным происшествиям с фильтрами по категории, району, годам и квадранту
// @Tags         incidents
// @Produce      json
// @Param        category   query     []string  false  "Категории"  collectionFormat(multi)
// @Param        district   query     string    false  "Район"
// @Param        zone       query     string    false  "Квадрант, поиск в его границах"
// @Param        year_from  query     int       false  "Год с"
// @Param        year_to    query     int       false  "Год по"
// @Param        limit      query     int       false  "Размер выдачи"
// @Success      200        {object}  models.SearchResponse
// @Failure      400        {object}  models.ErrorResponse  "Неверный запрос"
// @Failure      500        {object}  models.ErrorResponse  "Внутренняя ошибка сервера"
// @Failure      503        {object}  models.ErrorResponse  "Индекс не настроен"
// @Router       /incidents/search [get]
func (h *Handlers) SearchIncidents(w http.ResponseWriter, r *http.Request) {
	if h.search == nil {
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "search index is not configured"})
		return
	}

	f, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	limit, err := queryInt(r, "limit", 100)
	if err != nil || limit <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "limit must be a positive integer"})
		return
	}

	q := storage.IncidentQuery{
		Categories: f.Categories,
		YearFrom:   f.YearFrom,
		YearTo:     f.YearTo,
		District:   r.URL.Query().Get("district"),
		Limit:      limit,
	}

	if zone := r.URL.Query().Get("zone"); zone != "" {
		ds, err := h.pipeline.Dataset(r.Context())
		if err != nil {
			h.writeError(w, "loading dataset", err)
			return
		}
		for _, z := range ds.Zones {
			if z.ZoneID == zone {
				b := z.Bounds
				q.Bounds = &b
				break
			}
		}
		if q.Bounds == nil {
			writeJSON(w, http.StatusOK, models.SearchResponse{Incidents: []models.Incident{}})
			return
		}
	}

	docs, total, err := h.search.SearchIncidents(r.Context(), q)
	if err != nil {
		h.writeError(w, "searching incidents", err)
		return
	}

	incidents := make([]models.Incident, 0, len(docs))
	for _, d := range docs {
		incidents = append(incidents, d.Incident)
	}
	writeJSON(w, http.StatusOK, models.SearchResponse{Total: total, Incidents: incidents})
}

// GetIncident обрабатывает GET запрос на получение проиндексированного происшествия по ID.
//
// @Summary      Получить происшествие
// @Description  Возвращает документ индекса по ID вида <отпечаток>-<строка>
// @Tags         incidents
// @Produce      json
// @Param        id   path      string  true  "ID документа"
// @Success      200  {object}  models.Incident
// @Failure      404  {object}  models.ErrorResponse  "Происшествие не найдено"
// @Failure      500  {object}  models.ErrorResponse  "Внутренняя ошибка сервера"
// @Failure      503  {object}  models.ErrorResponse  "Индекс не настроен"
// @Router       /incidents/{id} [get]
func (h *Handlers) GetIncident(w http.ResponseWriter, r *http.Request) {
	if h.search == nil {
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "search index is not configured"})
		return
	}

	id := mux.Vars(r)["id"]
	doc, err := h.search.GetIncident(r.Context(), id)
	if err != nil {
		h.writeError(w, "getting incident", err)
		return
	}
	writeJSON(w, http.StatusOK, doc.Incident)
}

// GetForecasts обрабатывает GET запрос на каталог предрасчитанных прогнозов.
//
// @Summary      Каталог прогнозов
// @Description  Предрасчитанные прогнозы по категориям с признаком наличия файла
// @Tags         forecasts
// @Produce      json
// @Success      200  {object}  models.ForecastListResponse
// @Failure      500  {object}  models.ErrorResponse  "Внутренняя ошибка сервера"
// @Router       /forecasts [get]
func (h *Handlers) GetForecasts(w http.ResponseWriter, r *http.Request) {
	entries, err := h.forecastEntries(r.Context())
	if err != nil {
		h.writeError(w, "getting forecast catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, models.ForecastListResponse{Forecasts: prediction.Availability(entries)})
}

// GetForecast обрабатывает GET запрос на карту риска по предрасчитанному прогнозу.
// Если файла прогноза нет, возвращает пустую карту с сообщением.
//
// @Summary      Карта риска по прогнозу
// @Description  Прогноз из каталога, соединенный со справочником квадрантов, зоны наибольшего риска и метрики модели
// @Tags         forecasts
// @Produce      json
// @Param        key  path      string  true  "Ключ прогноза"
// @Success      200  {object}  models.OverlayResponse
// @Failure      404  {object}  models.ErrorResponse  "Прогноз не найден в каталоге"
// @Failure      422  {object}  models.ErrorResponse  "Файл прогноза не соответствует схеме"
// @Failure      503  {object}  models.ErrorResponse  "Источник данных недоступен"
// @Router       /forecasts/{key} [get]
func (h *Handlers) GetForecast(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	entry, err := h.findForecast(r.Context(), key)
	if err != nil {
		h.writeError(w, "getting forecast", err)
		return
	}

	resp, err := h.pipeline.Forecast(r.Context(), entry)
	if err != nil {
		h.writeError(w, "building forecast overlay", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UploadPrediction обрабатывает POST запрос с файлом прогноза.
// Файл проверяется по схеме категории и соединяется со справочником квадрантов.
// Между запросами ничего не сохраняется.
//
// @Summary      Загрузить прогноз
// @Description  Принимает CSV с колонками CUADRANTE и PREDICCION_ROBOS_MES_N (или PREDICCION_ROBOS) и возвращает карту риска
// @Tags         forecasts
// @Accept       multipart/form-data
// @Produce      json
// @Param        file      formData  file    true   "CSV прогноза"
// @Param        category  query     string  false  "Ключ прогноза из каталога, задает схему"
// @Success      200       {object}  models.OverlayResponse
// @Failure      400       {object}  models.ErrorResponse  "Файл не читается"
// @Failure      413       {object}  models.ErrorResponse  "Файл слишком большой"
// @Failure      422       {object}  models.ErrorResponse  "Нет обязательных колонок"
// @Failure      429       {object}  models.ErrorResponse  "Слишком много загрузок"
// @Failure      503       {object}  models.ErrorResponse  "Источник данных недоступен"
// @Router       /predictions/overlay [post]
func (h *Handlers) UploadPrediction(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, models.ErrorResponse{Error: "too many uploads, retry later"})
		return
	}

	uploadID := uuid.NewString()
	log := h.log.With(zap.String("upload_id", uploadID))

	schema := prediction.DefaultSchema()
	var forecast *models.ForecastEntry
	if key := r.URL.Query().Get("category"); key != "" {
		entry, err := h.findForecast(r.Context(), key)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "unknown forecast category " + key})
				return
			}
			h.writeError(w, "getting forecast", err)
			return
		}
		schema = prediction.Schema{ZoneColumn: entry.ZoneColumn, CountColumns: entry.PredictedColumns}
		forecast = &entry
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.UploadMaxBytes)
	body, closeBody, err := uploadBody(r, h.opts.UploadMaxBytes)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "file is too large"})
			return
		}
		log.Info("prediction upload rejected", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	defer closeBody()

	resp, err := h.pipeline.Overlay(r.Context(), body, schema)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "file is too large"})
			return
		}
		log.Info("prediction upload failed", zap.Error(err))
		h.writeError(w, "importing prediction", err)
		return
	}

	resp.UploadID = uploadID
	resp.Forecast = forecast
	log.Info("prediction upload processed",
		zap.Int("predictions", resp.Diagnostics.Predictions),
		zap.Int("matched", len(resp.Overlay)),
		zap.Int("unmatched", resp.Diagnostics.Unmatched),
	)
	writeJSON(w, http.StatusOK, resp)
}

// uploadBody возвращает содержимое поля file из multipart формы
// или тело запроса целиком для text/csv.
func uploadBody(r *http.Request, maxBytes int64) (io.Reader, func(), error) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data") {
		return r.Body, func() {}, nil
	}

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, nil, err
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, nil, errors.New("form field 'file' is required")
	}
	return file, func() { file.Close() }, nil
}

func (h *Handlers) forecastEntries(ctx context.Context) ([]models.ForecastEntry, error) {
	if h.catalog == nil {
		return []models.ForecastEntry{}, nil
	}
	return h.catalog.GetForecastEntries(ctx)
}

func (h *Handlers) findForecast(ctx context.Context, key string) (models.ForecastEntry, error) {
	entries, err := h.forecastEntries(ctx)
	if err != nil {
		return models.ForecastEntry{}, err
	}
	for _, e := range entries {
		if e.Key == key {
			return e, nil
		}
	}
	return models.ForecastEntry{}, models.ErrNotFound
}

// incidents разбирает фильтр и возвращает отфильтрованные записи.
// При ошибке ответ уже записан.
func (h *Handlers) incidents(w http.ResponseWriter, r *http.Request) ([]models.Incident, bool) {
	f, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return nil, false
	}
	rs, err := h.pipeline.Incidents(r.Context(), f)
	if err != nil {
		h.writeError(w, "loading dataset", err)
		return nil, false
	}
	return rs, true
}

func parseFilter(r *http.Request) (pipeline.Filter, error) {
	q := r.URL.Query()
	f := pipeline.Filter{}
	for _, c := range q["category"] {
		if c = strings.TrimSpace(c); c != "" {
			f.Categories = append(f.Categories, c)
		}
	}

	var err error
	if f.YearFrom, err = queryInt(r, "year_from", 0); err != nil {
		return f, errors.New("year_from must be an integer")
	}
	if f.YearTo, err = queryInt(r, "year_to", 0); err != nil {
		return f, errors.New("year_to must be an integer")
	}
	if f.YearFrom != 0 && f.YearTo != 0 && f.YearFrom > f.YearTo {
		return f, errors.New("year_from must not be after year_to")
	}
	return f, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// writeError сопоставляет ошибку конвейера со статусом HTTP.
func (h *Handlers) writeError(w http.ResponseWriter, op string, err error) {
	var mismatch *models.SchemaMismatchError
	switch {
	case errors.As(err, &mismatch):
		writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Error: "schema mismatch", Missing: mismatch.Missing})
	case errors.Is(err, models.ErrDataUnavailable):
		h.log.Error("data unavailable", zap.String("op", op), zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrImportFailed):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	default:
		h.log.Error("request failed", zap.String("op", op), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
