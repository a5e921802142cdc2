package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/akozadaev/go_crime_analytical_system/internal/loader"
	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"github.com/akozadaev/go_crime_analytical_system/internal/pipeline"
	"github.com/akozadaev/go_crime_analytical_system/internal/storage"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sample = `FECHA,LATITUD,LONGITUD,TIPO,VIOLENCIA,HORA,CUADRANTE,DISTRITO,AÑO,MES,ESTACION
2021-01-05 10:00:00,-12.10,-77.00,ROBO A NEGOCIO,SI,10,1,LIMA,2021,1,VERANO
2021-01-20 11:00:00,-12.20,-77.10,ROBO A NEGOCIO,NO,99,2,SURCO,2021,1,VERANO
2021-01-22 12:00:00,-12.30,-77.00,ROBO DE VEHICULO,,12,1,LIMA,2021,1,VERANO
2022-02-01 22:00:00,-12.20,-77.20,ROBO A NEGOCIO,SI,22,3,SURCO,2022,2,VERANO
2022-02-14 23:00:00,-12.10,-77.00,ROBO DE VEHICULO,NO,23,1,LIMA,2022,2,VERANO
`

type staticCatalog []models.ForecastEntry

func (c staticCatalog) GetForecastEntries(context.Context) ([]models.ForecastEntry, error) {
	return c, nil
}

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) SearchIncidents(ctx context.Context, q storage.IncidentQuery) ([]storage.IncidentDocument, int, error) {
	args := m.Called(ctx, q)
	docs, _ := args.Get(0).([]storage.IncidentDocument)
	return docs, args.Int(1), args.Error(2)
}

func (m *MockSearcher) GetIncident(ctx context.Context, id string) (*storage.IncidentDocument, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*storage.IncidentDocument)
	return doc, args.Error(1)
}

func newRouter(t *testing.T, src loader.Source, catalog ForecastCatalog, search IncidentSearcher, opts Options) *mux.Router {
	t.Helper()
	p := pipeline.New(src, pipeline.NewMemoryCache(), pipeline.Options{HourSentinel: 99}, zap.NewNop())
	h := NewHandlers(p, catalog, search, nil, opts, zap.NewNop())
	router := mux.NewRouter()
	h.Register(router)
	return router
}

func sampleRouter(t *testing.T) *mux.Router {
	return newRouter(t, loader.NewBytesSource("mem", []byte(sample)), nil, nil, Options{})
}

func do(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	rr := do(sampleRouter(t), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestSummaryWithFilter(t *testing.T) {
	router := sampleRouter(t)

	rr := do(router, httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	s := decode[models.Summary](t, rr)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, "ROBO A NEGOCIO", s.DominantCategory)

	q := url.Values{"category": {"ROBO DE VEHICULO"}, "year_from": {"2022"}}
	rr = do(router, httptest.NewRequest(http.MethodGet, "/dashboard/summary?"+q.Encode(), nil))
	require.Equal(t, http.StatusOK, rr.Code)
	s = decode[models.Summary](t, rr)
	assert.Equal(t, 1, s.Total)
}

func TestInvalidFilter(t *testing.T) {
	router := sampleRouter(t)
	for _, target := range []string{
		"/aggregates/monthly?year_from=abc",
		"/aggregates/monthly?year_from=2022&year_to=2021",
		"/aggregates/top?dimension=planet",
		"/aggregates/top?dimension=zone&n=0",
		"/incidents/points?limit=-1",
	} {
		rr := do(router, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
}

func TestMonthlyTrend(t *testing.T) {
	rr := do(sampleRouter(t), httptest.NewRequest(http.MethodGet, "/aggregates/monthly", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[models.MonthlyResponse](t, rr)
	sum := 0
	for _, row := range resp.Rows {
		sum += row.Count
	}
	assert.Equal(t, 5, sum)
	assert.Len(t, resp.Series, 2)
	assert.Equal(t, "2021-01", resp.Rows[0].Month)
}

func TestEmptyFilterReturnsEmptyTables(t *testing.T) {
	router := sampleRouter(t)
	q := "?category=" + url.QueryEscape("ROBO A CASA HABITACION")

	rr := do(router, httptest.NewRequest(http.MethodGet, "/aggregates/monthly"+q, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"rows":[],"series":[]}`, rr.Body.String())

	rr = do(router, httptest.NewRequest(http.MethodGet, "/aggregates/hourly"+q, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = do(router, httptest.NewRequest(http.MethodGet, "/aggregates/top?dimension=district&"+q[1:], nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"dimension":"district","rows":[]}`, rr.Body.String())
}

func TestAggregateEndpoints(t *testing.T) {
	router := sampleRouter(t)

	rr := do(router, httptest.NewRequest(http.MethodGet, "/aggregates/violence", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	v := decode[models.ViolenceResponse](t, rr)
	assert.Len(t, v.Rates, 2)

	rr = do(router, httptest.NewRequest(http.MethodGet, "/aggregates/hourly", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.HourBucket](t, rr), 24)

	rr = do(router, httptest.NewRequest(http.MethodGet, "/aggregates/top?dimension=zone&n=1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	top := decode[models.TopResponse](t, rr)
	assert.Equal(t, []models.RankedCount{{Value: "1", Count: 3}}, top.Rows)

	rr = do(router, httptest.NewRequest(http.MethodGet, "/aggregates/breakdown", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	b := decode[models.Breakdown](t, rr)
	assert.Len(t, b.ByYear, 2)

	rr = do(router, httptest.NewRequest(http.MethodGet, "/categories/"+url.PathEscape("ROBO A NEGOCIO")+"/profile", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	p := decode[models.CategoryProfile](t, rr)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, "SURCO", p.TopDistrict)
}

func TestDatasetEndpoints(t *testing.T) {
	router := sampleRouter(t)

	rr := do(router, httptest.NewRequest(http.MethodGet, "/stats/load", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 5, decode[models.LoadStats](t, rr).Retained)

	rr = do(router, httptest.NewRequest(http.MethodGet, "/zones", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.ZoneReference](t, rr), 3)

	rr = do(router, httptest.NewRequest(http.MethodGet, "/incidents/points?limit=2", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	pts := decode[models.PointsResponse](t, rr)
	assert.Equal(t, 5, pts.Total)
	assert.Len(t, pts.Points, 2)

	rr = do(router, httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.Category](t, rr), 2)

	rr = do(router, httptest.NewRequest(http.MethodGet, "/districts", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.District](t, rr), 2)
}

func TestDataUnavailable(t *testing.T) {
	src := loader.NewFileSource(filepath.Join(t.TempDir(), "missing.csv"), 0)
	router := newRouter(t, src, nil, nil, Options{})

	for _, target := range []string{"/dashboard/summary", "/aggregates/monthly", "/zones", "/stats/load"} {
		rr := do(router, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code, target)
	}
}

func multipartUpload(t *testing.T, target, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "prediccion.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadPrediction(t *testing.T) {
	router := sampleRouter(t)

	req := multipartUpload(t, "/predictions/overlay", "CUADRANTE,PREDICCION_ROBOS_MES_N\n1,4\n3,9\n77,2\n")
	rr := do(router, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decode[models.OverlayResponse](t, rr)
	assert.NotEmpty(t, resp.UploadID)
	require.Len(t, resp.Overlay, 2)
	assert.Equal(t, "3", resp.Overlay[0].ZoneID)
	assert.Equal(t, 1, resp.Overlay[0].Rank)
	assert.Equal(t, 1, resp.Diagnostics.Unmatched)
	assert.Equal(t, []string{"77"}, resp.Diagnostics.UnmatchedZones)
	assert.Equal(t, []string{"3", "1"}, resp.Insight.TopZones)
}

func TestUploadPredictionRawCSV(t *testing.T) {
	router := sampleRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/predictions/overlay", bytes.NewBufferString("CUADRANTE,PREDICCION_ROBOS\n2,1\n"))
	req.Header.Set("Content-Type", "text/csv")
	rr := do(router, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[models.OverlayResponse](t, rr).Overlay, 1)
}

func TestUploadPredictionErrors(t *testing.T) {
	catalog := staticCatalog{{Key: "casa", ZoneColumn: "CUADRANTE", PredictedColumns: []string{"PREDICCION_ROBOS"}}}
	router := newRouter(t, loader.NewBytesSource("mem", []byte(sample)), catalog, nil, Options{UploadBurst: 100, UploadRate: 100, UploadMaxBytes: 1024})

	rr := do(router, multipartUpload(t, "/predictions/overlay", "CUADRANTE,OTRA\n1,2\n"))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	body := decode[models.ErrorResponse](t, rr)
	assert.Equal(t, []string{"PREDICCION_ROBOS_MES_N or PREDICCION_ROBOS"}, body.Missing)

	rr = do(router, multipartUpload(t, "/predictions/overlay?category=casa", "CUADRANTE,PREDICCION_ROBOS_MES_N\n1,2\n"))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = do(router, multipartUpload(t, "/predictions/overlay", "PK\x03\x04\x00\x00"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(router, multipartUpload(t, "/predictions/overlay?category=unknown", "CUADRANTE,PREDICCION_ROBOS\n1,2\n"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/predictions/overlay", bytes.NewReader(bytes.Repeat([]byte("a"), 4096)))
	req.Header.Set("Content-Type", "text/csv")
	rr = do(router, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/predictions/overlay", bytes.NewBufferString("x"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=zzz")
	rr = do(router, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadRateLimited(t *testing.T) {
	router := newRouter(t, loader.NewBytesSource("mem", []byte(sample)), nil, nil, Options{UploadRate: 0.001, UploadBurst: 1})

	first := do(router, multipartUpload(t, "/predictions/overlay", "CUADRANTE,PREDICCION_ROBOS\n1,2\n"))
	assert.Equal(t, http.StatusOK, first.Code)
	second := do(router, multipartUpload(t, "/predictions/overlay", "CUADRANTE,PREDICCION_ROBOS\n1,2\n"))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestForecastEndpoints(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "top.csv")
	require.NoError(t, os.WriteFile(file, []byte("CUADRANTE,PREDICCION_ROBOS\n1,5\n2,7\n"), 0o600))

	catalog := staticCatalog{
		{Key: "negocio", ForecastFile: file, ZoneColumn: "CUADRANTE", PredictedColumns: []string{"PREDICCION_ROBOS"}},
		{Key: "casa", ForecastFile: filepath.Join(dir, "none.csv"), ZoneColumn: "CUADRANTE", PredictedColumns: []string{"PREDICCION_ROBOS"}},
	}
	router := newRouter(t, loader.NewBytesSource("mem", []byte(sample)), catalog, nil, Options{})

	rr := do(router, httptest.NewRequest(http.MethodGet, "/forecasts", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[models.ForecastListResponse](t, rr)
	require.Len(t, list.Forecasts, 2)
	assert.True(t, list.Forecasts[0].Available)
	assert.False(t, list.Forecasts[1].Available)

	rr = do(router, httptest.NewRequest(http.MethodGet, "/forecasts/negocio", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[models.OverlayResponse](t, rr)
	require.Len(t, resp.Top, 2)
	assert.Equal(t, "2", resp.Top[0].ZoneID)

	rr = do(router, httptest.NewRequest(http.MethodGet, "/forecasts/casa", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decode[models.OverlayResponse](t, rr)
	assert.Equal(t, "no prediction data available", resp.Message)
	assert.Empty(t, resp.Overlay)

	rr = do(router, httptest.NewRequest(http.MethodGet, "/forecasts/moto", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSearchIncidents(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		rr := do(sampleRouter(t), httptest.NewRequest(http.MethodGet, "/incidents/search", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("zone bounds", func(t *testing.T) {
		searcher := &MockSearcher{}
		searcher.On("SearchIncidents", mock.Anything, mock.MatchedBy(func(q storage.IncidentQuery) bool {
			return q.Bounds != nil && q.Bounds.MinLat == -12.20 && q.District == "SURCO" && q.Limit == 100
		})).Return([]storage.IncidentDocument{{Incident: models.Incident{ID: "2"}}}, 1, nil).Once()

		router := newRouter(t, loader.NewBytesSource("mem", []byte(sample)), nil, searcher, Options{})
		rr := do(router, httptest.NewRequest(http.MethodGet, "/incidents/search?zone=2&district=SURCO", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		resp := decode[models.SearchResponse](t, rr)
		assert.Equal(t, 1, resp.Total)
		searcher.AssertExpectations(t)
	})

	t.Run("unknown zone", func(t *testing.T) {
		searcher := &MockSearcher{}
		router := newRouter(t, loader.NewBytesSource("mem", []byte(sample)), nil, searcher, Options{})
		rr := do(router, httptest.NewRequest(http.MethodGet, "/incidents/search?zone=404", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 0, decode[models.SearchResponse](t, rr).Total)
		searcher.AssertNotCalled(t, "SearchIncidents", mock.Anything, mock.Anything)
	})

	t.Run("backend error", func(t *testing.T) {
		searcher := &MockSearcher{}
		searcher.On("SearchIncidents", mock.Anything, mock.Anything).Return(nil, 0, errors.New("es down")).Once()
		router := newRouter(t, loader.NewBytesSource("mem", []byte(sample)), nil, searcher, Options{})
		rr := do(router, httptest.NewRequest(http.MethodGet, "/incidents/search", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestGetIncident(t *testing.T) {
	searcher := &MockSearcher{}
	searcher.On("GetIncident", mock.Anything, "abc-1").
		Return(&storage.IncidentDocument{Incident: models.Incident{ID: "1", Category: "ROBO A NEGOCIO"}}, nil).Once()
	searcher.On("GetIncident", mock.Anything, "abc-9").
		Return(nil, fmt.Errorf("incident abc-9: %w", models.ErrNotFound)).Once()

	router := newRouter(t, loader.NewBytesSource("mem", []byte(sample)), nil, searcher, Options{})

	rr := do(router, httptest.NewRequest(http.MethodGet, "/incidents/abc-1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ROBO A NEGOCIO", decode[models.Incident](t, rr).Category)

	rr = do(router, httptest.NewRequest(http.MethodGet, "/incidents/abc-9", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	searcher.AssertExpectations(t)
}
