// Package storage содержит реализации хранилищ для Elasticsearch/OpenSearch и PostgreSQL.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"github.com/elastic/go-elasticsearch/v8"
)

// DefaultBulkSize количество документов в одном запросе _bulk.
const DefaultBulkSize = 1000

// ElasticsearchStorage предоставляет методы для работы с Elasticsearch/OpenSearch.
// Использует прямые HTTP запросы для совместимости с OpenSearch.
type ElasticsearchStorage struct {
	client     *elasticsearch.Client // Официальный клиент Elasticsearch
	index      string                // Имя индекса происшествий
	httpClient *http.Client          // HTTP клиент для прямых запросов
	baseURL    string                // Базовый URL Elasticsearch/OpenSearch
}

// NewElasticsearchStorageWithURL создает новый экземпляр ElasticsearchStorage с указанным URL.
func NewElasticsearchStorageWithURL(client *elasticsearch.Client, index string, baseURL string) *ElasticsearchStorage {
	return &ElasticsearchStorage{
		client:     client,
		index:      index,
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// IncidentDocument документ индекса: происшествие и отпечаток набора, из которого оно загружено.
type IncidentDocument struct {
	models.Incident
	Fingerprint string `json:"fingerprint"`
}

// IncidentQuery параметры поиска происшествий.
type IncidentQuery struct {
	Categories []string
	YearFrom   int
	YearTo     int
	District   string
	Bounds     *models.Bounds
	Limit      int
}

// CreateIndex создает индекс с заданным маппингом.
// Если индекс уже существует, функция возвращает nil без ошибки.
func (es *ElasticsearchStorage) CreateIndex(ctx context.Context, mappingJSON string) error {
	res, err := es.client.Indices.Exists([]string{es.index}, es.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = es.client.Indices.Create(
		es.index,
		es.client.Indices.Create.WithBody(strings.NewReader(mappingJSON)),
		es.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("error creating index: %s", string(body))
	}

	return nil
}

// BulkIndexIncidents индексирует происшествия пачками через Bulk API.
// Возвращает количество проиндексированных документов.
func (es *ElasticsearchStorage) BulkIndexIncidents(ctx context.Context, fingerprint string, incidents []models.Incident, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBulkSize
	}

	indexed := 0
	for start := 0; start < len(incidents); start += batchSize {
		end := start + batchSize
		if end > len(incidents) {
			end = len(incidents)
		}

		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		for _, inc := range incidents[start:end] {
			doc := IncidentDocument{Incident: inc, Fingerprint: fingerprint}
			meta := map[string]interface{}{
				"index": map[string]interface{}{
					"_index": es.index,
					"_id":    documentID(&doc),
				},
			}
			if err := enc.Encode(meta); err != nil {
				return indexed, fmt.Errorf("failed to encode meta: %w", err)
			}
			if err := enc.Encode(doc); err != nil {
				return indexed, fmt.Errorf("failed to encode incident: %w", err)
			}
		}

		if err := es.bulk(ctx, &buf); err != nil {
			return indexed, err
		}
		indexed += end - start
	}

	return indexed, nil
}

func (es *ElasticsearchStorage) bulk(ctx context.Context, body io.Reader) error {
	url := fmt.Sprintf("%s/_bulk", es.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	res, err := es.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to bulk index: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("error bulk indexing: status %d, body: %s", res.StatusCode, string(body))
	}

	var result struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if result.Errors {
		for _, item := range result.Items {
			for _, op := range item {
				if op.Status >= 400 {
					return fmt.Errorf("error bulk indexing: %s: %s", op.Error.Type, op.Error.Reason)
				}
			}
		}
		return fmt.Errorf("error bulk indexing: response reported errors")
	}
	return nil
}

// GetIncident получает происшествие по ID документа.
// Если документ не найден, возвращает ошибку, совместимую с models.ErrNotFound.
func (es *ElasticsearchStorage) GetIncident(ctx context.Context, id string) (*IncidentDocument, error) {
	url := fmt.Sprintf("%s/%s/_doc/%s", es.baseURL, es.index, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	res, err := es.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("incident %s: %w", id, models.ErrNotFound)
	}

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("error getting incident: status %d, body: %s", res.StatusCode, string(body))
	}

	var result struct {
		Found  bool             `json:"found"`
		Source IncidentDocument `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.Found {
		return nil, fmt.Errorf("incident %s: %w", id, models.ErrNotFound)
	}

	return &result.Source, nil
}

// SearchIncidents ищет проиндексированные происшествия, новые первыми.
func (es *ElasticsearchStorage) SearchIncidents(ctx context.Context, q IncidentQuery) ([]IncidentDocument, int, error) {
	if q.Limit <= 0 {
		q.Limit = 100
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildSearchQuery(q)); err != nil {
		return nil, 0, fmt.Errorf("failed to encode query: %w", err)
	}

	url := fmt.Sprintf("%s/%s/_search?size=%d", es.baseURL, es.index, q.Limit)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := es.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		return nil, 0, fmt.Errorf("error searching: status %d, body: %s", res.StatusCode, string(body))
	}

	var result struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source IncidentDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, 0, fmt.Errorf("failed to decode response: %w", err)
	}

	docs := make([]IncidentDocument, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, result.Hits.Total.Value, nil
}

// buildSearchQuery строит bool запрос из фильтров
func buildSearchQuery(q IncidentQuery) map[string]interface{} {
	filters := []map[string]interface{}{}

	if len(q.Categories) > 0 {
		filters = append(filters, map[string]interface{}{
			"terms": map[string]interface{}{
				"category": q.Categories,
			},
		})
	}

	if q.District != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{
				"district": q.District,
			},
		})
	}

	if q.YearFrom != 0 || q.YearTo != 0 {
		yr := map[string]interface{}{}
		if q.YearFrom != 0 {
			yr["gte"] = q.YearFrom
		}
		if q.YearTo != 0 {
			yr["lte"] = q.YearTo
		}
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{
				"year": yr,
			},
		})
	}

	if q.Bounds != nil {
		filters = append(filters, map[string]interface{}{
			"geo_bounding_box": map[string]interface{}{
				"coordinates": map[string]interface{}{
					"top_left":     map[string]float64{"lat": q.Bounds.MaxLat, "lon": q.Bounds.MinLon},
					"bottom_right": map[string]float64{"lat": q.Bounds.MinLat, "lon": q.Bounds.MaxLon},
				},
			},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filters,
			},
		},
		"sort": []map[string]interface{}{
			{
				"occurred_at": map[string]interface{}{
					"order": "desc",
				},
			},
		},
	}
}

func documentID(doc *IncidentDocument) string {
	fp := doc.Fingerprint
	if len(fp) > 8 {
		fp = fp[:8]
	}
	return fp + "-" + doc.ID
}
